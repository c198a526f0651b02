package server

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/NextMind-AI/conversation-sync/execution"
	"github.com/NextMind-AI/conversation-sync/processor"
)

const defaultRunsLimit = 20

func (s *Server) healthHandler(c fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "ok",
		Running: map[string]bool{
			string(execution.KindSync):  s.executions.Running(execution.KindSync),
			string(execution.KindDedup): s.executions.Running(execution.KindDedup),
		},
	})
}

func (s *Server) syncHandler(c fiber.Ctx) error {
	var req processor.SyncRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body: " + err.Error()})
		}
	}
	if req.LookbackHours < 0 || req.LookbackHours > processor.MaxLookbackHours {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: fmt.Sprintf("lookback_hours must be between 1 and %d", processor.MaxLookbackHours)})
	}

	release, ok := s.executions.TryStart(execution.KindSync)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: "a sync is already running"})
	}
	defer release()

	log.Info().Int("lookback_hours", req.LookbackHours).Bool("upload", req.Upload).Msg("Sync requested")

	result := s.pipeline.Sync(c.Context(), req)
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

func (s *Server) dedupHandler(c fiber.Ctx) error {
	var req processor.DedupRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body: " + err.Error()})
		}
	}

	release, ok := s.executions.TryStart(execution.KindDedup)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: "a dedup is already running"})
	}
	defer release()

	log.Info().Bool("dry_run", req.DryRun).Msg("Dedup requested")

	result := s.pipeline.Dedup(c.Context(), req)
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

func (s *Server) runsHandler(c fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "run history is not configured"})
	}

	query := RunsQuery{Kind: string(execution.KindSync), Limit: defaultRunsLimit}
	if err := c.Bind().Query(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid query: " + err.Error()})
	}

	runs, err := s.history.ListRuns(c.Context(), query.Kind, query.Limit)
	if err != nil {
		log.Error().Err(err).Str("kind", query.Kind).Msg("Failed to list runs")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list runs"})
	}

	return c.JSON(RunsResponse{Kind: query.Kind, Runs: runs})
}
