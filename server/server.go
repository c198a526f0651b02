// Package server exposes the sync and dedup pipelines over HTTP.
package server

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/NextMind-AI/conversation-sync/execution"
	"github.com/NextMind-AI/conversation-sync/processor"
)

// Pipeline is implemented by *processor.Processor.
type Pipeline interface {
	Sync(ctx context.Context, req processor.SyncRequest) processor.SyncResult
	Dedup(ctx context.Context, req processor.DedupRequest) processor.DedupResult
}

type Server struct {
	app        *fiber.App
	pipeline   Pipeline
	executions *execution.Manager
	history    processor.RunHistory
}

// New builds the HTTP app. history may be nil, in which case the run
// listing answers 503.
func New(pipeline Pipeline, executions *execution.Manager, history processor.RunHistory) *Server {
	app := fiber.New(fiber.Config{
		AppName: "convsync",
	})

	server := &Server{
		app:        app,
		pipeline:   pipeline,
		executions: executions,
		history:    history,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(port string) error {
	log.Info().Str("port", port).Msg("Starting conversation sync server")

	return s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
