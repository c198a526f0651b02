// Package processor runs the sync and dedup pipelines end to end and
// reports their outcome as structured results.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NextMind-AI/conversation-sync/execution"
	"github.com/NextMind-AI/conversation-sync/redis"
	"github.com/NextMind-AI/conversation-sync/transcript"
)

// MaxLookbackHours bounds the lookback window to one year.
const MaxLookbackHours = 24 * 365

type Processor struct {
	source   ConversationSource
	uploader RowUploader
	projects ProjectResolver
	deduper  Deduper
	archiver Archiver
	history  RunHistory
	options  Options
	now      func() time.Time
}

// NewProcessor wires the pipeline collaborators. archiver and history are
// optional and may be nil.
func NewProcessor(source ConversationSource, rowUploader RowUploader, projects ProjectResolver, deduper Deduper, archiver Archiver, history RunHistory, options Options) *Processor {
	return &Processor{
		source:   source,
		uploader: rowUploader,
		projects: projects,
		deduper:  deduper,
		archiver: archiver,
		history:  history,
		options:  options,
		now:      time.Now,
	}
}

func (p *Processor) History() RunHistory {
	return p.history
}

// Sync fetches the conversations updated in the lookback window, turns the
// qualifying ones into transcripts, appends them to the CSV export and
// optionally uploads them. Failures of single conversations are counted in
// the stats; the result is unsuccessful only when the run itself failed.
func (p *Processor) Sync(ctx context.Context, req SyncRequest) SyncResult {
	startedAt := p.now()
	result := SyncResult{RunID: uuid.NewString()}
	defer func() { p.record(ctx, execution.KindSync, startedAt, result.RunID, result.Success, result.Message, result) }()

	hours := req.LookbackHours
	if hours == 0 {
		hours = p.options.LookbackHours
	}
	if hours <= 0 || hours > MaxLookbackHours {
		result.Message = fmt.Sprintf("invalid lookback window: %d hours", hours)
		return result
	}

	since := startedAt.Add(-time.Duration(hours) * time.Hour)
	log.Info().Str("run_id", result.RunID).Time("since", since).Bool("upload", req.Upload).Msg("Starting sync")

	fetched, err := p.source.FetchSince(ctx, since)
	if err != nil && fetched.Pages == 0 {
		result.Message = fmt.Sprintf("failed to list conversations: %v", err)
		log.Error().Err(err).Str("run_id", result.RunID).Msg("No conversation page could be fetched")
		return result
	}
	if err != nil {
		result.Stats.Truncated = true
		log.Warn().Err(err).Str("run_id", result.RunID).Msg("Listing stopped early, continuing with partial data")
	}
	result.Stats.Fetched = len(fetched.Conversations)
	result.Stats.DetailFailures = fetched.DetailFailures
	result.Stats.ContactFailures = fetched.ContactFailures

	transcripts := make([]transcript.Transcript, 0, len(fetched.Conversations))
	for _, fc := range fetched.Conversations {
		if !transcript.IsQualifying(fc.Conversation) {
			result.Stats.Skipped++
			continue
		}
		t := transcript.Normalize(fc.Conversation, fc.Contact)
		if t == nil {
			result.Stats.Skipped++
			continue
		}
		transcripts = append(transcripts, *t)
	}
	result.Stats.ConversationCount = len(transcripts)
	result.Stats.TotalMessages = transcript.CountMessages(transcripts)

	if len(transcripts) == 0 {
		result.Success = true
		result.Message = "no qualifying conversations found"
		return result
	}

	if p.options.CSVPath != "" {
		rows, err := transcript.AppendCSV(p.options.CSVPath, transcripts)
		result.Stats.CSVRows = rows
		if err != nil {
			result.Message = err.Error()
			log.Error().Err(err).Str("path", p.options.CSVPath).Msg("Failed to write csv export")
			return result
		}
	}

	if p.archiver != nil {
		result.ExportURL = p.archive(ctx, result.RunID, transcripts)
	}

	if !req.Upload {
		result.Success = true
		result.Message = fmt.Sprintf("extracted %d conversations", result.Stats.ConversationCount)
		return result
	}

	projectID, err := p.resolveProject(ctx, req.ProjectID)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	upload, err := p.uploader.Upload(ctx, projectID, transcripts)
	result.UploadResult = &upload
	if err != nil {
		result.Message = fmt.Sprintf("upload failed: %v", err)
		return result
	}
	if !upload.Success {
		result.Message = upload.Message
		return result
	}

	result.Success = true
	result.Message = fmt.Sprintf("extracted %d conversations, uploaded %d rows", result.Stats.ConversationCount, upload.UploadedCount)
	return result
}

// Dedup removes duplicate rows from the project, or only reports them when
// req.DryRun is set.
func (p *Processor) Dedup(ctx context.Context, req DedupRequest) DedupResult {
	startedAt := p.now()
	result := DedupResult{RunID: uuid.NewString()}
	defer func() { p.record(ctx, execution.KindDedup, startedAt, result.RunID, result.Success, result.Message, result) }()

	projectID, err := p.resolveProject(ctx, req.ProjectID)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	report, err := p.deduper.Run(ctx, projectID, req.DryRun)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Report = &report

	result.Success = report.Deleted.Failed == 0
	switch {
	case req.DryRun:
		result.Message = fmt.Sprintf("found %d duplicates in %d rows", report.Duplicates, report.Rows)
	default:
		result.Message = fmt.Sprintf("deleted %d of %d duplicates", report.Deleted.Successful, report.Duplicates)
	}
	return result
}

func (p *Processor) resolveProject(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if p.options.ProjectID != "" {
		return p.options.ProjectID, nil
	}

	project, err := p.projects.EnsureProject(ctx, p.options.ProjectName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project %q: %w", p.options.ProjectName, err)
	}
	return project.ID, nil
}

func (p *Processor) archive(ctx context.Context, runID string, transcripts []transcript.Transcript) string {
	var buf bytes.Buffer
	if _, err := transcript.WriteCSV(&buf, transcripts, true); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("Failed to render export for archive")
		return ""
	}

	url, err := p.archiver.UploadExport(ctx, runID+".csv", buf.Bytes())
	if err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("Failed to archive export")
		return ""
	}
	return url
}

func (p *Processor) record(ctx context.Context, kind execution.Kind, startedAt time.Time, runID string, success bool, message string, details any) {
	log.Info().
		Str("run_id", runID).
		Str("kind", string(kind)).
		Bool("success", success).
		Str("message", message).
		Dur("duration", p.now().Sub(startedAt)).
		Msg("Run finished")

	if p.history == nil {
		return
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("Failed to encode run details")
	}

	record := redis.RunRecord{
		ID:         runID,
		Kind:       string(kind),
		StartedAt:  startedAt,
		FinishedAt: p.now(),
		Success:    success,
		Message:    message,
		Details:    detailsJSON,
	}
	if err := p.history.AddRun(context.WithoutCancel(ctx), record); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("Failed to store run history")
	}
}
