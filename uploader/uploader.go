// Package uploader sends transcripts to a Caplena project in sequential
// batches.
package uploader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NextMind-AI/conversation-sync/caplena"
	"github.com/NextMind-AI/conversation-sync/transcript"
)

const (
	BatchSize    = caplena.MaxBulkRows
	DefaultDelay = 100 * time.Millisecond
)

type RowWriter interface {
	AddRows(ctx context.Context, projectID string, rows []caplena.Row) (*caplena.BulkRowsResponse, error)
}

type BatchResult struct {
	Index      int    `json:"index"`
	Size       int    `json:"size"`
	Status     string `json:"status"`
	TaskID     string `json:"task_id"`
	QueuedRows int    `json:"queued_rows"`
}

type Result struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message,omitempty"`
	UploadedCount int           `json:"uploaded_count"`
	BatchCount    int           `json:"batch_count"`
	Batches       []BatchResult `json:"batches,omitempty"`
}

// BatchError reports the batch that stopped an upload.
type BatchError struct {
	Index int
	Size  int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (%d rows) failed: %v", e.Index, e.Size, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

type Uploader struct {
	client    RowWriter
	batchSize int
	delay     time.Duration
}

func New(client RowWriter) *Uploader {
	return &Uploader{
		client:    client,
		batchSize: BatchSize,
		delay:     DefaultDelay,
	}
}

// WithDelay overrides the pause between batch submissions.
func (u *Uploader) WithDelay(d time.Duration) *Uploader {
	u.delay = d
	return u
}

// Upload submits one row per transcript, batchSize rows at a time, strictly
// in order. The first failing batch stops the upload: its error is returned
// together with the result of the batches that went through, and later
// batches are never sent.
func (u *Uploader) Upload(ctx context.Context, projectID string, transcripts []transcript.Transcript) (Result, error) {
	rows := make([]caplena.Row, 0, len(transcripts))
	for _, t := range transcripts {
		row, ok := BuildRow(t)
		if !ok {
			log.Warn().Str("conversation_id", t.ConversationID).Msg("Skipping transcript without uploadable text")
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return Result{Success: false, Message: "no valid rows to upload"}, nil
	}

	batches := Partition(rows, u.batchSize)
	result := Result{Success: true}

	for i, batch := range batches {
		if i > 0 && u.delay > 0 {
			select {
			case <-ctx.Done():
				return u.fail(result, &BatchError{Index: i, Size: len(batch), Err: ctx.Err()})
			case <-time.After(u.delay):
			}
		}

		resp, err := u.client.AddRows(ctx, projectID, batch)
		if err != nil {
			return u.fail(result, &BatchError{Index: i, Size: len(batch), Err: err})
		}

		result.Batches = append(result.Batches, BatchResult{
			Index:      i,
			Size:       len(batch),
			Status:     resp.Status,
			TaskID:     resp.TaskID,
			QueuedRows: resp.QueuedRowsCount,
		})
		result.BatchCount++
		result.UploadedCount += len(batch)

		log.Info().
			Str("project_id", projectID).
			Int("batch", i+1).
			Int("of", len(batches)).
			Int("rows", len(batch)).
			Str("task_id", resp.TaskID).
			Msg("Uploaded batch")
	}

	result.Message = fmt.Sprintf("uploaded %d rows in %d batches", result.UploadedCount, result.BatchCount)
	return result, nil
}

func (u *Uploader) fail(result Result, err *BatchError) (Result, error) {
	log.Error().Err(err.Err).Int("batch", err.Index).Int("uploaded", result.UploadedCount).Msg("Aborting upload")

	result.Success = false
	result.Message = err.Error()
	return result, err
}
