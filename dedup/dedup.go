// Package dedup removes repeated conversation rows from a Caplena project.
//
// Two rows are duplicates when they carry the same conversation id and the
// same text. The first row returned by the listing is kept, every later row
// with the same key is deleted.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NextMind-AI/conversation-sync/caplena"
)

const DefaultDelay = 100 * time.Millisecond

type RowStore interface {
	ListAllRows(ctx context.Context, projectID string) ([]caplena.Row, error)
	DeleteRow(ctx context.Context, projectID, rowID string) error
}

type Pair struct {
	Original  caplena.Row `json:"original"`
	Duplicate caplena.Row `json:"duplicate"`
	Key       string      `json:"key"`
}

type RowError struct {
	RowID string `json:"row_id"`
	Err   string `json:"error"`
}

type DeleteResult struct {
	Successful int        `json:"successful"`
	Failed     int        `json:"failed"`
	Errors     []RowError `json:"errors,omitempty"`
}

type Report struct {
	ProjectID  string       `json:"project_id"`
	DryRun     bool         `json:"dry_run"`
	Rows       int          `json:"rows"`
	Skipped    int          `json:"skipped"`
	Duplicates int          `json:"duplicates"`
	Deleted    DeleteResult `json:"deleted"`
}

// Key builds the dedup key of a row. It reports false when the row lacks a
// conversation id or text.
func Key(row caplena.Row) (string, bool) {
	conversationID, ok := row.StringValue(caplena.ColumnConversationID)
	if !ok {
		return "", false
	}
	text, ok := row.StringValue(caplena.ColumnText)
	if !ok {
		return "", false
	}
	return conversationID + "|" + text, true
}

// FindDuplicates pairs every row with the first earlier row sharing its key.
// Rows without a key are left out.
func FindDuplicates(rows []caplena.Row) []Pair {
	pairs, _ := findDuplicates(rows)
	return pairs
}

func findDuplicates(rows []caplena.Row) ([]Pair, int) {
	firstSeen := make(map[string]caplena.Row, len(rows))
	var pairs []Pair
	skipped := 0

	for _, row := range rows {
		key, ok := Key(row)
		if !ok {
			skipped++
			log.Debug().Str("row_id", row.ID).Msg("Skipping row without conversation id or text")
			continue
		}

		original, dup := firstSeen[key]
		if !dup {
			firstSeen[key] = row
			continue
		}
		pairs = append(pairs, Pair{Original: original, Duplicate: row, Key: key})
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Rows ignored during duplicate search")
	}
	return pairs, skipped
}

type Deduplicator struct {
	store RowStore
	delay time.Duration
}

func New(store RowStore) *Deduplicator {
	return &Deduplicator{store: store, delay: DefaultDelay}
}

// WithDelay overrides the pause between deletions.
func (d *Deduplicator) WithDelay(delay time.Duration) *Deduplicator {
	d.delay = delay
	return d
}

// DeleteDuplicates deletes the duplicate row of every pair, one at a time.
// A failed deletion is recorded and the remaining ones still run. Once ctx
// is cancelled no further deletions are attempted.
func (d *Deduplicator) DeleteDuplicates(ctx context.Context, projectID string, pairs []Pair) DeleteResult {
	var result DeleteResult

	for i, pair := range pairs {
		if i > 0 && d.delay > 0 {
			select {
			case <-ctx.Done():
				log.Warn().Err(ctx.Err()).Int("remaining", len(pairs)-i).Msg("Stopping duplicate deletion")
				return result
			case <-time.After(d.delay):
			}
		}

		rowID := pair.Duplicate.ID
		if err := d.store.DeleteRow(ctx, projectID, rowID); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{RowID: rowID, Err: err.Error()})
			log.Error().Err(err).Str("row_id", rowID).Msg("Failed to delete duplicate row")
			continue
		}
		result.Successful++
	}

	log.Info().
		Str("project_id", projectID).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("Duplicate deletion finished")

	return result
}

// Run lists every row of the project before looking for duplicates, then
// deletes them unless dryRun is set.
func (d *Deduplicator) Run(ctx context.Context, projectID string, dryRun bool) (Report, error) {
	report := Report{ProjectID: projectID, DryRun: dryRun}

	rows, err := d.store.ListAllRows(ctx, projectID)
	if err != nil {
		return report, fmt.Errorf("failed to list rows: %w", err)
	}
	report.Rows = len(rows)

	pairs, skipped := findDuplicates(rows)
	report.Skipped = skipped
	report.Duplicates = len(pairs)

	log.Info().
		Str("project_id", projectID).
		Int("rows", report.Rows).
		Int("duplicates", report.Duplicates).
		Bool("dry_run", dryRun).
		Msg("Duplicate search finished")

	if dryRun || len(pairs) == 0 {
		return report, nil
	}

	report.Deleted = d.DeleteDuplicates(ctx, projectID, pairs)
	return report, nil
}
