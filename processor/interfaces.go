package processor

import (
	"context"
	"time"

	"github.com/NextMind-AI/conversation-sync/caplena"
	"github.com/NextMind-AI/conversation-sync/dedup"
	"github.com/NextMind-AI/conversation-sync/intercom"
	"github.com/NextMind-AI/conversation-sync/redis"
	"github.com/NextMind-AI/conversation-sync/transcript"
	"github.com/NextMind-AI/conversation-sync/uploader"
)

// ConversationSource is implemented by *intercom.Fetcher.
type ConversationSource interface {
	FetchSince(ctx context.Context, since time.Time) (intercom.FetchResult, error)
}

// RowUploader is implemented by *uploader.Uploader.
type RowUploader interface {
	Upload(ctx context.Context, projectID string, transcripts []transcript.Transcript) (uploader.Result, error)
}

// ProjectResolver is implemented by *caplena.Client.
type ProjectResolver interface {
	EnsureProject(ctx context.Context, name string) (*caplena.Project, error)
}

// Deduper is implemented by *dedup.Deduplicator.
type Deduper interface {
	Run(ctx context.Context, projectID string, dryRun bool) (dedup.Report, error)
}

// Archiver is implemented by *aws.Client.
type Archiver interface {
	UploadExport(ctx context.Context, name string, data []byte) (string, error)
}

// RunHistory is implemented by *redis.Client.
type RunHistory interface {
	AddRun(ctx context.Context, record redis.RunRecord) error
	ListRuns(ctx context.Context, kind string, limit int) ([]redis.RunRecord, error)
}
