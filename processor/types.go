package processor

import (
	"github.com/NextMind-AI/conversation-sync/dedup"
	"github.com/NextMind-AI/conversation-sync/uploader"
)

type SyncRequest struct {
	LookbackHours int    `json:"lookback_hours"`
	Upload        bool   `json:"upload"`
	ProjectID     string `json:"project_id,omitempty"`
}

type Stats struct {
	ConversationCount int  `json:"conversation_count"`
	TotalMessages     int  `json:"total_messages"`
	Fetched           int  `json:"fetched"`
	Skipped           int  `json:"skipped"`
	DetailFailures    int  `json:"detail_failures"`
	ContactFailures   int  `json:"contact_failures"`
	CSVRows           int  `json:"csv_rows"`
	Truncated         bool `json:"truncated"`
}

type SyncResult struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	RunID        string           `json:"run_id"`
	Stats        Stats            `json:"stats"`
	UploadResult *uploader.Result `json:"upload_result,omitempty"`
	ExportURL    string           `json:"export_url,omitempty"`
}

type DedupRequest struct {
	ProjectID string `json:"project_id,omitempty"`
	DryRun    bool   `json:"dry_run"`
}

type DedupResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	RunID   string        `json:"run_id"`
	Report  *dedup.Report `json:"report,omitempty"`
}

// Options holds the defaults applied when a request leaves a field empty.
type Options struct {
	CSVPath       string
	ProjectID     string
	ProjectName   string
	LookbackHours int
}
