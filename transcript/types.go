// Package transcript turns Intercom conversations into normalized transcripts
// of customer-authored messages and writes them to the CSV export.
package transcript

import "strings"

type Message struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Body       string `json:"body"`
	AuthorType string `json:"author_type"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	CreatedAt  int64  `json:"created_at"`
}

// Transcript is the normalized form of one conversation. Messages is never
// empty: a conversation without qualifying messages has no transcript.
type Transcript struct {
	ConversationID string    `json:"conversation_id"`
	CreatedAt      int64     `json:"created_at"`
	UpdatedAt      int64     `json:"updated_at"`
	Subject        string    `json:"subject"`
	SourceURL      string    `json:"source_url,omitempty"`
	Country        string    `json:"country,omitempty"`
	Region         string    `json:"region,omitempty"`
	City           string    `json:"city,omitempty"`
	Browser        string    `json:"browser,omitempty"`
	BrowserVersion string    `json:"browser_version,omitempty"`
	OS             string    `json:"os,omitempty"`
	ContactID      string    `json:"contact_id,omitempty"`
	Messages       []Message `json:"messages"`
}

// Text joins the message bodies with a blank line between them.
func (t Transcript) Text() string {
	bodies := make([]string, len(t.Messages))
	for i, m := range t.Messages {
		bodies[i] = m.Body
	}
	return strings.Join(bodies, "\n\n")
}

func (t Transcript) FirstMessageAt() int64 {
	if len(t.Messages) == 0 {
		return 0
	}
	return t.Messages[0].CreatedAt
}

func (t Transcript) LastMessageAt() int64 {
	if len(t.Messages) == 0 {
		return 0
	}
	return t.Messages[len(t.Messages)-1].CreatedAt
}

// CountMessages sums the retained messages across transcripts.
func CountMessages(transcripts []Transcript) int {
	total := 0
	for _, t := range transcripts {
		total += len(t.Messages)
	}
	return total
}
