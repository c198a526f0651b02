package intercom

import (
	"fmt"
	"time"
)

type Config struct {
	AccessToken string
	BaseURL     string
	Version     string
}

// Author types reported by Intercom on conversation parts.
const (
	AuthorUser  = "user"
	AuthorLead  = "lead"
	AuthorAdmin = "admin"
	AuthorTeam  = "team"
	AuthorBot   = "bot"
)

// IsEndUser reports whether an author type belongs to the customer side of
// the conversation.
func IsEndUser(authorType string) bool {
	return authorType == AuthorUser || authorType == AuthorLead
}

type Author struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Part struct {
	ID        string `json:"id"`
	PartType  string `json:"part_type"`
	Body      string `json:"body"`
	Author    Author `json:"author"`
	CreatedAt int64  `json:"created_at"`
}

// Source is the message that opened the conversation.
type Source struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DeliveredAs string `json:"delivered_as"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Author      Author `json:"author"`
	URL         string `json:"url"`
}

type PartList struct {
	ConversationParts []Part `json:"conversation_parts"`
	TotalCount        int    `json:"total_count"`
}

type ContactRef struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
}

type ContactRefList struct {
	Contacts []ContactRef `json:"contacts"`
}

type ConversationSummary struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	Title     string `json:"title"`
	Source    Source `json:"source"`
}

// Conversation converts a listing record into a conversation without parts.
// It stands in for the full record when the detail request fails.
func (s ConversationSummary) Conversation() Conversation {
	return Conversation{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Title:     s.Title,
		Source:    s.Source,
	}
}

type Conversation struct {
	ID                string         `json:"id"`
	CreatedAt         int64          `json:"created_at"`
	UpdatedAt         int64          `json:"updated_at"`
	Title             string         `json:"title"`
	Source            Source         `json:"source"`
	ConversationParts PartList       `json:"conversation_parts"`
	Contacts          ContactRefList `json:"contacts"`
}

// Parts returns the opening message followed by every conversation part, in
// the order Intercom reports them.
func (c Conversation) Parts() []Part {
	parts := make([]Part, 0, len(c.ConversationParts.ConversationParts)+1)
	if c.Source.Body != "" {
		parts = append(parts, Part{
			ID:        c.Source.ID,
			PartType:  "source",
			Body:      c.Source.Body,
			Author:    c.Source.Author,
			CreatedAt: c.CreatedAt,
		})
	}
	return append(parts, c.ConversationParts.ConversationParts...)
}

// Subject prefers the conversation title and falls back to the email subject
// of the opening message.
func (c Conversation) Subject() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Source.Subject
}

func (c Conversation) ContactID() string {
	if len(c.Contacts.Contacts) == 0 {
		return ""
	}
	return c.Contacts.Contacts[0].ID
}

func (c Conversation) Validate() error {
	if c.UpdatedAt < c.CreatedAt {
		return fmt.Errorf("conversation %s updated_at %d precedes created_at %d", c.ID, c.UpdatedAt, c.CreatedAt)
	}
	return nil
}

func (c Conversation) UpdatedTime() time.Time {
	return time.Unix(c.UpdatedAt, 0).UTC()
}

type Location struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

type Contact struct {
	ID             string   `json:"id"`
	Role           string   `json:"role"`
	Name           string   `json:"name"`
	Location       Location `json:"location"`
	Browser        string   `json:"browser"`
	BrowserVersion string   `json:"browser_version"`
	BrowserLang    string   `json:"browser_language"`
	OS             string   `json:"os"`
}

type PageCursor struct {
	Page          int    `json:"page"`
	StartingAfter string `json:"starting_after"`
}

type Pages struct {
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int         `json:"total_pages"`
	Next       *PageCursor `json:"next"`
}

type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	TotalCount    int                   `json:"total_count"`
	Pages         Pages                 `json:"pages"`
}

// NextCursor returns the starting_after token of the next page, or "" on the
// last page.
func (r ListConversationsResponse) NextCursor() string {
	if r.Pages.Next == nil {
		return ""
	}
	return r.Pages.Next.StartingAfter
}

type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type APIError struct {
	StatusCode int         `json:"-"`
	Type       string      `json:"type"`
	Errors     []ErrorItem `json:"errors"`
	Body       string      `json:"-"`
}

func (e APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("intercom API error (status %d): %s - %s", e.StatusCode, e.Errors[0].Code, e.Errors[0].Message)
	}
	return fmt.Sprintf("intercom API error (status %d): %s", e.StatusCode, e.Body)
}
