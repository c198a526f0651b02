package caplena

import (
	"errors"
	"fmt"
	"strconv"
)

type Config struct {
	APIKey  string
	BaseURL string
}

// ErrUnexpectedShape is returned when a listing response is neither a bare
// array nor an object with a results array.
var ErrUnexpectedShape = errors.New("caplena: unexpected response shape")

type ColumnDefinition struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Project struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Language string             `json:"language,omitempty"`
	Columns  []ColumnDefinition `json:"columns"`
}

type CreateProjectRequest struct {
	Name     string             `json:"name"`
	Language string             `json:"language"`
	Columns  []ColumnDefinition `json:"columns"`
}

type Cell struct {
	Ref   string `json:"ref"`
	Value any    `json:"value"`
}

type Row struct {
	ID      string `json:"id,omitempty"`
	Columns []Cell `json:"columns"`
}

// Value returns the raw value of the column with the given ref.
func (r Row) Value(ref string) (any, bool) {
	for _, c := range r.Columns {
		if c.Ref == ref {
			return c.Value, true
		}
	}
	return nil, false
}

// StringValue returns the column value as text. Missing, null and empty
// values all report false.
func (r Row) StringValue(ref string) (string, bool) {
	v, ok := r.Value(ref)
	if !ok || v == nil {
		return "", false
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case map[string]any:
		// text_to_analyze cells come back as {"value": "...", "topics": [...]}
		inner, ok := val["value"].(string)
		if !ok {
			return "", false
		}
		s = inner
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		s = fmt.Sprint(val)
	}

	if s == "" {
		return "", false
	}
	return s, true
}

type BulkRowsResponse struct {
	Status          string `json:"status"`
	TaskID          string `json:"task_id"`
	QueuedRowsCount int    `json:"queued_rows_count"`
}

type RowPage struct {
	Rows    []Row
	HasNext bool
}

type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

func (e APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("caplena API error (status %d): %s - %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("caplena API error (status %d): %s", e.StatusCode, e.Message)
}
