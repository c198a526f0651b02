// Package caplena is a client for the Caplena text analytics API: project
// lookup and creation, bulk row upload, row listing and row deletion.
package caplena

import (
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.caplena.com/v2"
	RequestTimeout = 30 * time.Second

	// MaxBulkRows is the most rows the bulk endpoint accepts per request.
	MaxBulkRows = 20
	// RowsPageLimit is the page size requested when listing rows.
	RowsPageLimit = 100
)

type Client struct {
	config     Config
	httpClient *http.Client
	pageDelay  time.Duration
}

func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}

	return &Client{
		config: Config{
			APIKey:  apiKey,
			BaseURL: strings.TrimRight(baseURL, "/"),
		},
		httpClient: httpClient,
		pageDelay:  100 * time.Millisecond,
	}
}

// WithPageDelay overrides the pause between row listing requests.
func (c *Client) WithPageDelay(d time.Duration) *Client {
	c.pageDelay = d
	return c
}
