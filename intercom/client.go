// Package intercom is a client for the Intercom REST API, limited to what the
// conversation sync needs: listing conversations, reading a conversation with
// its parts and reading a contact.
package intercom

import (
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.intercom.io"
	DefaultVersion = "2.11"
	RequestTimeout = 30 * time.Second
)

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(accessToken, baseURL, version string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if version == "" {
		version = DefaultVersion
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}

	return &Client{
		config: Config{
			AccessToken: accessToken,
			BaseURL:     strings.TrimRight(baseURL, "/"),
			Version:     version,
		},
		httpClient: httpClient,
	}
}
