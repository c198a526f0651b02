package server

import (
	"github.com/NextMind-AI/conversation-sync/redis"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string          `json:"status"`
	Running map[string]bool `json:"running"`
}

type RunsResponse struct {
	Kind string            `json:"kind"`
	Runs []redis.RunRecord `json:"runs"`
}

// RunsQuery holds the query parameters of the run listing.
type RunsQuery struct {
	Kind  string `query:"kind"`
	Limit int    `query:"limit"`
}
