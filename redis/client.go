// Package redis stores the outcome of past runs so they can be inspected
// through the server.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	MaxRunsPerKind = 100
	RunHistoryTTL  = 30 * 24 * time.Hour
)

type Client struct {
	rdb *redis.Client
}

type RunRecord struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := &Client{rdb: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Info().
		Str("addr", addr).
		Int("db", db).
		Msg("Redis connected successfully")

	return client, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func runsKey(kind string) string {
	return fmt.Sprintf("runs:%s", kind)
}

// AddRun prepends record to the history of its kind, keeping the newest
// MaxRunsPerKind entries.
func (c *Client) AddRun(ctx context.Context, record RunRecord) error {
	key := runsKey(record.Kind)

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, key, recordJSON)
	pipe.LTrim(ctx, key, 0, MaxRunsPerKind-1)
	pipe.Expire(ctx, key, RunHistoryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store run %s: %w", record.ID, err)
	}

	return nil
}

// ListRuns returns up to limit runs of kind, newest first.
func (c *Client) ListRuns(ctx context.Context, kind string, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > MaxRunsPerKind {
		limit = MaxRunsPerKind
	}

	entries, err := c.rdb.LRange(ctx, runsKey(kind), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	return decodeRuns(entries), nil
}

func decodeRuns(entries []string) []RunRecord {
	runs := make([]RunRecord, 0, len(entries))
	for _, entry := range entries {
		var record RunRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			log.Warn().Err(err).Msg("Skipping unreadable run record")
			continue
		}
		runs = append(runs, record)
	}
	return runs
}
