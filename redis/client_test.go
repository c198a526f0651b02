package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRuns(t *testing.T) {
	record := RunRecord{ID: "r1", Kind: "sync", Success: true, Details: json.RawMessage(`{"fetched":3}`)}
	encoded, err := json.Marshal(record)
	require.NoError(t, err)

	runs := decodeRuns([]string{string(encoded), "not json"})

	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)
	assert.JSONEq(t, `{"fetched":3}`, string(runs[0].Details))
}

// TestClient_RunHistory needs a live server and runs only when
// REDIS_TEST_ADDR is set.
func TestClient_RunHistory(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client, err := NewClient(addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	kind := "test-" + uuid.NewString()
	defer client.rdb.Del(ctx, runsKey(kind))

	for i := range MaxRunsPerKind + 5 {
		require.NoError(t, client.AddRun(ctx, RunRecord{
			ID:        fmt.Sprintf("run-%d", i),
			Kind:      kind,
			StartedAt: time.Now(),
		}))
	}

	runs, err := client.ListRuns(ctx, kind, 0)
	require.NoError(t, err)
	assert.Len(t, runs, MaxRunsPerKind)
	assert.Equal(t, fmt.Sprintf("run-%d", MaxRunsPerKind+4), runs[0].ID)

	ttl, err := client.rdb.TTL(ctx, runsKey(kind)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 29*24*time.Hour)

	recent, err := client.ListRuns(ctx, kind, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}
