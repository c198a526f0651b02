package uploader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextMind-AI/conversation-sync/caplena"
	"github.com/NextMind-AI/conversation-sync/transcript"
)

type recordingWriter struct {
	calls  [][]caplena.Row
	failAt int
}

func (w *recordingWriter) AddRows(ctx context.Context, projectID string, rows []caplena.Row) (*caplena.BulkRowsResponse, error) {
	w.calls = append(w.calls, rows)
	if w.failAt > 0 && len(w.calls) == w.failAt {
		return nil, errors.New("rate limited")
	}
	return &caplena.BulkRowsResponse{
		Status:          "pending",
		TaskID:          fmt.Sprintf("task-%d", len(w.calls)),
		QueuedRowsCount: len(rows),
	}, nil
}

func transcripts(n int) []transcript.Transcript {
	out := make([]transcript.Transcript, n)
	for i := range out {
		out[i] = transcript.Transcript{
			ConversationID: fmt.Sprintf("c%d", i),
			Messages:       []transcript.Message{{ID: "m", Body: fmt.Sprintf("message %d", i)}},
		}
	}
	return out
}

func TestPartition(t *testing.T) {
	testCases := []struct {
		n     int
		sizes []int
	}{
		{n: 0, sizes: []int{}},
		{n: 5, sizes: []int{5}},
		{n: 20, sizes: []int{20}},
		{n: 45, sizes: []int{20, 20, 5}},
		{n: 60, sizes: []int{20, 20, 20}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.n), func(t *testing.T) {
			sizes := []int{}
			for _, b := range Partition(make([]int, tc.n), 20) {
				sizes = append(sizes, len(b))
			}
			assert.Equal(t, tc.sizes, sizes)
		})
	}
}

func TestUpload_BatchesSequentially(t *testing.T) {
	writer := &recordingWriter{}
	input := transcripts(45)

	result, err := New(writer).WithDelay(0).Upload(context.Background(), "p1", input)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 45, result.UploadedCount)
	assert.Equal(t, 3, result.BatchCount)
	require.Len(t, writer.calls, 3)
	assert.Equal(t, []int{20, 20, 5}, []int{len(writer.calls[0]), len(writer.calls[1]), len(writer.calls[2])})

	first, _ := writer.calls[0][0].StringValue(caplena.ColumnConversationID)
	last, _ := writer.calls[2][4].StringValue(caplena.ColumnConversationID)
	assert.Equal(t, "c0", first)
	assert.Equal(t, "c44", last)
	assert.Equal(t, "task-3", result.Batches[2].TaskID)
}

func TestUpload_StopsAtFirstFailedBatch(t *testing.T) {
	writer := &recordingWriter{failAt: 2}

	result, err := New(writer).WithDelay(0).Upload(context.Background(), "p1", transcripts(45))

	require.Error(t, err)
	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 1, batchErr.Index)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.BatchCount)
	assert.Equal(t, 20, result.UploadedCount)
	assert.Len(t, writer.calls, 2, "third batch must not be attempted")
}

func TestUpload_NoValidRows(t *testing.T) {
	writer := &recordingWriter{}
	input := []transcript.Transcript{
		{ConversationID: "", Messages: []transcript.Message{{Body: "text"}}},
		{ConversationID: "c1", Messages: []transcript.Message{{Body: "   "}}},
	}

	result, err := New(writer).WithDelay(0).Upload(context.Background(), "p1", input)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Zero(t, result.BatchCount)
	assert.Empty(t, writer.calls)
}

func TestBuildRow(t *testing.T) {
	tr := transcript.Transcript{
		ConversationID: "c1",
		CreatedAt:      1700000000,
		Subject:        "Export",
		Country:        "France",
		Messages: []transcript.Message{
			{Body: "first", CreatedAt: 1700000100},
			{Body: "second", CreatedAt: 1700000200},
		},
	}

	row, ok := BuildRow(tr)

	require.True(t, ok)
	assert.Len(t, row.Columns, len(caplena.ProjectSchema))

	text, _ := row.StringValue(caplena.ColumnText)
	assert.Equal(t, "first\n\nsecond", text)

	count, _ := row.Value(caplena.ColumnMessageCount)
	assert.Equal(t, 2, count)

	created, _ := row.StringValue(caplena.ColumnCreatedAt)
	assert.Equal(t, "2023-11-14T22:13:20Z", created)

	_, ok = row.StringValue(caplena.ColumnUpdatedAt)
	assert.False(t, ok, "zero timestamps stay empty")
}
