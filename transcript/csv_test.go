package transcript

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTranscripts() []Transcript {
	return []Transcript{
		{
			ConversationID: "c1",
			CreatedAt:      1700000000,
			UpdatedAt:      1700000500,
			Subject:        `Refund, "urgent"`,
			Messages: []Message{
				{ID: "m1", Type: "comment", Body: "Hello, I need help", AuthorType: "user", CreatedAt: 1700000100},
				{ID: "m2", Type: "comment", Body: `He said "no", then left`, AuthorType: "user", CreatedAt: 1700000200},
			},
		},
		{
			ConversationID: "c,2",
			CreatedAt:      1700001000,
			UpdatedAt:      1700001000,
			Messages: []Message{
				{ID: "m3", Type: "source", Body: "line one\nline two", AuthorType: "lead", AuthorName: "Jo, Smith"},
			},
		},
		{
			ConversationID: "c3",
			Messages: []Message{
				{ID: "m4", Body: "a"}, {ID: "m5", Body: "b"}, {ID: "m6", Body: "c"},
			},
		},
	}
}

func TestWriteCSV_LineCount(t *testing.T) {
	var buf bytes.Buffer

	rows, err := WriteCSV(&buf, sampleTranscripts(), true)

	require.NoError(t, err)
	assert.Equal(t, 6, rows)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1+6)
	assert.Equal(t, `"conversation_id","created_at","updated_at","subject","message_id","message_type","message_body","author_type","author_id","author_name","message_created_at"`, lines[0])
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	transcripts := sampleTranscripts()
	var buf bytes.Buffer

	_, err := WriteCSV(&buf, transcripts, true)
	require.NoError(t, err)

	records, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, records, 6)

	i := 0
	for _, tr := range transcripts {
		for _, m := range tr.Messages {
			assert.Equal(t, tr.ConversationID, records[i].ConversationID)
			assert.Equal(t, strings.ReplaceAll(m.Body, "\n", " "), records[i].MessageBody)
			assert.Equal(t, m.ID, records[i].MessageID)
			i++
		}
	}
	assert.Equal(t, `Refund, "urgent"`, records[0].Subject)
	assert.Equal(t, "Jo, Smith", records[2].AuthorName)

	created, err := ParseTimestamp(records[0].CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), created)
}

func TestWriteCSV_EscapesQuotes(t *testing.T) {
	var buf bytes.Buffer
	tr := []Transcript{{ConversationID: "c1", Messages: []Message{{ID: "m1", Body: `say "hi"`}}}}

	_, err := WriteCSV(&buf, tr, false)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"say ""hi"""`)
}

func TestAppendCSV_HeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")

	rows, err := AppendCSV(path, sampleTranscripts()[:1])
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	rows, err = AppendCSV(path, sampleTranscripts()[1:])
	require.NoError(t, err)
	assert.Equal(t, 4, rows)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), `"conversation_id"`))

	records, err := ReadCSV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, records, 6)
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, records)
}
