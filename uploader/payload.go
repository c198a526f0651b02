package uploader

import (
	"strings"
	"time"

	"github.com/NextMind-AI/conversation-sync/caplena"
	"github.com/NextMind-AI/conversation-sync/transcript"
)

// BuildRow maps a transcript onto the project schema. It reports false when
// the transcript has no conversation id or no text to analyze.
func BuildRow(t transcript.Transcript) (caplena.Row, bool) {
	text := strings.TrimSpace(t.Text())
	if t.ConversationID == "" || text == "" {
		return caplena.Row{}, false
	}

	return caplena.Row{Columns: []caplena.Cell{
		{Ref: caplena.ColumnText, Value: text},
		{Ref: caplena.ColumnConversationID, Value: t.ConversationID},
		{Ref: caplena.ColumnSubject, Value: t.Subject},
		{Ref: caplena.ColumnCreatedAt, Value: isoTime(t.CreatedAt)},
		{Ref: caplena.ColumnUpdatedAt, Value: isoTime(t.UpdatedAt)},
		{Ref: caplena.ColumnFirstMessageAt, Value: isoTime(t.FirstMessageAt())},
		{Ref: caplena.ColumnLastMessageAt, Value: isoTime(t.LastMessageAt())},
		{Ref: caplena.ColumnMessageCount, Value: len(t.Messages)},
		{Ref: caplena.ColumnSourceURL, Value: t.SourceURL},
		{Ref: caplena.ColumnCountry, Value: t.Country},
		{Ref: caplena.ColumnRegion, Value: t.Region},
		{Ref: caplena.ColumnCity, Value: t.City},
		{Ref: caplena.ColumnBrowser, Value: t.Browser},
		{Ref: caplena.ColumnBrowserVersion, Value: t.BrowserVersion},
		{Ref: caplena.ColumnOS, Value: t.OS},
		{Ref: caplena.ColumnContactID, Value: t.ContactID},
	}}, true
}

func isoTime(epoch int64) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}

// Partition splits items into consecutive chunks of at most size elements.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
