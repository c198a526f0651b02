package transcript

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var Header = []string{
	"conversation_id",
	"created_at",
	"updated_at",
	"subject",
	"message_id",
	"message_type",
	"message_body",
	"author_type",
	"author_id",
	"author_name",
	"message_created_at",
}

// Record is one CSV row: a single retained message with its conversation
// fields repeated.
type Record struct {
	ConversationID   string
	CreatedAt        string
	UpdatedAt        string
	Subject          string
	MessageID        string
	MessageType      string
	MessageBody      string
	AuthorType       string
	AuthorID         string
	AuthorName       string
	MessageCreatedAt string
}

func (r Record) fields() []string {
	return []string{
		r.ConversationID, r.CreatedAt, r.UpdatedAt, r.Subject,
		r.MessageID, r.MessageType, r.MessageBody,
		r.AuthorType, r.AuthorID, r.AuthorName, r.MessageCreatedAt,
	}
}

// Records flattens transcripts into one record per message.
func Records(transcripts []Transcript) []Record {
	var records []Record
	for _, t := range transcripts {
		for _, m := range t.Messages {
			records = append(records, Record{
				ConversationID:   t.ConversationID,
				CreatedAt:        formatTimestamp(t.CreatedAt),
				UpdatedAt:        formatTimestamp(t.UpdatedAt),
				Subject:          t.Subject,
				MessageID:        m.ID,
				MessageType:      m.Type,
				MessageBody:      m.Body,
				AuthorType:       m.AuthorType,
				AuthorID:         m.AuthorID,
				AuthorName:       m.AuthorName,
				MessageCreatedAt: formatTimestamp(m.CreatedAt),
			})
		}
	}
	return records
}

// WriteCSV writes one line per message, every field quoted. It returns the
// number of data lines written.
func WriteCSV(w io.Writer, transcripts []Transcript, withHeader bool) (int, error) {
	bw := bufio.NewWriter(w)

	if withHeader {
		if err := writeLine(bw, Header); err != nil {
			return 0, err
		}
	}

	rows := 0
	for _, record := range Records(transcripts) {
		if err := writeLine(bw, record.fields()); err != nil {
			return rows, err
		}
		rows++
	}

	if err := bw.Flush(); err != nil {
		return rows, fmt.Errorf("failed to flush csv: %w", err)
	}

	return rows, nil
}

// AppendCSV appends transcripts to the export at path, writing the header
// only when the file is new or empty.
func AppendCSV(path string, transcripts []Transcript) (int, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open csv export: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat csv export: %w", err)
	}

	rows, err := WriteCSV(f, transcripts, info.Size() == 0)
	if err != nil {
		return rows, fmt.Errorf("failed to append csv export: %w", err)
	}

	return rows, f.Close()
}

// ReadCSV parses an export written by WriteCSV, header included.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if header[0] != Header[0] {
		return nil, fmt.Errorf("unexpected csv header %q", strings.Join(header, ","))
	}

	var records []Record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("failed to read csv row: %w", err)
		}
		records = append(records, Record{
			ConversationID:   fields[0],
			CreatedAt:        fields[1],
			UpdatedAt:        fields[2],
			Subject:          fields[3],
			MessageID:        fields[4],
			MessageType:      fields[5],
			MessageBody:      fields[6],
			AuthorType:       fields[7],
			AuthorID:         fields[8],
			AuthorName:       fields[9],
			MessageCreatedAt: fields[10],
		})
	}
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func writeLine(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(newlineReplacer.Replace(field), `"`, `""`))
		w.WriteByte('"')
	}
	_, err := w.WriteString("\n")
	return err
}

func formatTimestamp(epoch int64) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}

// ParseTimestamp reverses the timestamp format used in the export.
func ParseTimestamp(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}
	return strconv.ParseInt(s, 10, 64)
}
