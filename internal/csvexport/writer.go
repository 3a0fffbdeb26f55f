package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// BOM is the UTF-8 byte order mark, written ahead of the CSV for Excel
// compatibility on Windows (utf-8-sig).
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for streaming the artifact to w.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the fixed header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteRows writes the frame's data rows.
func (w *Writer) WriteRows(f *Frame) error {
	for _, row := range f.Rows {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// EncodeCSV renders the frame as BOM-prefixed CSV with a header row.
func EncodeCSV(f *Frame) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(BOM)

	w := NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	if err := w.WriteRows(f); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses a persisted artifact back into a Frame. It tolerates a
// leading BOM and validates the header against the fixed column set.
func DecodeCSV(data []byte) (*Frame, error) {
	data = bytes.TrimPrefix(data, BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(Columns)

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return &Frame{}, nil
		}
		return nil, fmt.Errorf("reading artifact header: %w", err)
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("artifact header mismatch at column %d: got %q, want %q", i, header[i], col)
		}
	}

	f := &Frame{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading artifact row: %w", err)
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a source file stem for use in an artifact key.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildSingleFilename returns the artifact name for single-file mode:
// {sanitized_stem}_metadata.csv
func BuildSingleFilename(stem string) string {
	return SanitizeFilename(stem) + "_metadata.csv"
}

// BuildBatchFilename returns the artifact name for batch mode:
// kia_batch_metadata_{yyyymmdd_hhmmss}.csv
func BuildBatchFilename(now time.Time) string {
	return fmt.Sprintf("kia_batch_metadata_%s.csv", now.Format("20060102_150405"))
}
