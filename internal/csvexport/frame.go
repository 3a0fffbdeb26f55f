package csvexport

import "kiameta/internal/domain"

// Columns defines the artifact header row. The order is fixed and must match
// recordToRow below.
var Columns = []string{
	"type",
	"source",
	"region",
	"country",
	"model",
	"xev",
	"year1",
	"year2",
	"language",
	"version",
	"updated_at",
	"file_format",
	"content_summary",
}

// Frame is an in-memory tabular artifact: rows in the fixed column order,
// header excluded.
type Frame struct {
	Rows [][]string
}

// FromRecords builds a Frame from metadata records, preserving their order.
func FromRecords(records []domain.DocumentMetadata) *Frame {
	f := &Frame{Rows: make([][]string, 0, len(records))}
	for i := range records {
		f.Rows = append(f.Rows, recordToRow(&records[i]))
	}
	return f
}

// Append adds other's rows after f's, the concatenation order the append
// path relies on: existing rows first, new rows after.
func (f *Frame) Append(other *Frame) {
	f.Rows = append(f.Rows, other.Rows...)
}

// Len returns the number of data rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Column returns the values of the named column, or nil if unknown.
func (f *Frame) Column(name string) []string {
	idx := -1
	for i, col := range Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	values := make([]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		values = append(values, row[idx])
	}
	return values
}

func recordToRow(md *domain.DocumentMetadata) []string {
	return []string{
		md.Type,
		md.Source,
		md.Region,
		md.Country,
		md.Model,
		md.XEV,
		md.Year1,
		md.Year2,
		md.Language,
		md.Version,
		md.UpdatedAt,
		md.FileFormat,
		md.ContentSummary,
	}
}
