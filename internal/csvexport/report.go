package csvexport

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"kiameta/internal/domain"
)

const reportBar = "============================================================"

// reportSections lists the columns summarized in the report, in display
// order, with the per-section row caps.
var reportSections = []struct {
	column string
	title  string
	top    int
}{
	{"type", "Document Type Distribution", 0},
	{"source", "Source Distribution", 0},
	{"region", "Region Distribution", 0},
	{"model", "Car Model Distribution (Top 10)", 10},
	{"xev", "XEV Type Distribution", 0},
	{"language", "Language Distribution", 0},
	{"file_format", "File Format Distribution", 0},
}

// Report produces a human-readable value-count summary of the frame. Empty
// xev values are relabeled as non-hybrid so the section reads naturally.
func Report(f *Frame, now time.Time) string {
	var b strings.Builder
	b.WriteString(reportBar + "\n")
	b.WriteString("KIA METADATA GENERATION REPORT\n")
	b.WriteString(reportBar + "\n")
	fmt.Fprintf(&b, "Total Documents Processed: %d\n", f.Len())
	fmt.Fprintf(&b, "Generation Date: %s\n", now.Format(domain.TimestampFormat))

	if f.Len() == 0 {
		b.WriteString("\nNo data available for report\n")
		b.WriteString(reportBar + "\n")
		return b.String()
	}

	for _, section := range reportSections {
		values := f.Column(section.column)
		if section.column == "xev" {
			for i, v := range values {
				if v == "" {
					values[i] = "NULL (Non-Hybrid)"
				}
			}
		}
		fmt.Fprintf(&b, "\n%s:\n", section.title)
		for _, vc := range valueCounts(values, section.top) {
			fmt.Fprintf(&b, "  %s: %d\n", vc.value, vc.count)
		}
	}

	b.WriteString(reportBar + "\n")
	return b.String()
}

type valueCount struct {
	value string
	count int
}

// valueCounts tallies values and orders them by count descending, ties
// alphabetical. top > 0 caps the result length.
func valueCounts(values []string, top int) []valueCount {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	out := make([]valueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, valueCount{value: v, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].value < out[j].value
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
