package csvexport_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiameta/internal/csvexport"
	"kiameta/internal/domain"
)

var reportTime = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

func TestReport_SectionsAndCounts(t *testing.T) {
	ev6 := sampleRecord("EV6")
	ev9 := sampleRecord("EV9")
	niro := sampleRecord("Niro")
	niro.XEV = "HEV"

	report := csvexport.Report(csvexport.FromRecords([]domain.DocumentMetadata{ev6, ev9, niro}), reportTime)

	assert.Contains(t, report, "KIA METADATA GENERATION REPORT")
	assert.Contains(t, report, "Total Documents Processed: 3")
	assert.Contains(t, report, "Generation Date: 2026-08-29 09:00:00")
	assert.Contains(t, report, "Document Type Distribution:\n  SUV: 3")
	assert.Contains(t, report, "Car Model Distribution (Top 10):")
	assert.Contains(t, report, "  BEV: 2")
	assert.Contains(t, report, "  HEV: 1")
	assert.Contains(t, report, "File Format Distribution:\n  pdf: 3")
}

func TestReport_EmptyXEVRelabeledNonHybrid(t *testing.T) {
	gas := sampleRecord("Sorento")
	gas.XEV = ""

	report := csvexport.Report(csvexport.FromRecords([]domain.DocumentMetadata{gas}), reportTime)
	assert.Contains(t, report, "NULL (Non-Hybrid): 1")
}

func TestReport_ModelSectionCappedAtTen(t *testing.T) {
	records := make([]domain.DocumentMetadata, 0, 12)
	for _, model := range []string{
		"EV6", "EV9", "Niro", "Soul", "Sportage", "Sorento",
		"Carnival", "Seltos", "K5", "K8", "Stinger", "Telluride",
	} {
		records = append(records, sampleRecord(model))
	}

	report := csvexport.Report(csvexport.FromRecords(records), reportTime)

	// All twelve models appear once; the ties break alphabetically and only
	// the first ten survive the cap.
	modelSection := sectionOf(t, report, "Car Model Distribution (Top 10):")
	require.Len(t, modelSection, 10)
	assert.Equal(t, "  Carnival: 1", modelSection[0])
	assert.NotContains(t, modelSection, "  Stinger: 1")
	assert.NotContains(t, modelSection, "  Telluride: 1")
}

func TestReport_OrderedByCountThenValue(t *testing.T) {
	records := []domain.DocumentMetadata{
		sampleRecord("Niro"), sampleRecord("EV6"), sampleRecord("EV6"),
	}
	report := csvexport.Report(csvexport.FromRecords(records), reportTime)

	modelSection := sectionOf(t, report, "Car Model Distribution (Top 10):")
	assert.Equal(t, []string{"  EV6: 2", "  Niro: 1"}, modelSection)
}

func TestReport_EmptyFrame(t *testing.T) {
	report := csvexport.Report(&csvexport.Frame{}, reportTime)

	assert.Contains(t, report, "Total Documents Processed: 0")
	assert.Contains(t, report, "No data available for report")
	assert.NotContains(t, report, "Distribution")
}

// sectionOf returns the indented lines following the given section title.
func sectionOf(t *testing.T, report, title string) []string {
	t.Helper()
	_, rest, found := strings.Cut(report, title+"\n")
	require.True(t, found, "section %q missing from report:\n%s", title, report)

	var lines []string
	for _, line := range strings.Split(rest, "\n") {
		if !strings.HasPrefix(line, "  ") {
			break
		}
		lines = append(lines, line)
	}
	return lines
}
