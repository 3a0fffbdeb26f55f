package metadata_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiameta/internal/domain"
	"kiameta/internal/metadata"
)

func extractText(t *testing.T, text, key string) domain.DocumentMetadata {
	t.Helper()
	e := metadata.NewRuleExtractor()
	doc := &domain.ExtractedDocument{
		FullText: text,
		Source:   domain.SourceLocator{Bucket: "docs", Key: key},
	}
	return e.Extract(context.Background(), doc, domain.SourceTypeDocument)
}

func TestRuleExtractor_AllFieldsPopulated(t *testing.T) {
	text := "The 2024 Kia EV6 is a Battery Electric crossover SUV.\n" +
		"Pricing starts at $42,600 in the US market.\n" +
		"Battery: 77.4 kWh\nMotor: dual-motor AWD\n"

	md := extractText(t, text, "brochures/ev6_overview.pdf")

	assert.Equal(t, "SUV", md.Type)
	assert.Equal(t, "document", md.Source)
	assert.Equal(t, domain.Unknown, md.Region)
	assert.Equal(t, domain.Unknown, md.Country)
	assert.Equal(t, "EV6", md.Model)
	assert.Equal(t, "BEV", md.XEV)
	assert.Equal(t, "2024", md.Year1)
	assert.Equal(t, "2024", md.Year2)
	assert.Equal(t, "en", md.Language)
	assert.Equal(t, "", md.Version)
	assert.NotEmpty(t, md.UpdatedAt)
	assert.Equal(t, "pdf", md.FileFormat)
	assert.NotEmpty(t, md.ContentSummary)
}

func TestRuleExtractor_NoMatchesYieldSentinels(t *testing.T) {
	md := extractText(t, "1234 5678", "scans/unlabeled.pdf")

	assert.Equal(t, domain.Unknown, md.Type)
	assert.Equal(t, domain.Unknown, md.Model)
	assert.Equal(t, "", md.XEV)
	assert.Equal(t, "", md.Year1)
	assert.Equal(t, "", md.Year2)
	assert.Equal(t, domain.Unknown, md.Language)
}

func TestRuleExtractor_ModelFirstMatchWins(t *testing.T) {
	// Both EV6 and Sportage appear; the table lists EV6 first.
	md := extractText(t, "Compare the Sportage against the EV6.", "cmp.pdf")
	assert.Equal(t, "EV6", md.Model)
}

func TestRuleExtractor_ModelMatchIsCaseInsensitive(t *testing.T) {
	md := extractText(t, "the all-new sportage lineup", "s.pdf")
	assert.Equal(t, "Sportage", md.Model)
}

func TestRuleExtractor_XEVSpecificTermsBeforeGeneric(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plug-in outranks hybrid", "A Plug-in Hybrid powertrain with Hybrid efficiency", "PHEV"},
		{"hybrid alone", "Hybrid powertrain", "HEV"},
		{"battery electric", "A Battery Electric drivetrain", "BEV"},
		{"electric alone", "fully Electric drive", "BEV"},
		{"no electrified term", "a 2.5L gasoline engine", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := extractText(t, tt.text, "x.pdf")
			assert.Equal(t, tt.want, md.XEV)
		})
	}
}

func TestRuleExtractor_YearRangeMinMax(t *testing.T) {
	md := extractText(t, "introduced 2021, refreshed 2023, first shown 1999", "y.pdf")
	assert.Equal(t, "1999", md.Year1)
	assert.Equal(t, "2023", md.Year2)
}

func TestRuleExtractor_YearIgnoresLongerDigitRuns(t *testing.T) {
	md := extractText(t, "serial 202400001 unit", "y.pdf")
	assert.Equal(t, "", md.Year1)
	assert.Equal(t, "", md.Year2)
}

func TestRuleExtractor_LanguageKoreanWinsOverLatin(t *testing.T) {
	md := extractText(t, "Kia EV9 출시 안내", "k.pdf")
	assert.Equal(t, "ko", md.Language)
}

func TestRuleExtractor_VideoSourceOverridesFileFormat(t *testing.T) {
	e := metadata.NewRuleExtractor()
	doc := &domain.ExtractedDocument{
		FullText: "[Video Title] EV9 review",
		Source:   domain.SourceLocator{Key: "https://youtu.be/abc123xyz00"},
	}
	md := e.Extract(context.Background(), doc, domain.SourceTypeVideo)

	assert.Equal(t, "video", md.FileFormat)
	assert.Equal(t, "video", md.Source)
}

func TestRuleExtractor_SummaryTruncatedWithEllipsis(t *testing.T) {
	long := strings.Repeat("a", 300)
	md := extractText(t, long, "l.pdf")

	summary := md.ContentSummary
	require.True(t, strings.HasSuffix(summary, "..."), "summary %q should end in ellipsis", summary)
	assert.Equal(t, 203, len([]rune(summary)))
}

func TestRuleExtractor_SummarySkipsShortLines(t *testing.T) {
	text := "short line\n" +
		"This paragraph is comfortably longer than fifty characters and should be chosen.\n"
	md := extractText(t, text, "p.pdf")
	assert.True(t, strings.HasPrefix(md.ContentSummary, "This paragraph is comfortably longer"),
		"got summary %q", md.ContentSummary)
}

func TestRuleExtractor_ContentSummaryLabeledParts(t *testing.T) {
	text := "The Niro Hybrid delivers excellent value and everyday usability for families.\n" +
		"가격은 3,000만원 부터 시작합니다.\n" +
		"Battery: 64 kWh\n"
	md := extractText(t, text, "niro.pdf")

	assert.Contains(t, md.ContentSummary, "Price: 3,000만원")
	assert.Contains(t, md.ContentSummary, "Specs: 64 kWh")
}

func TestRuleExtractor_PriceFirstPatternWins(t *testing.T) {
	// Korean won pattern is tried before the dollar pattern.
	text := "The Sorento costs 3,500만원 or about $27,000 depending on trim. " +
		"It is a three-row family SUV with plenty of standard equipment included."
	md := extractText(t, text, "sorento.pdf")
	assert.Contains(t, md.ContentSummary, "Price: 3,500만원")
	assert.NotContains(t, md.ContentSummary, "Price: $")
}
