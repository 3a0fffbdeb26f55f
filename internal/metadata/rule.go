package metadata

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"kiameta/internal/domain"
	"kiameta/internal/logging"
)

const (
	summaryMaxLen    = 200
	featureMaxLen    = 200
	featureSentences = 20
	featureCap       = 5
	specCap          = 5
	keywordTopN      = 10
)

// RuleExtractor derives metadata from the extracted text alone, using the
// ordered vocabulary tables in tables.go. It is deterministic and cannot fail:
// every schema field comes out as a matched value or its sentinel.
type RuleExtractor struct{}

// NewRuleExtractor creates the rule-based metadata extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

func (e *RuleExtractor) Extract(_ context.Context, doc *domain.ExtractedDocument, sourceType domain.SourceType) domain.DocumentMetadata {
	text := doc.FullText

	fileFormat := domain.FileFormatFor(doc.Source.Key)
	if sourceType == domain.SourceTypeVideo {
		fileFormat = domain.FileFormatVideo
	}

	year1, year2 := extractYearRange(text)

	md := domain.DocumentMetadata{
		Type:           scanVocab(text, carTypes),
		Source:         string(sourceType),
		Region:         domain.Unknown,
		Country:        domain.Unknown,
		Model:          scanVocab(text, carModels),
		XEV:            extractXEV(text),
		Year1:          year1,
		Year2:          year2,
		Language:       detectLanguage(text),
		Version:        "",
		UpdatedAt:      time.Now().Format(domain.TimestampFormat),
		FileFormat:     fileFormat,
		ContentSummary: buildContentSummary(text),
	}

	logging.Debugf("metadata.RuleExtractor: generated metadata for %s (model=%s)", doc.Source.URI(), md.Model)
	return md
}

// scanVocab returns the first table entry found in text, case-insensitive.
func scanVocab(text string, vocab []string) string {
	upper := strings.ToUpper(text)
	for _, entry := range vocab {
		if strings.Contains(upper, strings.ToUpper(entry)) {
			return entry
		}
	}
	return domain.Unknown
}

func extractXEV(text string) string {
	upper := strings.ToUpper(text)
	for _, entry := range xevTable {
		if strings.Contains(upper, strings.ToUpper(entry.Term)) {
			return entry.Label
		}
	}
	return ""
}

// extractYearRange finds the earliest and latest four-digit years mentioned.
// A single year yields Year1 == Year2; no year yields the null markers.
func extractYearRange(text string) (string, string) {
	matches := yearPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return "", ""
	}
	min, max := matches[0], matches[0]
	for _, m := range matches[1:] {
		if m < min {
			min = m
		}
		if m > max {
			max = m
		}
	}
	return min, max
}

// detectLanguage is a coarse heuristic: any Hangul marks the document Korean,
// otherwise any Latin letter marks it English.
func detectLanguage(text string) string {
	hasLatin := false
	for _, r := range text {
		if unicode.Is(unicode.Hangul, r) {
			return "ko"
		}
		if unicode.IsLetter(r) && r < 128 {
			hasLatin = true
		}
	}
	if hasLatin {
		return "en"
	}
	return domain.Unknown
}

// buildContentSummary composes the content_summary column: the extractive
// summary first, then the labeled price/feature/keyword/spec findings that
// used to occupy their own columns in earlier dataset revisions.
func buildContentSummary(text string) string {
	parts := []string{extractSummary(text)}
	if price := extractPrice(text); price != "" {
		parts = append(parts, "Price: "+price)
	}
	if features := extractFeatures(text); features != "" {
		parts = append(parts, "Features: "+features)
	}
	if keywords := extractKeywords(text); keywords != "" {
		parts = append(parts, "Keywords: "+keywords)
	}
	if specs := extractSpecifications(text); specs != "" {
		parts = append(parts, "Specs: "+specs)
	}
	return strings.Join(parts, " | ")
}

// extractSummary returns the first paragraph longer than 50 characters,
// truncated to summaryMaxLen with an ellipsis, falling back to a raw
// truncation of the whole text.
func extractSummary(text string) string {
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len([]rune(paragraph)) > 50 {
			return truncateRunes(paragraph, summaryMaxLen)
		}
	}
	return truncateRunes(strings.TrimSpace(text), summaryMaxLen)
}

// extractPrice tries the ordered price patterns; the first match wins.
// Returns "" when no pattern matches.
func extractPrice(text string) string {
	for _, pattern := range pricePatterns {
		if m := pattern.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// extractFeatures scans the first featureSentences sentence fragments for
// feature keywords, keeping short sentences only, capped at featureCap.
func extractFeatures(text string) string {
	sentences := strings.Split(text, ".")
	if len(sentences) > featureSentences {
		sentences = sentences[:featureSentences]
	}

	var found []string
	for _, sentence := range sentences {
		if len([]rune(sentence)) >= featureMaxLen {
			continue
		}
		for _, keyword := range featureKeywords {
			if strings.Contains(sentence, keyword) {
				found = append(found, strings.TrimSpace(sentence))
				break
			}
		}
		if len(found) == featureCap {
			break
		}
	}
	return strings.Join(found, " | ")
}

// extractKeywords returns the keywordTopN most frequent words appearing at
// least twice, after stop-word filtering. Ties break alphabetically so the
// output is reproducible.
func extractKeywords(text string) string {
	freq := map[string]int{}
	for _, word := range wordPattern.FindAllString(text, -1) {
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			continue
		}
		freq[word]++
	}

	var words []string
	for word, count := range freq {
		if count > 1 {
			words = append(words, word)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > keywordTopN {
		words = words[:keywordTopN]
	}
	return strings.Join(words, ", ")
}

// extractSpecifications collects labeled spec values in pattern order,
// capped at specCap.
func extractSpecifications(text string) string {
	var specs []string
	for _, pattern := range specPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			specs = append(specs, strings.TrimSpace(m[1]))
			if len(specs) == specCap {
				return strings.Join(specs, " | ")
			}
		}
	}
	return strings.Join(specs, " | ")
}

func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
