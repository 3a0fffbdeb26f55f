package docai

import (
	"encoding/json"
	"fmt"

	"kiameta/internal/domain"
)

// rawDocument mirrors the service's document JSON, both in synchronous
// responses and in result shards written by asynchronous jobs.
type rawDocument struct {
	Text     string      `json:"text"`
	Pages    []rawPage   `json:"pages"`
	Entities []rawEntity `json:"entities"`
}

type rawPage struct {
	PageNumber int            `json:"pageNumber"`
	Paragraphs []rawParagraph `json:"paragraphs"`
}

type rawParagraph struct {
	Layout rawLayout `json:"layout"`
}

type rawLayout struct {
	TextAnchor rawTextAnchor `json:"textAnchor"`
}

type rawTextAnchor struct {
	TextSegments []rawTextSegment `json:"textSegments"`
}

type rawTextSegment struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

type rawEntity struct {
	Type        string  `json:"type"`
	MentionText string  `json:"mentionText"`
	Confidence  float64 `json:"confidence"`
}

// Normalize converts a raw service document into the canonical shape. Page
// text is rebuilt by concatenating each paragraph's [start,end) anchor slices
// of the full text; a bad anchor yields empty text for that page only.
func Normalize(raw *rawDocument) *domain.ExtractedDocument {
	doc := &domain.ExtractedDocument{
		FullText: raw.Text,
	}

	for _, p := range raw.Pages {
		doc.Pages = append(doc.Pages, domain.Page{
			Number: p.PageNumber,
			Text:   pageText(raw.Text, &p),
		})
	}

	for _, e := range raw.Entities {
		doc.Entities = append(doc.Entities, domain.Entity{
			Type:        e.Type,
			MentionText: e.MentionText,
			Confidence:  e.Confidence,
		})
	}

	return doc
}

func pageText(fullText string, page *rawPage) string {
	var text string
	for _, para := range page.Paragraphs {
		slice, err := anchorText(fullText, &para.Layout.TextAnchor)
		if err != nil {
			// One unresolvable anchor invalidates the page, not the document.
			return ""
		}
		text += slice + "\n"
	}
	return trimTrailingNewline(text)
}

func anchorText(fullText string, anchor *rawTextAnchor) (string, error) {
	var text string
	for _, seg := range anchor.TextSegments {
		start, end := seg.StartIndex, seg.EndIndex
		if end == 0 {
			end = len(fullText)
		}
		if start < 0 || end < start || end > len(fullText) {
			return "", fmt.Errorf("text segment [%d,%d) out of range (text length %d)", start, end, len(fullText))
		}
		text += fullText[start:end]
	}
	return text, nil
}

func trimTrailingNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}

// DecodeShard parses one asynchronous result shard into the canonical shape.
// Shard documents carry the same JSON layout as synchronous responses, minus
// the envelope.
func DecodeShard(data []byte) (*domain.ExtractedDocument, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding result shard: %w", err)
	}
	return Normalize(&raw), nil
}
