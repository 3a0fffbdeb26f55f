package metadata

import (
	"context"
	"log"
	"time"

	"kiameta/internal/domain"
	"kiameta/internal/port"
)

// AIExtractor derives metadata through the generative structured-extraction
// service. The service client returns a real error on any failure; this layer
// is the single place that converts such an error into the fixed default
// record, so callers above it never see a failure.
type AIExtractor struct {
	client port.StructuredClient
}

// NewAIExtractor creates the AI-based metadata extractor.
func NewAIExtractor(client port.StructuredClient) *AIExtractor {
	return &AIExtractor{client: client}
}

func (e *AIExtractor) Extract(ctx context.Context, doc *domain.ExtractedDocument, sourceType domain.SourceType) domain.DocumentMetadata {
	fileFormat := domain.FileFormatFor(doc.Source.Key)
	if sourceType == domain.SourceTypeVideo {
		fileFormat = domain.FileFormatVideo
	}

	instruction := BuildInstruction(string(sourceType), fileFormat)
	text := truncatePrefix(doc.FullText, maxInferChars)

	md, err := e.client.Infer(ctx, instruction, text)
	if err != nil {
		log.Printf("metadata.AIExtractor: inference failed for %s, using default record: %v", doc.Source.URI(), err)
		return domain.DefaultMetadata(fileFormat)
	}

	out := normalize(*md)
	// The service's reported format, when present, overrides the guess made
	// from the file extension.
	if md.FileFormat == "" {
		out.FileFormat = fileFormat
	}
	if sourceType == domain.SourceTypeVideo {
		out.FileFormat = domain.FileFormatVideo
	}
	out.UpdatedAt = time.Now().Format(domain.TimestampFormat)
	return out
}

// truncatePrefix returns at most maxLen characters of s.
func truncatePrefix(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

// normalize maps empty categorical fields onto the Unknown sentinel. Optional
// fields keep the empty string as their null marker.
func normalize(md domain.DocumentMetadata) domain.DocumentMetadata {
	for _, field := range []*string{&md.Type, &md.Source, &md.Region, &md.Country, &md.Model, &md.Language} {
		if *field == "" {
			*field = domain.Unknown
		}
	}
	return md
}
