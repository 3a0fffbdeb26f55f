package port

import (
	"context"

	"kiameta/internal/domain"
)

// MetadataExtractor derives a fixed-schema metadata record from an extracted
// document. Implementations never fail past this boundary: internal errors
// degrade to the default record.
type MetadataExtractor interface {
	Extract(ctx context.Context, doc *domain.ExtractedDocument, sourceType domain.SourceType) domain.DocumentMetadata
}

// StructuredClient is the generative structured-extraction service boundary.
// It returns a real error on any service or parse failure; converting that
// error into the default record is the caller's explicit decision.
type StructuredClient interface {
	Infer(ctx context.Context, instruction, text string) (*domain.DocumentMetadata, error)
}
