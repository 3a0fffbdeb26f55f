package extractor

import (
	"context"

	"kiameta/internal/domain"
	"kiameta/internal/logging"
	"kiameta/internal/port"
)

// SyncExtractor issues one blocking extraction call per document. It does not
// retry; transient service failures propagate to the caller.
type SyncExtractor struct {
	processor port.DocumentProcessor
}

// NewSyncExtractor creates the synchronous extraction path.
func NewSyncExtractor(processor port.DocumentProcessor) *SyncExtractor {
	return &SyncExtractor{processor: processor}
}

func (e *SyncExtractor) Extract(ctx context.Context, loc domain.SourceLocator) (*domain.ExtractedDocument, error) {
	mimeType := domain.MIMETypeFor(loc.Key)
	doc, err := e.processor.Process(ctx, loc, mimeType)
	if err != nil {
		return nil, err
	}
	logging.Debugf("extractor.SyncExtractor: extracted %s (%d pages, %d chars)",
		loc.URI(), len(doc.Pages), len(doc.FullText))
	return doc, nil
}
