package pipeline

import (
	"context"
	"errors"
	"log"

	"kiameta/internal/domain"
	"kiameta/internal/extractor"
	"kiameta/internal/port"
)

// ErrNoSuccesses is returned when every locator in a batch failed.
var ErrNoSuccesses = errors.New("no sources processed successfully")

// Driver runs the extraction and metadata chain over locators, one at a time
// in input order. A failed item is logged and skipped; it never aborts the
// batch.
type Driver struct {
	router *extractor.Router
	meta   port.MetadataExtractor
}

// NewDriver creates a batch driver.
func NewDriver(router *extractor.Router, meta port.MetadataExtractor) *Driver {
	return &Driver{router: router, meta: meta}
}

// RunSingle processes one locator; any failure is the caller's failure.
func (d *Driver) RunSingle(ctx context.Context, loc domain.SourceLocator) (domain.DocumentMetadata, error) {
	doc, err := d.router.Extract(ctx, loc)
	if err != nil {
		return domain.DocumentMetadata{}, err
	}
	return d.meta.Extract(ctx, doc, domain.SourceTypeDocument), nil
}

// RunBatch processes every locator independently and returns the records of
// the ones that succeeded, in input order. It fails only when nothing
// succeeded.
func (d *Driver) RunBatch(ctx context.Context, locs []domain.SourceLocator) (domain.BatchResult, error) {
	var result domain.BatchResult
	failed := 0

	for _, loc := range locs {
		doc, err := d.router.Extract(ctx, loc)
		if err != nil {
			log.Printf("pipeline.Driver: skipping %s: %v", loc.URI(), err)
			failed++
			continue
		}
		result = append(result, d.meta.Extract(ctx, doc, domain.SourceTypeDocument))
		log.Printf("pipeline.Driver: processed %s", loc.URI())
	}

	log.Printf("pipeline.Driver: batch complete (%d succeeded, %d failed)", len(result), failed)
	if len(result) == 0 {
		return nil, ErrNoSuccesses
	}
	return result, nil
}
