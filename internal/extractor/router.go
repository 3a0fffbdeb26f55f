package extractor

import (
	"context"
	"log"

	"kiameta/internal/domain"
	"kiameta/internal/logging"
	"kiameta/internal/port"
)

// Extractor turns one source locator into a canonical extracted document.
type Extractor interface {
	Extract(ctx context.Context, loc domain.SourceLocator) (*domain.ExtractedDocument, error)
}

// Router inspects object size and picks the synchronous or asynchronous
// extraction path. The boundary is inclusive: an object of exactly the
// threshold size still takes the cheaper synchronous path.
type Router struct {
	storage   port.ObjectStorage
	threshold int64
	sync      Extractor
	async     Extractor
}

// NewRouter creates a Router with the given size threshold in bytes.
func NewRouter(storage port.ObjectStorage, threshold int64, sync, async Extractor) *Router {
	return &Router{
		storage:   storage,
		threshold: threshold,
		sync:      sync,
		async:     async,
	}
}

// Extract routes loc by size. If the size lookup itself fails the router
// assumes small and attempts the synchronous path, letting that call surface
// the real failure instead of masking it behind the lookup error.
func (r *Router) Extract(ctx context.Context, loc domain.SourceLocator) (*domain.ExtractedDocument, error) {
	size, err := r.storage.Size(ctx, loc.Bucket, loc.Key)
	if err != nil {
		log.Printf("extractor.Router: size unknown for %s, assuming small: %v", loc.URI(), err)
		return r.sync.Extract(ctx, loc)
	}

	if size > r.threshold {
		logging.Debugf("extractor.Router: %s is %d bytes (> %d), using async path", loc.URI(), size, r.threshold)
		return r.async.Extract(ctx, loc)
	}
	return r.sync.Extract(ctx, loc)
}
