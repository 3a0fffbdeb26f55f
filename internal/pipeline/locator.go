package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"kiameta/internal/config"
	"kiameta/internal/domain"
	"kiameta/internal/port"
)

// ResolveSources turns the configured input specification into a concrete,
// de-duplicated list of locators filtered to supported extensions.
// Precedence: explicit path > folder URI (old style, possibly wildcarded) >
// bucket+prefix > bucket-wide. An empty result is not an error; the caller
// decides whether that is fatal.
func ResolveSources(ctx context.Context, storage port.ObjectStorage, in *config.InputConfig) ([]domain.SourceLocator, error) {
	switch {
	case in.Path != "":
		loc, err := domain.ParseURI(in.Path)
		if err != nil {
			return nil, err
		}
		if !domain.IsSupportedSource(loc.Key) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, loc.URI())
		}
		return []domain.SourceLocator{loc}, nil

	case in.Folder != "":
		folder, err := domain.ParseURI(in.Folder)
		if err != nil {
			return nil, err
		}
		prefix := folder.Key
		// Old-style folder specs may carry a trailing wildcard; everything
		// from the wildcard on derives the listing prefix.
		if i := strings.IndexByte(prefix, '*'); i >= 0 {
			prefix = prefix[:i]
		}
		return listSources(ctx, storage, folder.Bucket, prefix)

	default:
		return listSources(ctx, storage, in.Bucket, in.Prefix)
	}
}

func listSources(ctx context.Context, storage port.ObjectStorage, bucket, prefix string) ([]domain.SourceLocator, error) {
	keys, err := storage.List(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing s3://%s/%s: %w", bucket, prefix, err)
	}

	seen := make(map[string]struct{}, len(keys))
	var locators []domain.SourceLocator
	for _, key := range keys {
		if !domain.IsSupportedSource(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		locators = append(locators, domain.SourceLocator{Bucket: bucket, Key: key})
	}

	log.Printf("pipeline: found %d processable objects under s3://%s/%s", len(locators), bucket, prefix)
	return locators, nil
}
