package extractor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"kiameta/internal/docai"
	"kiameta/internal/domain"
	"kiameta/internal/logging"
	"kiameta/internal/port"
)

const shardSuffix = ".json"

// AsyncConfig holds the asynchronous extraction settings.
type AsyncConfig struct {
	OutputBucket string
	OutputPrefix string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// AsyncExtractor drives the long-running extraction job lifecycle: submit,
// poll to completion under a deadline, then assemble the JSON result shards
// into one canonical document. It never retries; retry policy, if any,
// belongs to the batch driver.
type AsyncExtractor struct {
	processor port.DocumentProcessor
	storage   port.ObjectStorage
	cfg       AsyncConfig
}

// NewAsyncExtractor creates the asynchronous extraction path.
func NewAsyncExtractor(processor port.DocumentProcessor, storage port.ObjectStorage, cfg AsyncConfig) *AsyncExtractor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Minute
	}
	if cfg.OutputPrefix != "" {
		cfg.OutputPrefix = strings.TrimRight(cfg.OutputPrefix, "/") + "/"
	}
	return &AsyncExtractor{
		processor: processor,
		storage:   storage,
		cfg:       cfg,
	}
}

func (e *AsyncExtractor) Extract(ctx context.Context, loc domain.SourceLocator) (*domain.ExtractedDocument, error) {
	mimeType := domain.MIMETypeFor(loc.Key)
	outputPrefix := e.outputPrefixFor(loc)

	jobID, err := e.processor.SubmitBatch(ctx, loc, mimeType, e.cfg.OutputBucket, outputPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: submit for %s: %v", domain.ErrAsyncJobFailed, loc.URI(), err)
	}
	logging.Debugf("extractor.AsyncExtractor: submitted job %s for %s (output prefix %s)", jobID, loc.URI(), outputPrefix)

	if err := e.awaitJob(ctx, jobID, outputPrefix); err != nil {
		return nil, err
	}

	doc, err := e.assembleShards(ctx, jobID, outputPrefix)
	if err != nil {
		return nil, err
	}
	doc.Source = loc
	doc.MIMEType = mimeType
	logging.Debugf("extractor.AsyncExtractor: job %s assembled (%d pages, %d chars)", jobID, len(doc.Pages), len(doc.FullText))
	return doc, nil
}

// awaitJob polls the job under a deadline enforced by the context itself, not
// by accumulated sleep arithmetic.
func (e *AsyncExtractor) awaitJob(ctx context.Context, jobID, outputPrefix string) error {
	pollCtx, cancel := context.WithTimeout(ctx, e.cfg.PollTimeout)
	defer cancel()

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		state, err := e.processor.PollJob(pollCtx, jobID)
		if err != nil {
			if pollCtx.Err() != nil {
				return fmt.Errorf("%w: job %s did not complete within %s (output prefix %s)",
					domain.ErrJobTimeout, jobID, e.cfg.PollTimeout, outputPrefix)
			}
			return fmt.Errorf("%w: polling job %s: %v", domain.ErrAsyncJobFailed, jobID, err)
		}

		switch state.Status {
		case port.JobStatusSucceeded:
			return nil
		case port.JobStatusFailed:
			return fmt.Errorf("%w: job %s (output prefix %s): %s", domain.ErrAsyncJobFailed, jobID, outputPrefix, state.Message)
		}

		select {
		case <-pollCtx.Done():
			return fmt.Errorf("%w: job %s did not complete within %s (output prefix %s)",
				domain.ErrJobTimeout, jobID, e.cfg.PollTimeout, outputPrefix)
		case <-ticker.C:
		}
	}
}

// assembleShards lists every result shard under the output prefix and merges
// them in lexicographic key order, so repeated runs against the same prefix
// concatenate reproducibly. Page numbers are trusted as emitted per shard and
// are not renumbered, which for multi-shard documents may leave the combined
// numbering non-monotonic.
func (e *AsyncExtractor) assembleShards(ctx context.Context, jobID, outputPrefix string) (*domain.ExtractedDocument, error) {
	keys, err := e.storage.List(ctx, e.cfg.OutputBucket, outputPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: listing output of job %s under %s: %v", domain.ErrAsyncJobFailed, jobID, outputPrefix, err)
	}

	var shardKeys []string
	for _, key := range keys {
		if strings.HasSuffix(key, shardSuffix) {
			shardKeys = append(shardKeys, key)
		}
	}
	if len(shardKeys) == 0 {
		return nil, fmt.Errorf("%w: job %s wrote nothing under %s", domain.ErrNoOutputProduced, jobID, outputPrefix)
	}
	sort.Strings(shardKeys)

	merged := &domain.ExtractedDocument{}
	for _, key := range shardKeys {
		data, err := e.storage.Download(ctx, e.cfg.OutputBucket, key)
		if err != nil {
			return nil, fmt.Errorf("%w: reading shard %s of job %s: %v", domain.ErrAsyncJobFailed, key, jobID, err)
		}
		shard, err := docai.DecodeShard(data)
		if err != nil {
			return nil, fmt.Errorf("%w: shard %s of job %s: %v", domain.ErrAsyncJobFailed, key, jobID, err)
		}
		merged.FullText += shard.FullText
		merged.Pages = append(merged.Pages, shard.Pages...)
		merged.Entities = append(merged.Entities, shard.Entities...)
	}
	return merged, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// outputPrefixFor builds a per-invocation output prefix, keyed by file stem,
// timestamp and a short random suffix so concurrent jobs in one batch cannot
// collide.
func (e *AsyncExtractor) outputPrefixFor(loc domain.SourceLocator) string {
	stem := unsafeKeyChars.ReplaceAllString(loc.FileStem(), "_")
	return fmt.Sprintf("%sbatch/%s_%s_%s/",
		e.cfg.OutputPrefix,
		stem,
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
	)
}
