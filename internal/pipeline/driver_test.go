package pipeline_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kiameta/internal/domain"
	"kiameta/internal/extractor"
	"kiameta/internal/logging"
	"kiameta/internal/metadata"
	"kiameta/internal/pipeline"
	"kiameta/internal/port"
	"kiameta/mocks"
)

// newDriverFixture wires a real router and the rule-based extractor over a
// mocked storage and document processor, so driver tests cover the whole
// synchronous chain.
func newDriverFixture(storage *mocks.MockObjectStorage, processor *mocks.MockDocumentProcessor) *pipeline.Driver {
	sync := extractor.NewSyncExtractor(processor)
	async := extractor.NewAsyncExtractor(processor, storage, extractor.AsyncConfig{OutputBucket: "out"})
	router := extractor.NewRouter(storage, 20*1024*1024, sync, async)
	return pipeline.NewDriver(router, metadata.NewRuleExtractor())
}

func locator(key string) domain.SourceLocator {
	return domain.SourceLocator{Bucket: "docs", Key: key}
}

func TestDriver_RunSingle_EndToEnd(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Size", mock.Anything, "docs", "ct.pdf").Return(int64(100), nil)

	processor := new(mocks.MockDocumentProcessor)
	processor.On("Process", mock.Anything, locator("ct.pdf"), "application/pdf").
		Return(&domain.ExtractedDocument{
			FullText: "Model CT details",
			Source:   locator("ct.pdf"),
		}, nil)

	d := newDriverFixture(storage, processor)
	md, err := d.RunSingle(context.Background(), locator("ct.pdf"))
	require.NoError(t, err)

	// "CT" is not in the model vocabulary; the sentinel must come through.
	assert.Equal(t, domain.Unknown, md.Model)
	assert.Equal(t, "document", md.Source)
	assert.Equal(t, "pdf", md.FileFormat)
	assert.Equal(t, "en", md.Language)
}

func TestDriver_RunSingle_ExtractionFailurePropagates(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Size", mock.Anything, "docs", "a.pdf").Return(int64(100), nil)

	processor := new(mocks.MockDocumentProcessor)
	processor.On("Process", mock.Anything, locator("a.pdf"), "application/pdf").
		Return(nil, domain.ErrExtractionFailed)

	d := newDriverFixture(storage, processor)
	_, err := d.RunSingle(context.Background(), locator("a.pdf"))
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestDriver_RunBatch_OneFailureYieldsRemaining(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Size", mock.Anything, "docs", mock.Anything).Return(int64(100), nil)

	processor := new(mocks.MockDocumentProcessor)
	processor.On("Process", mock.Anything, locator("a.pdf"), "application/pdf").
		Return(&domain.ExtractedDocument{FullText: "EV6 brochure", Source: locator("a.pdf")}, nil)
	processor.On("Process", mock.Anything, locator("b.pdf"), "application/pdf").
		Return(nil, domain.ErrExtractionFailed)
	processor.On("Process", mock.Anything, locator("c.pdf"), "application/pdf").
		Return(&domain.ExtractedDocument{FullText: "Sportage brochure", Source: locator("c.pdf")}, nil)

	d := newDriverFixture(storage, processor)
	records, err := d.RunBatch(context.Background(),
		[]domain.SourceLocator{locator("a.pdf"), locator("b.pdf"), locator("c.pdf")})
	require.NoError(t, err)

	// Input order preserved, the failed item silently absent.
	require.Len(t, records, 2)
	assert.Equal(t, "EV6", records[0].Model)
	assert.Equal(t, "Sportage", records[1].Model)
}

// The skip line is the only durable record of a failed locator, so it goes
// through the standard logger unconditionally, not the verbose-gated one.
func TestDriver_RunBatch_SkippedLocatorIsLogged(t *testing.T) {
	var logBuf bytes.Buffer
	log.SetOutput(&logBuf)
	defer log.SetOutput(os.Stderr)
	logging.SetVerbose(false)

	storage := new(mocks.MockObjectStorage)
	storage.On("Size", mock.Anything, "docs", mock.Anything).Return(int64(100), nil)

	processor := new(mocks.MockDocumentProcessor)
	processor.On("Process", mock.Anything, locator("a.pdf"), "application/pdf").
		Return(&domain.ExtractedDocument{FullText: "EV6", Source: locator("a.pdf")}, nil)
	processor.On("Process", mock.Anything, locator("b.pdf"), "application/pdf").
		Return(nil, domain.ErrExtractionFailed)

	d := newDriverFixture(storage, processor)
	records, err := d.RunBatch(context.Background(),
		[]domain.SourceLocator{locator("a.pdf"), locator("b.pdf")})
	require.NoError(t, err)
	require.Len(t, records, 1)

	logged := logBuf.String()
	assert.Contains(t, logged, "skipping s3://docs/b.pdf")
	assert.Contains(t, logged, "1 succeeded, 1 failed")
}

func TestDriver_RunBatch_AllFailuresIsError(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Size", mock.Anything, "docs", mock.Anything).Return(int64(100), nil)

	processor := new(mocks.MockDocumentProcessor)
	processor.On("Process", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrExtractionFailed)

	d := newDriverFixture(storage, processor)
	_, err := d.RunBatch(context.Background(),
		[]domain.SourceLocator{locator("a.pdf"), locator("b.pdf")})
	assert.ErrorIs(t, err, pipeline.ErrNoSuccesses)
}

// MetadataExtractor implementations never fail, so a metadata-stage mock that
// returns the default record still counts its item as a success.
func TestDriver_RunBatch_MetadataStageCannotFailItem(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Size", mock.Anything, "docs", "a.pdf").Return(int64(100), nil)

	processor := new(mocks.MockDocumentProcessor)
	processor.On("Process", mock.Anything, locator("a.pdf"), "application/pdf").
		Return(&domain.ExtractedDocument{FullText: "x", Source: locator("a.pdf")}, nil)

	meta := new(mocks.MockMetadataExtractor)
	meta.On("Extract", mock.Anything, mock.Anything, domain.SourceTypeDocument).
		Return(domain.DefaultMetadata("pdf"))

	sync := extractor.NewSyncExtractor(processor)
	router := extractor.NewRouter(storage, 20*1024*1024, sync, sync)
	d := pipeline.NewDriver(router, meta)

	records, err := d.RunBatch(context.Background(), []domain.SourceLocator{locator("a.pdf")})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Unknown, records[0].Model)
}

var _ port.MetadataExtractor = (*mocks.MockMetadataExtractor)(nil)
