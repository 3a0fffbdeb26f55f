package extractor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiameta/internal/domain"
	"kiameta/internal/extractor"
	"kiameta/mocks"
)

// stubExtractor records whether it was invoked.
type stubExtractor struct {
	called bool
	doc    *domain.ExtractedDocument
	err    error
}

func (s *stubExtractor) Extract(_ context.Context, _ domain.SourceLocator) (*domain.ExtractedDocument, error) {
	s.called = true
	return s.doc, s.err
}

const threshold = int64(20 * 1024 * 1024)

func newRouterFixture(size int64, sizeErr error) (*extractor.Router, *stubExtractor, *stubExtractor) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Size", context.Background(), "docs", "a.pdf").Return(size, sizeErr)

	sync := &stubExtractor{doc: &domain.ExtractedDocument{FullText: "sync"}}
	async := &stubExtractor{doc: &domain.ExtractedDocument{FullText: "async"}}
	return extractor.NewRouter(storage, threshold, sync, async), sync, async
}

func TestRouter_SmallObjectGoesSync(t *testing.T) {
	r, sync, async := newRouterFixture(1024, nil)

	doc, err := r.Extract(context.Background(), domain.SourceLocator{Bucket: "docs", Key: "a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "sync", doc.FullText)
	assert.True(t, sync.called)
	assert.False(t, async.called)
}

func TestRouter_ExactThresholdGoesSync(t *testing.T) {
	r, sync, async := newRouterFixture(threshold, nil)

	_, err := r.Extract(context.Background(), domain.SourceLocator{Bucket: "docs", Key: "a.pdf"})
	require.NoError(t, err)

	assert.True(t, sync.called)
	assert.False(t, async.called)
}

func TestRouter_OneByteOverThresholdGoesAsync(t *testing.T) {
	r, sync, async := newRouterFixture(threshold+1, nil)

	doc, err := r.Extract(context.Background(), domain.SourceLocator{Bucket: "docs", Key: "a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "async", doc.FullText)
	assert.False(t, sync.called)
	assert.True(t, async.called)
}

// An unreadable size is treated as small: the synchronous attempt surfaces
// the real failure if there is one.
func TestRouter_UnknownSizeAttemptsSync(t *testing.T) {
	r, sync, async := newRouterFixture(int64(0), domain.ErrSizeUnknown)

	doc, err := r.Extract(context.Background(), domain.SourceLocator{Bucket: "docs", Key: "a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "sync", doc.FullText)
	assert.True(t, sync.called)
	assert.False(t, async.called)
}

func TestRouter_SyncFailurePropagates(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Size", context.Background(), "docs", "a.pdf").Return(int64(10), nil)

	boom := errors.New("service down")
	sync := &stubExtractor{err: boom}
	r := extractor.NewRouter(storage, threshold, sync, &stubExtractor{})

	_, err := r.Extract(context.Background(), domain.SourceLocator{Bucket: "docs", Key: "a.pdf"})
	assert.ErrorIs(t, err, boom)
}
