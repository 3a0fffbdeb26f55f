package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiameta/internal/domain"
	"kiameta/internal/port"
)

// MockDocumentProcessor is a mock implementation of port.DocumentProcessor.
type MockDocumentProcessor struct {
	mock.Mock
}

func (m *MockDocumentProcessor) Process(ctx context.Context, loc domain.SourceLocator, mimeType string) (*domain.ExtractedDocument, error) {
	args := m.Called(ctx, loc, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedDocument), args.Error(1)
}

func (m *MockDocumentProcessor) SubmitBatch(ctx context.Context, loc domain.SourceLocator, mimeType string, outputBucket, outputPrefix string) (string, error) {
	args := m.Called(ctx, loc, mimeType, outputBucket, outputPrefix)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentProcessor) PollJob(ctx context.Context, jobID string) (*port.JobState, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.JobState), args.Error(1)
}
