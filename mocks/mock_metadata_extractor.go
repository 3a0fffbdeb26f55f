package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiameta/internal/domain"
)

// MockMetadataExtractor is a mock implementation of port.MetadataExtractor.
type MockMetadataExtractor struct {
	mock.Mock
}

func (m *MockMetadataExtractor) Extract(ctx context.Context, doc *domain.ExtractedDocument, sourceType domain.SourceType) domain.DocumentMetadata {
	args := m.Called(ctx, doc, sourceType)
	return args.Get(0).(domain.DocumentMetadata)
}

// MockStructuredClient is a mock implementation of port.StructuredClient.
type MockStructuredClient struct {
	mock.Mock
}

func (m *MockStructuredClient) Infer(ctx context.Context, instruction, text string) (*domain.DocumentMetadata, error) {
	args := m.Called(ctx, instruction, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentMetadata), args.Error(1)
}
