package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kiameta/internal/port"
)

// MockTranscriptSource is a mock implementation of port.TranscriptSource.
type MockTranscriptSource struct {
	mock.Mock
}

func (m *MockTranscriptSource) VideoInfo(ctx context.Context, videoID string) (*port.VideoInfo, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.VideoInfo), args.Error(1)
}

func (m *MockTranscriptSource) Transcript(ctx context.Context, videoID string, languages []string) (string, error) {
	args := m.Called(ctx, videoID, languages)
	return args.String(0), args.Error(1)
}
