package port

import "context"

// VideoInfo is the snippet-level description of one video.
type VideoInfo struct {
	Title           string
	Description     string
	Channel         string
	PublishedAt     string
	DefaultLanguage string
}

// TranscriptSource abstracts the video platform: snippet lookup and public
// caption text retrieval.
type TranscriptSource interface {
	VideoInfo(ctx context.Context, videoID string) (*VideoInfo, error)
	Transcript(ctx context.Context, videoID string, languages []string) (string, error)
}
