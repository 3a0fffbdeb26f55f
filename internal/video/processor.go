package video

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"kiameta/internal/domain"
	"kiameta/internal/logging"
	"kiameta/internal/port"
)

// preferred transcript languages, tried in order.
var transcriptLanguages = []string{"ko", "en"}

// Processor turns a YouTube URL into a metadata record: snippet lookup,
// transcript retrieval with description fallback, then metadata extraction
// over the composed text.
type Processor struct {
	source  port.TranscriptSource
	meta    port.MetadataExtractor
	storage port.ObjectStorage
}

// NewProcessor creates a video processor. storage may be nil when transcript
// persistence is not wanted.
func NewProcessor(source port.TranscriptSource, meta port.MetadataExtractor, storage port.ObjectStorage) *Processor {
	return &Processor{source: source, meta: meta, storage: storage}
}

// Process extracts metadata for the video at videoURL. When saveBucket and
// saveKey are set, the composed transcript text is also persisted; a save
// failure is logged and does not fail the run.
func (p *Processor) Process(ctx context.Context, videoURL, saveBucket, saveKey string) (domain.DocumentMetadata, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return domain.DocumentMetadata{}, err
	}
	log.Printf("video.Processor: processing video %s (%s)", videoID, videoURL)

	info, err := p.source.VideoInfo(ctx, videoID)
	if err != nil {
		return domain.DocumentMetadata{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	logging.Debugf("video.Processor: video title: %s", info.Title)

	transcript, err := p.source.Transcript(ctx, videoID, transcriptLanguages)
	if err != nil {
		log.Printf("video.Processor: transcript fetch failed: %v", err)
	}
	if transcript == "" {
		log.Printf("video.Processor: no transcript available, falling back to video description")
		transcript = info.Description
	}

	fullText := ComposeFullText(info, transcript)

	if p.storage != nil && saveBucket != "" && saveKey != "" {
		p.saveTranscript(ctx, saveBucket, saveKey, fullText)
	}

	doc := &domain.ExtractedDocument{
		FullText: fullText,
		Source:   domain.SourceLocator{Key: videoURL},
	}
	return p.meta.Extract(ctx, doc, domain.SourceTypeVideo), nil
}

// ComposeFullText formats the snippet and transcript into the labeled text
// block the metadata extractors consume.
func ComposeFullText(info *port.VideoInfo, transcript string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Video Title] %s\n", info.Title)
	fmt.Fprintf(&b, "[Channel] %s\n", info.Channel)
	fmt.Fprintf(&b, "[Published] %s\n\n", info.PublishedAt)
	fmt.Fprintf(&b, "[Transcript]\n%s", transcript)
	return b.String()
}

func (p *Processor) saveTranscript(ctx context.Context, bucket, key, text string) {
	logging.Debugf("video.Processor: saving transcript to s3://%s/%s", bucket, key)
	data := []byte(text)
	_, err := p.storage.Upload(ctx, port.UploadInput{
		Bucket:      bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("video.Processor: failed to save transcript: %v", err)
	}
}
