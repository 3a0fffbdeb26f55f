package video

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"kiameta/internal/logging"
	"kiameta/internal/port"
)

const timedTextBaseURL = "https://video.google.com/timedtext"

// ExtractVideoID pulls the 11-character video ID out of the common YouTube
// URL shapes: youtu.be short links, watch?v=, /embed/ and /v/ paths.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing video URL %q: %w", rawURL, err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	case "youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			if id := u.Query().Get("v"); id != "" {
				return id, nil
			}
		}
		for _, prefix := range []string{"/embed/", "/v/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				if id, _, _ := strings.Cut(rest, "/"); id != "" {
					return id, nil
				}
			}
		}
	}
	return "", fmt.Errorf("cannot extract video ID from URL: %s", rawURL)
}

// YouTubeSource retrieves video snippets through the YouTube Data API and
// public caption text through the timedtext endpoint. Caption downloads via
// the Data API require OAuth, so the unauthenticated timedtext endpoint
// serves the public transcript instead.
type YouTubeSource struct {
	service      *youtube.Service
	client       *http.Client
	timedTextURL string
}

// NewYouTubeSource builds a source authenticated with an API key.
func NewYouTubeSource(ctx context.Context, apiKey string) (*YouTubeSource, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &YouTubeSource{
		service:      svc,
		client:       &http.Client{},
		timedTextURL: timedTextBaseURL,
	}, nil
}

// NewYouTubeSourceWithEndpoints is used by tests to point both the Data API
// and the timedtext endpoint at local servers.
func NewYouTubeSourceWithEndpoints(ctx context.Context, apiKey, apiBaseURL, timedTextURL string) (*YouTubeSource, error) {
	svc, err := youtube.NewService(ctx,
		option.WithAPIKey(apiKey),
		option.WithEndpoint(apiBaseURL))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &YouTubeSource{
		service:      svc,
		client:       &http.Client{},
		timedTextURL: timedTextURL,
	}, nil
}

// VideoInfo fetches the snippet for one video.
func (s *YouTubeSource) VideoInfo(ctx context.Context, videoID string) (*port.VideoInfo, error) {
	logging.Debugf("video.YouTubeSource: fetching video info for %s", videoID)

	resp, err := s.service.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video not found: %s", videoID)
	}

	snippet := resp.Items[0].Snippet
	return &port.VideoInfo{
		Title:           snippet.Title,
		Description:     snippet.Description,
		Channel:         snippet.ChannelTitle,
		PublishedAt:     snippet.PublishedAt,
		DefaultLanguage: snippet.DefaultLanguage,
	}, nil
}

// timedTextTranscript mirrors the timedtext XML payload.
type timedTextTranscript struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedTextCue `xml:"text"`
}

type timedTextCue struct {
	Start string `xml:"start,attr"`
	Body  string `xml:",chardata"`
}

// Transcript returns caption text joined with newlines, trying languages in
// order. A video with no public captions yields an empty string, not an
// error; the caller falls back to the description.
func (s *YouTubeSource) Transcript(ctx context.Context, videoID string, languages []string) (string, error) {
	for _, lang := range languages {
		text, err := s.fetchTimedText(ctx, videoID, lang)
		if err != nil {
			log.Printf("video.YouTubeSource: timedtext fetch failed for %s lang=%s: %v", videoID, lang, err)
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	return "", nil
}

func (s *YouTubeSource) fetchTimedText(ctx context.Context, videoID, lang string) (string, error) {
	u := fmt.Sprintf("%s?v=%s&lang=%s", s.timedTextURL, url.QueryEscape(videoID), url.QueryEscape(lang))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return parseTimedText(body)
}

// parseTimedText joins cue bodies with newlines, unescaping HTML entities the
// endpoint double-encodes.
func parseTimedText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var transcript timedTextTranscript
	if err := xml.Unmarshal(data, &transcript); err != nil {
		return "", fmt.Errorf("parsing timedtext XML: %w", err)
	}
	parts := make([]string, 0, len(transcript.Texts))
	for _, cue := range transcript.Texts {
		if body := strings.TrimSpace(html.UnescapeString(cue.Body)); body != "" {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n"), nil
}
