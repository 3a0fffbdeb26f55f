package domain

import (
	"fmt"
	"strings"
	"time"
)

// SourceLocator is an opaque reference to one stored object. It is immutable
// once resolved; video sources carry their URL in Key with an empty Bucket.
type SourceLocator struct {
	Bucket string
	Key    string
}

// URI renders the locator as an s3:// URI, or the bare key for bucketless
// (video) sources.
func (l SourceLocator) URI() string {
	if l.Bucket == "" {
		return l.Key
	}
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

// FileName returns the last path segment of the key.
func (l SourceLocator) FileName() string {
	if i := strings.LastIndex(l.Key, "/"); i >= 0 {
		return l.Key[i+1:]
	}
	return l.Key
}

// FileStem returns the file name without its extension.
func (l SourceLocator) FileStem() string {
	name := l.FileName()
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// ParseURI parses an s3://bucket/key URI into a SourceLocator.
func ParseURI(uri string) (SourceLocator, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return SourceLocator{}, fmt.Errorf("invalid object URI %q: missing s3:// scheme", uri)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return SourceLocator{}, fmt.Errorf("invalid object URI %q: empty bucket", uri)
	}
	return SourceLocator{Bucket: bucket, Key: key}, nil
}

// Page is one page of extracted text. Number is trusted as emitted by the
// extraction service and is not renumbered during shard assembly.
type Page struct {
	Number int
	Text   string
}

// Entity is one entity mention recovered by the extraction service.
type Entity struct {
	Type        string
	MentionText string
	Confidence  float64
}

// ExtractedDocument is the canonical extraction result shared by the
// synchronous and asynchronous paths. FullText is the basis every page's Text
// was sliced from; shard merging preserves that relationship per shard.
type ExtractedDocument struct {
	FullText string
	Pages    []Page
	Entities []Entity
	Source   SourceLocator
	MIMEType string
}

// SourceType distinguishes document and video inputs.
type SourceType string

const (
	SourceTypeDocument SourceType = "document"
	SourceTypeVideo    SourceType = "video"
)

// Unknown is the sentinel for categorical metadata fields that could not be
// determined. Optional fields use the empty string as their null marker.
const Unknown = "UNKNOWN"

// TimestampFormat is the layout used for the updated_at column.
const TimestampFormat = "2006-01-02 15:04:05"

// DocumentMetadata is the fixed-schema record produced once per successfully
// extracted source. Fields are never omitted, only set to their sentinel.
type DocumentMetadata struct {
	Type           string
	Source         string
	Region         string
	Country        string
	Model          string
	XEV            string
	Year1          string
	Year2          string
	Language       string
	Version        string
	UpdatedAt      string
	FileFormat     string
	ContentSummary string
}

// DefaultMetadata returns the fallback record: categorical fields set to the
// Unknown sentinel, optional fields null, summary empty.
func DefaultMetadata(fileFormat string) DocumentMetadata {
	if fileFormat == "" {
		fileFormat = Unknown
	}
	return DocumentMetadata{
		Type:       Unknown,
		Source:     Unknown,
		Region:     Unknown,
		Country:    Unknown,
		Model:      Unknown,
		Language:   Unknown,
		UpdatedAt:  time.Now().Format(TimestampFormat),
		FileFormat: fileFormat,
	}
}

// BatchResult is the ordered sequence of records for the locators that
// processed successfully. Failed locators are absent; their failure is
// recorded in the audit log.
type BatchResult []DocumentMetadata
