package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations. List returns keys
// in the order the backend yields them (lexicographic for S3). All failures
// surface distinguishable causes: not-found and permission-denied map to the
// domain sentinel errors.
type ObjectStorage interface {
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Size(ctx context.Context, bucket, key string) (int64, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
}
