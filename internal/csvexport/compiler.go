package csvexport

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"kiameta/internal/domain"
	"kiameta/internal/port"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Compiler turns metadata records into a persisted artifact in object
// storage. Destinations ending in .xlsx are written as workbooks, everything
// else as BOM-prefixed CSV.
type Compiler struct {
	storage port.ObjectStorage
}

// NewCompiler creates a Compiler backed by the given storage.
func NewCompiler(storage port.ObjectStorage) *Compiler {
	return &Compiler{storage: storage}
}

// Compile writes records to bucket/key. When appendExisting is set and the
// destination already exists, its rows are decoded and the new rows are added
// after them; the artifact is then rewritten wholesale. Returns the total
// number of data rows persisted.
func (c *Compiler) Compile(ctx context.Context, records []domain.DocumentMetadata, bucket, key string, appendExisting bool) (int, error) {
	frame := FromRecords(records)

	if appendExisting {
		existing, err := c.loadExisting(ctx, bucket, key)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			log.Printf("csvexport.Compiler: appending %d rows to %d existing rows in s3://%s/%s",
				frame.Len(), existing.Len(), bucket, key)
			existing.Append(frame)
			frame = existing
		}
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	if isXLSX(key) {
		data, err = EncodeXLSX(frame)
		contentType = xlsxContentType
	} else {
		data, err = EncodeCSV(frame)
		contentType = csvContentType
	}
	if err != nil {
		return 0, fmt.Errorf("%w: encoding s3://%s/%s: %v", domain.ErrArtifactWrite, bucket, key, err)
	}

	_, err = c.storage.Upload(ctx, port.UploadInput{
		Bucket:      bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: uploading s3://%s/%s: %v", domain.ErrArtifactWrite, bucket, key, err)
	}
	return frame.Len(), nil
}

// loadExisting downloads and decodes the current artifact, or returns nil
// when the destination does not exist yet.
func (c *Compiler) loadExisting(ctx context.Context, bucket, key string) (*Frame, error) {
	exists, err := c.storage.Exists(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: checking s3://%s/%s: %v", domain.ErrArtifactWrite, bucket, key, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := c.storage.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: downloading s3://%s/%s: %v", domain.ErrArtifactWrite, bucket, key, err)
	}

	var frame *Frame
	if isXLSX(key) {
		frame, err = DecodeXLSX(data)
	} else {
		frame, err = DecodeCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding s3://%s/%s: %v", domain.ErrArtifactWrite, bucket, key, err)
	}
	return frame, nil
}

func isXLSX(key string) bool {
	return strings.EqualFold(path.Ext(key), ".xlsx")
}
