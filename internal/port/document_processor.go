package port

import (
	"context"

	"kiameta/internal/domain"
)

// JobStatus is the state of an asynchronous extraction job as reported by the
// document-understanding service.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// JobState is one poll observation: the status plus the service's failure
// message when status is failed.
type JobState struct {
	Status  JobStatus
	Message string
}

// DocumentProcessor abstracts the document-understanding service.
//
// Process is the synchronous path: one blocking call returning the canonical
// extraction result. SubmitBatch starts an asynchronous job that writes JSON
// result shards under outputPrefix; PollJob reports its progress.
type DocumentProcessor interface {
	Process(ctx context.Context, loc domain.SourceLocator, mimeType string) (*domain.ExtractedDocument, error)
	SubmitBatch(ctx context.Context, loc domain.SourceLocator, mimeType string, outputBucket, outputPrefix string) (jobID string, err error)
	PollJob(ctx context.Context, jobID string) (*JobState, error)
}
