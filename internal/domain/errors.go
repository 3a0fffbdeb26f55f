package domain

import "errors"

var (
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrSourceNotFound      = errors.New("source object not found")
	ErrSizeUnknown         = errors.New("object size could not be determined")
	ErrExtractionFailed    = errors.New("document extraction failed")
	ErrAsyncJobFailed      = errors.New("async extraction job failed")
	ErrJobTimeout          = errors.New("async extraction job timed out")
	ErrNoOutputProduced    = errors.New("async job reported success but produced no output")
	ErrMetadataGeneration  = errors.New("metadata generation failed")
	ErrArtifactWrite       = errors.New("artifact write failed")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrPermissionDenied    = errors.New("storage permission denied")
)
