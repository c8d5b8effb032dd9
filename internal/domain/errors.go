package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoURL is returned when a submission or info request carries no URL.
	ErrNoURL = errors.New("no URL provided")
	// ErrNotFound is returned when a requested file does not exist on disk.
	ErrNotFound = errors.New("file not found")
	// ErrTooManyRequests is returned when submission admission control
	// rejects a burst of download requests.
	ErrTooManyRequests = errors.New("too many download requests, try again in a minute")
)

// DuplicateError rejects a submission whose URL already produced a download.
type DuplicateError struct {
	ExistingFile string
}

func (e *DuplicateError) Error() string {
	return "this video has already been downloaded"
}

// ExtractionError wraps a failure reported by the extraction collaborator.
type ExtractionError struct {
	Stage string // "info" or "download"
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
