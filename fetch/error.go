package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is the sentinel error wrapped by [RequestError].
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTooManyRedirects is the sentinel error wrapped by [RedirectError].
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrUnexpectedStatus is the sentinel error wrapped by [StatusError].
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrTransferFailed is the sentinel error wrapped by [TransferError].
	ErrTransferFailed = errors.New("transfer failed")
	// ErrEmptyArtifact is the sentinel error wrapped by [EmptyArtifactError].
	ErrEmptyArtifact = errors.New("empty artifact")
	// ErrStagingFailed is the sentinel error wrapped by [StagingError].
	ErrStagingFailed = errors.New("staging directory unavailable")
)

// RequestError is returned when the URL is rejected before any
// network I/O occurs.
type RequestError struct {
	URL    string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidRequest, e.Reason, e.URL)
}

func (e *RequestError) Unwrap() error {
	return ErrInvalidRequest
}

// RedirectError is returned when the redirect budget is exhausted.
// Location holds the unfollowed redirect target.
type RedirectError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%v: %d from %s, unfollowed location %s", ErrTooManyRedirects, e.StatusCode, e.URL, e.Location)
}

func (e *RedirectError) Unwrap() error {
	return ErrTooManyRedirects
}

// StatusError is returned when the final response carries a
// non-2xx, non-redirect status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d from %s", ErrUnexpectedStatus, e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// TransferError is returned on a network or disk I/O failure
// mid-transfer. Cause holds the underlying error.
type TransferError struct {
	URL   string
	Cause error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrTransferFailed, e.URL, e.Cause)
}

func (e *TransferError) Unwrap() []error {
	return []error{ErrTransferFailed, e.Cause}
}

// EmptyArtifactError is returned when the downloaded file is missing
// or zero-length after an otherwise successful transfer.
type EmptyArtifactError struct {
	URL    string
	Path   string
	Reason string
}

func (e *EmptyArtifactError) Error() string {
	return fmt.Sprintf("%v: %s for %s", ErrEmptyArtifact, e.Reason, e.URL)
}

func (e *EmptyArtifactError) Unwrap() error {
	return ErrEmptyArtifact
}

// StagingError is returned when the staging directory cannot be created.
type StagingError struct {
	Dir   string
	Cause error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrStagingFailed, e.Dir, e.Cause)
}

func (e *StagingError) Unwrap() []error {
	return []error{ErrStagingFailed, e.Cause}
}
