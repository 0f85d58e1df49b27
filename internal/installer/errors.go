package installer

import (
	"errors"
	"fmt"
)

var errTooManyRedirects = errors.New("too many redirects")

// HTTPError reports a non-200 terminal response or a transport failure while
// fetching. StatusCode is zero for transport failures.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *HTTPError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("GET %s: %s: %v", e.URL, e.Status, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("Failed to download: %s", e.Status)
	default:
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
}

func (e *HTTPError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure: creating, writing, moving,
// chmod-ing or removing a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ExtractError reports a corrupt or unsupported archive. Whatever was
// extracted before the failure is left in place.
type ExtractError struct {
	Archive string
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// BinaryNotFoundError means the archive did not contain the expected
// top-level binary.
type BinaryNotFoundError struct {
	Path string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("Binary not found after extraction: %s", e.Path)
}
