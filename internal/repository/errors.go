package repository

import (
	"errors"
	"fmt"
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrFetchTimeout = errors.New("fetch timed out")
	ErrBadStatus    = errors.New("unexpected http status")
)

// FetchError is returned by every Fetcher when a URL could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
