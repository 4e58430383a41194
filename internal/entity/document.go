package entity

import "time"

// Document is the raw payload returned by a fetcher for one URL.
type Document struct {
	URL        string
	StatusCode int
	Body       []byte
	FetchedAt  time.Time
}
