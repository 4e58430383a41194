package repository

import (
	"context"
	"time"

	"github.com/user/course-aggregator/internal/entity"
)

// Fetcher defines the contract for retrieving the raw content of one URL.
// Implementations never retry silently unless documented and always return
// a *FetchError on failure.
type Fetcher interface {
	// Fetch retrieves url, bounded by timeout. A non-positive timeout selects the fetcher default.
	Fetch(ctx context.Context, url string, timeout time.Duration) (*entity.Document, error)
}
