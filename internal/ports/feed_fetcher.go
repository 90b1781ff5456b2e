package ports

import "context"

// Port: retrieval of raw CSV feed bytes from an external source.
type FeedFetcher interface {
	// Fetch returns the feed body at url. Transport failures and non-2xx
	// responses surface as the same error kind.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
