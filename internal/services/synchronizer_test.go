package services

import (
	"bytes"
	"context"
	"log"
	"testing"

	"coffee-proximity-service/internal/adapters/repositories"
	"coffee-proximity-service/internal/csvfeed"
	"coffee-proximity-service/internal/ports"
)

type stubFetcher struct {
	body []byte
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func newTestSynchronizer(fetcher *stubFetcher, repo *repositories.MemoryShopRepository) *Synchronizer {
	logger := log.New(&bytes.Buffer{}, "", 0)
	return NewSynchronizer(
		SyncConfig{FeedURL: "http://feed.example/shops.csv", BatchSize: 2},
		fetcher, nil, repo, logger,
	)
}

func TestSynchronizerImportsFeed(t *testing.T) {
	repo := repositories.NewMemoryShopRepository()
	fetcher := &stubFetcher{body: []byte("Starbucks,47.6,-122.4\nPeets,37.5,-122.3\nBlue Bottle,37.77,-122.42")}

	summary := newTestSynchronizer(fetcher, repo).Run(context.Background())

	if !summary.Fetched {
		t.Fatal("summary.Fetched = false")
	}
	if summary.Parsed != 3 {
		t.Fatalf("parsed = %d, want 3", summary.Parsed)
	}
	if summary.Upserted != 3 {
		t.Fatalf("upserted = %d, want 3", summary.Upserted)
	}
	if repo.Count() != 3 {
		t.Fatalf("stored rows = %d, want 3", repo.Count())
	}
}

func TestSynchronizerIdempotent(t *testing.T) {
	repo := repositories.NewMemoryShopRepository()
	fetcher := &stubFetcher{body: []byte("Starbucks,47.6,-122.4\nPeets,37.5,-122.3")}
	sync := newTestSynchronizer(fetcher, repo)

	sync.Run(context.Background())
	before := repo.Count()

	sync.Run(context.Background())

	if repo.Count() != before {
		t.Fatalf("second run changed row count: %d -> %d", before, repo.Count())
	}
}

func TestSynchronizerPartialFailure(t *testing.T) {
	repo := repositories.NewMemoryShopRepository()
	fetcher := &stubFetcher{body: []byte("bad_line\nGood Shop,45.0,-90.0\n,invalid")}

	summary := newTestSynchronizer(fetcher, repo).Run(context.Background())

	if summary.Parsed != 1 {
		t.Fatalf("parsed = %d, want 1", summary.Parsed)
	}

	shops, err := repo.List(context.Background(), ports.ShopScope{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(shops) != 1 || shops[0].Name != "Good Shop" {
		t.Fatalf("expected exactly Good Shop, got %v", shops)
	}
}

func TestSynchronizerFetchFailureHasNoSideEffects(t *testing.T) {
	repo := repositories.NewMemoryShopRepository()
	fetcher := &stubFetcher{err: &csvfeed.FetchError{URL: "http://feed.example", Status: 503, Reason: "Service Unavailable"}}

	summary := newTestSynchronizer(fetcher, repo).Run(context.Background())

	if summary.Fetched {
		t.Fatal("summary.Fetched = true on a failed fetch")
	}
	if summary.Parsed != 0 || summary.Upserted != 0 {
		t.Fatalf("expected an empty summary, got %+v", summary)
	}
	if repo.Count() != 0 {
		t.Fatalf("failed fetch wrote %d rows", repo.Count())
	}
}

func TestSynchronizerEmptyFeedIsNoOp(t *testing.T) {
	repo := repositories.NewMemoryShopRepository()
	fetcher := &stubFetcher{body: []byte("")}

	summary := newTestSynchronizer(fetcher, repo).Run(context.Background())

	if !summary.Fetched {
		t.Fatal("summary.Fetched = false")
	}
	if summary.Parsed != 0 || repo.Count() != 0 {
		t.Fatalf("empty feed caused changes: %+v, rows=%d", summary, repo.Count())
	}
}

func TestSynchronizerUpdatesExistingRows(t *testing.T) {
	repo := repositories.NewMemoryShopRepository()
	sync := newTestSynchronizer(&stubFetcher{body: []byte("Starbucks,47.6,-122.4")}, repo)
	sync.Run(context.Background())

	// Same triple again: same external id, row rewritten in place.
	sync2 := newTestSynchronizer(&stubFetcher{body: []byte("Starbucks,47.6,-122.4")}, repo)
	sync2.Run(context.Background())

	if repo.Count() != 1 {
		t.Fatalf("row count = %d, want 1", repo.Count())
	}

	// A changed coordinate is a different identity and a new row.
	sync3 := newTestSynchronizer(&stubFetcher{body: []byte("Starbucks,47.7,-122.4")}, repo)
	sync3.Run(context.Background())

	if repo.Count() != 2 {
		t.Fatalf("row count = %d, want 2 after identity change", repo.Count())
	}
}
