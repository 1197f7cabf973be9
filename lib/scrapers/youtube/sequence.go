package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"tubelist/lib/scrapers/youtube/innertube"
)

var OutOfRange = fmt.Errorf("youtube: listing index out of range")

// Listing is a lazy view of one channel tab. Nothing is fetched until an
// accessor needs data, every reference seen is cached, and no page is
// requested twice. Safe for use from multiple goroutines; concurrent
// accessors share the cache.
type Listing struct {
	client *Client
	path   string
	kind   innertube.ListingKind

	mu    sync.Mutex
	pager *listingPager
	cache []string
	done  bool
}

func newListing(client *Client, path string, kind innertube.ListingKind) *Listing {
	return newListingUntil(client, path, kind, "")
}

func newListingUntil(client *Client, path string, kind innertube.ListingKind, boundary string) *Listing {
	return &Listing{
		client: client,
		path:   path,
		kind:   kind,
		pager: &listingPager{
			fetchInitial: func(ctx context.Context) (json.RawMessage, innertube.PageParams, error) {
				page, err := client.channelPage(ctx, path)
				if err != nil {
					return nil, innertube.PageParams{}, err
				}
				return page.InitialData, page.Params, nil
			},
			fetchMore: client.fetchContinuation,
			kind:      kind,
			boundary:  boundary,
			seen:      map[string]struct{}{},
		},
	}
}

// Until derives a fresh listing that stops right before ref shows up.
// The boundary reference itself is excluded and no page past it is ever
// requested. Useful for "everything newer than the last one I saw".
func (l *Listing) Until(ref string) *Listing {
	return newListingUntil(l.client, l.path, l.kind, ref)
}

func (l *Listing) Kind() innertube.ListingKind { return l.kind }

// Status reports how the walk ended, or StatusWalking while more pages
// may remain.
func (l *Listing) Status() ListingStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.status
}

// materialize pulls pages until the cache holds at least need entries
// or the walk ends. Negative need drains the whole listing. Callers
// hold l.mu.
func (l *Listing) materialize(ctx context.Context, need int) error {
	for !l.done && (need < 0 || len(l.cache) < need) {
		batch, ok, err := l.pager.nextBatch(ctx)
		if err != nil {
			return err
		}
		if !ok {
			l.done = true
			break
		}
		l.cache = append(l.cache, batch...)
	}
	return nil
}

// At returns the reference at index, fetching only as many pages as the
// index requires. Indexing past the end returns OutOfRange.
func (l *Listing) At(ctx context.Context, index int) (string, error) {
	if index < 0 {
		return "", OutOfRange
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.materialize(ctx, index+1)
	if err != nil {
		return "", err
	}
	if index >= len(l.cache) {
		return "", OutOfRange
	}
	return l.cache[index], nil
}

// Len drains the listing and returns the total number of references.
func (l *Listing) Len(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "listing:Len")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.materialize(ctx, -1)
	if err != nil {
		return 0, err
	}
	return len(l.cache), nil
}

// All drains the listing and returns every reference in page order.
func (l *Listing) All(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "listing:All")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.materialize(ctx, -1)
	if err != nil {
		return nil, err
	}
	return slices.Clone(l.cache), nil
}

// Iter starts an incremental pass over the listing. Pages load as the
// iterator advances, so breaking out early leaves later pages unfetched.
//
//	it := channel.Videos().Iter()
//	for it.Next(ctx) {
//		fmt.Println(it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
func (l *Listing) Iter() *ListingIter {
	return &ListingIter{listing: l, pos: -1}
}

type ListingIter struct {
	listing *Listing
	pos     int
	current string
	err     error
}

func (it *ListingIter) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}

	value, err := it.listing.At(ctx, it.pos+1)
	if err == OutOfRange {
		return false
	}
	if err != nil {
		it.err = err
		return false
	}

	it.pos++
	it.current = value
	return true
}

func (it *ListingIter) Value() string { return it.current }

// Err reports the fetch error that ended iteration, nil after a clean
// end of data.
func (it *ListingIter) Err() error { return it.err }
