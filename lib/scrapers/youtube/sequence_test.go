package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"tubelist/lib/scrapers/youtube/innertube"
	"tubelist/lib/telemetry"
)

func (f *fakePages) listing(kind innertube.ListingKind, boundary string) *Listing {
	return &Listing{
		kind:  kind,
		pager: f.pager(kind, boundary),
	}
}

func twoPageChannel() *fakePages {
	return &fakePages{
		initial: tabPageJson(innertube.KindVideos,
			videoEntryJson("a"), videoEntryJson("b"), videoEntryJson("c"),
			continuationEntryJson("T1"),
		),
		continuations: map[string]string{
			"T1": continuationPageJson(videoEntryJson("d"), videoEntryJson("e")),
		},
	}
}

func TestListingAtIsLazy(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := twoPageChannel()
	listing := pages.listing(innertube.KindVideos, "")

	ref, err := listing.At(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "/watch?v=a", ref)
	require.Equal(t, 1, pages.initialFetches)
	require.Empty(t, pages.continuationFetches)

	// the first page already covers index 2
	ref, err = listing.At(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "/watch?v=c", ref)
	require.Empty(t, pages.continuationFetches)

	// index 3 forces the second page
	ref, err = listing.At(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "/watch?v=d", ref)
	require.Equal(t, 1, pages.continuationFetches["T1"])

	// no refetch for anything already cached
	ref, err = listing.At(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "/watch?v=b", ref)
	require.Equal(t, 1, pages.initialFetches)
	require.Equal(t, 1, pages.continuationFetches["T1"])

	_, err = listing.At(ctx, 10)
	require.ErrorIs(t, err, OutOfRange)
	_, err = listing.At(ctx, -1)
	require.ErrorIs(t, err, OutOfRange)
}

func TestListingLenAndAll(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := twoPageChannel()
	listing := pages.listing(innertube.KindVideos, "")

	length, err := listing.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, length)
	require.Equal(t, StatusExhausted, listing.Status())

	all, err := listing.All(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{
		"/watch?v=a", "/watch?v=b", "/watch?v=c", "/watch?v=d", "/watch?v=e",
	}, all)

	// Len already drained everything, All must not refetch
	require.Equal(t, 1, pages.initialFetches)
	require.Equal(t, 1, pages.continuationFetches["T1"])

	// callers get their own copy of the cache
	all[0] = "clobbered"
	again, err := listing.All(ctx)
	require.NoError(t, err)
	require.Equal(t, "/watch?v=a", again[0])
}

func TestListingIter(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := twoPageChannel()
	listing := pages.listing(innertube.KindVideos, "")

	var refs []string
	it := listing.Iter()
	for it.Next(ctx) {
		refs = append(refs, it.Value())
	}
	require.NoError(t, it.Err())
	require.Equal(t, []string{
		"/watch?v=a", "/watch?v=b", "/watch?v=c", "/watch?v=d", "/watch?v=e",
	}, refs)
}

func TestListingIterStopsEarly(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := twoPageChannel()
	listing := pages.listing(innertube.KindVideos, "")

	it := listing.Iter()
	for i := 0; i < 2; i++ {
		require.True(t, it.Next(ctx))
	}
	require.Equal(t, "/watch?v=b", it.Value())

	// walking off after two of three first-page entries must not pull
	// the second page
	require.Empty(t, pages.continuationFetches)
}

func TestListingIterSurfacesError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	fetchErr := fmt.Errorf("boom")
	pages := twoPageChannel()
	listing := pages.listing(innertube.KindVideos, "")
	listing.pager.fetchMore = func(ctx context.Context, req innertube.BrowseRequest) (json.RawMessage, error) {
		return nil, fetchErr
	}

	it := listing.Iter()
	var refs []string
	for it.Next(ctx) {
		refs = append(refs, it.Value())
	}
	require.Equal(t, []string{"/watch?v=a", "/watch?v=b", "/watch?v=c"}, refs)
	require.ErrorIs(t, it.Err(), fetchErr)

	// the error sticks for any further use of the iterator
	require.False(t, it.Next(ctx))
}

func TestListingStatusProgression(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := twoPageChannel()
	listing := pages.listing(innertube.KindVideos, "")
	require.Equal(t, StatusWalking, listing.Status())

	_, err := listing.At(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, StatusWalking, listing.Status())

	_, err = listing.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusExhausted, listing.Status())
}

func TestListingBoundary(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := twoPageChannel()
	listing := pages.listing(innertube.KindVideos, "/watch?v=b")

	all, err := listing.All(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"/watch?v=a"}, all)
	require.Equal(t, StatusBoundary, listing.Status())
	require.Empty(t, pages.continuationFetches)
}
