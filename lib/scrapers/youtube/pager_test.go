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

// allows each test to describe its fake channel as an initial page plus
// a token -> response table, while counting what actually got fetched
type fakePages struct {
	initial       string
	continuations map[string]string

	initialFetches      int
	continuationFetches map[string]int
}

func (f *fakePages) pager(kind innertube.ListingKind, boundary string) *listingPager {
	if f.continuationFetches == nil {
		f.continuationFetches = map[string]int{}
	}
	return &listingPager{
		fetchInitial: func(ctx context.Context) (json.RawMessage, innertube.PageParams, error) {
			f.initialFetches++
			return json.RawMessage(f.initial), innertube.PageParams{}, nil
		},
		fetchMore: func(ctx context.Context, req innertube.BrowseRequest) (json.RawMessage, error) {
			token := req.Body.Continuation
			f.continuationFetches[token]++
			page, ok := f.continuations[token]
			if !ok {
				return nil, fmt.Errorf("no page behind token %q", token)
			}
			return json.RawMessage(page), nil
		},
		kind:     kind,
		boundary: boundary,
		seen:     map[string]struct{}{},
	}
}

func TestPagerWalksAllPages(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	// the last entry of page one repeats at the top of page two, the
	// way the live site actually serves it
	pages := &fakePages{
		initial: tabPageJson(innertube.KindVideos,
			videoEntryJson("a"), videoEntryJson("b"), videoEntryJson("c"),
			continuationEntryJson("T1"),
		),
		continuations: map[string]string{
			"T1": continuationPageJson(videoEntryJson("c"), videoEntryJson("d")),
		},
	}
	pager := pages.pager(innertube.KindVideos, "")

	batch, ok, err := pager.nextBatch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"/watch?v=a", "/watch?v=b", "/watch?v=c"}, batch)
	require.Equal(t, StatusWalking, pager.status)

	batch, ok, err = pager.nextBatch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"/watch?v=d"}, batch)
	require.Equal(t, StatusExhausted, pager.status)

	_, ok, err = pager.nextBatch(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 1, pages.initialFetches)
	require.Equal(t, 1, pages.continuationFetches["T1"])
}

func TestPagerBoundaryStopsWalk(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := &fakePages{
		initial: tabPageJson(innertube.KindVideos,
			videoEntryJson("a"), videoEntryJson("b"), videoEntryJson("c"),
			continuationEntryJson("T1"),
		),
		continuations: map[string]string{
			"T1": continuationPageJson(videoEntryJson("d")),
		},
	}
	pager := pages.pager(innertube.KindVideos, "/watch?v=b")

	batch, ok, err := pager.nextBatch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"/watch?v=a"}, batch)
	require.Equal(t, StatusBoundary, pager.status)

	_, ok, err = pager.nextBatch(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// the boundary sat on the first page, nothing else may be fetched
	require.Equal(t, 1, pages.initialFetches)
	require.Empty(t, pages.continuationFetches)
}

func TestPagerBoundaryOnLaterPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := &fakePages{
		initial: tabPageJson(innertube.KindVideos,
			videoEntryJson("a"), videoEntryJson("b"),
			continuationEntryJson("T1"),
		),
		continuations: map[string]string{
			"T1": continuationPageJson(
				videoEntryJson("c"), videoEntryJson("d"),
				continuationEntryJson("T2"),
			),
			"T2": continuationPageJson(videoEntryJson("e")),
		},
	}
	pager := pages.pager(innertube.KindVideos, "/watch?v=d")

	var refs []string
	for {
		batch, ok, err := pager.nextBatch(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		refs = append(refs, batch...)
	}

	require.Equal(t, []string{"/watch?v=a", "/watch?v=b", "/watch?v=c"}, refs)
	require.Equal(t, StatusBoundary, pager.status)
	require.Equal(t, 1, pages.continuationFetches["T1"])
	// the walk stopped at the boundary in page two, page three stays
	// unfetched
	require.Equal(t, 0, pages.continuationFetches["T2"])
}

func TestPagerUnresolvablePage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := &fakePages{initial: `{"unexpected":"tree"}`}
	pager := pages.pager(innertube.KindVideos, "")

	batch, ok, err := pager.nextBatch(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, batch)
	require.Equal(t, StatusUnresolvable, pager.status)
}

func TestPagerRemembersFetchError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	fetchErr := fmt.Errorf("connection reset")
	calls := 0
	pager := &listingPager{
		fetchInitial: func(ctx context.Context) (json.RawMessage, innertube.PageParams, error) {
			calls++
			return nil, innertube.PageParams{}, fetchErr
		},
		kind: innertube.KindVideos,
		seen: map[string]struct{}{},
	}

	_, _, err := pager.nextBatch(ctx)
	require.ErrorIs(t, err, fetchErr)

	// a later call reports the same error without retrying
	_, _, err = pager.nextBatch(ctx)
	require.ErrorIs(t, err, fetchErr)
	require.Equal(t, 1, calls)
}

func TestPagerDuplicateOnlyPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := &fakePages{
		initial: tabPageJson(innertube.KindVideos,
			videoEntryJson("a"), videoEntryJson("b"),
			continuationEntryJson("T1"),
		),
		continuations: map[string]string{
			"T1": continuationPageJson(
				videoEntryJson("a"), videoEntryJson("b"),
				continuationEntryJson("T2"),
			),
			"T2": continuationPageJson(videoEntryJson("c")),
		},
	}
	pager := pages.pager(innertube.KindVideos, "")

	batch, ok, err := pager.nextBatch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"/watch?v=a", "/watch?v=b"}, batch)

	// page two repeats page one entirely: an empty batch with the walk
	// still going
	batch, ok, err = pager.nextBatch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, batch)
	require.Equal(t, StatusWalking, pager.status)

	batch, ok, err = pager.nextBatch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"/watch?v=c"}, batch)
	require.Equal(t, StatusExhausted, pager.status)
}

func TestPagerShorts(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := &fakePages{
		initial: tabPageJson(innertube.KindShorts,
			shortEntryJson("s1"), shortEntryJson("s2"),
			continuationEntryJson("T1"),
		),
		continuations: map[string]string{
			"T1": legacyContinuationPageJson(shortEntryJson("s3")),
		},
	}
	pager := pages.pager(innertube.KindShorts, "")

	var refs []string
	for {
		batch, ok, err := pager.nextBatch(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		refs = append(refs, batch...)
	}

	require.Equal(t, []string{"/shorts/s1", "/shorts/s2", "/shorts/s3"}, refs)
	require.Equal(t, StatusExhausted, pager.status)
}

func TestPagerSkipsMalformedEntries(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/youtube")
	defer cleanup()
	ctx := context.Background()

	pages := &fakePages{
		initial: tabPageJson(innertube.KindVideos,
			videoEntryJson("a"),
			`{"adSlotRenderer":{"placement":"between"}}`,
			videoEntryJson("b"),
		),
	}
	pager := pages.pager(innertube.KindVideos, "")

	batch, ok, err := pager.nextBatch(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"/watch?v=a", "/watch?v=b"}, batch)
	require.Equal(t, StatusExhausted, pager.status)
}
