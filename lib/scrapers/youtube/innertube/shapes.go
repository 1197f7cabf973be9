package innertube

import (
	"encoding/json"
)

type ListingKind int

const (
	KindVideos ListingKind = iota
	KindShorts
)

func (k ListingKind) String() string {
	switch k {
	case KindVideos:
		return "videos"
	case KindShorts:
		return "shorts"
	}
	return "unknown"
}

// tab index inside the two-column browse result. the frontend renders a
// fixed tab bar (home, videos, shorts, ...) so the listing of interest
// sits at a fixed position.
func (k ListingKind) tabIndex() int {
	if k == KindShorts {
		return 2
	}
	return 1
}

// Ref builds the canonical reference path for a bare item id.
func (k ListingKind) Ref(id string) string {
	if k == KindShorts {
		return "/shorts/" + id
	}
	return "/watch?v=" + id
}

type shapeMatcher func(raw json.RawMessage, kind ListingKind) ([]json.RawMessage, bool)

// listingShapes is tried in order and the first full match wins. The
// order must stay stable: a continuation response can partially resemble
// the initial-page tree and vice versa, so reordering changes which
// pattern spuriously wins.
var listingShapes = []shapeMatcher{
	matchInitialPage,
	matchLegacyContinuation,
	matchContinuation,
}

// ResolveListing locates the entry list inside a raw listing page. It
// reports false when no known shape matches, which callers treat as the
// end of available data rather than an error.
func ResolveListing(raw json.RawMessage, kind ListingKind) ([]json.RawMessage, bool) {
	for _, match := range listingShapes {
		entries, ok := match(raw, kind)
		if ok {
			return entries, true
		}
	}
	return nil, false
}

// initial page load: the listing is embedded in the page html under a
// two-column browse result, inside the tab for the requested kind.
type initialPage struct {
	Contents *struct {
		TwoColumnBrowseResultsRenderer *struct {
			Tabs []struct {
				TabRenderer *struct {
					Content *struct {
						RichGridRenderer *struct {
							Contents []json.RawMessage `json:"contents"`
						} `json:"richGridRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"twoColumnBrowseResultsRenderer"`
	} `json:"contents"`
}

func matchInitialPage(raw json.RawMessage, kind ListingKind) ([]json.RawMessage, bool) {
	var page initialPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false
	}
	if page.Contents == nil || page.Contents.TwoColumnBrowseResultsRenderer == nil {
		return nil, false
	}
	tabs := page.Contents.TwoColumnBrowseResultsRenderer.Tabs
	idx := kind.tabIndex()
	if idx >= len(tabs) {
		return nil, false
	}
	tab := tabs[idx].TabRenderer
	if tab == nil || tab.Content == nil || tab.Content.RichGridRenderer == nil {
		return nil, false
	}
	return tab.Content.RichGridRenderer.Contents, true
}

type appendAction struct {
	AppendContinuationItemsAction *struct {
		ContinuationItems []json.RawMessage `json:"continuationItems"`
	} `json:"appendContinuationItemsAction"`
}

func entriesFromActions(actions []appendAction) ([]json.RawMessage, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	action := actions[0].AppendContinuationItemsAction
	if action == nil {
		return nil, false
	}
	return action.ContinuationItems, true
}

// older continuation responses: a top-level array whose second element
// wraps the payload in a "response" object.
type legacyContinuationPage []struct {
	Response *struct {
		OnResponseReceivedActions []appendAction `json:"onResponseReceivedActions"`
	} `json:"response"`
}

func matchLegacyContinuation(raw json.RawMessage, _ ListingKind) ([]json.RawMessage, bool) {
	var page legacyContinuationPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false
	}
	if len(page) < 2 || page[1].Response == nil {
		return nil, false
	}
	return entriesFromActions(page[1].Response.OnResponseReceivedActions)
}

// current continuation responses: same payload, no array and no
// "response" wrapper.
type continuationPage struct {
	OnResponseReceivedActions []appendAction `json:"onResponseReceivedActions"`
}

func matchContinuation(raw json.RawMessage, _ ListingKind) ([]json.RawMessage, bool) {
	var page continuationPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false
	}
	return entriesFromActions(page.OnResponseReceivedActions)
}
