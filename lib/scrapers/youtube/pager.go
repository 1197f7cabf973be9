package youtube

import (
	"context"
	"encoding/json"
	"log/slog"

	"tubelist/lib/scrapers/youtube/innertube"
)

// ListingStatus reports why a listing stopped producing entries. Only
// transport and extraction failures surface as errors; running off the
// end of the data, in whatever way, is a status.
type ListingStatus int

const (
	// more pages may be available
	StatusWalking ListingStatus = iota
	// the site stopped handing out continuation tokens
	StatusExhausted
	// the walk reached the reference given to Until
	StatusBoundary
	// a page arrived in none of the known shapes
	StatusUnresolvable
)

func (s ListingStatus) String() string {
	switch s {
	case StatusWalking:
		return "walking"
	case StatusExhausted:
		return "exhausted"
	case StatusBoundary:
		return "boundary"
	case StatusUnresolvable:
		return "unresolvable"
	}
	return "unknown"
}

// listingPager turns the paged browse protocol into a pull of batches.
// It owns the continuation token, the page-to-page duplicate filter and
// the stop conditions; fetching is delegated so the walk logic stays
// independent of the http client.
type listingPager struct {
	fetchInitial func(ctx context.Context) (json.RawMessage, innertube.PageParams, error)
	fetchMore    func(ctx context.Context, req innertube.BrowseRequest) (json.RawMessage, error)
	kind         innertube.ListingKind
	boundary     string

	started bool
	token   string
	params  innertube.PageParams
	seen    map[string]struct{}
	status  ListingStatus
	err     error
}

// nextBatch returns the references of the next page. ok is false once
// the walk has ended; a batch may be empty with ok still true when a
// page contained only duplicates. A fetch error is remembered and
// returned again on every later call.
func (p *listingPager) nextBatch(ctx context.Context) ([]string, bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	if p.status != StatusWalking {
		return nil, false, nil
	}

	var raw json.RawMessage
	var err error
	if !p.started {
		p.started = true
		raw, p.params, err = p.fetchInitial(ctx)
	} else {
		raw, err = p.fetchMore(ctx, innertube.NewBrowseRequest(p.token, p.params))
	}
	if err != nil {
		p.err = err
		return nil, false, err
	}

	entries, ok := innertube.ResolveListing(raw, p.kind)
	if !ok {
		p.status = StatusUnresolvable
		slog.DebugContext(
			ctx, "listing page shape not recognized",
			"kind", p.kind.String(), "head", payloadHead(raw),
		)
		return nil, false, nil
	}

	entries, token := innertube.SplitContinuation(entries)

	var batch []string
	for _, entry := range entries {
		ref, ok := innertube.MapEntry(entry, p.kind)
		if !ok {
			slog.DebugContext(ctx, "dropping unmappable listing entry", "kind", p.kind.String())
			continue
		}
		if _, dup := p.seen[ref]; dup {
			continue
		}
		p.seen[ref] = struct{}{}

		if p.boundary != "" && ref == p.boundary {
			p.status = StatusBoundary
			return batch, true, nil
		}
		batch = append(batch, ref)
	}

	// a token that doesn't decode as protobuf is still sent, the
	// upstream is the only authority on its own tokens, but it usually
	// means the marker shape drifted and the next fetch will come back
	// unresolvable
	if token != "" && !innertube.ValidTokenShape(token) {
		slog.WarnContext(
			ctx, "continuation token has an unexpected shape",
			"kind", p.kind.String(), "token_length", len(token),
		)
	}

	p.token = token
	if token == "" {
		p.status = StatusExhausted
	}
	return batch, true, nil
}

func payloadHead(raw json.RawMessage) string {
	const limit = 120
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
