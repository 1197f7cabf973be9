package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tubelist/lib/osutil"
	"tubelist/lib/scrapers/youtube"
	"tubelist/lib/scrapers/youtube/innertube"

	"github.com/jedib0t/go-pretty/v6/table"
)

// untilRef lets the --until flag take either a bare item id or a full
// reference path.
func untilRef(kind innertube.ListingKind, value string) string {
	if strings.HasPrefix(value, "/") {
		return value
	}
	return kind.Ref(value)
}

func runListing(ctx context.Context, rawUrl string, kind innertube.ListingKind, until string, limit int, countOnly bool) {
	client := newClient()
	channel, err := youtube.NewChannel(client, rawUrl)
	if err != nil {
		osutil.Fatal("failed to parse channel url", err)
	}

	listing := channel.Videos()
	if kind == innertube.KindShorts {
		listing = channel.Shorts()
	}
	if until != "" {
		listing = listing.Until(untilRef(kind, until))
	}

	t1 := time.Now()
	var refs []string
	it := listing.Iter()
	for it.Next(ctx) {
		refs = append(refs, it.Value())
		if limit > 0 && len(refs) >= limit {
			break
		}
	}
	if it.Err() != nil {
		osutil.Fatal("failed to walk listing", it.Err())
	}
	t2 := time.Now()

	slog.Info(
		"walked listing",
		"channel", channel.Uri(),
		"kind", kind,
		"status", listing.Status(),
		"items", len(refs),
		"seconds", t2.Sub(t1).Seconds(),
	)

	if countOnly {
		fmt.Println(len(refs))
		return
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "Url"})
	for i, ref := range refs {
		t.AppendRow(table.Row{i + 1, youtube.WatchUrl(ref)})
	}
	t.Render()
}
