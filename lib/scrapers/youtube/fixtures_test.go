package youtube

import (
	"fmt"
	"strings"

	"tubelist/lib/scrapers/youtube/innertube"
)

func videoEntryJson(id string) string {
	return fmt.Sprintf(
		`{"richItemRenderer":{"content":{"videoRenderer":{"videoId":%q}}}}`,
		id,
	)
}

func shortEntryJson(id string) string {
	return fmt.Sprintf(
		`{"richItemRenderer":{"content":{"shortsLockupViewModel":{"onTap":{"innertubeCommand":{"commandMetadata":{"webCommandMetadata":{"url":"/shorts/%s"}}}}}}}}`,
		id,
	)
}

func continuationEntryJson(token string) string {
	return fmt.Sprintf(
		`{"continuationItemRenderer":{"continuationEndpoint":{"continuationCommand":{"token":%q}}}}`,
		token,
	)
}

// the embedded page state places the videos listing in tab 1 and the
// shorts listing in tab 2
func tabPageJson(kind innertube.ListingKind, entries ...string) string {
	tabs := []string{`{}`, `{}`, `{}`}
	idx := 1
	if kind == innertube.KindShorts {
		idx = 2
	}
	tabs[idx] = fmt.Sprintf(
		`{"tabRenderer":{"content":{"richGridRenderer":{"contents":[%s]}}}}`,
		strings.Join(entries, ","),
	)
	return fmt.Sprintf(
		`{"contents":{"twoColumnBrowseResultsRenderer":{"tabs":[%s]}}}`,
		strings.Join(tabs, ","),
	)
}

func continuationPageJson(entries ...string) string {
	return fmt.Sprintf(
		`{"onResponseReceivedActions":[{"appendContinuationItemsAction":{"continuationItems":[%s]}}]}`,
		strings.Join(entries, ","),
	)
}

func legacyContinuationPageJson(entries ...string) string {
	return fmt.Sprintf(
		`[{},{"response":{"onResponseReceivedActions":[{"appendContinuationItemsAction":{"continuationItems":[%s]}}]}}]`,
		strings.Join(entries, ","),
	)
}

func channelPageHtml(apiKey, clientVersion, initialData string) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><title>channel</title>`)
	if apiKey != "" {
		sb.WriteString(fmt.Sprintf(
			`<script>ytcfg.set({"INNERTUBE_API_KEY":%q,"INNERTUBE_CONTEXT_CLIENT_VERSION":%q});</script>`,
			apiKey, clientVersion,
		))
	}
	sb.WriteString(`</head><body><div id="app"></div>`)
	sb.WriteString(`<script>var ytInitialData = ` + initialData + `;</script>`)
	sb.WriteString(`</body></html>`)
	return sb.String()
}
