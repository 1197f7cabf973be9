package innertube

import (
	"encoding/json"
	"strings"
)

// one listing row. videos and shorts wrap their id under different
// renderers, so both arms are modeled and the kind picks which one must
// be present.
type listingEntry struct {
	RichItemRenderer *struct {
		Content *struct {
			VideoRenderer *struct {
				VideoId string `json:"videoId"`
			} `json:"videoRenderer"`
			ShortsLockupViewModel *struct {
				OnTap *struct {
					InnertubeCommand *struct {
						CommandMetadata *struct {
							WebCommandMetadata *struct {
								Url string `json:"url"`
							} `json:"webCommandMetadata"`
						} `json:"commandMetadata"`
					} `json:"innertubeCommand"`
				} `json:"onTap"`
			} `json:"shortsLockupViewModel"`
		} `json:"content"`
	} `json:"richItemRenderer"`
}

// MapEntry projects one listing entry to its canonical reference path.
// Returns false when the entry doesn't carry the expected renderer for
// the kind; a single malformed entry is dropped by callers, never fatal
// to the page.
func MapEntry(entry json.RawMessage, kind ListingKind) (string, bool) {
	var row listingEntry
	if err := json.Unmarshal(entry, &row); err != nil {
		return "", false
	}
	if row.RichItemRenderer == nil || row.RichItemRenderer.Content == nil {
		return "", false
	}
	content := row.RichItemRenderer.Content

	switch kind {
	case KindShorts:
		lockup := content.ShortsLockupViewModel
		if lockup == nil || lockup.OnTap == nil ||
			lockup.OnTap.InnertubeCommand == nil ||
			lockup.OnTap.InnertubeCommand.CommandMetadata == nil ||
			lockup.OnTap.InnertubeCommand.CommandMetadata.WebCommandMetadata == nil {
			return "", false
		}
		target := lockup.OnTap.InnertubeCommand.CommandMetadata.WebCommandMetadata.Url
		id := target[strings.LastIndex(target, "/")+1:]
		if id == "" {
			return "", false
		}
		return kind.Ref(id), true

	default:
		if content.VideoRenderer == nil || content.VideoRenderer.VideoId == "" {
			return "", false
		}
		return kind.Ref(content.VideoRenderer.VideoId), true
	}
}
