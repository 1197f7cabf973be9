package innertube

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

type continuationMarker struct {
	ContinuationItemRenderer *struct {
		ContinuationEndpoint *struct {
			ContinuationCommand *struct {
				Token string `json:"token"`
			} `json:"continuationCommand"`
		} `json:"continuationEndpoint"`
	} `json:"continuationItemRenderer"`
}

// SplitContinuation checks whether the trailing entry of a listing is a
// continuation marker. If it is, the marker is removed and its token
// returned; otherwise the entries come back unchanged with an empty
// token. Only the last entry is ever inspected: the upstream appends the
// marker after the real items, and a marker anywhere else would not
// belong to this page. A trailing entry that looks odd but doesn't match
// the marker shape means the page is final.
func SplitContinuation(entries []json.RawMessage) ([]json.RawMessage, string) {
	if len(entries) == 0 {
		return entries, ""
	}

	var marker continuationMarker
	err := json.Unmarshal(entries[len(entries)-1], &marker)
	if err != nil {
		return entries, ""
	}
	if marker.ContinuationItemRenderer == nil ||
		marker.ContinuationItemRenderer.ContinuationEndpoint == nil ||
		marker.ContinuationItemRenderer.ContinuationEndpoint.ContinuationCommand == nil {
		return entries, ""
	}
	token := marker.ContinuationItemRenderer.ContinuationEndpoint.ContinuationCommand.Token
	if token == "" {
		return entries, ""
	}
	return entries[:len(entries)-1], token
}

// ValidTokenShape reports whether a continuation token decodes as
// base64-wrapped protobuf, which every real token does. Diagnostic only:
// the pagination path always trusts whatever token the upstream handed
// back, this just lets callers flag tokens that cannot possibly work.
func ValidTokenShape(token string) bool {
	if token == "" {
		return false
	}

	trimmed := strings.TrimRight(token, "=")
	data, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(trimmed)
		if err != nil {
			return false
		}
	}
	if len(data) == 0 {
		return false
	}

	for len(data) > 0 {
		_, _, n := protowire.ConsumeField(data)
		if n < 0 {
			return false
		}
		data = data[n:]
	}
	return true
}
