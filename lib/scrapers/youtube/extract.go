package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"tubelist/lib/htmlutil"
	"tubelist/lib/scrapers/youtube/innertube"

	"github.com/PuerkitoBio/goquery"
)

var NoInitialData = fmt.Errorf("youtube: initial data not found in page")

// the page state assignment has moved between these two spellings over
// the years. both are still seen in the wild.
var initialDataMarkers = []*regexp.Regexp{
	regexp.MustCompile(`window\[['"]ytInitialData['"]\]\s*=\s*`),
	regexp.MustCompile(`ytInitialData\s*=\s*`),
}

var apiKeyRegex = regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`)
var clientVersionRegex = regexp.MustCompile(`"INNERTUBE_CONTEXT_CLIENT_VERSION"\s*:\s*"([^"]+)"`)

func extractChannelPage(body []byte) (channelPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return channelPage{}, err
	}

	initialData, err := extractInitialData(doc)
	if err != nil {
		return channelPage{}, err
	}

	return channelPage{
		InitialData: initialData,
		Params: innertube.PageParams{
			APIKey:        htmlutil.FindScriptSubmatch(doc, apiKeyRegex),
			ClientVersion: htmlutil.FindScriptSubmatch(doc, clientVersionRegex),
		},
	}, nil
}

func extractInitialData(doc *goquery.Document) (json.RawMessage, error) {
	for _, script := range doc.Find("script").Nodes {
		text := htmlutil.GetText(script)
		for _, marker := range initialDataMarkers {
			loc := marker.FindStringIndex(text)
			if loc == nil {
				continue
			}
			object, ok := readObject(text[loc[1]:])
			if !ok {
				continue
			}
			return json.RawMessage(object), nil
		}
	}
	return nil, NoInitialData
}

// readObject returns the balanced json object or array at the start of
// text. Splitting on a terminator like "};" breaks as soon as a string
// value contains one, so this tracks nesting depth and string state
// instead.
func readObject(text string) (string, bool) {
	if text == "" || (text[0] != '{' && text[0] != '[') {
		return "", false
	}

	depth := 0
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[:i+1], true
			}
		}
	}
	return "", false
}
