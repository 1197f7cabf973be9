package htmlutil

import (
	"bytes"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FindScriptSubmatch scans every <script> tag in the document and returns
// the first capture group of the first script whose text matches the given
// expression. Pages embed their bootstrap state as inline javascript
// assignments, so this is the workhorse for pulling JSON blobs out of html.
func FindScriptSubmatch(doc *goquery.Document, expr *regexp.Regexp) string {
	for _, script := range doc.Find("script").Nodes {
		text := GetText(script)
		groups := expr.FindStringSubmatch(text)
		if len(groups) < 2 {
			continue
		}
		return groups[1]
	}
	return ""
}
