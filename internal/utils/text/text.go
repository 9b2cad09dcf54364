// Package text cleans the rich-text HTML that administrators write in news
// bodies and the municipality pages, and derives plain-text excerpts from it.
package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockedElements are removed together with their content.
const blockedElements = "script, style, iframe, object, embed, form, input, button, link, meta, base"

// urlAttributes must not carry a script URL.
var urlAttributes = map[string]bool{"href": true, "src": true, "action": true, "formaction": true, "xlink:href": true}

// CountRunes counts Unicode characters, not bytes.
func CountRunes(text string) int {
	return len([]rune(text))
}

// SanitizeHTML strips executable content from fragment: blocked elements,
// on* event handler attributes and javascript:/vbscript:/data: URLs.
// The returned HTML is the cleaned body content.
func SanitizeHTML(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	doc.Find(blockedElements).Remove()
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			kept := node.Attr[:0]
			for _, attr := range node.Attr {
				name := strings.ToLower(attr.Key)
				if strings.HasPrefix(name, "on") {
					continue
				}
				if urlAttributes[name] && unsafeURL(attr.Val) {
					continue
				}
				kept = append(kept, attr)
			}
			node.Attr = kept
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func unsafeURL(v string) bool {
	v = strings.ToLower(strings.Join(strings.Fields(v), ""))
	return strings.HasPrefix(v, "javascript:") ||
		strings.HasPrefix(v, "vbscript:") ||
		strings.HasPrefix(v, "data:")
}

// PlainText returns the visible text of fragment with whitespace collapsed.
func PlainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns at most maxRunes characters of the plain text of fragment,
// cut at a word boundary and ending in "…" when shortened.
func Excerpt(fragment string, maxRunes int) string {
	plain := PlainText(fragment)
	if maxRunes <= 0 || CountRunes(plain) <= maxRunes {
		return plain
	}
	runes := []rune(plain)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
