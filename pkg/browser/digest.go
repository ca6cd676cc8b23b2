package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DefaultDigestLength bounds the markup kept in a page digest.
const DefaultDigestLength = 20000

// PageDigest is a compact, readable rendering of a page used in failure
// snapshots. Scripts, styles and vector paths are dropped; element classes and
// ids are kept so a broken locator can be matched against what was on screen.
type PageDigest struct {
	Title     string
	Markup    string
	Truncated bool
}

// digestHTML parses rawHTML and renders its digest, stopping after maxLength
// bytes of output.
func digestHTML(rawHTML string, maxLength int) (*PageDigest, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if maxLength <= 0 {
		maxLength = DefaultDigestLength
	}

	w := &digestWriter{limit: maxLength}
	w.node(doc, 0)

	return &PageDigest{
		Title:     findTitle(doc),
		Markup:    strings.TrimSpace(w.b.String()),
		Truncated: w.full,
	}, nil
}

type digestWriter struct {
	b     strings.Builder
	limit int
	full  bool
}

func (w *digestWriter) write(s string) {
	if w.full {
		return
	}
	if w.b.Len()+len(s) > w.limit {
		cut := w.limit - w.b.Len()
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		w.b.WriteString(s[:cut])
		w.b.WriteString("...")
		w.full = true
		return
	}
	w.b.WriteString(s)
}

func (w *digestWriter) node(n *html.Node, depth int) {
	if w.full {
		return
	}
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			w.write(text)
		}
		return
	case html.ElementNode:
		w.element(n, depth)
		return
	}
	w.children(n, depth)
}

func (w *digestWriter) children(n *html.Node, depth int) {
	for c := n.FirstChild; c != nil && !w.full; c = c.NextSibling {
		w.node(c, depth)
	}
}

func (w *digestWriter) element(n *html.Node, depth int) {
	tag := strings.ToLower(n.Data)
	if droppedElements[tag] {
		return
	}

	block := blockElements[tag]
	if block && depth > 0 {
		w.write("\n" + strings.Repeat("  ", depth))
	}

	var open strings.Builder
	open.WriteString("<" + tag)
	for _, attr := range n.Attr {
		if keepAttribute(tag, strings.ToLower(attr.Key)) {
			fmt.Fprintf(&open, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
		}
	}
	open.WriteString(">")
	w.write(open.String())

	if voidElements[tag] {
		return
	}
	w.children(n, depth+1)
	if block {
		w.write("\n" + strings.Repeat("  ", depth))
	}
	w.write("</" + tag + ">")
}

// droppedElements never appear in a digest, nor do their children.
var droppedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"path":     true,
	"circle":   true,
	"rect":     true,
	"polygon":  true,
	"line":     true,
	"defs":     true,
}

var blockElements = map[string]bool{
	"body":    true,
	"div":     true,
	"p":       true,
	"section": true,
	"article": true,
	"header":  true,
	"footer":  true,
	"nav":     true,
	"main":    true,
	"aside":   true,
	"ul":      true,
	"ol":      true,
	"li":      true,
	"table":   true,
	"tr":      true,
	"video":   true,
	"h1":      true,
	"h2":      true,
	"h3":      true,
	"h4":      true,
}

var voidElements = map[string]bool{
	"br":     true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"meta":   true,
	"link":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// keepAttribute reports whether attr helps match a locator against the
// digest.
func keepAttribute(tag, attr string) bool {
	switch attr {
	case "id", "class", "role", "aria-label", "title":
		return true
	}
	if strings.HasPrefix(attr, "data-") {
		return true
	}
	switch tag {
	case "a":
		return attr == "href"
	case "video", "source", "img":
		return attr == "src"
	case "input", "button":
		return attr == "type" || attr == "name"
	}
	return false
}

// findTitle returns the text of the first <title> element.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
