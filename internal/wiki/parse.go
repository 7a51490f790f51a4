package wiki

import (
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"

	"github.com/hsrdle/datagen/internal/errors"
)

// Infobox markup used by the fandom portable infobox.
const (
	infoboxClass = "portable-infobox"
	itemClass    = "pi-item"
	labelClass   = "pi-data-label"
	valueClass   = "pi-data-value"
)

// Label substrings, checked in this order.
const (
	labelSpecies  = "species"
	labelRelease  = "release date"
	labelFactions = "factions"
)

// ParseAttributes extracts attributes from a wiki page. found is false when
// the page has no infobox, in which case the defaults are returned. A release
// date section without a <span> is a parse error.
func ParseAttributes(r io.Reader) (attrs Attributes, found bool, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return DefaultAttributes(), false, errors.New(err).
			Component("wiki").
			Category(errors.CategoryWikiScrape).
			Context("operation", "parse_html").
			Build()
	}

	attrs = DefaultAttributes()

	infobox := findFirst(doc, "aside", infoboxClass)
	if infobox == nil {
		return attrs, false, nil
	}

	fold := cases.Fold()
	for _, item := range findAll(infobox, "div", itemClass) {
		labelNode := findFirst(item, "h3", labelClass)
		valueNode := findFirst(item, "div", valueClass)
		if labelNode == nil || valueNode == nil {
			continue
		}

		label := fold.String(strings.TrimSpace(nodeText(labelNode)))

		switch {
		case strings.Contains(label, labelSpecies):
			attrs.Species = strings.TrimSpace(nodeText(valueNode))
		case strings.Contains(label, labelRelease):
			span := findFirst(valueNode, "span", "")
			if span == nil {
				return DefaultAttributes(), true, errors.Newf("release date section has no span").
					Component("wiki").
					Category(errors.CategoryWikiScrape).
					Context("label", label).
					Build()
			}
			attrs.Release = strings.TrimSpace(nodeText(span))
		case strings.Contains(label, labelFactions):
			var factions []string
			for _, li := range findAll(valueNode, "li", "") {
				factions = append(factions, strings.TrimSpace(nodeText(li)))
			}
			attrs.Affiliation = dedupe(factions)
		}
	}

	return attrs, true, nil
}

// dedupe drops empty strings and repeats, keeping first-seen order. The
// result is never nil.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// hasClass reports whether n carries class among its space separated classes.
// An empty class matches any element.
func hasClass(n *html.Node, class string) bool {
	if class == "" {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" && slices.Contains(strings.Fields(attr.Val), class) {
			return true
		}
	}
	return false
}

func matches(n *html.Node, tag, class string) bool {
	return n.Type == html.ElementNode && n.Data == tag && hasClass(n, class)
}

// findFirst returns the first descendant of root matching tag and class, in
// document order.
func findFirst(root *html.Node, tag, class string) *html.Node {
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if matches(child, tag, class) {
			return child
		}
		if found := findFirst(child, tag, class); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant of root matching tag and class.
func findAll(root *html.Node, tag, class string) []*html.Node {
	var nodes []*html.Node

	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if matches(child, tag, class) {
				nodes = append(nodes, child)
			}
			traverse(child)
		}
	}

	traverse(root)
	return nodes
}

// nodeText concatenates the text of every descendant of n, with no
// whitespace normalization. Link text is kept and hrefs are dropped.
func nodeText(n *html.Node) string {
	var b strings.Builder

	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				b.WriteString(child.Data)
				continue
			}
			traverse(child)
		}
	}

	traverse(n)
	return b.String()
}
