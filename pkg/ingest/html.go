package ingest

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/portaldeleis/lexbr/pkg/legaldoc"
)

// ParseHTML extracts the legislative text of a planalto-style page and
// parses it into records. Each <p> block becomes one candidate line.
// Struck-through content is dropped: on the planalto pages it marks revoked
// or superseded wording.
func (p *Parser) ParseHTML(r io.Reader) ([]legaldoc.Record, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return p.ParseLines(paragraphLines(root))
}

// ParseHTMLDocument runs ParseHTML and builds the validated document.
func (p *Parser) ParseHTMLDocument(title string, r io.Reader) (*legaldoc.Document, error) {
	records, err := p.ParseHTML(r)
	if err != nil {
		return nil, err
	}
	return legaldoc.Build(title, records)
}

// paragraphLines collects the visible text of every <p> element in document
// order, skipping struck-through, scripted, and styled content.
func paragraphLines(root *html.Node) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "strike", "s", "del", "script", "style":
				return
			case "p":
				if text := CleanText(nodeText(n)); text != "" {
					lines = append(lines, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return lines
}

// nodeText concatenates the text content of n, excluding struck-through
// descendants.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "strike", "s", "del", "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
