// Package htmlfix normalizes model-generated markup into the section
// fragment shape the final document expects: one enclosing
// <div class="section" id="section-N"> holding exactly one <h2> heading,
// balanced content tags, and tables with both a <thead> and a <tbody>.
package htmlfix

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Repair coerces near-valid markup into a well-formed section fragment. It
// is total and deterministic: any input, including empty strings and plain
// text, yields a fragment that Validate accepts. Applying it twice yields
// the same output as applying it once.
func Repair(markup string, topicID int, title string) string {
	heading := fmt.Sprintf("%d. %s", topicID, title)
	content := parseContent(stripFences(markup), heading, title)
	for _, n := range content {
		fixTables(n)
	}

	section := newElement(atom.Div, "div")
	section.Attr = []html.Attribute{
		{Key: "class", Val: "section"},
		{Key: "id", Val: fmt.Sprintf("section-%d", topicID)},
	}
	h2 := newElement(atom.H2, "h2")
	h2.AppendChild(&html.Node{Type: html.TextNode, Data: heading})
	section.AppendChild(h2)
	for _, n := range content {
		section.AppendChild(n)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, section); err != nil {
		// Render only fails on writer errors, which bytes.Buffer never
		// produces; keep a minimal fallback anyway.
		return fmt.Sprintf(`<div class="section" id="section-%d"><h2>%s</h2></div>`,
			topicID, html.EscapeString(heading))
	}
	return buf.String()
}

// stripFences removes markdown code-fence markers the model sometimes wraps
// around its output.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```html", "")
	text = strings.ReplaceAll(text, "```", "")
	return text
}

// parseContent parses the markup tolerantly and returns the body nodes of
// the section: existing section wrappers are unwrapped, heading echoes are
// dropped, stray top-level text is promoted into paragraphs.
func parseContent(markup, heading, title string) []*html.Node {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext())
	if err != nil {
		return nil
	}
	var out []*html.Node
	for _, n := range nodes {
		out = append(out, extract(n, heading, title)...)
	}
	return out
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
}

func newElement(a atom.Atom, data string) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: data}
}

func extract(n *html.Node, heading, title string) []*html.Node {
	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" || matchesHeading(text, heading, title) {
			return nil
		}
		p := newElement(atom.P, "p")
		p.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		return []*html.Node{p}
	case html.ElementNode:
		if isSectionWrapper(n) {
			var out []*html.Node
			for c := n.FirstChild; c != nil; {
				next := c.NextSibling
				n.RemoveChild(c)
				out = append(out, extract(c, heading, title)...)
				c = next
			}
			return out
		}
		if n.DataAtom == atom.H1 || n.DataAtom == atom.H2 {
			if matchesHeading(strings.TrimSpace(textContent(n)), heading, title) {
				return nil
			}
			// The canonical h2 is rebuilt by Repair; any other top
			// heading becomes a subsection heading.
			demoteHeading(n)
		}
		if n.DataAtom == atom.P && matchesHeading(strings.TrimSpace(textContent(n)), heading, title) {
			return nil
		}
		normalizeHeadings(n, heading, title)
		return []*html.Node{n}
	default:
		return nil
	}
}

// normalizeHeadings removes or demotes h1/h2 descendants so the rebuilt
// fragment ends up with exactly one h2.
func normalizeHeadings(n *html.Node, heading, title string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && (c.DataAtom == atom.H1 || c.DataAtom == atom.H2) {
			if matchesHeading(strings.TrimSpace(textContent(c)), heading, title) {
				n.RemoveChild(c)
				c = next
				continue
			}
			demoteHeading(c)
		}
		normalizeHeadings(c, heading, title)
		c = next
	}
}

func demoteHeading(n *html.Node) {
	n.DataAtom = atom.H3
	n.Data = "h3"
}

func isSectionWrapper(n *html.Node) bool {
	if n.DataAtom != atom.Div {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "id" && strings.HasPrefix(a.Val, "section-") {
			return true
		}
		if a.Key == "class" {
			for _, cls := range strings.Fields(a.Val) {
				if cls == "section" {
					return true
				}
			}
		}
	}
	return false
}

func matchesHeading(text, heading, title string) bool {
	return strings.EqualFold(text, heading) || strings.EqualFold(text, title)
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// fixTables guarantees every table carries a header group and a body group.
func fixTables(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		fixTable(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fixTables(c)
	}
}

func fixTable(table *html.Node) {
	var thead, tbody *html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch c.DataAtom {
		case atom.Thead:
			if thead == nil {
				thead = c
			}
		case atom.Tbody:
			if tbody == nil {
				tbody = c
			}
		}
	}
	if thead == nil {
		thead = newElement(atom.Thead, "thead")
		if tbody != nil {
			if first := firstRow(tbody); first != nil {
				tbody.RemoveChild(first)
				thead.AppendChild(first)
			}
		}
		table.InsertBefore(thead, firstRowGroup(table))
	}
	if tbody == nil {
		tbody = newElement(atom.Tbody, "tbody")
		table.AppendChild(tbody)
	}
}

func firstRow(group *html.Node) *html.Node {
	for c := group.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Tr {
			return c
		}
	}
	return nil
}

func firstRowGroup(table *html.Node) *html.Node {
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch c.DataAtom {
		case atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr:
			return c
		}
	}
	return nil
}
