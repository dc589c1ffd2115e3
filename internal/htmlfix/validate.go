package htmlfix

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var structuralTags = map[atom.Atom]bool{
	atom.Div:     true,
	atom.H2:      true,
	atom.H3:      true,
	atom.H4:      true,
	atom.P:       true,
	atom.Ul:      true,
	atom.Ol:      true,
	atom.Li:      true,
	atom.Table:   true,
	atom.Thead:   true,
	atom.Tbody:   true,
	atom.Tr:      true,
	atom.Th:      true,
	atom.Td:      true,
	atom.Details: true,
	atom.Summary: true,
	atom.Pre:     true,
}

// Validate reports whether markup is a well-formed section fragment: all
// structural tags balanced, a single section container carrying the topic
// id, exactly one h2 heading, and a header group plus body group in every
// table. Content semantics are not checked.
func Validate(markup string) bool {
	return balanced(markup) && wellStructured(markup)
}

// balanced runs a raw token scan so unclosed or misnested tags are caught
// before the tolerant parser papers over them.
func balanced(markup string) bool {
	z := html.NewTokenizer(strings.NewReader(markup))
	var stack []atom.Atom
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return len(stack) == 0
			}
			return false
		case html.StartTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); structuralTags[a] {
				stack = append(stack, a)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); structuralTags[a] {
				if len(stack) == 0 || stack[len(stack)-1] != a {
					return false
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
}

func wellStructured(markup string) bool {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext())
	if err != nil {
		return false
	}

	var root *html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return false
			}
		case html.CommentNode:
		case html.ElementNode:
			if root != nil {
				return false
			}
			root = n
		default:
			return false
		}
	}
	if root == nil || !isSectionWrapper(root) || !strings.HasPrefix(attrValue(root, "id"), "section-") {
		return false
	}

	headings := 0
	ok := true
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H2:
				headings++
				if strings.TrimSpace(textContent(n)) == "" {
					ok = false
				}
			case atom.Table:
				if !hasChild(n, atom.Thead) || !hasChild(n, atom.Tbody) {
					ok = false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return ok && headings == 1
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasChild(n *html.Node, a atom.Atom) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return true
		}
	}
	return false
}
