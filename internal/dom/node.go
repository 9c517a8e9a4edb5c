package dom

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
)

// multiValued lists attributes whose values are whitespace separated lists.
var multiValued = map[string]bool{
	"class":          true,
	"rel":            true,
	"rev":            true,
	"accept-charset": true,
	"headers":        true,
	"accesskey":      true,
	"dropzone":       true,
}

// Node implements Element over an x/net/html node.
type Node struct {
	n *html.Node
}

// Wrap returns an Element for n, or nil when n is nil or is not an element
// or document node.
func Wrap(n *html.Node) Element {
	if !isElement(n) {
		return nil
	}
	return &Node{n: n}
}

// HTMLNode returns the backing node of e when e is backed by x/net/html.
func HTMLNode(e Element) (*html.Node, bool) {
	node, ok := e.(*Node)
	if !ok || node == nil {
		return nil, false
	}
	return node.n, true
}

func isElement(n *html.Node) bool {
	return n != nil && (n.Type == html.ElementNode || n.Type == html.DocumentNode)
}

// HTML returns the backing node.
func (e *Node) HTML() *html.Node {
	return e.n
}

// Name returns the tag name.
func (e *Node) Name() string {
	if e.n.Type == html.DocumentNode {
		return ""
	}
	return e.n.Data
}

// Children yields element children, skipping text and comment nodes.
func (e *Node) Children() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for c := e.n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if !yield(&Node{n: c}) {
				return
			}
		}
	}
}

// Descendants yields element descendants in document order.
func (e *Node) Descendants() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		var walk func(*html.Node) bool
		walk = func(n *html.Node) bool {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode {
					continue
				}
				if !yield(&Node{n: c}) {
					return false
				}
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(e.n)
	}
}

// NextSiblings returns following element siblings.
func (e *Node) NextSiblings(limit int) []Element {
	var out []Element
	for s := e.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode {
			continue
		}
		out = append(out, &Node{n: s})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Ancestors returns enclosing nodes innermost first.
func (e *Node) Ancestors(limit int) []Element {
	var out []Element
	for p := e.n.Parent; p != nil; p = p.Parent {
		if !isElement(p) {
			continue
		}
		out = append(out, &Node{n: p})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Parent returns the enclosing element.
func (e *Node) Parent() Element {
	return Wrap(e.n.Parent)
}

// Attribute returns the attribute value by key.
func (e *Node) Attribute(name string) (string, bool) {
	for _, attr := range e.n.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// AttributeValues returns the attribute value as a list.
func (e *Node) AttributeValues(name string) []string {
	val, ok := e.Attribute(name)
	if !ok {
		return nil
	}
	if multiValued[name] {
		return strings.Fields(val)
	}
	return []string{val}
}

// Text joins descendant text runs.
func (e *Node) Text(separator string, strip bool) string {
	var parts []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := n.Data
			if strip {
				text = strings.TrimSpace(text)
				if text == "" {
					return
				}
			}
			parts = append(parts, text)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(e.n)
	return strings.Join(parts, separator)
}

// SoleText follows single-child nesting down to one text run.
func (e *Node) SoleText() (string, bool) {
	n := e.n
	for {
		c := n.FirstChild
		if c == nil || c.NextSibling != nil {
			return "", false
		}
		switch c.Type {
		case html.TextNode:
			return c.Data, true
		case html.ElementNode:
			n = c
		default:
			return "", false
		}
	}
}

// Key returns the identity of the backing node.
func (e *Node) Key() Key {
	return NewKey(e.n)
}

// String renders a short description used in error messages.
func (e *Node) String() string {
	if e.n.Type == html.DocumentNode {
		return "[document]"
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.n.Data)
	for _, attr := range e.n.Attr {
		b.WriteString(" ")
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attr.Val)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	return b.String()
}
