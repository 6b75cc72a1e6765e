// Package rawtree turns raw activity-report markup into a generic
// attributed tree.
//
// The external report format allows most elements to appear once or many
// times under the same parent, so the tree keeps children as an ordered
// sequence and exposes both First and All accessors. Callers must never
// assume cardinality.
package rawtree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Attr is a single attribute on a node. Values are kept as text; coded
// positions that are known to be numeric can ask for a number explicitly.
type Attr struct {
	Name  string
	Value string
}

// Number reports the attribute value as a float64 when it parses as one.
// Codes must not be routed through here: "01110" and "1110" are different
// tokens and numeric comparison would conflate them.
func (a Attr) Number() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Node is a generic tree node with the namespace prefix stripped from the
// element name. Text is trimmed; empty means absent.
type Node struct {
	Name  string
	Attrs []Attr
	Elems []*Node
	Text  string
}

// Attr returns the named attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// First returns the first child element with the given name in document
// order, or nil when none exists.
func (n *Node) First(name string) *Node {
	for _, c := range n.Elems {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child element with the given name in document order.
func (n *Node) All(name string) []*Node {
	var out []*Node
	for _, c := range n.Elems {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Parse normalizes raw report text into a Node tree rooted at the document
// element. A well-formed document with no root element (declaration only)
// yields an empty node rather than an error; structural completeness is the
// extractor's concern, not the parser's.
func Parse(text string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	root := &Node{}
	stack := []*Node{root}
	texts := []*strings.Builder{{}}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				// Namespace declarations are markup plumbing, not data.
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				node.Attrs = append(node.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			parent := stack[len(stack)-1]
			parent.Elems = append(parent.Elems, node)
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})

		case xml.EndElement:
			node := stack[len(stack)-1]
			node.Text = strings.TrimSpace(texts[len(texts)-1].String())
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]

		case xml.CharData:
			texts[len(texts)-1].Write(t)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: unclosed element %q", ErrMalformed, stack[len(stack)-1].Name)
	}

	if len(root.Elems) == 0 {
		// Declaration-only document: a valid, empty tree.
		return &Node{}, nil
	}
	return root.Elems[0], nil
}
