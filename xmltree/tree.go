// Package xmltree provides a small mutable XML tree that round-trips
// namespaced documents such as WordprocessingML without rewriting prefixes.
//
// encoding/xml translates prefixes into namespace URLs on decode and invents
// its own prefixes on encode, which breaks Office parts. This package reads
// raw tokens instead, keeps every name exactly as written, and serializes it
// back the same way.
//
// Nodes do not store parent pointers. Traversal hands each visited node the
// chain of its ancestors (a Path), and ancestor lookups walk that chain,
// checking at every step that the link is still live.
package xmltree

import (
	"encoding/xml"
	"strings"
)

// NodeType identifies the kind of a Node.
type NodeType int

const (
	// ElementNode is an element with a name, attributes and children.
	ElementNode NodeType = iota
	// TextNode holds character data.
	TextNode
	// CommentNode holds the body of a comment.
	CommentNode
	// ProcInstNode is a processing instruction such as the XML declaration.
	ProcInstNode
	// DirectiveNode is a <!...> directive.
	DirectiveNode
)

// String returns a readable name for the node type.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "procinst"
	case DirectiveNode:
		return "directive"
	default:
		return "unknown"
	}
}

// Node is a single node of the tree.
//
// For elements and attributes, Name.Space holds the prefix as written in the
// source (for example "w"), not a namespace URL.
type Node struct {
	Type     NodeType
	Name     xml.Name
	Attr     []xml.Attr
	Data     string // text, comment, directive body, or procinst instruction
	Target   string // procinst target
	Children []*Node
}

// Document is a parsed XML document. Children holds the top-level nodes in
// order: the XML declaration, comments, and the single root element.
type Document struct {
	Children []*Node
}

// Root returns the document element, or nil if there is none.
func (d *Document) Root() *Node {
	for _, n := range d.Children {
		if n.Type == ElementNode {
			return n
		}
	}
	return nil
}

// NewElement creates an element named prefix:local. An empty prefix creates
// an unprefixed element.
func NewElement(prefix, local string, attrs ...xml.Attr) *Node {
	return &Node{
		Type: ElementNode,
		Name: xml.Name{Space: prefix, Local: local},
		Attr: attrs,
	}
}

// NewText creates a text node.
func NewText(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

// IsElement reports whether n is an element with the given local name,
// ignoring its prefix.
func (n *Node) IsElement(local string) bool {
	return n != nil && n.Type == ElementNode && n.Name.Local == local
}

// QualifiedName returns the name as written, e.g. "w:p".
func (n *Node) QualifiedName() string {
	return qualified(n.Name)
}

// AttrValue returns the value of the attribute prefix:local.
func (n *Node) AttrValue(prefix, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrByLocal returns the value of the first attribute whose local name
// matches, regardless of prefix.
func (n *Node) AttrByLocal(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute prefix:local.
func (n *Node) SetAttr(prefix, local, value string) {
	for i, a := range n.Attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Space: prefix, Local: local}, Value: value})
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n. It reports whether child was found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			copy(n.Children[i:], n.Children[i+1:])
			n.Children[len(n.Children)-1] = nil
			n.Children = n.Children[:len(n.Children)-1]
			return true
		}
	}
	return false
}

// HasChild reports whether child is a direct child of n.
func (n *Node) HasChild(child *Node) bool {
	for _, c := range n.Children {
		if c == child {
			return true
		}
	}
	return false
}

// FirstChild returns the first child element with the given local name.
func (n *Node) FirstChild(local string) *Node {
	for _, c := range n.Children {
		if c.IsElement(local) {
			return c
		}
	}
	return nil
}

// ChildElements returns the child elements with the given local name.
func (n *Node) ChildElements(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement(local) {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated character data of n and its descendants.
func (n *Node) Text() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	if n.Type == TextNode {
		sb.WriteString(n.Data)
		return
	}
	for _, c := range n.Children {
		c.collectText(sb)
	}
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
