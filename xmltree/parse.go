package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ParseReader reads an XML document from r.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading XML: %w", err)
	}
	return Parse(data)
}

// Parse reads an XML document from data. Documents in other encodings are
// transcoded with UTF8 first, so the tree always serializes as UTF-8.
func Parse(data []byte) (*Document, error) {
	data, err := UTF8(data)
	if err != nil {
		return nil, err
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &Document{}

	var stack []*Node
	appendNode := func(n *Node) {
		if len(stack) == 0 {
			doc.Children = append(doc.Children, n)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
	}

	for {
		// RawToken keeps prefixes untranslated, which is what lets the
		// tree serialize back byte-compatible names.
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Type: ElementNode,
				Name: t.Name,
				Attr: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) == 0 && doc.Root() != nil {
				return nil, fmt.Errorf("decoding XML: multiple root elements")
			}
			appendNode(n)
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("decoding XML: unexpected end element </%s>", qualified(t.Name))
			}
			top := stack[len(stack)-1]
			if top.Name != t.Name {
				return nil, fmt.Errorf("decoding XML: element <%s> closed by </%s>", top.QualifiedName(), qualified(t.Name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				// Whitespace between prolog and root carries no content.
				continue
			}
			appendNode(&Node{Type: TextNode, Data: string(t)})

		case xml.Comment:
			appendNode(&Node{Type: CommentNode, Data: string(t)})

		case xml.ProcInst:
			appendNode(&Node{Type: ProcInstNode, Target: t.Target, Data: string(t.Inst)})

		case xml.Directive:
			appendNode(&Node{Type: DirectiveNode, Data: string(t)})
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("decoding XML: unclosed element <%s>", stack[len(stack)-1].QualifiedName())
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("decoding XML: no root element")
	}
	return doc, nil
}
