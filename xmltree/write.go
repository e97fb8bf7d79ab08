package xmltree

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// WriteTo serializes the whole document, including the XML declaration if
// the source had one.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	for i, n := range d.Children {
		writeNode(cw, n, nil)
		// The declaration conventionally sits on its own line.
		if n.Type == ProcInstNode && i+1 < len(d.Children) {
			cw.WriteString("\n")
		}
	}
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fragment serializes the subtree rooted at n as a standalone XML fragment.
// Namespace declarations made on ancestors in path and used inside the
// subtree are copied onto the fragment root so it parses on its own.
func Fragment(n *Node, path Path) ([]byte, error) {
	var buf bytes.Buffer
	cw := &countingWriter{w: bufio.NewWriter(&buf)}
	writeNode(cw, n, inheritedDeclarations(n, path))
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	if cw.err != nil {
		return nil, cw.err
	}
	return buf.Bytes(), nil
}

// inheritedDeclarations returns the xmlns attributes from path that bind
// prefixes used in the subtree at n and not already declared on n itself.
func inheritedDeclarations(n *Node, path Path) []xml.Attr {
	used := map[string]bool{}
	collectPrefixes(n, used)

	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" {
			delete(used, a.Name.Local)
		} else if a.Name.Space == "" && a.Name.Local == "xmlns" {
			delete(used, "")
		}
	}

	found := map[string]xml.Attr{}
	for i := len(path) - 1; i >= 0 && len(used) > 0; i-- {
		for _, a := range path[i].Attr {
			var prefix string
			switch {
			case a.Name.Space == "xmlns":
				prefix = a.Name.Local
			case a.Name.Space == "" && a.Name.Local == "xmlns":
				prefix = ""
			default:
				continue
			}
			if used[prefix] {
				found[prefix] = a
				delete(used, prefix)
			}
		}
	}

	prefixes := make([]string, 0, len(found))
	for p := range found {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	out := make([]xml.Attr, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, found[p])
	}
	return out
}

func collectPrefixes(n *Node, used map[string]bool) {
	if n.Type != ElementNode {
		return
	}
	used[n.Name.Space] = true
	for _, a := range n.Attr {
		switch a.Name.Space {
		case "", "xml", "xmlns":
			// Unprefixed attributes are not in the default namespace.
		default:
			used[a.Name.Space] = true
		}
	}
	for _, c := range n.Children {
		collectPrefixes(c, used)
	}
}

func writeNode(w *countingWriter, n *Node, extra []xml.Attr) {
	switch n.Type {
	case ElementNode:
		name := n.QualifiedName()
		w.WriteString("<")
		w.WriteString(name)
		for _, a := range extra {
			writeAttr(w, a)
		}
		for _, a := range n.Attr {
			writeAttr(w, a)
		}
		if len(n.Children) == 0 {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		for _, c := range n.Children {
			writeNode(w, c, nil)
		}
		w.WriteString("</")
		w.WriteString(name)
		w.WriteString(">")

	case TextNode:
		w.WriteString(textEscaper.Replace(n.Data))

	case CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")

	case ProcInstNode:
		w.WriteString("<?")
		w.WriteString(n.Target)
		if n.Data != "" {
			w.WriteString(" ")
			w.WriteString(n.Data)
		}
		w.WriteString("?>")

	case DirectiveNode:
		w.WriteString("<!")
		w.WriteString(n.Data)
		w.WriteString(">")
	}
}

func writeAttr(w *countingWriter, a xml.Attr) {
	w.WriteString(" ")
	w.WriteString(qualified(a.Name))
	w.WriteString(`="`)
	w.WriteString(attrEscaper.Replace(a.Value))
	w.WriteString(`"`)
}

// countingWriter remembers the first write error so serialization code can
// write unconditionally and check once at the end.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) WriteString(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
}
