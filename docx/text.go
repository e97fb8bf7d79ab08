package docx

import (
	"strings"

	"github.com/tsawler/docxtract/xmltree"
)

// Paragraphs returns the paragraphs that are direct children of the body.
// Paragraphs inside tables are reached through Tables.
func (d *Document) Paragraphs() []*xmltree.Node {
	body := d.Body()
	if body == nil {
		return nil
	}
	return body.ChildElements("p")
}

// Tables returns the tables that are direct children of the body.
func (d *Document) Tables() []*xmltree.Node {
	body := d.Body()
	if body == nil {
		return nil
	}
	return body.ChildElements("tbl")
}

// HasTables reports whether the document contains a table anywhere.
func (d *Document) HasTables() bool {
	body := d.Body()
	return body != nil && xmltree.Contains(body, "tbl")
}

// Text extracts the document text: non-blank body paragraphs first, then
// the non-blank paragraphs of every table cell, row by row. Lines are
// separated by "\n".
func (d *Document) Text() string {
	var lines []string

	for _, p := range d.Paragraphs() {
		if text := ParagraphText(p); strings.TrimSpace(text) != "" {
			lines = append(lines, text)
		}
	}

	for _, tbl := range d.Tables() {
		for _, tr := range tbl.ChildElements("tr") {
			for _, tc := range tr.ChildElements("tc") {
				for _, p := range tc.ChildElements("p") {
					if text := ParagraphText(p); strings.TrimSpace(text) != "" {
						lines = append(lines, text)
					}
				}
			}
		}
	}

	return strings.Join(lines, "\n")
}

// TableRows returns the cell texts of a w:tbl element, row by row. A cell's
// text is its paragraphs joined by "\n".
func TableRows(tbl *xmltree.Node) [][]string {
	var rows [][]string
	for _, tr := range tbl.ChildElements("tr") {
		var cells []string
		for _, tc := range tr.ChildElements("tc") {
			var paras []string
			for _, p := range tc.ChildElements("p") {
				paras = append(paras, ParagraphText(p))
			}
			cells = append(cells, strings.Join(paras, "\n"))
		}
		rows = append(rows, cells)
	}
	return rows
}

// ParagraphText returns the text of a w:p element: the runs that are direct
// children of the paragraph or of its hyperlinks, in order.
func ParagraphText(p *xmltree.Node) string {
	var sb strings.Builder
	for _, c := range p.Children {
		switch {
		case c.IsElement("r"):
			writeRunText(&sb, c)
		case c.IsElement("hyperlink"):
			for _, r := range c.ChildElements("r") {
				writeRunText(&sb, r)
			}
		}
	}
	return sb.String()
}

// writeRunText appends the text of a run element.
func writeRunText(sb *strings.Builder, run *xmltree.Node) {
	for _, c := range run.Children {
		switch {
		case c.IsElement("t"):
			sb.WriteString(c.Text())
		case c.IsElement("tab"), c.IsElement("ptab"):
			sb.WriteString("\t")
		case c.IsElement("br"):
			if v, _ := c.AttrByLocal("type"); v == "page" {
				sb.WriteString("\n\n")
			} else {
				sb.WriteString("\n")
			}
		case c.IsElement("cr"):
			sb.WriteString("\n")
		case c.IsElement("noBreakHyphen"):
			sb.WriteString("-")
		}
	}
}

// SetParagraphText replaces everything in p except its paragraph
// properties with a single run holding text.
func (d *Document) SetParagraphText(p *xmltree.Node, text string) {
	kept := p.Children[:0]
	for _, c := range p.Children {
		if c.IsElement("pPr") {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(p.Children); i++ {
		p.Children[i] = nil
	}
	p.Children = kept
	p.AppendChild(d.NewTextRun(text))
}

// NewTextRun builds <w:r><w:t xml:space="preserve">text</w:t></w:r> using
// the document's prefix for the WordprocessingML namespace.
func (d *Document) NewTextRun(text string) *xmltree.Node {
	prefix := d.Prefix(nsW, "w")

	t := xmltree.NewElement(prefix, "t")
	t.SetAttr("xml", "space", "preserve")
	t.AppendChild(xmltree.NewText(text))

	r := xmltree.NewElement(prefix, "r")
	r.AppendChild(t)
	return r
}
