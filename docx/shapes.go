package docx

import (
	"fmt"

	"github.com/tsawler/docxtract/xmltree"
)

// ShapeType discriminates inline shapes by their graphic content.
type ShapeType int

const (
	// ShapeNotImplemented is any graphic this package does not classify.
	ShapeNotImplemented ShapeType = iota
	// ShapePicture is a picture whose image is embedded in the package.
	ShapePicture
	// ShapeLinkedPicture is a picture whose image lives outside the package.
	ShapeLinkedPicture
	// ShapeChart is an embedded chart.
	ShapeChart
	// ShapeSmartArt is a SmartArt diagram.
	ShapeSmartArt
)

// String returns the string representation of the shape type.
func (t ShapeType) String() string {
	switch t {
	case ShapePicture:
		return "picture"
	case ShapeLinkedPicture:
		return "linked-picture"
	case ShapeChart:
		return "chart"
	case ShapeSmartArt:
		return "smart-art"
	default:
		return "not-implemented"
	}
}

// InlineShape is a wp:inline drawing found in the main document.
type InlineShape struct {
	Index   int // 1-based position among all inline shapes
	Type    ShapeType
	EmbedID string // r:embed of the picture blip
	LinkID  string // r:link of the picture blip
	Name    string // wp:docPr name

	match xmltree.Match
}

// Node returns the wp:inline element.
func (s InlineShape) Node() *xmltree.Node {
	return s.match.Node
}

// Paragraph returns the paragraph that owns the shape. It returns nil when
// the shape is no longer attached to a paragraph, for example because an
// earlier edit replaced the paragraph's content.
func (s InlineShape) Paragraph() *xmltree.Node {
	return s.match.Ancestor("p")
}

// InlineShapes returns every w:drawing/wp:inline element in document order.
// The slice is a snapshot: edits made after the call do not change it.
func (d *Document) InlineShapes() []InlineShape {
	root := d.Root()
	if root == nil {
		return nil
	}

	var shapes []InlineShape
	for _, m := range xmltree.SelectLocal(root, "inline") {
		if xmltree.LookupNamespace(m.Node, m.Path, m.Node.Name.Space) != nsWP {
			continue
		}
		parent := m.Path.Parent()
		if parent == nil || !parent.IsElement("drawing") {
			continue
		}
		if xmltree.LookupNamespace(parent, m.Path[:len(m.Path)-1], parent.Name.Space) != nsW {
			continue
		}
		shapes = append(shapes, newInlineShape(len(shapes)+1, m))
	}
	return shapes
}

func newInlineShape(index int, m xmltree.Match) InlineShape {
	s := InlineShape{Index: index, match: m}

	if docPr := m.Node.FirstChild("docPr"); docPr != nil {
		s.Name, _ = docPr.AttrValue("", "name")
	}

	graphicData := descend(m.Node, "graphic", "graphicData")
	if graphicData == nil {
		return s
	}

	uri, _ := graphicData.AttrValue("", "uri")
	switch uri {
	case uriPicture:
		if blip := descend(graphicData, "pic", "blipFill", "blip"); blip != nil {
			s.EmbedID, s.LinkID = blipRelationships(blip)
		}
		if s.LinkID != "" {
			s.Type = ShapeLinkedPicture
		} else {
			s.Type = ShapePicture
		}
	case uriChart:
		s.Type = ShapeChart
	case uriSmartArt:
		s.Type = ShapeSmartArt
	}
	return s
}

// ImageData returns the embedded image bytes of a picture shape.
func (d *Document) ImageData(s InlineShape) ([]byte, error) {
	if s.Type != ShapePicture {
		return nil, fmt.Errorf("inline shape %d is a %s, not an embedded picture", s.Index, s.Type)
	}
	if s.EmbedID == "" {
		return nil, fmt.Errorf("inline shape %d: picture has no embed relationship", s.Index)
	}
	return d.RelatedPart(s.EmbedID)
}

// blipRelationships returns the r:embed and r:link ids of a blip. The
// attributes are matched by local name because the relationships prefix is
// usually declared on the document root, outside the blip's subtree.
func blipRelationships(blip *xmltree.Node) (embed, link string) {
	for _, a := range blip.Attr {
		if a.Name.Space == "" || a.Name.Space == "xmlns" {
			continue
		}
		switch a.Name.Local {
		case "embed":
			embed = a.Value
		case "link":
			link = a.Value
		}
	}
	return embed, link
}

// descend follows a chain of first-child elements by local name.
func descend(n *xmltree.Node, locals ...string) *xmltree.Node {
	for _, local := range locals {
		if n = n.FirstChild(local); n == nil {
			return nil
		}
	}
	return n
}
