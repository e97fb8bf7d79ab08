package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// graphicData URIs that discriminate inline shape types.
const (
	uriPicture  = nsPic
	uriChart    = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	uriSmartArt = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
)

// Package part names
const (
	partContentTypes = "[Content_Types].xml"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partCore         = "docProps/core.xml"
)

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata)
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Subject string   `xml:"subject"`
	Creator string   `xml:"creator"`
}

// relationship is a resolved entry of the main document's relationship table.
type relationship struct {
	ID       string
	Type     string
	Target   string // as written in the .rels file
	External bool
	PartName string // ZIP entry name for internal targets
}

// Metadata holds the Dublin Core properties of the package.
type Metadata struct {
	Title   string
	Subject string
	Author  string
}
