// Package docx provides DOCX (Office Open XML) document access and editing.
//
// A Document holds the package's ZIP entries, its relationship table and a
// mutable tree of word/document.xml. Callers may change the tree and write the
// package back with SaveAs; every other part is copied through unchanged.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/tsawler/docxtract/xmltree"
)

var (
	// ErrMissingPart is returned when a required or referenced package part
	// is absent from the archive.
	ErrMissingPart = errors.New("missing package part")

	// ErrRelationshipNotFound is returned when a relationship id does not
	// appear in the document's relationship table.
	ErrRelationshipNotFound = errors.New("relationship not found")
)

// Document provides access to DOCX document content.
type Document struct {
	path        string
	zipReader   *zip.Reader
	files       map[string]*zip.File
	rawDocument []byte
	tree        *xmltree.Document
	namespaces  map[string]string // prefix -> URI, declared on the root element
	rels        map[string]relationship
	coreProps   *corePropertiesXML
}

// Open opens a DOCX file. The whole package is read into memory, so the
// file handle is released before Open returns and the same path may later be
// overwritten by SaveAs.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	d, err := OpenBytes(data)
	if err != nil {
		return nil, err
	}
	d.path = filename
	return d, nil
}

// OpenBytes opens a DOCX package held in memory.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	d := &Document{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		d.files[f.Name] = f
	}

	// Validate required files exist
	if err := d.validate(); err != nil {
		return nil, err
	}

	// Parse relationships first (needed to resolve embedded parts)
	if err := d.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	if err := d.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Metadata is optional
	d.parseCoreProperties()

	return d, nil
}

// validate checks that required DOCX files exist.
func (d *Document) validate() error {
	required := []string{
		partContentTypes,
		partDocument,
	}

	for _, name := range required {
		if _, ok := d.files[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (d *Document) getFileContent(name string) ([]byte, error) {
	f, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// getXMLContent reads an XML part and transcodes it to UTF-8. Package
// parts may be stored as UTF-16.
func (d *Document) getXMLContent(name string) ([]byte, error) {
	data, err := d.getFileContent(name)
	if err != nil {
		return nil, err
	}
	data, err = xmltree.UTF8(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

// Path returns the file the document was opened from, or "" for documents
// opened from memory.
func (d *Document) Path() string {
	return d.path
}

// RawDocument returns word/document.xml as it was stored in the package,
// transcoded to UTF-8, before any edits.
func (d *Document) RawDocument() []byte {
	return d.rawDocument
}

// Tree returns the mutable tree of word/document.xml.
func (d *Document) Tree() *xmltree.Document {
	return d.tree
}

// Root returns the w:document element.
func (d *Document) Root() *xmltree.Node {
	return d.tree.Root()
}

// Body returns the w:body element, or nil if the document has none.
func (d *Document) Body() *xmltree.Node {
	root := d.tree.Root()
	if root == nil {
		return nil
	}
	return root.FirstChild("body")
}

// Metadata returns document metadata.
func (d *Document) Metadata() Metadata {
	meta := Metadata{}
	if d.coreProps != nil {
		meta.Title = d.coreProps.Title
		meta.Subject = d.coreProps.Subject
		meta.Author = d.coreProps.Creator
	}
	return meta
}

// Prefix returns the prefix the root element binds to uri. If the document
// does not declare uri, fallback is returned.
func (d *Document) Prefix(uri, fallback string) string {
	for prefix, u := range d.namespaces {
		if u == uri {
			return prefix
		}
	}
	return fallback
}

// RelatedPart returns the bytes of the part that relationship id points to.
func (d *Document) RelatedPart(id string) ([]byte, error) {
	rel, ok := d.rels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRelationshipNotFound, id)
	}
	if rel.External {
		return nil, fmt.Errorf("relationship %q targets external resource %q", id, rel.Target)
	}
	return d.getFileContent(rel.PartName)
}

// parseRelationships parses the document relationships file.
func (d *Document) parseRelationships() error {
	d.rels = make(map[string]relationship)

	data, err := d.getXMLContent(partDocumentRels)
	if errors.Is(err, ErrMissingPart) {
		// Relationships file is optional
		return nil
	}
	if err != nil {
		return err
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}

	for _, r := range rels.Relationships {
		rel := relationship{
			ID:       r.ID,
			Type:     r.Type,
			Target:   r.Target,
			External: strings.EqualFold(r.TargetMode, "External"),
		}
		if !rel.External {
			rel.PartName = resolvePartName(partDocument, r.Target)
		}
		d.rels[r.ID] = rel
	}
	return nil
}

// resolvePartName turns a relationship target into a ZIP entry name.
// Targets are relative to the source part's directory unless they are
// absolute package paths.
func resolvePartName(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// parseDocument parses the main document content.
func (d *Document) parseDocument() error {
	data, err := d.getXMLContent(partDocument)
	if err != nil {
		return err
	}

	tree, err := xmltree.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing document.xml: %w", err)
	}

	d.rawDocument = data
	d.tree = tree
	d.namespaces = make(map[string]string)
	for _, a := range tree.Root().Attr {
		switch {
		case a.Name.Space == "xmlns":
			d.namespaces[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			d.namespaces[""] = a.Value
		}
	}
	return nil
}

// parseCoreProperties parses Dublin Core metadata.
func (d *Document) parseCoreProperties() {
	data, err := d.getXMLContent(partCore)
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		d.coreProps = props
	}
}
