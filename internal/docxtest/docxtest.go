// Package docxtest builds small DOCX packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// PNG is image data that starts with the PNG signature.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xcf, 0xc0, 0xf0,
	0x1f, 0x00, 0x05, 0x00, 0x01, 0xff, 0x89, 0x99, 0x3d, 0x1d, 0x00, 0x00,
	0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"><w:body>`

const documentFooter = `</w:body></w:document>`

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const coreProperties = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>%s</dc:title><dc:creator>%s</dc:creator></cp:coreProperties>`

const imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

type relationship struct {
	id, target, mode string
}

// Builder assembles a document body and its media parts.
type Builder struct {
	body   strings.Builder
	rels   []relationship
	media  map[string][]byte
	next   int
	title  string
	author string
	utf16  bool
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{media: map[string][]byte{}, next: 10}
}

// Paragraph appends a paragraph with a single run of text.
func (b *Builder) Paragraph(text string) *Builder {
	fmt.Fprintf(&b.body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, escape(text))
	return b
}

// Picture appends a paragraph holding caption text followed by an embedded
// picture whose bytes are data.
func (b *Builder) Picture(caption string, data []byte) *Builder {
	id := b.addMedia(data)
	fmt.Fprintf(&b.body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r><w:r>%s</w:r></w:p>`,
		escape(caption), drawing(id, "", pictureURI))
	return b
}

// Pictures appends one paragraph holding several embedded pictures.
func (b *Builder) Pictures(data ...[]byte) *Builder {
	b.body.WriteString(`<w:p>`)
	for _, d := range data {
		fmt.Fprintf(&b.body, `<w:r>%s</w:r>`, drawing(b.addMedia(d), "", pictureURI))
	}
	b.body.WriteString(`</w:p>`)
	return b
}

// BrokenPicture appends a picture whose embed id has no relationship.
func (b *Builder) BrokenPicture() *Builder {
	fmt.Fprintf(&b.body, `<w:p><w:r>%s</w:r></w:p>`, drawing("rIdMissing", "", pictureURI))
	return b
}

// LinkedPicture appends a picture that links to an external file.
func (b *Builder) LinkedPicture(url string) *Builder {
	id := fmt.Sprintf("rId%d", b.next)
	b.next++
	b.rels = append(b.rels, relationship{id: id, target: url, mode: "External"})
	fmt.Fprintf(&b.body, `<w:p><w:r>%s</w:r></w:p>`, drawing("", id, pictureURI))
	return b
}

// Chart appends an inline chart shape.
func (b *Builder) Chart() *Builder {
	fmt.Fprintf(&b.body, `<w:p><w:r>%s</w:r></w:p>`, drawing("", "", chartURI))
	return b
}

// Math appends a paragraph with text followed by an inline m:oMath holding
// the run text formula.
func (b *Builder) Math(text, formula string) *Builder {
	fmt.Fprintf(&b.body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r><m:oMath><m:r><m:t>%s</m:t></m:r></m:oMath></w:p>`,
		escape(text), escape(formula))
	return b
}

// DisplayMath appends a paragraph holding an m:oMathPara that wraps one
// m:oMath.
func (b *Builder) DisplayMath(formula string) *Builder {
	fmt.Fprintf(&b.body, `<w:p><m:oMathPara><m:oMath><m:r><m:t>%s</m:t></m:r></m:oMath></m:oMathPara></w:p>`, escape(formula))
	return b
}

// Table appends a table; each row is a slice of cell texts.
func (b *Builder) Table(rows ...[]string) *Builder {
	b.body.WriteString(`<w:tbl>`)
	for _, row := range rows {
		b.body.WriteString(`<w:tr>`)
		for _, cell := range row {
			fmt.Fprintf(&b.body, `<w:tc><w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p></w:tc>`, escape(cell))
		}
		b.body.WriteString(`</w:tr>`)
	}
	b.body.WriteString(`</w:tbl>`)
	return b
}

// Core adds docProps/core.xml with the given title and author.
func (b *Builder) Core(title, author string) *Builder {
	b.title, b.author = title, author
	return b
}

// UTF16 stores word/document.xml as UTF-16LE with a byte order mark and an
// encoding="UTF-16" declaration.
func (b *Builder) UTF16() *Builder {
	b.utf16 = true
	return b
}

// PictureCell appends a one-cell table whose paragraph holds an embedded
// picture.
func (b *Builder) PictureCell(data []byte) *Builder {
	fmt.Fprintf(&b.body, `<w:tbl><w:tr><w:tc><w:p><w:r>%s</w:r></w:p></w:tc></w:tr></w:tbl>`,
		drawing(b.addMedia(data), "", pictureURI))
	return b
}

// Raw appends body XML as is.
func (b *Builder) Raw(xml string) *Builder {
	b.body.WriteString(xml)
	return b
}

// DocumentXML returns the word/document.xml content.
func (b *Builder) DocumentXML() string {
	return documentHeader + b.body.String() + documentFooter
}

// Bytes returns the complete package.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	document := []byte(b.DocumentXML())
	if b.utf16 {
		declared := strings.Replace(b.DocumentXML(), `encoding="UTF-8"`, `encoding="UTF-16"`, 1)
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(declared))
		if err != nil {
			return nil, err
		}
		document = encoded
	}

	files := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypes)},
		{"_rels/.rels", []byte(packageRels)},
		{"word/document.xml", document},
		{"word/_rels/document.xml.rels", []byte(b.documentRels())},
	}
	if b.title != "" || b.author != "" {
		core := fmt.Sprintf(coreProperties, escape(b.title), escape(b.author))
		files = append(files, struct {
			name    string
			content []byte
		}{"docProps/core.xml", []byte(core)})
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.content); err != nil {
			return nil, err
		}
	}

	for _, rel := range b.rels {
		if rel.mode != "" {
			continue
		}
		w, err := zw.Create("word/" + rel.target)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(b.media[rel.id]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the package to path.
func (b *Builder) WriteFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (b *Builder) addMedia(data []byte) string {
	id := fmt.Sprintf("rId%d", b.next)
	b.next++
	b.rels = append(b.rels, relationship{id: id, target: fmt.Sprintf("media/image%d.png", len(b.media)+1)})
	b.media[id] = data
	return id
}

func (b *Builder) documentRels() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, rel := range b.rels {
		if rel.mode != "" {
			fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s" TargetMode="%s"/>`, rel.id, imageRelType, escape(rel.target), rel.mode)
			continue
		}
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"/>`, rel.id, imageRelType, rel.target)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

const (
	pictureURI = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	chartURI   = "http://schemas.openxmlformats.org/drawingml/2006/chart"
)

func drawing(embed, link, uri string) string {
	var blip string
	switch {
	case link != "":
		blip = fmt.Sprintf(`<a:blip r:link="%s"/>`, link)
	default:
		blip = fmt.Sprintf(`<a:blip r:embed="%s"/>`, embed)
	}

	var content string
	if uri == pictureURI {
		content = `<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:blipFill>` +
			blip + `</pic:blipFill></pic:pic>`
	}

	return `<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="914400" cy="914400"/>` +
		`<wp:docPr id="1" name="Picture"/>` +
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<a:graphicData uri="` + uri + `">` + content + `</a:graphicData></a:graphic></wp:inline></w:drawing>`
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return xmlEscaper.Replace(s)
}
