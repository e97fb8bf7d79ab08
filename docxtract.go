// Package docxtract provides a fluent API over the extraction engine, the
// content inspector and the text exporter.
//
// Basic usage:
//
//	report, err := docxtract.Open("lesson.docx").ExtractTo("out/lesson.docx")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(report.Substituted(artifact.Image), "images replaced")
//
// With options:
//
//	text, err := docxtract.Open("out/lesson.docx").
//	    WithLogger(logger).
//	    WithOCR(client).
//	    Text()
//
// For directory trees use the batch and classify packages directly.
package docxtract

import (
	"github.com/sirupsen/logrus"

	"github.com/tsawler/docxtract/docx"
	"github.com/tsawler/docxtract/extract"
	"github.com/tsawler/docxtract/inspect"
	"github.com/tsawler/docxtract/ocr"
	"github.com/tsawler/docxtract/textexport"
)

// Extractor is an immutable handle on one source document. Option methods
// return a copy, so a configured Extractor can be reused.
type Extractor struct {
	filename string
	options  options
}

// Open returns an Extractor for the document at filename. The file is not
// read until a terminal operation runs.
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

func (e *Extractor) clone() *Extractor {
	c := *e
	return &c
}

// WithLogger sets the logger used by terminal operations.
func (e *Extractor) WithLogger(l logrus.FieldLogger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// ConvertImages re-encodes extracted pictures as PNG.
func (e *Extractor) ConvertImages() *Extractor {
	newExt := e.clone()
	newExt.options.convertImages = true
	return newExt
}

// WithOCR makes Text append recognized image text after image placeholders.
func (e *Extractor) WithOCR(r ocr.Recognizer) *Extractor {
	newExt := e.clone()
	newExt.options.recognizer = r
	return newExt
}

// Inspect reports the content flags of the document.
func (e *Extractor) Inspect() (inspect.Result, error) {
	return inspect.Inspect(e.filename)
}

// ExtractTo extracts the document's images and math next to dst and writes
// the rewritten document to dst.
func (e *Extractor) ExtractTo(dst string) (*extract.Report, error) {
	engine := extract.New(extract.Config{
		Logger:        e.options.logger,
		ConvertImages: e.options.convertImages,
	})
	return engine.Extract(e.filename, dst)
}

// ExtractInPlace extracts and overwrites the source document.
func (e *Extractor) ExtractInPlace() (*extract.Report, error) {
	return e.ExtractTo(e.filename)
}

// Text returns the document's exported plain text.
func (e *Extractor) Text() (string, error) {
	d, err := docx.Open(e.filename)
	if err != nil {
		return "", err
	}
	exporter := textexport.New(textexport.Config{
		Logger: e.options.logger,
		OCR:    e.options.recognizer,
	})
	return exporter.Text(d), nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	text := docxtract.Must(docxtract.Open("lesson.docx").Text())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
