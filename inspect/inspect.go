// Package inspect answers, without modifying anything, whether a document
// holds content the extraction engine would pull out.
package inspect

import (
	"bytes"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/docxtract/docx"
	"github.com/tsawler/docxtract/internal/logging"
)

// mathTag is the opening tag searched for in the raw main part. It also
// matches <m:oMathPara.
var mathTag = []byte("<m:oMath")

// Result holds the content flags of one document.
type Result struct {
	HasMath   bool
	HasImages bool
	HasTables bool
}

// Extractable reports whether the document has images or math.
func (r Result) Extractable() bool {
	return r.HasMath || r.HasImages
}

// Inspect opens the document at path and reports its content flags.
func Inspect(path string) (Result, error) {
	d, err := docx.Open(path)
	if err != nil {
		return Result{}, err
	}
	return Document(d), nil
}

// Document reports the content flags of an open document.
//
// HasImages is set when the document has any inline shape, whatever its
// type. HasMath is a textual search of the raw main part, cheaper than a tree
// walk and used only as a gate.
func Document(d *docx.Document) Result {
	return Result{
		HasMath:   bytes.Contains(d.RawDocument(), mathTag),
		HasImages: len(d.InlineShapes()) > 0,
		HasTables: d.HasTables(),
	}
}

// Check is Inspect for callers that only gate on the flags. A document that
// cannot be opened reports false for both; the error is logged to log,
// which may be nil.
func Check(path string, log logrus.FieldLogger) (hasMath, hasImages bool) {
	r, err := Inspect(path)
	if err != nil {
		logging.OrDiscard(log).WithField("path", path).WithError(err).Warn("cannot inspect document")
		return false, false
	}
	return r.HasMath, r.HasImages
}
