// Package textexport writes the plain text of documents, typically the
// placeholder-bearing output of the extraction engine, for downstream tools
// that work on text.
//
// Text is body paragraphs first, then table-cell paragraphs, skipping blank
// ones, normalized to NFC. With a recognizer configured, the OCR text of each
// referenced image follows the line holding its placeholder.
//
// With AnswerTables set, tables are read as answer keys instead: each row is
// a variant label ("1-вар.") followed by one answer per cell, and is written
// as the label line "1-вар." and an answer line "1)а; 2)б;".
package textexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/docxtract/artifact"
	"github.com/tsawler/docxtract/batch"
	"github.com/tsawler/docxtract/docx"
	"github.com/tsawler/docxtract/format"
	"github.com/tsawler/docxtract/internal/logging"
	"github.com/tsawler/docxtract/ocr"
)

// Config configures an Exporter.
type Config struct {
	// Logger receives per-document entries. Nil discards.
	Logger logrus.FieldLogger
	// OCR, if set, recognizes text in images named by placeholders.
	OCR ocr.Recognizer
	// AnswerTables renders tables as answer keys.
	AnswerTables bool
}

// Exporter converts documents to text.
type Exporter struct {
	log          logrus.FieldLogger
	ocr          ocr.Recognizer
	answerTables bool
}

// New returns an Exporter for cfg.
func New(cfg Config) *Exporter {
	return &Exporter{
		log:          logging.OrDiscard(cfg.Logger),
		ocr:          cfg.OCR,
		answerTables: cfg.AnswerTables,
	}
}

// Text returns the exported text of d.
func (e *Exporter) Text(d *docx.Document) string {
	raw := d.Text()
	if e.answerTables && d.HasTables() {
		raw = AnswerText(d)
	}

	text := norm.NFC.String(raw)
	if e.ocr == nil || text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line)
		kind, path, ok := artifact.ParsePlaceholder(line)
		if !ok || kind != artifact.Image {
			continue
		}
		if recognized := e.recognize(path); recognized != "" {
			out = append(out, recognized)
		}
	}
	return strings.Join(out, "\n")
}

func (e *Exporter) recognize(path string) string {
	log := e.log.WithField("artifact", path)
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("cannot read image for OCR")
		return ""
	}
	text, err := e.ocr.RecognizeImage(data)
	if err != nil {
		log.WithError(err).Warn("OCR failed")
		return ""
	}
	return norm.NFC.String(strings.TrimSpace(text))
}

// ExportFile writes the text of the document at src to dst.
func (e *Exporter) ExportFile(src, dst string) error {
	d, err := docx.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, []byte(e.Text(d)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

// Summary counts what Run did.
type Summary struct {
	Exported int
	Failed   int
}

// Run exports every document under src to a .txt file at the same relative
// location under dst. Documents that fail are logged and counted.
func (e *Exporter) Run(ctx context.Context, src, dst string) (*Summary, error) {
	summary := &Summary{}
	err := batch.Walk(ctx, src, format.DOCX, e.log, func(path, rel string) error {
		target := filepath.Join(dst, strings.TrimSuffix(rel, filepath.Ext(rel))+format.Text.Extension())
		if err := e.ExportFile(path, target); err != nil {
			e.log.WithField("path", path).WithError(err).Error("text export failed")
			summary.Failed++
			return nil
		}
		summary.Exported++
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("exporting %s: %w", src, err)
	}
	return summary, nil
}
