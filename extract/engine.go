// Package extract pulls embedded pictures and Office Math out of DOCX
// documents into side files and leaves placeholder text in their place.
//
// For a document saved to <dir>/<base>.docx the side files are
//
//	<dir>/extracted_files_<base>/images/<base>_image_<n>.png
//	<dir>/extracted_files_<base>/math_files/<base>_math_<n>.xml
//
// Documents with nothing to extract, or that cannot be parsed, are copied
// verbatim.
package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/docxtract/artifact"
	"github.com/tsawler/docxtract/docx"
	"github.com/tsawler/docxtract/imaging"
	"github.com/tsawler/docxtract/inspect"
	"github.com/tsawler/docxtract/internal/logging"
	"github.com/tsawler/docxtract/xmltree"
)

// Config configures an Engine.
type Config struct {
	// Logger receives per-document and per-object entries. Nil discards.
	Logger logrus.FieldLogger
	// ConvertImages re-encodes pictures stored in other raster formats as
	// PNG before writing them.
	ConvertImages bool
}

// Engine extracts documents one at a time. It keeps no state between
// calls.
type Engine struct {
	log           logrus.FieldLogger
	convertImages bool
}

// New returns an Engine for cfg.
func New(cfg Config) *Engine {
	return &Engine{
		log:           logging.OrDiscard(cfg.Logger),
		convertImages: cfg.ConvertImages,
	}
}

// Extract processes the document at src and writes the result to dst,
// which may equal src. Failures on single objects are recorded in the
// report; the returned error is non-nil only when dst could not be
// written, and is then a *SaveError.
func (e *Engine) Extract(src, dst string) (*Report, error) {
	report := &Report{Source: src, Destination: dst}
	log := e.log.WithField("path", src)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return report, &SaveError{Operation: "mkdir", Path: filepath.Dir(dst), Cause: err}
	}

	d, err := docx.Open(src)
	if err != nil {
		log.WithError(err).Warn("cannot parse document, copying verbatim")
		return report, e.copyVerbatim(report)
	}

	flags := inspect.Document(d)
	report.State = Inspected
	report.Title = d.Metadata().Title
	report.HasMath, report.HasImages = flags.HasMath, flags.HasImages
	if !flags.Extractable() {
		log.Debug("no math or images, copying verbatim")
		return report, e.copyVerbatim(report)
	}

	log.WithFields(logrus.Fields{
		"title":  report.Title,
		"math":   flags.HasMath,
		"images": flags.HasImages,
	}).Info("extracting document content")

	layout := artifact.For(src, dst)
	for _, k := range []artifact.Kind{artifact.Image, artifact.Math} {
		if err := os.MkdirAll(layout.KindDir(k), 0o755); err != nil {
			return report, &SaveError{Operation: "mkdir", Path: layout.KindDir(k), Cause: err}
		}
	}

	e.extractImages(d, layout, report, log)
	e.extractMath(d, layout, report, log)

	if report.Written(artifact.Image)+report.Written(artifact.Math) == 0 {
		log.Info("nothing extracted, copying verbatim")
		return report, e.copyVerbatim(report)
	}

	if err := d.SaveAs(dst); err != nil {
		return report, &SaveError{Operation: "save", Path: dst, Cause: err}
	}
	report.State = Extracted
	log.WithFields(logrus.Fields{
		"images": report.Substituted(artifact.Image),
		"math":   report.Substituted(artifact.Math),
		"failed": report.Failed(),
	}).Info("saved document with placeholders")
	return report, nil
}

func (e *Engine) copyVerbatim(report *Report) error {
	if err := copyFile(report.Source, report.Destination); err != nil {
		return &SaveError{Operation: "copy", Path: report.Destination, Cause: err}
	}
	report.State = CopiedVerbatim
	return nil
}

// extractImages handles every inline shape in document order. The sequence
// number is the shape's position among all inline shapes, so shapes that
// are skipped still use up a number.
func (e *Engine) extractImages(d *docx.Document, layout artifact.Layout, report *Report, log logrus.FieldLogger) {
	for _, s := range d.InlineShapes() {
		o := Outcome{Kind: artifact.Image, Seq: s.Index}
		olog := log.WithFields(logrus.Fields{"kind": o.Kind.String(), "seq": o.Seq})

		if s.Type != docx.ShapePicture {
			o.Status = Skipped
			o.Reason = fmt.Sprintf("inline shape is a %s", s.Type)
			olog.WithField("reason", o.Reason).Debug("skipping inline shape")
			report.add(o)
			continue
		}

		path := layout.Path(artifact.Image, o.Seq)
		if err := e.writeImage(d, s, path); err != nil {
			report.add(e.failed(o, err, olog))
			continue
		}
		o.Path = path

		p := s.Paragraph()
		if p == nil {
			o.Status = Unanchored
			o.Reason = "no paragraph holds the shape"
			olog.WithFields(logrus.Fields{"artifact": path, "reason": o.Reason}).Warn("image written without placeholder")
			report.add(o)
			continue
		}

		d.SetParagraphText(p, artifact.Placeholder(artifact.Image, path))
		o.Status = Substituted
		olog.WithField("artifact", path).Debug("replaced image")
		report.add(o)
	}
}

func (e *Engine) writeImage(d *docx.Document, s docx.InlineShape, path string) error {
	data, err := d.ImageData(s)
	if err != nil {
		return err
	}
	if e.convertImages {
		converted, _, err := imaging.NormalizePNG(data)
		if err != nil {
			return err
		}
		data = converted
	}
	return os.WriteFile(path, data, 0o644)
}

// extractMath handles every oMath and oMathPara element, matched by local
// name. Selection happens after the image pass, so math inside a paragraph
// that an image placeholder replaced is already gone.
func (e *Engine) extractMath(d *docx.Document, layout artifact.Layout, report *Report, log logrus.FieldLogger) {
	root := d.Root()
	if root == nil {
		return
	}

	for i, m := range xmltree.SelectLocal(root, "oMath", "oMathPara") {
		o := Outcome{Kind: artifact.Math, Seq: i + 1}
		olog := log.WithFields(logrus.Fields{"kind": o.Kind.String(), "seq": o.Seq})

		path := layout.Path(artifact.Math, o.Seq)
		fragment, err := xmltree.Fragment(m.Node, m.Path)
		if err != nil {
			report.add(e.failed(o, err, olog))
			continue
		}
		if err := os.WriteFile(path, fragment, 0o644); err != nil {
			report.add(e.failed(o, err, olog))
			continue
		}
		o.Path = path

		// An oMath inside an oMathPara that was already replaced has no
		// live route to a paragraph.
		p := m.Ancestor("p")
		if p == nil {
			o.Status = Unanchored
			o.Reason = "no live paragraph ancestor"
			olog.WithFields(logrus.Fields{"artifact": path, "reason": o.Reason}).Warn("math written without placeholder")
			report.add(o)
			continue
		}

		m.Detach()
		p.AppendChild(d.NewTextRun(artifact.Placeholder(artifact.Math, path)))
		o.Status = Substituted
		olog.WithField("artifact", path).Debug("replaced math")
		report.add(o)
	}
}

func (e *Engine) failed(o Outcome, err error, log logrus.FieldLogger) Outcome {
	o.Status = Failed
	o.Err = &ObjectError{Kind: o.Kind, Seq: o.Seq, Cause: err}
	o.Reason = err.Error()
	log.WithError(err).Error("extraction failed")
	return o
}
