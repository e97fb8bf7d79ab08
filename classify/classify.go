// Package classify sorts downstream JSON records by whether extraction left
// media beside them, and checks the structure of the rest.
//
// A record at <dir>/<B>.json has related media when <dir>/extracted_files_<B>
// is a directory whose images/ or math_files/ subdirectory holds a file
// named with the prefix B. Only the record's own directory is consulted.
package classify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/docxtract/artifact"
	"github.com/tsawler/docxtract/format"
	"github.com/tsawler/docxtract/internal/logging"
)

// Config configures a Classifier.
type Config struct {
	// Logger receives per-record entries. Nil discards.
	Logger logrus.FieldLogger
	// Strict additionally validates structurally correct records against
	// the record JSON schema.
	Strict bool
}

// Classifier buckets JSON records.
type Classifier struct {
	log    logrus.FieldLogger
	schema *jsonschema.Schema
}

// New returns a Classifier for cfg.
func New(cfg Config) (*Classifier, error) {
	c := &Classifier{log: logging.OrDiscard(cfg.Logger)}
	if cfg.Strict {
		schema, err := compileSchema()
		if err != nil {
			return nil, err
		}
		c.schema = schema
	}
	return c, nil
}

// Partition is the result of the correlation step.
type Partition struct {
	// WithMedia holds records with related media.
	WithMedia []string
	// Remaining holds every other record, in walk order.
	Remaining []string
}

// Records returns the absolute paths of the JSON files under root in
// lexical order. Only a root that cannot be read is an error; unreadable
// subdirectories are logged and skipped.
func (c *Classifier) Records(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var records []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			c.log.WithField("path", path).WithError(err).Warn("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && format.Detect(path) == format.JSON {
			records = append(records, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return records, nil
}

// Classify walks root and splits its records by related media.
func (c *Classifier) Classify(root string) (*Partition, error) {
	records, err := c.Records(root)
	if err != nil {
		return nil, err
	}

	p := &Partition{}
	for _, record := range records {
		if HasRelatedMedia(record) {
			c.log.WithField("path", record).Debug("record has related media")
			p.WithMedia = append(p.WithMedia, record)
			continue
		}
		p.Remaining = append(p.Remaining, record)
	}
	return p, nil
}

// HasRelatedMedia reports whether the extraction directory beside record
// holds an image or math file named after it.
func HasRelatedMedia(record string) bool {
	layout := artifact.ForRecord(record)
	info, err := os.Stat(layout.Root)
	if err != nil || !info.IsDir() {
		return false
	}
	return ownsFileIn(layout, artifact.Math) || ownsFileIn(layout, artifact.Image)
}

func ownsFileIn(layout artifact.Layout, k artifact.Kind) bool {
	entries, err := os.ReadDir(layout.KindDir(k))
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && layout.Owns(e.Name()) {
			return true
		}
	}
	return false
}

// Run classifies and validates every record under root.
func (c *Classifier) Run(root string) (*Result, error) {
	p, err := c.Classify(root)
	if err != nil {
		return nil, err
	}

	valid, invalid := c.Validate(p.Remaining)
	r := &Result{
		WithMedia: p.WithMedia,
		Correct:   valid,
		Incorrect: invalid,
	}

	stats := r.Statistics()
	c.log.WithFields(logrus.Fields{
		"total":      stats.Total,
		"with_media": stats.WithMedia,
		"correct":    stats.Correct,
		"incorrect":  stats.Incorrect,
	}).Info("classification finished")
	return r, nil
}
