// Package batch runs per-document work over a directory tree, mirroring the
// tree's layout into a destination directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/docxtract/artifact"
	"github.com/tsawler/docxtract/extract"
	"github.com/tsawler/docxtract/format"
	"github.com/tsawler/docxtract/internal/logging"
)

// Walk calls fn for every file under root whose format is f, in lexical
// order, with its path relative to root. Word lock files (~$*) and the
// contents of extraction directories are not visited. Walk stops early when
// ctx is done or fn returns an error. Only an unreadable root is an error on
// its own; other unreadable entries are logged to log and skipped.
func Walk(ctx context.Context, root string, f format.Format, log logrus.FieldLogger, fn func(path, rel string) error) error {
	log = logging.OrDiscard(log)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.WithField("path", path).WithError(err).Warn("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), artifact.RootPrefix) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), "~$") || format.Detect(path) != f {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(path, rel)
	})
}

// Config configures a Runner.
type Config struct {
	// Logger receives per-document entries. Nil discards.
	Logger logrus.FieldLogger
	// SkipExisting leaves documents whose destination already exists alone,
	// so an interrupted run can be resumed.
	SkipExisting bool
}

// Runner extracts every document of a source tree into a destination tree.
type Runner struct {
	engine       *extract.Engine
	log          logrus.FieldLogger
	skipExisting bool
}

// New returns a Runner driving engine.
func New(engine *extract.Engine, cfg Config) *Runner {
	return &Runner{
		engine:       engine,
		log:          logging.OrDiscard(cfg.Logger),
		skipExisting: cfg.SkipExisting,
	}
}

// FileError is a document whose destination could not be written.
type FileError struct {
	Path string
	Err  error
}

// Summary counts what a run did.
type Summary struct {
	Documents int // documents found
	Extracted int
	Copied    int
	Skipped   int // destination already existed
	Failed    int
	Errors    []FileError
}

// Run processes every .docx file under src into the same relative location
// under dst. A document that fails to save is recorded and the run goes on.
// The returned error is set when src cannot be walked or ctx is done; the
// summary then covers the documents handled so far.
func (r *Runner) Run(ctx context.Context, src, dst string) (*Summary, error) {
	summary := &Summary{}

	err := Walk(ctx, src, format.DOCX, r.log, func(path, rel string) error {
		summary.Documents++
		target := filepath.Join(dst, rel)
		log := r.log.WithField("path", path)

		if r.skipExisting {
			if _, err := os.Stat(target); err == nil {
				log.Debug("destination exists, skipping")
				summary.Skipped++
				return nil
			}
		}

		report, err := r.engine.Extract(path, target)
		if err != nil {
			var saveErr *extract.SaveError
			if !errors.As(err, &saveErr) {
				return err
			}
			log.WithError(err).Error("cannot write document")
			summary.Failed++
			summary.Errors = append(summary.Errors, FileError{Path: path, Err: err})
			return nil
		}

		switch report.State {
		case extract.Extracted:
			summary.Extracted++
		case extract.CopiedVerbatim:
			summary.Copied++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("processing %s: %w", src, err)
	}

	r.log.WithFields(logrus.Fields{
		"documents": summary.Documents,
		"extracted": summary.Extracted,
		"copied":    summary.Copied,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	}).Info("batch finished")
	return summary, nil
}
