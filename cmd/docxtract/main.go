// Command docxtract extracts images and formulas from DOCX trees, exports
// their text and classifies the JSON records produced from that text.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/tsawler/docxtract/batch"
	"github.com/tsawler/docxtract/classify"
	"github.com/tsawler/docxtract/config"
	"github.com/tsawler/docxtract/extract"
	"github.com/tsawler/docxtract/format"
	"github.com/tsawler/docxtract/inspect"
	"github.com/tsawler/docxtract/internal/logging"
	"github.com/tsawler/docxtract/ocr"
	"github.com/tsawler/docxtract/textexport"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "docxtract:", err)
		os.Exit(1)
	}
}

// state is what the Before hook prepares for the commands.
type state struct {
	cfg *config.Config
	log *logrus.Logger
}

func newApp() *cli.App {
	st := &state{}

	return &cli.App{
		Name:    "docxtract",
		Usage:   "extract images and formulas from DOCX documents and classify derived JSON records",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"DOCXTRACT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file with DOCXTRACT_* variables",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn, error",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"), c.String("env-file"))
			if err != nil {
				return err
			}
			if c.IsSet("log-level") {
				cfg.LogLevel = c.String("log-level")
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			st.cfg = cfg
			st.log = logging.New(cfg.LogLevel)
			st.log.SetOutput(c.App.ErrWriter)
			return nil
		},
		Commands: []*cli.Command{
			inspectCommand(st),
			extractCommand(st),
			classifyCommand(st),
			textCommand(st),
			emptyCommand(st),
		},
	}
}

func inspectCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "report whether documents contain math, images or tables",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("inspect needs at least one file", 2)
			}
			for _, path := range c.Args().Slice() {
				f, err := format.DetectFile(path)
				if err != nil || f != format.DOCX {
					fmt.Fprintf(c.App.Writer, "%s\tnot a DOCX document\n", path)
					continue
				}
				r, err := inspect.Inspect(path)
				if err != nil {
					st.log.WithField("path", path).WithError(err).Warn("cannot inspect document")
					fmt.Fprintf(c.App.Writer, "%s\tunreadable\n", path)
					continue
				}
				fmt.Fprintf(c.App.Writer, "%s\tmath=%t images=%t tables=%t\n", path, r.HasMath, r.HasImages, r.HasTables)
			}
			return nil
		},
	}
}

func extractCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "extract images and formulas from every document of a tree",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "src", Usage: "source directory"},
			&cli.StringFlag{Name: "dst", Usage: "destination directory (may equal src)"},
			&cli.BoolFlag{Name: "skip-existing", Usage: "leave documents whose destination exists"},
			&cli.BoolFlag{Name: "convert-images", Usage: "re-encode non-PNG pictures as PNG"},
		},
		Action: func(c *cli.Context) error {
			cfg := st.cfg.Extract
			stringFlag(c, "src", &cfg.Src)
			stringFlag(c, "dst", &cfg.Dst)
			boolFlag(c, "skip-existing", &cfg.SkipExisting)
			boolFlag(c, "convert-images", &cfg.ConvertImages)
			if cfg.Src == "" || cfg.Dst == "" {
				return cli.Exit("extract needs --src and --dst", 2)
			}

			engine := extract.New(extract.Config{Logger: st.log, ConvertImages: cfg.ConvertImages})
			runner := batch.New(engine, batch.Config{Logger: st.log, SkipExisting: cfg.SkipExisting})
			summary, err := runner.Run(c.Context, cfg.Src, cfg.Dst)
			if summary != nil {
				fmt.Fprintf(c.App.Writer, "documents: %d, extracted: %d, copied: %d, skipped: %d, failed: %d\n",
					summary.Documents, summary.Extracted, summary.Copied, summary.Skipped, summary.Failed)
			}
			return err
		},
	}
}

func classifyCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "sort JSON records by related media and check the rest",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "directory holding JSON records"},
			&cli.StringFlag{Name: "out", Usage: "directory for the result lists"},
			&cli.BoolFlag{Name: "strict", Usage: "also validate records against the JSON schema"},
		},
		Action: func(c *cli.Context) error {
			cfg := st.cfg.Classify
			stringFlag(c, "root", &cfg.Root)
			stringFlag(c, "out", &cfg.Out)
			boolFlag(c, "strict", &cfg.Strict)
			if cfg.Root == "" {
				return cli.Exit("classify needs --root", 2)
			}

			classifier, err := classify.New(classify.Config{Logger: st.log, Strict: cfg.Strict})
			if err != nil {
				return err
			}
			result, err := classifier.Run(cfg.Root)
			if err != nil {
				return err
			}
			if err := result.Write(cfg.Out); err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, result.Statistics())
			return nil
		},
	}
}

func textCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "text",
		Usage: "write the plain text of every document of a tree",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "src", Usage: "source directory"},
			&cli.StringFlag{Name: "dst", Usage: "destination directory for .txt files"},
			&cli.BoolFlag{Name: "ocr", Usage: "append OCR text of referenced images"},
			&cli.StringSliceFlag{Name: "ocr-lang", Usage: "OCR language, repeatable"},
			&cli.IntFlag{Name: "ocr-psm", Usage: "Tesseract page segmentation mode (0-13)"},
			&cli.BoolFlag{Name: "answer-tables", Usage: `render answer tables as "N-вар." lines`},
		},
		Action: func(c *cli.Context) error {
			cfg := st.cfg.Text
			stringFlag(c, "src", &cfg.Src)
			stringFlag(c, "dst", &cfg.Dst)
			boolFlag(c, "ocr", &cfg.OCR)
			boolFlag(c, "answer-tables", &cfg.AnswerTables)
			if c.IsSet("ocr-lang") {
				cfg.OCRLanguages = c.StringSlice("ocr-lang")
			}
			if c.IsSet("ocr-psm") {
				cfg.OCRPageSegMode = c.Int("ocr-psm")
			}
			if cfg.Src == "" || cfg.Dst == "" {
				return cli.Exit("text needs --src and --dst", 2)
			}
			if cfg.OCRPageSegMode < 0 || cfg.OCRPageSegMode > 13 {
				return cli.Exit(fmt.Sprintf("--ocr-psm %d is out of range 0-13", cfg.OCRPageSegMode), 2)
			}

			exportCfg := textexport.Config{Logger: st.log, AnswerTables: cfg.AnswerTables}
			if cfg.OCR {
				client, err := ocr.New(cfg.OCRLanguages...)
				if err != nil {
					return err
				}
				defer client.Close()
				if err := client.SetPageSegMode(ocr.PageSegMode(cfg.OCRPageSegMode)); err != nil {
					return fmt.Errorf("setting OCR page segmentation mode: %w", err)
				}
				exportCfg.OCR = client
			}

			summary, err := textexport.New(exportCfg).Run(c.Context, cfg.Src, cfg.Dst)
			if summary != nil {
				fmt.Fprintf(c.App.Writer, "exported: %d, failed: %d\n", summary.Exported, summary.Failed)
			}
			return err
		},
	}
}

func emptyCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "empty",
		Usage: "list files that are empty or hold only whitespace",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "directory to scan", Required: true},
		},
		Action: func(c *cli.Context) error {
			paths, err := classify.FindEmpty(c.String("root"))
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(c.App.Writer, p)
			}
			st.log.WithField("count", len(paths)).Info("empty files found")
			return nil
		},
	}
}

func stringFlag(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

func boolFlag(c *cli.Context, name string, dst *bool) {
	if c.IsSet(name) {
		*dst = c.Bool(name)
	}
}
