package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output file names written by Result.Write.
const (
	MediaFile      = "images.txt"
	CorrectFile    = "correct_files.txt"
	IncorrectFile  = "incorrect_files.txt"
	StatisticsFile = "statistics.txt"
)

// Result is the outcome of one classifier run.
type Result struct {
	WithMedia []string
	Correct   []string
	Incorrect []Invalid
}

// Statistics holds the run totals.
type Statistics struct {
	Total     int
	WithMedia int
	Correct   int
	Incorrect int
}

// Statistics returns the totals of r.
func (r *Result) Statistics() Statistics {
	s := Statistics{
		WithMedia: len(r.WithMedia),
		Correct:   len(r.Correct),
		Incorrect: len(r.Incorrect),
	}
	s.Total = s.WithMedia + s.Correct + s.Incorrect
	return s
}

// String renders the statistics report.
func (s Statistics) String() string {
	var sb strings.Builder
	sb.WriteString("=== File analysis report ===\n")
	fmt.Fprintf(&sb, "Total JSON files: %d\n", s.Total)
	fmt.Fprintf(&sb, "Files with images/formulas: %d\n", s.WithMedia)
	fmt.Fprintf(&sb, "Correctly parsed files: %d\n", s.Correct)
	fmt.Fprintf(&sb, "Incorrectly parsed files: %d\n", s.Incorrect)
	return sb.String()
}

// Write stores the path lists and statistics in dir, creating it if needed.
func (r *Result) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	incorrect := make([]string, len(r.Incorrect))
	for i, inv := range r.Incorrect {
		incorrect[i] = inv.Path
	}

	files := []struct {
		name    string
		content string
	}{
		{MediaFile, lines(r.WithMedia)},
		{CorrectFile, lines(r.Correct)},
		{IncorrectFile, lines(incorrect)},
		{StatisticsFile, r.Statistics().String()},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	return nil
}

func lines(paths []string) string {
	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	return sb.String()
}
