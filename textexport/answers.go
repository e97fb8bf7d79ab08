package textexport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/docxtract/docx"
)

const variantSuffix = "вар."

// AnswerText returns the non-blank body paragraphs of d followed by every
// table rendered as an answer key. Each table starts with a blank line;
// variants are sorted by label and each is followed by a blank line. A
// later row with the same label replaces an earlier one.
func AnswerText(d *docx.Document) string {
	var lines []string
	for _, p := range d.Paragraphs() {
		if text := docx.ParagraphText(p); strings.TrimSpace(text) != "" {
			lines = append(lines, text)
		}
	}

	for _, tbl := range d.Tables() {
		variants := answerVariants(docx.TableRows(tbl))
		labels := make([]string, 0, len(variants))
		for label := range variants {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		lines = append(lines, "")
		for _, label := range labels {
			lines = append(lines, label+"-"+variantSuffix, formatAnswers(variants[label]), "")
		}
	}
	return strings.Join(lines, "\n")
}

// answerVariants maps variant labels to their answer cells. Cells are
// trimmed and lowercased, and "1-вар." and "1 вар." both label variant "1".
// Rows without a label or without answer cells are ignored.
func answerVariants(rows [][]string) map[string][]string {
	variants := map[string][]string{}
	for _, row := range rows {
		cells := make([]string, len(row))
		blank := true
		for i, c := range row {
			cells[i] = strings.ToLower(strings.TrimSpace(c))
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		label := strings.Trim(strings.ReplaceAll(cells[0], variantSuffix, ""), " -")
		if label != "" && len(cells) > 1 {
			variants[label] = cells[1:]
		}
	}
	return variants
}

// formatAnswers numbers answers by column; empty cells keep their number
// but are not written.
func formatAnswers(answers []string) string {
	var parts []string
	for i, a := range answers {
		if a != "" {
			parts = append(parts, fmt.Sprintf("%d)%s;", i+1, a))
		}
	}
	return strings.Join(parts, " ")
}
