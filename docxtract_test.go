package docxtract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxtract/artifact"
	"github.com/tsawler/docxtract/extract"
	"github.com/tsawler/docxtract/internal/docxtest"
)

func writeDoc(t *testing.T, b *docxtest.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lesson.docx")
	require.NoError(t, b.WriteFile(path), "writing docx")
	return path
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open("nonexistent.docx").Text()
	assert.Error(t, err)
	_, err = Open("nonexistent.docx").Inspect()
	assert.Error(t, err)
}

func TestExtractTo(t *testing.T) {
	src := writeDoc(t, docxtest.New().Picture("", docxtest.PNG).Math("Решите: ", "x=1"))
	dst := filepath.Join(t.TempDir(), "lesson.docx")

	ext := Open(src)
	flags, err := ext.Inspect()
	require.NoError(t, err)
	assert.True(t, flags.HasImages)
	assert.True(t, flags.HasMath)

	report, err := ext.ConvertImages().ExtractTo(dst)
	require.NoError(t, err)
	assert.Equal(t, extract.Extracted, report.State)
	assert.Equal(t, 1, report.Substituted(artifact.Image))
	assert.Equal(t, 1, report.Substituted(artifact.Math))

	text := Must(Open(dst).Text())
	assert.Contains(t, text, "[Изображение заменено: ")
	assert.Contains(t, text, "Решите: [Формула заменена: ")
}

func TestExtractInPlace(t *testing.T) {
	src := writeDoc(t, docxtest.New().Paragraph("nothing here"))

	report, err := Open(src).ExtractInPlace()
	require.NoError(t, err)
	assert.Equal(t, extract.CopiedVerbatim, report.State)
}

func TestOptionsAreCopied(t *testing.T) {
	base := Open("a.docx")
	converted := base.ConvertImages()
	assert.False(t, base.options.convertImages, "option method modified the receiver")
	assert.True(t, converted.options.convertImages)
}

func TestMust_Panics(t *testing.T) {
	assert.Panics(t, func() { Must(Open("nonexistent.docx").Text()) })
}
