package textexport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxtract/docx"
	"github.com/tsawler/docxtract/internal/docxtest"
)

type fakeOCR struct {
	text  string
	err   error
	calls [][]byte
}

func (f *fakeOCR) RecognizeImage(data []byte) (string, error) {
	f.calls = append(f.calls, data)
	return f.text, f.err
}

func open(t *testing.T, b *docxtest.Builder) *docx.Document {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)
	d, err := docx.OpenBytes(data)
	require.NoError(t, err)
	return d
}

func TestText_ParagraphsThenTables(t *testing.T) {
	d := open(t, docxtest.New().
		Table([]string{"1-вар.", "а"}, []string{"2-вар.", "б"}).
		Paragraph("Вопрос").
		Paragraph("  ").
		Paragraph("Ответ"))

	got := New(Config{}).Text(d)
	assert.Equal(t, "Вопрос\nОтвет\n1-вар.\nа\n2-вар.\nб", got)
}

func TestText_NFC(t *testing.T) {
	// "й" written as "и" plus a combining breve.
	d := open(t, docxtest.New().Paragraph("мо\u0438\u0306"))
	assert.Equal(t, "мо\u0439", New(Config{}).Text(d))
}

func TestText_AnswerTables(t *testing.T) {
	d := open(t, docxtest.New().
		Paragraph("Ответы").
		Table(
			[]string{"2 вар.", "", "В"},
			[]string{"", "", ""},
			[]string{"Вопрос"},
			[]string{"1-вар.", "А", "б", ""},
		))

	got := New(Config{AnswerTables: true}).Text(d)
	assert.Equal(t, "Ответы\n\n1-вар.\n1)а; 2)б;\n\n2-вар.\n2)в;\n", got)
}

func TestText_AnswerTablesWithoutTables(t *testing.T) {
	d := open(t, docxtest.New().Paragraph("Вопрос").Paragraph("Ответ"))
	assert.Equal(t, "Вопрос\nОтвет", New(Config{AnswerTables: true}).Text(d))
}

func TestAnswerVariants_LaterRowWins(t *testing.T) {
	got := answerVariants([][]string{
		{"1 вар.", "а"},
		{" 1-ВАР. ", "б", "в"},
	})
	assert.Equal(t, map[string][]string{"1": {"б", "в"}}, got)
}

func TestText_OCR(t *testing.T) {
	img := filepath.Join(t.TempDir(), "a_image_1.png")
	require.NoError(t, os.WriteFile(img, []byte("pixels"), 0o644))

	d := open(t, docxtest.New().
		Paragraph("[Изображение заменено: " + img + "]").
		Paragraph("[Формула заменена: m.xml]"))

	rec := &fakeOCR{text: "  text from image \n"}
	got := New(Config{OCR: rec}).Text(d)

	assert.Equal(t, "[Изображение заменено: "+img+"]\ntext from image\n[Формула заменена: m.xml]", got)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "pixels", string(rec.calls[0]))
}

func TestText_OCRFailureKeepsLine(t *testing.T) {
	d := open(t, docxtest.New().Paragraph("[Изображение заменено: /missing.png]"))

	rec := &fakeOCR{err: errors.New("boom")}
	got := New(Config{OCR: rec}).Text(d)
	assert.Equal(t, "[Изображение заменено: /missing.png]", got)
	assert.Empty(t, rec.calls, "unreadable image never reaches the recognizer")
}

func TestRun(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "8"), 0o755))
	require.NoError(t, docxtest.New().Paragraph("один").WriteFile(filepath.Join(src, "8", "W-8-032.docx")))
	require.NoError(t, os.WriteFile(filepath.Join(src, "8", "bad.docx"), []byte("junk"), 0o644))

	dst := filepath.Join(t.TempDir(), "txt")
	summary, err := New(Config{}).Run(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exported)
	assert.Equal(t, 1, summary.Failed)

	data, err := os.ReadFile(filepath.Join(dst, "8", "W-8-032.txt"))
	require.NoError(t, err)
	assert.Equal(t, "один", string(data))
	assert.NoFileExists(t, filepath.Join(dst, "8", "bad.txt"))
}
