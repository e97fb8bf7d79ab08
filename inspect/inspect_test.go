package inspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxtract/internal/docxtest"
)

func write(t *testing.T, b *docxtest.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, b.WriteFile(path))
	return path
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name string
		b    *docxtest.Builder
		want Result
	}{
		{"plain", docxtest.New().Paragraph("text"), Result{}},
		{"picture", docxtest.New().Picture("", docxtest.PNG), Result{HasImages: true}},
		{"chart counts as image", docxtest.New().Chart(), Result{HasImages: true}},
		{"inline math", docxtest.New().Math("x", "a+b"), Result{HasMath: true}},
		{"display math", docxtest.New().DisplayMath("c"), Result{HasMath: true}},
		{"table", docxtest.New().Table([]string{"a", "b"}), Result{HasTables: true}},
		{
			"everything",
			docxtest.New().Picture("", docxtest.PNG).Math("", "x").Table([]string{"a"}),
			Result{HasMath: true, HasImages: true, HasTables: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inspect(write(t, tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.HasMath || tt.want.HasImages, got.Extractable())
		})
	}
}

func TestInspect_MathSearchIsTextual(t *testing.T) {
	// A math element under another prefix is not found by the text search.
	b := docxtest.New().Raw(`<w:p><mm:oMath xmlns:mm="http://schemas.openxmlformats.org/officeDocument/2006/math"/></w:p>`)

	got, err := Inspect(write(t, b))
	require.NoError(t, err)
	assert.False(t, got.HasMath)
}

func TestCheck_OpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	logger, hook := test.NewNullLogger()
	hasMath, hasImages := Check(path, logger)

	assert.False(t, hasMath)
	assert.False(t, hasImages)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, path, hook.LastEntry().Data["path"])
}

func TestCheck_NilLogger(t *testing.T) {
	hasMath, hasImages := Check(filepath.Join(t.TempDir(), "missing.docx"), nil)
	assert.False(t, hasMath)
	assert.False(t, hasImages)
}

func TestCheck(t *testing.T) {
	hasMath, hasImages := Check(write(t, docxtest.New().Picture("", docxtest.PNG).DisplayMath("x")), nil)
	assert.True(t, hasMath)
	assert.True(t, hasImages)
}
