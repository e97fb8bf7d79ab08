package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxtract/extract"
	"github.com/tsawler/docxtract/format"
	"github.com/tsawler/docxtract/internal/docxtest"
)

func writeDoc(t *testing.T, path string, b *docxtest.Builder) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, b.WriteFile(path))
}

func sourceTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeDoc(t, filepath.Join(src, "Геометрия 10", "S-10-003.docx"), docxtest.New().Picture("", docxtest.PNG))
	writeDoc(t, filepath.Join(src, "Геометрия 10", "S-10-004.docx"), docxtest.New().Paragraph("plain"))
	writeDoc(t, filepath.Join(src, "root.DOCX"), docxtest.New().Math("", "x"))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Геометрия 10", "~$S-10-003.docx"), []byte("lock"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip"), 0o644))
	return src
}

func TestRun_MirrorsTree(t *testing.T) {
	src := sourceTree(t)
	dst := filepath.Join(t.TempDir(), "new")

	summary, err := New(extract.New(extract.Config{}), Config{}).Run(context.Background(), src, dst)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Documents)
	assert.Equal(t, 2, summary.Extracted)
	assert.Equal(t, 1, summary.Copied)
	assert.Zero(t, summary.Failed)

	assert.FileExists(t, filepath.Join(dst, "Геометрия 10", "S-10-003.docx"))
	assert.FileExists(t, filepath.Join(dst, "Геометрия 10", "S-10-004.docx"))
	assert.FileExists(t, filepath.Join(dst, "Геометрия 10", "extracted_files_S-10-003", "images", "S-10-003_image_1.png"))
	assert.FileExists(t, filepath.Join(dst, "extracted_files_root", "math_files", "root_math_1.xml"))
	assert.NoFileExists(t, filepath.Join(dst, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(dst, "Геометрия 10", "~$S-10-003.docx"))
}

func TestRun_SkipExisting(t *testing.T) {
	src := sourceTree(t)
	dst := t.TempDir()

	existing := filepath.Join(dst, "Геометрия 10", "S-10-003.docx")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("done earlier"), 0o644))

	summary, err := New(extract.New(extract.Config{}), Config{SkipExisting: true}).Run(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "done earlier", string(data))
	assert.NoDirExists(t, filepath.Join(dst, "Геометрия 10", "extracted_files_S-10-003"))
}

func TestRun_InPlaceRerunSkipsExtractionDirs(t *testing.T) {
	src := sourceTree(t)
	runner := New(extract.New(extract.Config{}), Config{})

	_, err := runner.Run(context.Background(), src, src)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background(), src, src)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Documents)
	assert.Equal(t, 3, summary.Copied)
}

func TestRun_SaveFailureContinues(t *testing.T) {
	src := sourceTree(t)
	dst := t.TempDir()

	// A file where a destination directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(dst, "Геометрия 10"), nil, 0o644))

	summary, err := New(extract.New(extract.Config{}), Config{}).Run(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Extracted)
	require.Len(t, summary.Errors, 2)

	var saveErr *extract.SaveError
	assert.ErrorAs(t, summary.Errors[0].Err, &saveErr)
}

func TestRun_Cancelled(t *testing.T) {
	src := sourceTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(extract.New(extract.Config{}), Config{}).Run(ctx, src, t.TempDir())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, summary.Documents)
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := New(extract.New(extract.Config{}), Config{}).Run(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.Error(t, err)
}

func TestWalk_RelativePaths(t *testing.T) {
	src := sourceTree(t)

	var rels []string
	err := Walk(context.Background(), src, format.DOCX, nil, func(path, rel string) error {
		rels = append(rels, rel)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"root.DOCX",
		filepath.Join("Геометрия 10", "S-10-003.docx"),
		filepath.Join("Геометрия 10", "S-10-004.docx"),
	}, rels)
}
