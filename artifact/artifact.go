// Package artifact defines where extracted side files live and how the
// placeholders that replace them read. The same layout is produced by the
// extraction engine and re-derived by the classifier, so it is the only link
// between a document and its side files.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies a category of extracted object.
type Kind int

const (
	// Image is an embedded raster picture.
	Image Kind = iota
	// Math is an Office Math subtree.
	Math
)

// String returns the name used in artifact file names.
func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case Math:
		return "math"
	default:
		return "unknown"
	}
}

// Dir returns the subdirectory of the artifact root holding k.
func (k Kind) Dir() string {
	if k == Math {
		return MathDir
	}
	return ImagesDir
}

// Ext returns the file extension of k's side files.
func (k Kind) Ext() string {
	if k == Math {
		return ".xml"
	}
	return ".png"
}

const (
	// RootPrefix prefixes the per-document artifact directory.
	RootPrefix = "extracted_files_"
	// ImagesDir holds extracted images.
	ImagesDir = "images"
	// MathDir holds extracted math fragments.
	MathDir = "math_files"
)

const (
	imagePlaceholder = "[Изображение заменено: %s]"
	mathPlaceholder  = "[Формула заменена: %s]"
)

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Layout names the side files of one document.
type Layout struct {
	// Base is the document base name shared by every artifact.
	Base string
	// Root is <dir>/extracted_files_<Base>.
	Root string
}

// For returns the layout of the document that will be written to dst,
// named after src.
func For(src, dst string) Layout {
	base := BaseName(src)
	return Layout{
		Base: base,
		Root: filepath.Join(filepath.Dir(dst), RootPrefix+base),
	}
}

// ForRecord returns the layout a record at path correlates with.
func ForRecord(path string) Layout {
	return For(path, path)
}

// KindDir returns the directory holding artifacts of kind k.
func (l Layout) KindDir(k Kind) string {
	return filepath.Join(l.Root, k.Dir())
}

// Path returns the side file of the seq-th object of kind k, seq 1-based.
func (l Layout) Path(k Kind, seq int) string {
	return filepath.Join(l.KindDir(k), fmt.Sprintf("%s_%s_%d%s", l.Base, k, seq, k.Ext()))
}

// Owns reports whether name is an artifact file name of this layout's
// document.
func (l Layout) Owns(name string) bool {
	return strings.HasPrefix(name, l.Base)
}

// Placeholder returns the text that replaces an extracted object of kind k
// stored at path.
func Placeholder(k Kind, path string) string {
	if k == Math {
		return fmt.Sprintf(mathPlaceholder, path)
	}
	return fmt.Sprintf(imagePlaceholder, path)
}

// ParsePlaceholder reports the kind and path of a placeholder found in text.
// Text around the placeholder is ignored.
func ParsePlaceholder(text string) (Kind, string, bool) {
	for _, k := range []Kind{Image, Math} {
		prefix, _, _ := strings.Cut(Placeholder(k, "\x00"), "\x00")
		i := strings.Index(text, prefix)
		if i < 0 {
			continue
		}
		rest := text[i+len(prefix):]
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			continue
		}
		return k, rest[:end], true
	}
	return 0, "", false
}
