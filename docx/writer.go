package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write serializes the package to w. word/document.xml is rebuilt from the
// current tree; every other entry is copied in its original compressed form.
func (d *Document) Write(w io.Writer) error {
	body, err := d.tree.Bytes()
	if err != nil {
		return fmt.Errorf("serializing document.xml: %w", err)
	}

	zw := zip.NewWriter(w)
	for _, f := range d.zipReader.File {
		if f.Name != partDocument {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return fmt.Errorf("creating %s: %w", f.Name, err)
		}
		if _, err := fw.Write(body); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

// SaveAs writes the package to filename. The data goes to a temporary file
// in the same directory which is renamed over filename only once it is
// complete, so a failed save never leaves a truncated document behind.
func (d *Document) SaveAs(filename string) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := d.Write(tmp); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	// CreateTemp uses mode 0600; documents should carry the usual mode.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", filename, err)
	}
	return nil
}
