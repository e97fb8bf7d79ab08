package classify

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FindEmpty returns the regular files under root that are empty or hold
// only whitespace, in lexical order.
func FindEmpty(root string) ([]string, error) {
	var empty []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			empty = append(empty, path)
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			empty = append(empty, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return empty, nil
}
