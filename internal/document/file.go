package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/creachadair/atomicfile"
)

// ReadFile returns the contents and permission bits of the file at path.
// A missing file yields an error wrapping fs.ErrNotExist.
func ReadFile(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%s is not a regular file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return data, info.Mode().Perm(), nil
}

// WriteFile replaces the file at path with data. The replacement is atomic:
// readers observe either the old or the new contents, never a partial write.
// A symlink is followed and its target replaced; the link itself is kept.
func WriteFile(path string, data []byte, mode fs.FileMode) error {
	path, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}

	// Renaming over a read-only file would succeed, so check write access on
	// the original first.
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := atomicfile.WriteData(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
