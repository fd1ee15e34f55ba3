package adapter

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "github.com/symup/symup/internal/model"
)

// ArchiveAdapter turns a directory (a dSYM bundle) into a single
// uploadable archive file.
type ArchiveAdapter interface {
	// ZipDirectory writes a zip of src to dst and returns dst's size.
	ZipDirectory(src, dst m.Path) (int64, error)
}

// ZipArchiveAdapter is the archive/zip implementation of ArchiveAdapter.
type ZipArchiveAdapter struct{}

// NewZipArchiveAdapter constructs a ZipArchiveAdapter.
func NewZipArchiveAdapter() *ZipArchiveAdapter {
	return &ZipArchiveAdapter{}
}

// ZipDirectory archives src recursively. Entry names are rooted at the
// bundle's base name so the archive unpacks to a single directory.
func (a *ZipArchiveAdapter) ZipDirectory(src, dst m.Path) (int64, error) {
	out, err := os.Create(string(dst))
	if err != nil {
		return 0, fmt.Errorf("create archive %s: %w", dst, err)
	}

	defer func() {
		_ = out.Close()
	}()

	writer := zip.NewWriter(out)
	bundleName := filepath.Base(string(src))

	err = filepath.Walk(string(src), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		return a.addFile(writer, path, filepath.ToSlash(filepath.Join(bundleName, rel)))
	})
	if err != nil {
		_ = writer.Close()
		return 0, fmt.Errorf("archive %s: %w", src, err)
	}

	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("finalize archive %s: %w", dst, err)
	}

	if err := out.Sync(); err != nil {
		return 0, err
	}

	info, err := out.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

func (a *ZipArchiveAdapter) addFile(writer *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	entry, err := writer.Create(name)
	if err != nil {
		return err
	}

	_, err = io.Copy(entry, f)

	return err
}
