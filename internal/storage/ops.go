// Package storage holds small filesystem helpers shared by the history store
// and the download library.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rmartinelli/ytgrab/internal/constants"
)

// Sanitize strips characters that are invalid in filenames and truncates
// overlong names while preserving the extension.
func Sanitize(name string) string {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(constants.InvalidPathChars, r) {
			return -1
		}
		return r
	}, name)
	mapped = strings.ReplaceAll(mapped, "'", "")
	mapped = strings.ReplaceAll(mapped, "\"", "")
	mapped = strings.TrimRight(mapped, ". ")

	if len(mapped) > constants.MaxFilenameLength {
		ext := filepath.Ext(mapped)
		base := mapped[:len(mapped)-len(ext)]
		keep := constants.MaxFilenameLength - len(ext)
		if keep < 0 {
			keep = 0
		}
		if keep > len(base) {
			keep = len(base)
		}
		mapped = base[:keep] + ext
	}

	return mapped
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, constants.DirPermissions)
}

func RemoveFile(path string) error {
	return os.Remove(path)
}

func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial write.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
