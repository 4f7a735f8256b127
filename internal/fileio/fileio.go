// Package fileio reads and writes whole files for the lpz commands.
package fileio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andybalholm/lpz"
)

// ReadFile returns the contents of the file at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, lpz.Errorf(lpz.InputError, "input file not found: %s", path)
	}
	if err != nil {
		return nil, lpz.Wrap(lpz.SystemError, err, "reading %s", path)
	}
	return data, nil
}

// WriteFile writes data to the file at path, creating any missing parent
// directories. If overwrite is false and the file already exists, it
// returns an error and leaves the file alone.
func WriteFile(path string, data []byte, overwrite bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return lpz.Wrap(lpz.SystemError, err, "creating directory %s", dir)
		}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flag, 0644)
	if errors.Is(err, fs.ErrExist) {
		return lpz.Errorf(lpz.InputError, "file exists and overwrite is disabled: %s", path)
	}
	if err != nil {
		return lpz.Wrap(lpz.SystemError, err, "creating %s", path)
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return lpz.Wrap(lpz.SystemError, err, "writing %s", path)
	}
	return nil
}
