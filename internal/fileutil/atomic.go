// Package fileutil writes reports and configuration without ever leaving a
// half-written file behind.
package fileutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic streams the output of write into filename. The content goes to
// a temporary file in the same directory that is renamed over filename only
// after write succeeds, so readers see the old file or the new one.
func WriteAtomic(filename string, perm os.FileMode, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("fileutil: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("fileutil: write %s: %w", filename, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fileutil: sync %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fileutil: close %s: %w", filename, err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("fileutil: chmod %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("fileutil: rename into %s: %w", filename, err)
	}
	return nil
}

// WriteFileAtomic writes data to filename atomically.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return WriteAtomic(filename, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
