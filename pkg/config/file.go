package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// readFile reads a regular file, rejecting directories and special files.
// A missing file yields an error wrapping [fs.ErrNotExist].
func readFile(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// writeFileAtomic writes data next to path and renames it over path, so
// readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	pathInfo, err := os.Stat(path)
	if err == nil && pathInfo.IsDir() {
		return fmt.Errorf("%s: path is a directory", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("remove temp file",
				slog.String("path", tmpPath),
				slog.Any("error", err),
			)
		}
	}

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return fmt.Errorf("write file: %w", err)
	}

	err = os.Chmod(tmpPath, 0o600)
	if err != nil {
		cleanup()
		return fmt.Errorf("chmod file: %w", err)
	}

	err = os.Rename(tmpPath, path)
	if err != nil {
		cleanup()
		return fmt.Errorf("rename file: %w", err)
	}

	return nil
}
