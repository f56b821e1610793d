// Package filex holds small filesystem helpers for generated artifacts.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
)

// EnsureDir creates root/parts... (and any missing parents) and returns its
// path. An empty root means the current working directory.
func EnsureDir(root string, parts ...string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}

	dir := filepath.Join(append([]string{root}, parts...)...)

	if err := os.MkdirAll(dir, common.DirMode); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// MakeExecutable sets the generated-artifact permission bits on path.
func MakeExecutable(path string) error {
	if err := os.Chmod(path, common.ExecutableMode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// WriteExecutable writes data to path and marks it executable.
func WriteExecutable(path string, data []byte) error {
	if err := os.WriteFile(path, data, common.ExecutableMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// WriteFile does not change the mode of an existing file.
	return MakeExecutable(path)
}
