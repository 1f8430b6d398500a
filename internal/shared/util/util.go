package util

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the parent directory of path (0755) when it is not
// the working directory.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(strings.TrimSpace(path))
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
