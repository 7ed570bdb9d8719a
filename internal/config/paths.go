package config

import (
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" against home and a relative path against dir.
func ExpandPath(path, home, dir string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(dir, path)
	}
}
