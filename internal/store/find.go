package store

import (
	"os"
	"path/filepath"
)

// FindProject walks up from startDir looking for a project.md file and
// returns the directory that holds it, or "" if none is found.
func FindProject(startDir string) (string, error) {
	dir := startDir
	for {
		_, err := os.Stat(filepath.Join(dir, projectFile))
		if err == nil {
			return dir, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
