package service

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
)

// DiscoverUnits walks root recursively and returns every directory containing
// the input descriptor file, sorted for deterministic pass order. The mere
// presence of the descriptor marks a directory as a SimulationUnit.
func DiscoverUnits(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, statErr := os.Stat(filepath.Join(path, domain.InputFileName)); statErr == nil {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}
