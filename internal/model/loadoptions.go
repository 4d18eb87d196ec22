package model

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/geotess/geotess-go/internal/grid"
)

// LoadFile reads a model file from path, following an external grid
// reference relative to the model file's own directory if one is present.
// ASCII files are recognized by a ".ascii" or ".txt" suffix.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	loadGrid := func(gridPath string) (*grid.Grid, error) {
		full := gridPath
		if !filepath.IsAbs(gridPath) {
			full = filepath.Join(dir, gridPath)
		}
		return grid.LoadFile(full, grid.DefaultLoadOptions())
	}

	if strings.HasSuffix(path, ".ascii") || strings.HasSuffix(path, ".txt") {
		return ReadASCII(f, loadGrid)
	}
	return ReadBinary(f, loadGrid)
}

// SaveFile writes the model to path, embedding the grid unless
// gridPath is non-empty, in which case the grid is written as an external
// reference and not embedded.
func (m *Model) SaveFile(path string, gridPath string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".ascii") || strings.HasSuffix(path, ".txt") {
		return m.WriteASCII(f, gridPath)
	}
	return m.WriteBinary(f, gridPath)
}
