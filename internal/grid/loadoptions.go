package grid

import (
	"os"
	"strings"
)

// LoadOptions controls how LoadFile reads a grid file, following the
// teacher's plain-option-struct-with-Default-constructor configuration
// shape (ground: pkg/s57/options.go ParseOptions / DefaultParseOptions).
type LoadOptions struct {
	// ASCII reads the text-format grid file instead of the binary one.
	ASCII bool
	// Validate runs TestGrid() immediately after a successful load and
	// returns its error instead of a well-formed-looking but broken Grid.
	Validate bool
}

// DefaultLoadOptions reads the binary format and validates on load.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{ASCII: false, Validate: true}
}

// LoadFile reads a grid file from path under the given options.
func LoadFile(path string, opts LoadOptions) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var g *Grid
	if opts.ASCII {
		g, err = ReadASCII(f)
	} else {
		g, err = ReadBinary(f)
	}
	if err != nil {
		return nil, err
	}
	if opts.Validate {
		if err := g.TestGrid(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// SaveFile writes the grid to path in binary format, or ASCII if the path
// ends in ".ascii" or ".txt".
func (g *Grid) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".ascii") || strings.HasSuffix(path, ".txt") {
		return g.WriteASCII(f)
	}
	return g.WriteBinary(f)
}
