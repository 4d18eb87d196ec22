package grid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/ioformat"
)

const (
	gridMagic          = "GEOTESSGRID"
	gridFileFormatVersion = 2
)

// WriteBinary writes the grid in the binary format of §6.
func (g *Grid) WriteBinary(w io.Writer) error {
	bw := ioformat.NewWriter(w)
	bw.WriteMagic(gridMagic)
	bw.WriteU32(gridFileFormatVersion)
	bw.WriteString(g.softwareVersion)
	bw.WriteString(g.creationDate)
	bw.WriteString(g.description)
	bw.WriteString(g.ID())

	bw.WriteU32(uint32(len(g.tessellations)))
	for _, tess := range g.tessellations {
		bw.WriteU32(uint32(len(tess.Levels)))
		for _, lvl := range tess.Levels {
			bw.WriteU32(uint32(lvl.First))
			bw.WriteU32(uint32(lvl.Last))
		}
	}

	bw.WriteU32(uint32(len(g.vertices)))
	for _, v := range g.vertices {
		bw.WriteF64(v.X)
		bw.WriteF64(v.Y)
		bw.WriteF64(v.Z)
	}

	bw.WriteU32(uint32(len(g.triangles)))
	for _, t := range g.triangles {
		bw.WriteU32(uint32(t[0]))
		bw.WriteU32(uint32(t[1]))
		bw.WriteU32(uint32(t[2]))
	}

	return bw.Err()
}

// ReadBinary reads a grid in the binary format of §6, verifying the
// stored grid-id against the one recomputed from the loaded vertices and
// triangles.
func ReadBinary(r io.Reader) (*Grid, error) {
	br := ioformat.NewReader(r)
	br.ReadMagic(gridMagic)
	version := br.ReadU32()
	if br.Err() != nil {
		return nil, &errs.MalformedFile{Reason: br.Err().Error()}
	}
	if version != gridFileFormatVersion {
		return nil, &errs.MalformedFile{Reason: fmt.Sprintf("unsupported grid file version %d", version)}
	}

	softwareVersion := br.ReadString()
	creationDate := br.ReadString()
	description := br.ReadString()
	storedID := br.ReadString()

	nTess := br.ReadU32()
	tessellations := make([]Tessellation, nTess)
	for i := range tessellations {
		nLevels := br.ReadU32()
		levels := make([]Level, nLevels)
		for j := range levels {
			levels[j] = Level{First: int32(br.ReadU32()), Last: int32(br.ReadU32())}
		}
		tessellations[i] = Tessellation{Levels: levels}
	}

	nVertices := br.ReadU32()
	vertices := make([]geo.Vector3, nVertices)
	for i := range vertices {
		vertices[i] = geo.Vector3{X: br.ReadF64(), Y: br.ReadF64(), Z: br.ReadF64()}
	}

	nTriangles := br.ReadU32()
	triangles := make([]Triangle, nTriangles)
	for i := range triangles {
		triangles[i] = Triangle{int32(br.ReadU32()), int32(br.ReadU32()), int32(br.ReadU32())}
	}

	if err := br.Err(); err != nil {
		return nil, &errs.MalformedFile{Reason: err.Error()}
	}

	grid := New(vertices, triangles, tessellations, softwareVersion, creationDate, description)
	if storedID != "" && storedID != grid.ID() {
		return nil, &errs.MalformedFile{Reason: fmt.Sprintf("grid-id mismatch: file says %s, computed %s", storedID, grid.ID())}
	}
	return grid, nil
}

// WriteASCII writes the grid in the ASCII format of §6: the binary
// structure mirrored as whitespace/newline-separated fields, with
// length-prefixed strings on their own line.
func (g *Grid) WriteASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	writeASCIIString := func(s string) {
		fmt.Fprintf(bw, "%d\n%s\n", len(s), s)
	}

	fmt.Fprintln(bw, gridMagic)
	fmt.Fprintln(bw, gridFileFormatVersion)
	writeASCIIString(g.softwareVersion)
	writeASCIIString(g.creationDate)
	writeASCIIString(g.description)
	writeASCIIString(g.ID())

	fmt.Fprintln(bw, len(g.tessellations))
	for _, tess := range g.tessellations {
		fmt.Fprintln(bw, len(tess.Levels))
		for _, lvl := range tess.Levels {
			fmt.Fprintln(bw, lvl.First, lvl.Last)
		}
	}

	fmt.Fprintln(bw, len(g.vertices))
	for _, v := range g.vertices {
		fmt.Fprintf(bw, "%.17g %.17g %.17g\n", v.X, v.Y, v.Z)
	}

	fmt.Fprintln(bw, len(g.triangles))
	for _, t := range g.triangles {
		fmt.Fprintln(bw, t[0], t[1], t[2])
	}

	return bw.Flush()
}

// ReadASCII reads a grid in the ASCII format written by WriteASCII.
func ReadASCII(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<28)
	return ReadASCIIFromScanner(sc)
}

// ReadASCIIFromScanner reads a grid in the ASCII format from an
// already-positioned bufio.Scanner, letting a caller embedding an ASCII
// grid inside a larger ASCII stream (the model file format's "*" token
// case) continue reading line-by-line from the same scanner instead of
// handing off to a fresh io.Reader, which bufio.Scanner's internal
// buffering makes unsafe to reconstruct from a stream position.
func ReadASCIIFromScanner(sc *bufio.Scanner) (*Grid, error) {
	fail := func(reason string) (*Grid, error) {
		return nil, &errs.MalformedFile{Reason: reason}
	}

	nextLine := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	readString := func() (string, error) {
		lenLine, ok := nextLine()
		if !ok {
			return "", fmt.Errorf("truncated stream reading string length")
		}
		n, err := strconv.Atoi(strings.TrimSpace(lenLine))
		if err != nil {
			return "", fmt.Errorf("bad string length %q: %w", lenLine, err)
		}
		s, ok := nextLine()
		if !ok {
			return "", fmt.Errorf("truncated stream reading string body")
		}
		if len(s) != n {
			return "", fmt.Errorf("string length mismatch: header says %d, got %d", n, len(s))
		}
		return s, nil
	}

	magic, ok := nextLine()
	if !ok || strings.TrimSpace(magic) != gridMagic {
		return fail(fmt.Sprintf("bad magic: got %q, want %q", magic, gridMagic))
	}

	versionLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading version")
	}
	version, err := strconv.Atoi(strings.TrimSpace(versionLine))
	if err != nil || version != gridFileFormatVersion {
		return fail(fmt.Sprintf("unsupported grid file version %q", versionLine))
	}

	softwareVersion, err := readString()
	if err != nil {
		return fail(err.Error())
	}
	creationDate, err := readString()
	if err != nil {
		return fail(err.Error())
	}
	description, err := readString()
	if err != nil {
		return fail(err.Error())
	}
	storedID, err := readString()
	if err != nil {
		return fail(err.Error())
	}

	nTessLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading tessellation count")
	}
	nTess, _ := strconv.Atoi(strings.TrimSpace(nTessLine))
	tessellations := make([]Tessellation, nTess)
	for i := range tessellations {
		nLevelsLine, ok := nextLine()
		if !ok {
			return fail("truncated stream reading level count")
		}
		nLevels, _ := strconv.Atoi(strings.TrimSpace(nLevelsLine))
		levels := make([]Level, nLevels)
		for j := range levels {
			line, ok := nextLine()
			if !ok {
				return fail("truncated stream reading level range")
			}
			var first, last int32
			if _, err := fmt.Sscanf(line, "%d %d", &first, &last); err != nil {
				return fail(fmt.Sprintf("bad level range %q: %v", line, err))
			}
			levels[j] = Level{First: first, Last: last}
		}
		tessellations[i] = Tessellation{Levels: levels}
	}

	nVerticesLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading vertex count")
	}
	nVertices, _ := strconv.Atoi(strings.TrimSpace(nVerticesLine))
	vertices := make([]geo.Vector3, nVertices)
	for i := range vertices {
		line, ok := nextLine()
		if !ok {
			return fail("truncated stream reading vertex")
		}
		var x, y, z float64
		if _, err := fmt.Sscanf(line, "%g %g %g", &x, &y, &z); err != nil {
			return fail(fmt.Sprintf("bad vertex %q: %v", line, err))
		}
		vertices[i] = geo.Vector3{X: x, Y: y, Z: z}
	}

	nTrianglesLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading triangle count")
	}
	nTriangles, _ := strconv.Atoi(strings.TrimSpace(nTrianglesLine))
	triangles := make([]Triangle, nTriangles)
	for i := range triangles {
		line, ok := nextLine()
		if !ok {
			return fail("truncated stream reading triangle")
		}
		var a, b, c int32
		if _, err := fmt.Sscanf(line, "%d %d %d", &a, &b, &c); err != nil {
			return fail(fmt.Sprintf("bad triangle %q: %v", line, err))
		}
		triangles[i] = Triangle{a, b, c}
	}

	grid := New(vertices, triangles, tessellations, softwareVersion, creationDate, description)
	if storedID != "" && storedID != grid.ID() {
		return fail(fmt.Sprintf("grid-id mismatch: file says %s, computed %s", storedID, grid.ID()))
	}
	return grid, nil
}
