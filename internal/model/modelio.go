package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/grid"
	"github.com/geotess/geotess-go/internal/ioformat"
	"github.com/geotess/geotess-go/internal/metadata"
	"github.com/geotess/geotess-go/internal/profile"
)

const (
	modelMagic             = "GEOTESSMODEL"
	modelFileFormatVersion = 2
)

// WriteBinary writes the model in the binary format of §6: header strings,
// layer/tessellation table, attribute names/units, data type, EarthShape
// name, every (vertex, layer) profile record, the grid (embedded or as an
// external reference), and an optional derived-class extension.
//
// gridPath, when non-empty, causes the grid to be written as an external
// relative-path reference instead of embedded in the model file, mirroring
// the "*" token convention of §6 ("Grid: either embedded ... or a relative
// path to an external grid file").
func (m *Model) WriteBinary(w io.Writer, gridPath string) error {
	bw := ioformat.NewWriter(w)
	writeModelHeader(bw, m, gridPath == "")
	if bw.Err() != nil {
		return bw.Err()
	}

	nVertices, nLayers := m.store.NVertices(), m.meta.NLayers()
	for v := 0; v < nVertices; v++ {
		for l := 0; l < nLayers; l++ {
			prof, err := m.store.Profile(v, l)
			if err != nil {
				return err
			}
			writeProfile(bw, m.meta.ElementKind(), prof)
		}
	}
	if err := bw.Err(); err != nil {
		return err
	}

	if gridPath != "" {
		bw.WriteString(gridPath)
		if bw.Err() != nil {
			return bw.Err()
		}
	} else {
		bw.WriteString("*")
		if err := bw.Err(); err != nil {
			return err
		}
		if err := m.grid.WriteBinary(w); err != nil {
			return err
		}
	}

	return writeExtension(bw, m)
}

func writeModelHeader(bw *ioformat.Writer, m *Model, embedGrid bool) {
	bw.WriteMagic(modelMagic)
	bw.WriteU32(modelFileFormatVersion)
	bw.WriteString(m.meta.SoftwareVersion())
	bw.WriteString(m.meta.GenerationDate())
	bw.WriteString(m.meta.Description())

	nLayers := m.meta.NLayers()
	bw.WriteU32(uint32(nLayers))
	for i := 0; i < nLayers; i++ {
		bw.WriteString(m.meta.LayerName(i))
	}
	for i := 0; i < nLayers; i++ {
		bw.WriteU32(uint32(m.meta.TessellationID(i)))
	}

	bw.WriteString(joinSemicolon(attributeNames(m.meta)))
	bw.WriteString(joinSemicolon(attributeUnits(m.meta)))
	bw.WriteString(m.meta.ElementKind().String())
	bw.WriteString(m.meta.EarthShape().Name())
	bw.WriteU32(uint32(m.store.NVertices()))
}

func writeExtension(bw *ioformat.Writer, m *Model) error {
	ext, ok := m.Extension()
	if !ok {
		bw.WriteU8(0)
		return bw.Err()
	}
	bw.WriteU8(1)
	bw.WriteString(ext.ClassTag())
	bw.WriteU32(ext.FormatVersion())
	if err := bw.Err(); err != nil {
		return err
	}
	return ext.WriteExtra(bw)
}

// ReadBinary reads a model in the binary format written by WriteBinary.
// loadGrid is consulted only when the model references an external grid
// file (a token other than "*").
func ReadBinary(r io.Reader, loadGrid func(path string) (*grid.Grid, error)) (*Model, error) {
	br := ioformat.NewReader(r)
	nVertices, nLayers, meta, err := readModelHeader(br)
	if err != nil {
		return nil, err
	}

	store := profile.NewStore(nVertices, nLayers)
	for v := 0; v < nVertices; v++ {
		for l := 0; l < nLayers; l++ {
			p, err := readProfile(br, meta.ElementKind(), meta.NAttributes())
			if err != nil {
				return nil, &errs.MalformedFile{Reason: err.Error()}
			}
			if err := store.SetProfile(v, l, p); err != nil {
				return nil, err
			}
		}
	}

	gridToken := br.ReadString()
	if br.Err() != nil {
		return nil, &errs.MalformedFile{Reason: br.Err().Error()}
	}
	var g *grid.Grid
	if gridToken == "*" {
		g, err = grid.ReadBinary(r)
	} else {
		if loadGrid == nil {
			return nil, &errs.MalformedFile{Reason: "model references external grid but no loader was supplied"}
		}
		g, err = loadGrid(gridToken)
	}
	if err != nil {
		return nil, err
	}

	mdl, err := New(g, meta, store)
	if err != nil {
		return nil, err
	}

	if err := readExtension(br, mdl); err != nil {
		return nil, err
	}
	return mdl, nil
}

func readModelHeader(br *ioformat.Reader) (nVertices, nLayers int, meta *metadata.MetaData, err error) {
	br.ReadMagic(modelMagic)
	version := br.ReadU32()
	if br.Err() != nil {
		return 0, 0, nil, &errs.MalformedFile{Reason: br.Err().Error()}
	}
	if version != modelFileFormatVersion {
		return 0, 0, nil, &errs.MalformedFile{Reason: fmt.Sprintf("unsupported model file version %d", version)}
	}

	softwareVersion := br.ReadString()
	generationDate := br.ReadString()
	description := br.ReadString()

	nLayers = int(br.ReadU32())
	layerNames := make([]string, nLayers)
	for i := range layerNames {
		layerNames[i] = br.ReadString()
	}
	tessellationID := make([]int, nLayers)
	for i := range tessellationID {
		tessellationID[i] = int(br.ReadU32())
	}

	attrNames := splitSemicolon(br.ReadString())
	attrUnits := splitSemicolon(br.ReadString())
	kindStr := br.ReadString()
	kind, ok := datacell.KindFromString(kindStr)
	if !ok {
		return 0, 0, nil, &errs.MalformedFile{Reason: fmt.Sprintf("unknown data type %q", kindStr)}
	}
	shapeName := br.ReadString()
	shape, ok := geo.ByName(shapeName)
	if !ok {
		return 0, 0, nil, &errs.MalformedFile{Reason: fmt.Sprintf("unknown earth shape %q", shapeName)}
	}
	nVertices = int(br.ReadU32())
	if err := br.Err(); err != nil {
		return 0, 0, nil, &errs.MalformedFile{Reason: err.Error()}
	}

	m, merr := metadata.New(layerNames, tessellationID, attrNames, attrUnits, kind, shape, description, softwareVersion, generationDate)
	if merr != nil {
		return 0, 0, nil, merr
	}
	return nVertices, nLayers, m, nil
}

func readExtension(br *ioformat.Reader, mdl *Model) error {
	hasExt := br.ReadU8()
	if br.Err() != nil {
		return &errs.MalformedFile{Reason: br.Err().Error()}
	}
	if hasExt == 0 {
		return nil
	}
	classTag := br.ReadString()
	formatVersion := br.ReadU32()
	if br.Err() != nil {
		return &errs.MalformedFile{Reason: br.Err().Error()}
	}
	factory, ok := ioformat.Lookup(classTag)
	if !ok {
		return &ioformat.ErrUnknownExtension{ClassTag: classTag}
	}
	ext := factory()
	_ = formatVersion // the extension itself decides how to interpret older formats
	if err := ext.LoadExtra(br); err != nil {
		return err
	}
	mdl.SetExtension(ext)
	return nil
}

// Radii are written as f32 (§6 "radii (nRadii·f32)", "rBottom (f32), rTop
// (f32)"), distinct from the grid's f64 vertex coordinates; data-cell
// payload widths follow the model's own element Kind regardless.
func writeProfile(w *ioformat.Writer, kind datacell.Kind, p profile.Profile) {
	w.WriteU8(uint8(p.Kind()))
	switch p.Kind() {
	case profile.Empty:
		w.WriteF32(float32(p.Bottom()))
		w.WriteF32(float32(p.Top()))
	case profile.Thin:
		w.WriteF32(float32(p.Radius(0)))
		datacell.WriteCell(w, kind, p.Cell(0))
	case profile.Constant:
		w.WriteF32(float32(p.Bottom()))
		w.WriteF32(float32(p.Top()))
		datacell.WriteCell(w, kind, p.Cell(0))
	case profile.Surface:
		datacell.WriteCell(w, kind, p.Cell(0))
	case profile.NPoint:
		w.WriteU32(uint32(p.NNodes()))
		for i := 0; i < p.NNodes(); i++ {
			w.WriteF32(float32(p.Radius(i)))
		}
		for i := 0; i < p.NNodes(); i++ {
			datacell.WriteCell(w, kind, p.Cell(i))
		}
	}
}

func readProfile(r *ioformat.Reader, kind datacell.Kind, nAttr int) (profile.Profile, error) {
	tag := profile.Type(r.ReadU8())
	switch tag {
	case profile.Empty:
		bottom := float64(r.ReadF32())
		top := float64(r.ReadF32())
		if r.Err() != nil {
			return profile.Profile{}, r.Err()
		}
		return profile.NewEmpty(bottom, top), nil
	case profile.Thin:
		radius := float64(r.ReadF32())
		cell := datacell.ReadCell(r, kind, nAttr)
		if r.Err() != nil {
			return profile.Profile{}, r.Err()
		}
		return profile.NewThin(radius, cell), nil
	case profile.Constant:
		bottom := float64(r.ReadF32())
		top := float64(r.ReadF32())
		cell := datacell.ReadCell(r, kind, nAttr)
		if r.Err() != nil {
			return profile.Profile{}, r.Err()
		}
		return profile.NewConstant(bottom, top, cell), nil
	case profile.Surface:
		cell := datacell.ReadCell(r, kind, nAttr)
		if r.Err() != nil {
			return profile.Profile{}, r.Err()
		}
		return profile.NewSurface(cell), nil
	case profile.NPoint:
		n := int(r.ReadU32())
		radii := make([]float64, n)
		for i := range radii {
			radii[i] = float64(r.ReadF32())
		}
		cells := make([]datacell.Cell, n)
		for i := range cells {
			cells[i] = datacell.ReadCell(r, kind, nAttr)
		}
		if r.Err() != nil {
			return profile.Profile{}, r.Err()
		}
		return profile.NewNPoint(radii, cells)
	default:
		return profile.Profile{}, fmt.Errorf("unknown profile type tag %d", tag)
	}
}

func attributeNames(m *metadata.MetaData) []string {
	out := make([]string, m.NAttributes())
	for i := range out {
		out[i] = m.AttributeName(i)
	}
	return out
}

func attributeUnits(m *metadata.MetaData) []string {
	out := make([]string, m.NAttributes())
	for i := range out {
		out[i] = m.AttributeUnit(i)
	}
	return out
}

func joinSemicolon(ss []string) string { return strings.Join(ss, ";") }

func splitSemicolon(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ";")
}

// WriteASCII writes the model in the ASCII mirror of the binary format.
func (m *Model) WriteASCII(w io.Writer, gridPath string) error {
	bw := bufio.NewWriter(w)
	writeStr := func(s string) { fmt.Fprintf(bw, "%d\n%s\n", len(s), s) }

	fmt.Fprintln(bw, modelMagic)
	fmt.Fprintln(bw, modelFileFormatVersion)
	writeStr(m.meta.SoftwareVersion())
	writeStr(m.meta.GenerationDate())
	writeStr(m.meta.Description())

	nLayers := m.meta.NLayers()
	fmt.Fprintln(bw, nLayers)
	for i := 0; i < nLayers; i++ {
		writeStr(m.meta.LayerName(i))
	}
	for i := 0; i < nLayers; i++ {
		fmt.Fprintln(bw, m.meta.TessellationID(i))
	}

	writeStr(joinSemicolon(attributeNames(m.meta)))
	writeStr(joinSemicolon(attributeUnits(m.meta)))
	writeStr(m.meta.ElementKind().String())
	writeStr(m.meta.EarthShape().Name())

	nVertices := m.store.NVertices()
	fmt.Fprintln(bw, nVertices)
	for v := 0; v < nVertices; v++ {
		for l := 0; l < nLayers; l++ {
			prof, err := m.store.Profile(v, l)
			if err != nil {
				return err
			}
			writeProfileASCII(bw, m.meta.ElementKind(), prof)
		}
	}

	if gridPath != "" {
		writeStr(gridPath)
	} else {
		writeStr("*")
		if err := m.grid.WriteASCII(bw); err != nil {
			return err
		}
	}

	if err := writeExtensionASCII(bw, m); err != nil {
		return err
	}
	return bw.Flush()
}

func writeExtensionASCII(bw *bufio.Writer, m *Model) error {
	ext, ok := m.Extension()
	if !ok {
		fmt.Fprintln(bw, 0)
		return nil
	}
	fmt.Fprintln(bw, 1)
	fmt.Fprintf(bw, "%d\n%s\n", len(ext.ClassTag()), ext.ClassTag())
	fmt.Fprintln(bw, ext.FormatVersion())
	// The extension writes through the shared binary Writer even in the
	// ASCII format: derived-class payloads are small and opaque, so each
	// byte is framed on its own line, keeping one LoadExtra/WriteExtra
	// implementation for both formats.
	w := ioformat.NewWriter(asciiByteSink{bw})
	if err := ext.WriteExtra(w); err != nil {
		return err
	}
	return w.Err()
}

// asciiByteSink adapts a *bufio.Writer so a binary ioformat.Writer can be
// layered on top of it for the extension payload inside an otherwise
// line-oriented ASCII stream; each byte is written as its own line so the
// matching ASCII reader's line-based scanner can read it back.
type asciiByteSink struct{ bw *bufio.Writer }

func (s asciiByteSink) Write(p []byte) (int, error) {
	for _, b := range p {
		if _, err := fmt.Fprintln(s.bw, b); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func writeProfileASCII(bw *bufio.Writer, kind datacell.Kind, p profile.Profile) {
	fmt.Fprintln(bw, uint8(p.Kind()))
	switch p.Kind() {
	case profile.Empty:
		fmt.Fprintf(bw, "%.17g %.17g\n", p.Bottom(), p.Top())
	case profile.Thin:
		fmt.Fprintf(bw, "%.17g\n", p.Radius(0))
		writeCellASCII(bw, kind, p.Cell(0))
	case profile.Constant:
		fmt.Fprintf(bw, "%.17g %.17g\n", p.Bottom(), p.Top())
		writeCellASCII(bw, kind, p.Cell(0))
	case profile.Surface:
		writeCellASCII(bw, kind, p.Cell(0))
	case profile.NPoint:
		fmt.Fprintln(bw, p.NNodes())
		for i := 0; i < p.NNodes(); i++ {
			fmt.Fprintf(bw, "%.17g\n", p.Radius(i))
		}
		for i := 0; i < p.NNodes(); i++ {
			writeCellASCII(bw, kind, p.Cell(i))
		}
	}
}

func writeCellASCII(bw *bufio.Writer, kind datacell.Kind, cell datacell.Cell) {
	if kind == datacell.Custom {
		payload := cell.CustomPayload()
		fmt.Fprintln(bw, len(payload))
		for _, b := range payload {
			fmt.Fprintln(bw, b)
		}
		return
	}
	cast := cell.Cast(kind)
	for i := 0; i < cast.Len(); i++ {
		if i > 0 {
			fmt.Fprint(bw, " ")
		}
		fmt.Fprintf(bw, "%.17g", cast.Value(i))
	}
	fmt.Fprintln(bw)
}

// ReadASCII reads a model in the ASCII format written by WriteASCII.
func ReadASCII(r io.Reader, loadGrid func(path string) (*grid.Grid, error)) (*Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<28)

	fail := func(reason string) (*Model, error) { return nil, &errs.MalformedFile{Reason: reason} }

	nextLine := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}
	readStr := func() (string, error) {
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
	if !ok || strings.TrimSpace(magic) != modelMagic {
		return fail(fmt.Sprintf("bad magic: got %q, want %q", magic, modelMagic))
	}
	versionLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading version")
	}
	version, err := strconv.Atoi(strings.TrimSpace(versionLine))
	if err != nil || version != modelFileFormatVersion {
		return fail(fmt.Sprintf("unsupported model file version %q", versionLine))
	}

	softwareVersion, err := readStr()
	if err != nil {
		return fail(err.Error())
	}
	generationDate, err := readStr()
	if err != nil {
		return fail(err.Error())
	}
	description, err := readStr()
	if err != nil {
		return fail(err.Error())
	}

	nLayersLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading layer count")
	}
	nLayers, _ := strconv.Atoi(strings.TrimSpace(nLayersLine))
	layerNames := make([]string, nLayers)
	for i := range layerNames {
		s, err := readStr()
		if err != nil {
			return fail(err.Error())
		}
		layerNames[i] = s
	}
	tessellationID := make([]int, nLayers)
	for i := range tessellationID {
		line, ok := nextLine()
		if !ok {
			return fail("truncated stream reading tessellation id")
		}
		tessellationID[i], _ = strconv.Atoi(strings.TrimSpace(line))
	}

	attrNamesStr, err := readStr()
	if err != nil {
		return fail(err.Error())
	}
	attrUnitsStr, err := readStr()
	if err != nil {
		return fail(err.Error())
	}
	kindStr, err := readStr()
	if err != nil {
		return fail(err.Error())
	}
	kind, ok := datacell.KindFromString(kindStr)
	if !ok {
		return fail(fmt.Sprintf("unknown data type %q", kindStr))
	}
	shapeName, err := readStr()
	if err != nil {
		return fail(err.Error())
	}
	shape, ok := geo.ByName(shapeName)
	if !ok {
		return fail(fmt.Sprintf("unknown earth shape %q", shapeName))
	}

	meta, merr := metadata.New(layerNames, tessellationID, splitSemicolon(attrNamesStr), splitSemicolon(attrUnitsStr), kind, shape, description, softwareVersion, generationDate)
	if merr != nil {
		return nil, merr
	}

	nVerticesLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading vertex count")
	}
	nVertices, _ := strconv.Atoi(strings.TrimSpace(nVerticesLine))

	readCellASCII := func(kind datacell.Kind, n int) (datacell.Cell, error) {
		if kind == datacell.Custom {
			lenLine, ok := nextLine()
			if !ok {
				return datacell.Cell{}, fmt.Errorf("truncated stream reading custom cell length")
			}
			length, _ := strconv.Atoi(strings.TrimSpace(lenLine))
			payload := make([]byte, length)
			for i := range payload {
				line, ok := nextLine()
				if !ok {
					return datacell.Cell{}, fmt.Errorf("truncated stream reading custom cell byte")
				}
				v, _ := strconv.Atoi(strings.TrimSpace(line))
				payload[i] = byte(v)
			}
			return datacell.NewCustom(payload), nil
		}
		line, ok := nextLine()
		if !ok {
			return datacell.Cell{}, fmt.Errorf("truncated stream reading cell")
		}
		fields := strings.Fields(line)
		if len(fields) != n {
			return datacell.Cell{}, fmt.Errorf("cell field count mismatch: want %d, got %d", n, len(fields))
		}
		values := make([]float64, n)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return datacell.Cell{}, fmt.Errorf("bad cell value %q: %w", f, err)
			}
			values[i] = v
		}
		return datacell.NewArray(values), nil
	}

	readProfileASCII := func() (profile.Profile, error) {
		tagLine, ok := nextLine()
		if !ok {
			return profile.Profile{}, fmt.Errorf("truncated stream reading profile tag")
		}
		tagN, err := strconv.Atoi(strings.TrimSpace(tagLine))
		if err != nil {
			return profile.Profile{}, fmt.Errorf("bad profile tag %q: %w", tagLine, err)
		}
		tag := profile.Type(tagN)
		switch tag {
		case profile.Empty:
			line, ok := nextLine()
			if !ok {
				return profile.Profile{}, fmt.Errorf("truncated stream reading empty profile bounds")
			}
			var bottom, top float64
			if _, err := fmt.Sscanf(line, "%g %g", &bottom, &top); err != nil {
				return profile.Profile{}, err
			}
			return profile.NewEmpty(bottom, top), nil
		case profile.Thin:
			line, ok := nextLine()
			if !ok {
				return profile.Profile{}, fmt.Errorf("truncated stream reading thin profile radius")
			}
			radius, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
			if err != nil {
				return profile.Profile{}, err
			}
			cell, err := readCellASCII(kind, meta.NAttributes())
			if err != nil {
				return profile.Profile{}, err
			}
			return profile.NewThin(radius, cell), nil
		case profile.Constant:
			line, ok := nextLine()
			if !ok {
				return profile.Profile{}, fmt.Errorf("truncated stream reading constant profile bounds")
			}
			var bottom, top float64
			if _, err := fmt.Sscanf(line, "%g %g", &bottom, &top); err != nil {
				return profile.Profile{}, err
			}
			cell, err := readCellASCII(kind, meta.NAttributes())
			if err != nil {
				return profile.Profile{}, err
			}
			return profile.NewConstant(bottom, top, cell), nil
		case profile.Surface:
			cell, err := readCellASCII(kind, meta.NAttributes())
			if err != nil {
				return profile.Profile{}, err
			}
			return profile.NewSurface(cell), nil
		case profile.NPoint:
			nLine, ok := nextLine()
			if !ok {
				return profile.Profile{}, fmt.Errorf("truncated stream reading npoint count")
			}
			n, _ := strconv.Atoi(strings.TrimSpace(nLine))
			radii := make([]float64, n)
			for i := range radii {
				line, ok := nextLine()
				if !ok {
					return profile.Profile{}, fmt.Errorf("truncated stream reading npoint radius")
				}
				radii[i], _ = strconv.ParseFloat(strings.TrimSpace(line), 64)
			}
			cells := make([]datacell.Cell, n)
			for i := range cells {
				c, err := readCellASCII(kind, meta.NAttributes())
				if err != nil {
					return profile.Profile{}, err
				}
				cells[i] = c
			}
			return profile.NewNPoint(radii, cells)
		default:
			return profile.Profile{}, fmt.Errorf("unknown profile type tag %d", tagN)
		}
	}

	store := profile.NewStore(nVertices, nLayers)
	for v := 0; v < nVertices; v++ {
		for l := 0; l < nLayers; l++ {
			p, err := readProfileASCII()
			if err != nil {
				return fail(err.Error())
			}
			if err := store.SetProfile(v, l, p); err != nil {
				return nil, err
			}
		}
	}

	gridToken, err := readStr()
	if err != nil {
		return fail(err.Error())
	}
	var g *grid.Grid
	if gridToken == "*" {
		g, err = grid.ReadASCIIFromScanner(sc)
	} else {
		if loadGrid == nil {
			return fail("model references external grid but no loader was supplied")
		}
		g, err = loadGrid(gridToken)
	}
	if err != nil {
		return nil, err
	}

	mdl, err := New(g, meta, store)
	if err != nil {
		return nil, err
	}

	hasExtLine, ok := nextLine()
	if !ok {
		return fail("truncated stream reading extension flag")
	}
	hasExt, _ := strconv.Atoi(strings.TrimSpace(hasExtLine))
	if hasExt == 1 {
		classTag, err := readStr()
		if err != nil {
			return fail(err.Error())
		}
		formatVersionLine, ok := nextLine()
		if !ok {
			return fail("truncated stream reading extension format version")
		}
		_, _ = strconv.Atoi(strings.TrimSpace(formatVersionLine))

		factory, ok := ioformat.Lookup(classTag)
		if !ok {
			return nil, &ioformat.ErrUnknownExtension{ClassTag: classTag}
		}
		ext := factory()
		br := ioformat.NewReader(asciiByteSource{nextLine: nextLine})
		if err := ext.LoadExtra(br); err != nil {
			return nil, err
		}
		mdl.SetExtension(ext)
	}

	return mdl, nil
}

// asciiByteSource is the read-side counterpart of asciiByteSink: each call
// to Read returns one byte, decoded from its own line, so an extension's
// LoadExtra can use the ordinary binary Reader helpers inside the
// line-oriented ASCII format.
type asciiByteSource struct {
	nextLine func() (string, bool)
}

func (s asciiByteSource) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	line, ok := s.nextLine()
	if !ok {
		return 0, io.EOF
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("bad extension payload byte %q: %w", line, err)
	}
	p[0] = byte(v)
	return 1, nil
}
