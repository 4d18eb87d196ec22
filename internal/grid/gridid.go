package grid

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/geotess/geotess-go/internal/geo"
)

// ID returns the grid's 32-character uppercase hex digest, computed once
// and cached (§6 "Grid identity: the grid-id is the uppercase hex MD5 of
// the canonical byte representation of the sorted vertex vectors and the
// triangle table; two grids with the same id are interchangeable across
// models").
func (g *Grid) ID() string {
	g.idOnce.Do(func() {
		g.id = computeGridID(g.vertices, g.triangles)
	})
	return g.id
}

func computeGridID(vertices []geo.Vector3, triangles []Triangle) string {
	sorted := append([]geo.Vector3(nil), vertices...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})

	h := md5.New()
	buf := make([]byte, 8)
	for _, v := range sorted {
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(c))
			h.Write(buf)
		}
	}
	for _, t := range triangles {
		for _, idx := range t {
			var ib [4]byte
			binary.LittleEndian.PutUint32(ib[:], uint32(idx))
			h.Write(ib[:])
		}
	}

	return fmt.Sprintf("%X", h.Sum(nil))
}
