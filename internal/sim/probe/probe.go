// Package probe writes deterministic diagnostic patterns into facets so a
// generation pass can be exercised end to end without terrain algorithms.
package probe

import (
	"voxelgen.ai/internal/sim/facet"
	"voxelgen.ai/internal/sim/geom"
	"voxelgen.ai/internal/sim/mathx"
)

// Generator yields the value for one world cell.
type Generator func(world geom.Vec3i) float32

// HashPattern is uniform in [0, scale) and depends only on seed and position.
func HashPattern(seed int64, scale float32) Generator {
	return func(p geom.Vec3i) float32 {
		return mathx.Unit3(seed, p.X, p.Y, p.Z) * scale
	}
}

// Layers returns the world Y coordinate for every cell, useful for checking
// that the vertical border lands where expected.
func Layers() Generator {
	return func(p geom.Vec3i) float32 { return float32(p.Y) }
}

// Fill writes gen into every cell of f by world coordinate and returns the
// number of cells written.
func Fill(f facet.FieldFacet3D, gen Generator) (int, error) {
	w := f.WorldRegion()
	lo, hi := w.Min(), w.Max()
	n := 0
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				p := geom.V(x, y, z)
				if err := f.SetWorldVec(p, gen(p)); err != nil {
					return n, err
				}
				n++
			}
		}
	}
	return n, nil
}
