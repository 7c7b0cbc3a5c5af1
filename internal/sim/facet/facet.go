// Package facet holds scalar fields that world generation writes over a padded region.
//
// A facet is addressed either relative to the region min (local) or in absolute world
// coordinates. Both spaces cover the region expanded by its border; every access
// outside that volume fails with ErrOutOfBounds.
package facet

import (
	"errors"
	"fmt"

	"voxelgen.ai/internal/sim/geom"
)

var (
	ErrInvalidArgument = errors.New("facet: invalid argument")
	ErrOutOfBounds     = fmt.Errorf("%w: out of bounds", ErrInvalidArgument)
	ErrInexactValue    = fmt.Errorf("%w: value not representable as float32", ErrInvalidArgument)
)

// FieldFacet3D is a float32 field over a bordered region.
type FieldFacet3D interface {
	// WorldRegion is the bordered region in world coordinates.
	WorldRegion() geom.Region
	// RelativeRegion is WorldRegion moved so the unbordered region min is the origin.
	RelativeRegion() geom.Region

	Get(x, y, z int) (float32, error)
	GetWorld(x, y, z int) (float32, error)
	Set(x, y, z int, v float32) error
	SetWorld(x, y, z int, v float32) error

	GetVec(p geom.Vec3i) (float32, error)
	GetWorldVec(p geom.Vec3i) (float32, error)
	SetVec(p geom.Vec3i, v float32) error
	SetWorldVec(p geom.Vec3i, v float32) error
}

// ForEach visits every cell of f in storage order with its local coordinate.
func ForEach(f FieldFacet3D, fn func(local geom.Vec3i, v float32)) error {
	rel := f.RelativeRegion()
	lo, hi := rel.Min(), rel.Max()
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				v, err := f.Get(x, y, z)
				if err != nil {
					return err
				}
				fn(geom.V(x, y, z), v)
			}
		}
	}
	return nil
}
