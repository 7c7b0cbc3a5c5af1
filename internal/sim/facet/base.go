package facet

import (
	"fmt"
	"math"

	"voxelgen.ai/internal/sim/geom"
)

// base carries the addressing shared by every facet implementation.
type base struct {
	worldRegion    geom.Region
	relativeRegion geom.Region
}

func newBase(region geom.Region, border geom.Border3D) (base, error) {
	if region.IsEmpty() {
		return base{}, fmt.Errorf("%w: empty region %v", ErrInvalidArgument, region)
	}
	if _, ok := storageVolume(region, border); !ok {
		return base{}, fmt.Errorf("%w: storage for %v with %v overflows int", ErrInvalidArgument, region, border)
	}
	world := border.ExpandedRegion(region)
	if world.IsEmpty() {
		return base{}, fmt.Errorf("%w: non-positive storage size for %v with %v", ErrInvalidArgument, region, border)
	}
	return base{
		worldRegion:    world,
		relativeRegion: world.Move(geom.Vec3i{}.Sub(region.Min())),
	}, nil
}

func (b *base) WorldRegion() geom.Region    { return b.worldRegion }
func (b *base) RelativeRegion() geom.Region { return b.relativeRegion }

func (b *base) volume() int { return b.worldRegion.Volume() }

func (b *base) relativeIndex(x, y, z int) (int, error) {
	if !b.relativeRegion.Encompasses(x, y, z) {
		return 0, fmt.Errorf("%w: local (%d, %d, %d) not in %v", ErrOutOfBounds, x, y, z, b.relativeRegion)
	}
	return flatIndex(b.relativeRegion, x, y, z), nil
}

func (b *base) worldIndex(x, y, z int) (int, error) {
	if !b.worldRegion.Encompasses(x, y, z) {
		return 0, fmt.Errorf("%w: world (%d, %d, %d) not in %v", ErrOutOfBounds, x, y, z, b.worldRegion)
	}
	return flatIndex(b.worldRegion, x, y, z), nil
}

// storageVolume is the cell count of region expanded by border. ok is false when a
// padded dimension, the exclusive max corner or the cell count does not fit in an int.
func storageVolume(region geom.Region, border geom.Border3D) (int, bool) {
	lo, size := region.Min().Array(), region.Size().Array()
	pads := [3][2]int{
		{border.Sides(), border.Sides()},
		{border.Bottom(), border.Top()},
		{border.Sides(), border.Sides()},
	}
	vol := 1
	for i := range size {
		low, high := pads[i][0], pads[i][1]
		d := size[i]
		if d > math.MaxInt-low {
			return 0, false
		}
		d += low
		if d > math.MaxInt-high {
			return 0, false
		}
		d += high
		if lo[i] < math.MinInt+low {
			return 0, false
		}
		if start := lo[i] - low; start > math.MaxInt-d {
			return 0, false
		}
		if vol > math.MaxInt/d {
			return 0, false
		}
		vol *= d
	}
	return vol, true
}

// flatIndex is x-fastest, then y, then z. r must contain (x, y, z).
func flatIndex(r geom.Region, x, y, z int) int {
	lo, size := r.Min(), r.Size()
	return (x - lo.X) + size.X*((y-lo.Y)+size.Y*(z-lo.Z))
}
