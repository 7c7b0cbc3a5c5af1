package facet

import (
	"fmt"
	"math"

	"voxelgen.ai/internal/sim/geom"
)

// MaxArrayCells caps the dense backing slice; larger layouts need SparseFieldFacet3D.
const MaxArrayCells = math.MaxInt32

// ArrayFieldFacet3D stores every cell of the bordered region in one dense slice.
type ArrayFieldFacet3D struct {
	base
	data []float32
}

func NewArrayFieldFacet3D(region geom.Region, border geom.Border3D) (*ArrayFieldFacet3D, error) {
	b, err := newBase(region, border)
	if err != nil {
		return nil, err
	}
	if n := b.volume(); n > MaxArrayCells {
		return nil, fmt.Errorf("%w: %d cells exceeds dense limit %d", ErrInvalidArgument, n, MaxArrayCells)
	}
	return &ArrayFieldFacet3D{
		base: b,
		data: make([]float32, b.volume()),
	}, nil
}

func (f *ArrayFieldFacet3D) Get(x, y, z int) (float32, error) {
	i, err := f.relativeIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	return f.data[i], nil
}

func (f *ArrayFieldFacet3D) GetWorld(x, y, z int) (float32, error) {
	i, err := f.worldIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	return f.data[i], nil
}

func (f *ArrayFieldFacet3D) Set(x, y, z int, v float32) error {
	i, err := f.relativeIndex(x, y, z)
	if err != nil {
		return err
	}
	f.data[i] = v
	return nil
}

func (f *ArrayFieldFacet3D) SetWorld(x, y, z int, v float32) error {
	i, err := f.worldIndex(x, y, z)
	if err != nil {
		return err
	}
	f.data[i] = v
	return nil
}

func (f *ArrayFieldFacet3D) GetVec(p geom.Vec3i) (float32, error)      { return f.Get(p.X, p.Y, p.Z) }
func (f *ArrayFieldFacet3D) GetWorldVec(p geom.Vec3i) (float32, error) { return f.GetWorld(p.X, p.Y, p.Z) }
func (f *ArrayFieldFacet3D) SetVec(p geom.Vec3i, v float32) error      { return f.Set(p.X, p.Y, p.Z, v) }
func (f *ArrayFieldFacet3D) SetWorldVec(p geom.Vec3i, v float32) error {
	return f.SetWorld(p.X, p.Y, p.Z, v)
}

// Internal returns the backing slice, x-fastest. Writes through it are visible to the facet.
func (f *ArrayFieldFacet3D) Internal() []float32 { return f.data }

// SetAll replaces every cell from values, which must cover the whole bordered region.
func (f *ArrayFieldFacet3D) SetAll(values []float32) error {
	if len(values) != len(f.data) {
		return fmt.Errorf("%w: got %d values, facet holds %d", ErrInvalidArgument, len(values), len(f.data))
	}
	copy(f.data, values)
	return nil
}
