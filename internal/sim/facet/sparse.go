package facet

import "voxelgen.ai/internal/sim/geom"

// SparseFieldFacet3D only stores cells that differ from its default value.
type SparseFieldFacet3D struct {
	base
	def    float32
	values map[int]float32
}

func NewSparseFieldFacet3D(region geom.Region, border geom.Border3D, defaultValue float32) (*SparseFieldFacet3D, error) {
	b, err := newBase(region, border)
	if err != nil {
		return nil, err
	}
	return &SparseFieldFacet3D{
		base:   b,
		def:    defaultValue,
		values: map[int]float32{},
	}, nil
}

func (f *SparseFieldFacet3D) DefaultValue() float32 { return f.def }

// Len is the number of cells holding a non-default value.
func (f *SparseFieldFacet3D) Len() int { return len(f.values) }

func (f *SparseFieldFacet3D) Get(x, y, z int) (float32, error) {
	i, err := f.relativeIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	return f.at(i), nil
}

func (f *SparseFieldFacet3D) GetWorld(x, y, z int) (float32, error) {
	i, err := f.worldIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	return f.at(i), nil
}

func (f *SparseFieldFacet3D) Set(x, y, z int, v float32) error {
	i, err := f.relativeIndex(x, y, z)
	if err != nil {
		return err
	}
	f.put(i, v)
	return nil
}

func (f *SparseFieldFacet3D) SetWorld(x, y, z int, v float32) error {
	i, err := f.worldIndex(x, y, z)
	if err != nil {
		return err
	}
	f.put(i, v)
	return nil
}

func (f *SparseFieldFacet3D) GetVec(p geom.Vec3i) (float32, error)      { return f.Get(p.X, p.Y, p.Z) }
func (f *SparseFieldFacet3D) GetWorldVec(p geom.Vec3i) (float32, error) { return f.GetWorld(p.X, p.Y, p.Z) }
func (f *SparseFieldFacet3D) SetVec(p geom.Vec3i, v float32) error      { return f.Set(p.X, p.Y, p.Z, v) }
func (f *SparseFieldFacet3D) SetWorldVec(p geom.Vec3i, v float32) error {
	return f.SetWorld(p.X, p.Y, p.Z, v)
}

func (f *SparseFieldFacet3D) at(i int) float32 {
	if v, ok := f.values[i]; ok {
		return v
	}
	return f.def
}

func (f *SparseFieldFacet3D) put(i int, v float32) {
	if v == f.def {
		delete(f.values, i)
		return
	}
	f.values[i] = v
}
