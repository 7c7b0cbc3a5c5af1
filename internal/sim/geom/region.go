package geom

import "fmt"

// Region is an axis-aligned integer box. The zero value is the empty region.
type Region struct {
	min  Vec3i
	size Vec3i
}

// RegionFromMinAndSize returns the empty region if any size component is <= 0.
func RegionFromMinAndSize(min, size Vec3i) Region {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return Region{}
	}
	return Region{min: min, size: size}
}

// RegionFromMinMax takes an inclusive max corner.
func RegionFromMinMax(min, max Vec3i) Region {
	return RegionFromMinAndSize(min, V(max.X-min.X+1, max.Y-min.Y+1, max.Z-min.Z+1))
}

func (r Region) Min() Vec3i  { return r.min }
func (r Region) Size() Vec3i { return r.size }

// Max is inclusive.
func (r Region) Max() Vec3i {
	return V(r.min.X+r.size.X-1, r.min.Y+r.size.Y-1, r.min.Z+r.size.Z-1)
}

func (r Region) MinX() int  { return r.min.X }
func (r Region) MinY() int  { return r.min.Y }
func (r Region) MinZ() int  { return r.min.Z }
func (r Region) SizeX() int { return r.size.X }
func (r Region) SizeY() int { return r.size.Y }
func (r Region) SizeZ() int { return r.size.Z }

func (r Region) IsEmpty() bool {
	return r.size.X <= 0 || r.size.Y <= 0 || r.size.Z <= 0
}

func (r Region) Volume() int {
	if r.IsEmpty() {
		return 0
	}
	return r.size.X * r.size.Y * r.size.Z
}

func (r Region) Encompasses(x, y, z int) bool {
	if r.IsEmpty() {
		return false
	}
	return x >= r.min.X && x < r.min.X+r.size.X &&
		y >= r.min.Y && y < r.min.Y+r.size.Y &&
		z >= r.min.Z && z < r.min.Z+r.size.Z
}

func (r Region) EncompassesVec(v Vec3i) bool { return r.Encompasses(v.X, v.Y, v.Z) }

func (r Region) Move(offset Vec3i) Region {
	if r.IsEmpty() {
		return r
	}
	return Region{min: r.min.Add(offset), size: r.size}
}

// Expand grows the region by e on both ends of every axis.
func (r Region) Expand(e Vec3i) Region {
	if r.IsEmpty() {
		return r
	}
	return RegionFromMinAndSize(r.min.Sub(e), V(r.size.X+2*e.X, r.size.Y+2*e.Y, r.size.Z+2*e.Z))
}

func (r Region) String() string {
	return fmt.Sprintf("[min=%s, size=%s]", r.min, r.size)
}
