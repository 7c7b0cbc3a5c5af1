package geom

import "fmt"

type Vec3i struct {
	X, Y, Z int
}

func V(x, y, z int) Vec3i { return Vec3i{X: x, Y: y, Z: z} }

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }
func (v Vec3i) Sub(o Vec3i) Vec3i { return Vec3i{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3i) Array() [3]int { return [3]int{v.X, v.Y, v.Z} }

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}
