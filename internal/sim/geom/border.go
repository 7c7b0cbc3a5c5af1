package geom

import "fmt"

// Border3D pads a region before it is handed to a facet.
// Sides pads X and Z at both ends, Bottom pads low Y, Top pads high Y.
type Border3D struct {
	top    int
	bottom int
	sides  int
}

func NewBorder3D(top, bottom, sides int) (Border3D, error) {
	if top < 0 || bottom < 0 || sides < 0 {
		return Border3D{}, fmt.Errorf("border extents must be non-negative: top=%d bottom=%d sides=%d", top, bottom, sides)
	}
	return Border3D{top: top, bottom: bottom, sides: sides}, nil
}

func (b Border3D) Top() int    { return b.top }
func (b Border3D) Bottom() int { return b.bottom }
func (b Border3D) Sides() int  { return b.sides }

// ExtendBy returns a copy with each extent grown; negative growth is ignored.
func (b Border3D) ExtendBy(top, bottom, sides int) Border3D {
	return Border3D{
		top:    b.top + max(top, 0),
		bottom: b.bottom + max(bottom, 0),
		sides:  b.sides + max(sides, 0),
	}
}

// LowOffset is how far the expanded min sits below the region min.
func (b Border3D) LowOffset() Vec3i { return V(b.sides, b.bottom, b.sides) }

func (b Border3D) ExpandedRegion(r Region) Region {
	if r.IsEmpty() {
		return r
	}
	size := r.Size()
	return RegionFromMinAndSize(
		r.Min().Sub(b.LowOffset()),
		V(size.X+2*b.sides, size.Y+b.top+b.bottom, size.Z+2*b.sides),
	)
}

func (b Border3D) String() string {
	return fmt.Sprintf("Border3D[top=%d, bottom=%d, sides=%d]", b.top, b.bottom, b.sides)
}
