package facet

import (
	"fmt"
	"math"
)

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Float interface {
	~float32 | ~float64
}

// Number is anything generation code may hand to a facet writer.
type Number interface {
	Integer | Float
}

// ToFloat32 converts v by value. Integers must survive the conversion exactly
// (always true up to 2^24 in magnitude). Floats are narrowed like a plain float32
// conversion, except that a finite value beyond the float32 range is rejected.
// NaN and infinities pass through.
func ToFloat32[N Number](v N) (float32, error) {
	f := float32(v)
	if isFloatType[N]() {
		if math.IsInf(float64(f), 0) && !math.IsInf(float64(v), 0) {
			return 0, fmt.Errorf("%w: %v overflows float32", ErrInexactValue, v)
		}
		return f, nil
	}
	// Rounding up past the type's max makes N(f) implementation-defined, so reject it first.
	if fv := float64(f); fv >= 1<<64 || (fv >= 1<<63 && isSignedType[N]()) || N(f) != v {
		return 0, fmt.Errorf("%w: %v", ErrInexactValue, v)
	}
	return f, nil
}

// SetValue writes v at a local coordinate after checked conversion.
func SetValue[N Number](f FieldFacet3D, x, y, z int, v N) error {
	fv, err := ToFloat32(v)
	if err != nil {
		return err
	}
	return f.Set(x, y, z, fv)
}

// SetWorldValue writes v at a world coordinate after checked conversion.
func SetWorldValue[N Number](f FieldFacet3D, x, y, z int, v N) error {
	fv, err := ToFloat32(v)
	if err != nil {
		return err
	}
	return f.SetWorld(x, y, z, fv)
}

// isFloatType reports whether N keeps a fractional part.
func isFloatType[N Number]() bool {
	half := 0.5
	return N(half) != 0
}

func isSignedType[N Number]() bool {
	var zero N
	return zero-1 < 0
}
