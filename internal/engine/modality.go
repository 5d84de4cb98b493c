package engine

import "fmt"

// Modality is one of the two survey instrument families. The two walk a
// rectangle in opposite directions, which decides which ring neighbour the
// origin angle points at.
type Modality int

const (
	ModalityMag Modality = iota + 1
	ModalityGpr
)

func (m Modality) String() string {
	switch m {
	case ModalityMag:
		return "mag"
	case ModalityGpr:
		return "gpr"
	default:
		return fmt.Sprintf("Modality(%d)", int(m))
	}
}

func (m Modality) Valid() bool {
	return m == ModalityMag || m == ModalityGpr
}

// Forward reports whether the instrument traverses the ring toward the next
// vertex. The magnetometer walks forward, the radar in reverse.
func (m Modality) Forward() bool {
	return m == ModalityMag
}

// CornerIndex designates one of the four vertices of a normalized rectangle
// ring as the measurement origin. Valid values are 1 through 4; anything else
// is a construction-time error.
type CornerIndex int

func NewCornerIndex(v int) (CornerIndex, error) {
	if v < 1 || v > 4 {
		return 0, fmt.Errorf("%w: origin corner %d out of range [1,4]", ErrConstraintViolation, v)
	}
	return CornerIndex(v), nil
}

// Next returns the index of the adjacent vertex in ring order, wrapping to 1
// after 4.
func (c CornerIndex) Next() CornerIndex {
	if c < 4 {
		return c + 1
	}
	return 1
}

// Prev returns the index of the adjacent vertex against ring order, wrapping
// to 4 before 1.
func (c CornerIndex) Prev() CornerIndex {
	if c > 1 {
		return c - 1
	}
	return 4
}
