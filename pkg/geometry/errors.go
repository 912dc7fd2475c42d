package geometry

import "errors"

var (
	// ErrIllegalTriangle is returned when the three vertices of a triangle
	// are collinear.
	ErrIllegalTriangle = errors.New("geometry: collinear triangle vertices")

	// ErrDegenerateEdge is returned when both endpoints of an edge are the
	// same node or sit on the same coordinate.
	ErrDegenerateEdge = errors.New("geometry: edge endpoints coincide")

	// ErrInsufficientNodes is returned when a polygon has fewer than three
	// vertices.
	ErrInsufficientNodes = errors.New("geometry: fewer than three nodes")

	// ErrNonAdjacent is returned by operations that need two edges sharing
	// an endpoint.
	ErrNonAdjacent = errors.New("geometry: edges share no node")
)

// EdgeResult tells a caller of NewEdge whether the edge was created or
// already connected the pair.
type EdgeResult int

const (
	EdgeCreated EdgeResult = iota
	EdgeExisting
)

func (r EdgeResult) String() string {
	if r == EdgeExisting {
		return "existing"
	}
	return "created"
}
