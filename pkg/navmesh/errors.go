package navmesh

import (
	"errors"

	"navmesh-planner/pkg/geometry"
)

var (
	// ErrInsufficientNodes is returned when fewer than three distinct source
	// nodes are available, or an obstacle has fewer than three vertices.
	ErrInsufficientNodes = geometry.ErrInsufficientNodes

	// ErrFailedTriangulation is returned when every triple of source nodes is
	// collinear.
	ErrFailedTriangulation = errors.New("navmesh: no non-degenerate first triangle")
)
