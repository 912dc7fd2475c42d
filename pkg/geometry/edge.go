package geometry

import (
	"fmt"
	"math"
)

// Edge is an undirected segment between two nodes. Left and Right link the
// edge to its neighbours while it sits on a frontier ring or was wired by a
// polygon constructor; they are meaningless otherwise.
type Edge struct {
	A, B   NodeID
	Length float64
	Shapes []ShapeID
	Left   EdgeID
	Right  EdgeID
	OnHull bool

	released bool
}

func (e Edge) Has(n NodeID) bool { return e.A == n || e.B == n }

// Other returns the endpoint that is not n, or NoNode when n is not an
// endpoint.
func (e Edge) Other(n NodeID) NodeID {
	switch n {
	case e.A:
		return e.B
	case e.B:
		return e.A
	}
	return NoNode
}

// NewEdge connects x and y. When the pair is already connected the existing
// edge is returned with EdgeExisting and nothing is created.
func (a *Arena) NewEdge(x, y NodeID) (EdgeID, EdgeResult, error) {
	if x == y || a.nodes[x].Coord == a.nodes[y].Coord {
		return NoEdge, EdgeCreated, fmt.Errorf("edge %d-%d: %w", x, y, ErrDegenerateEdge)
	}
	if e := a.EdgeBetween(x, y); e != NoEdge {
		return e, EdgeExisting, nil
	}

	a.edges = append(a.edges, Edge{
		A:      x,
		B:      y,
		Length: a.nodes[x].Coord.Distance(a.nodes[y].Coord),
		Left:   NoEdge,
		Right:  NoEdge,
	})
	id := EdgeID(len(a.edges) - 1)
	a.nodes[x].Edges = append(a.nodes[x].Edges, id)
	a.nodes[y].Edges = append(a.nodes[y].Edges, id)
	return id, EdgeCreated, nil
}

// Link makes left the left neighbour of right and right the right neighbour
// of left.
func (a *Arena) Link(right, left EdgeID) {
	a.edges[right].Left = left
	a.edges[left].Right = right
}

// SetOnHull flags membership of a frontier ring. Leaving the ring clears the
// neighbour pointers.
func (a *Arena) SetOnHull(e EdgeID, on bool) {
	a.edges[e].OnHull = on
	if !on {
		a.edges[e].Left = NoEdge
		a.edges[e].Right = NoEdge
	}
}

// ReleaseIfUnused releases e when no shape references it and it is not on a
// frontier ring.
func (a *Arena) ReleaseIfUnused(e EdgeID) bool {
	edge := &a.edges[e]
	if edge.released || edge.OnHull || len(edge.Shapes) > 0 {
		return false
	}
	a.nodes[edge.A].Edges = removeEdgeRef(a.nodes[edge.A].Edges, e)
	a.nodes[edge.B].Edges = removeEdgeRef(a.nodes[edge.B].Edges, e)
	edge.released = true
	edge.Left, edge.Right = NoEdge, NoEdge
	return true
}

// CommonNode returns the endpoint shared by e and other.
func (a *Arena) CommonNode(e, other EdgeID) (NodeID, bool) {
	x, y := a.edges[e], a.edges[other]
	switch {
	case x.A == y.A || x.A == y.B:
		return x.A, true
	case x.B == y.A || x.B == y.B:
		return x.B, true
	}
	return NoNode, false
}

// AngleWith measures the angle between e and other at their common node on
// the outer side of a counter-clockwise frontier: convex corners report at
// least π, reflex corners less than π. other is taken to follow e
// counter-clockwise unless it is e's right neighbour.
func (a *Arena) AngleWith(e, other EdgeID) (float64, error) {
	c, ok := a.CommonNode(e, other)
	if !ok {
		return 0, fmt.Errorf("angle between edges %d and %d: %w", e, other, ErrNonAdjacent)
	}
	p := a.nodes[a.edges[e].Other(c)].Coord
	q := a.nodes[a.edges[other].Other(c)].Coord
	if a.edges[e].Right == other {
		p, q = q, p
	}
	cc := a.nodes[c].Coord

	_, thetaP := Polar(p, cc)
	_, thetaQ := Polar(q, cc)
	alpha := math.Abs(thetaP - thetaQ)

	reflex := cc.Sub(q).Cross(p.Sub(cc)) > 0
	if reflex && alpha > math.Pi {
		alpha = 2*math.Pi - alpha
	}
	if !reflex && alpha < math.Pi {
		alpha = 2*math.Pi - alpha
	}
	return alpha, nil
}

// LeftEndpoint returns the endpoint of e that lies leftward, i.e. further
// counter-clockwise, in polar order about the arena origin.
func (a *Arena) LeftEndpoint(e EdgeID) NodeID {
	edge := a.edges[e]
	ta, tb := a.nodes[edge.A].Theta, a.nodes[edge.B].Theta
	if (ta > tb && ta-tb < math.Pi) || (ta < tb && tb-ta > math.Pi) {
		return edge.A
	}
	return edge.B
}

// HasAtLeft reports whether other touches the leftward endpoint of e.
func (a *Arena) HasAtLeft(e, other EdgeID) bool {
	return a.edges[other].Has(a.LeftEndpoint(e))
}

// IntersectsWith reports whether e crosses any of others anywhere but at a
// shared endpoint.
func (a *Arena) IntersectsWith(e EdgeID, others ...EdgeID) bool {
	p, q := a.Endpoints(e)
	for _, o := range others {
		if o == e {
			continue
		}
		r, s := a.Endpoints(o)
		if SegmentsCross(p, q, r, s) {
			return true
		}
	}
	return false
}

// ShortestDistanceTo returns the distance from c to the line through e.
func (a *Arena) ShortestDistanceTo(e EdgeID, c Coord) float64 {
	p, q := a.Endpoints(e)
	return LineDistance(p, q, c)
}

// Endpoints returns the coordinates of both ends of e.
func (a *Arena) Endpoints(e EdgeID) (Coord, Coord) {
	edge := a.edges[e]
	return a.nodes[edge.A].Coord, a.nodes[edge.B].Coord
}

// TrianglesOn returns the live triangles that reference e.
func (a *Arena) TrianglesOn(e EdgeID) []ShapeID {
	var out []ShapeID
	for _, s := range a.edges[e].Shapes {
		if !a.shapes[s].removed && a.shapes[s].Kind == KindTriangle {
			out = append(out, s)
		}
	}
	return out
}

// IsBoundary reports whether e lies on the boundary of a live polygon.
func (a *Arena) IsBoundary(e EdgeID) bool {
	for _, s := range a.edges[e].Shapes {
		if !a.shapes[s].removed && a.shapes[s].Kind == KindConvexPolygon {
			return true
		}
	}
	return false
}

func (a *Arena) addShapeRef(e EdgeID, s ShapeID) {
	a.edges[e].Shapes = append(a.edges[e].Shapes, s)
}

func (a *Arena) removeShapeRef(e EdgeID, s ShapeID) {
	refs := a.edges[e].Shapes
	for i, r := range refs {
		if r == s {
			a.edges[e].Shapes = append(refs[:i], refs[i+1:]...)
			return
		}
	}
}
