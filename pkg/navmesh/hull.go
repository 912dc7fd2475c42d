package navmesh

import (
	"math"
	"sort"

	"navmesh-planner/pkg/geometry"
)

// hull is the frontier of the partial mesh: a ring of edges linked through
// their Left and Right pointers. Walking Left goes counter-clockwise, so the
// mesh is always on the left of an edge traversed from its right endpoint to
// its left endpoint.
type hull struct {
	arena *geometry.Arena
	edges []geometry.EdgeID
}

// newHull seeds the ring with the three edges of the first triangle.
func newHull(arena *geometry.Arena, tri geometry.ShapeID) *hull {
	n := arena.Shape(tri).Nodes
	ring := []geometry.NodeID{n[0], n[1], n[2]}
	if geometry.Orientation(arena.Coord(n[0]), arena.Coord(n[1]), arena.Coord(n[2])) < 0 {
		ring[1], ring[2] = ring[2], ring[1]
	}

	h := &hull{arena: arena}
	for i := range ring {
		h.add(arena.EdgeBetween(ring[i], ring[(i+1)%3]))
	}
	for i := range h.edges {
		arena.Link(h.edges[i], h.edges[(i+1)%3])
	}
	return h
}

func (h *hull) len() int { return len(h.edges) }

func (h *hull) add(e geometry.EdgeID) {
	h.arena.SetOnHull(e, true)
	h.edges = append(h.edges, e)
}

func (h *hull) remove(e geometry.EdgeID) {
	h.arena.SetOnHull(e, false)
	for i, x := range h.edges {
		if x == e {
			h.edges = append(h.edges[:i], h.edges[i+1:]...)
			return
		}
	}
}

// from returns the right endpoint of a frontier edge.
func (h *hull) from(e geometry.EdgeID) geometry.NodeID {
	n, _ := h.arena.CommonNode(e, h.arena.Edge(e).Right)
	return n
}

// to returns the left endpoint of a frontier edge.
func (h *hull) to(e geometry.EdgeID) geometry.NodeID {
	n, _ := h.arena.CommonNode(e, h.arena.Edge(e).Left)
	return n
}

// ring returns the frontier edges in counter-clockwise order.
func (h *hull) ring() []geometry.EdgeID {
	if len(h.edges) == 0 {
		return nil
	}
	out := make([]geometry.EdgeID, 0, len(h.edges))
	start := h.edges[0]
	for e := start; ; {
		out = append(out, e)
		e = h.arena.Edge(e).Left
		if e == start || len(out) > len(h.edges) {
			return out
		}
	}
}

// intersectingEdge picks the frontier edge n should attach to. Edges whose
// polar interval contains n are preferred, closest first; otherwise the
// closest edge that n can see is used.
func (h *hull) intersectingEdge(n geometry.NodeID) (geometry.EdgeID, bool) {
	node := h.arena.Node(n)

	var angular, rest []geometry.EdgeID
	for _, e := range h.edges {
		edge := h.arena.Edge(e)
		if edge.Has(n) {
			continue
		}
		if h.spans(e, node.Theta) {
			angular = append(angular, e)
		} else {
			rest = append(rest, e)
		}
	}

	for _, candidates := range [][]geometry.EdgeID{angular, rest} {
		h.sortByDistance(candidates, node.Coord)
		for _, e := range candidates {
			if h.canAttach(e, n) {
				return e, true
			}
		}
	}
	return geometry.NoEdge, false
}

// spans reports whether theta falls inside the polar interval of e. An
// interval of π or more is taken to wrap through θ = 0.
func (h *hull) spans(e geometry.EdgeID, theta float64) bool {
	edge := h.arena.Edge(e)
	ta, tb := h.arena.Node(edge.A).Theta, h.arena.Node(edge.B).Theta
	lo, hi := math.Min(ta, tb), math.Max(ta, tb)
	if hi-lo >= math.Pi {
		return theta >= hi || theta <= lo
	}
	return theta >= lo && theta <= hi
}

func (h *hull) sortByDistance(edges []geometry.EdgeID, c geometry.Coord) {
	sort.SliceStable(edges, func(i, j int) bool {
		return h.arena.ShortestDistanceTo(edges[i], c) < h.arena.ShortestDistanceTo(edges[j], c)
	})
}

// canAttach reports whether triangle (e, n) can be added without
// overlapping the mesh: n must lie strictly outside e, the two new segments
// must not meet the frontier anywhere but at e's endpoints, and no frontier
// vertex may fall inside the triangle.
func (h *hull) canAttach(e geometry.EdgeID, n geometry.NodeID) bool {
	u, v := h.from(e), h.to(e)
	cu, cv, cn := h.arena.Coord(u), h.arena.Coord(v), h.arena.Coord(n)
	if geometry.Orientation(cu, cv, cn) >= 0 {
		return false
	}
	return h.clear(cu, cn, e) && h.clear(cv, cn, e) && h.emptyTriangle(cu, cv, cn, u, v)
}

// canClose reports whether the corner between p and its left neighbour q can
// be filled with a triangle lying outside the mesh.
func (h *hull) canClose(p, q geometry.EdgeID) bool {
	if h.len() <= 3 {
		return false
	}
	a, v, b := h.from(p), h.to(p), h.to(q)
	ca, cv, cb := h.arena.Coord(a), h.arena.Coord(v), h.arena.Coord(b)
	if geometry.Orientation(ca, cv, cb) >= 0 {
		return false
	}
	return h.clear(ca, cb, p, q) && h.emptyTriangle(ca, cv, cb, a, b)
}

// clear reports whether segment pq stays off every frontier edge except the
// skipped ones and endpoints it shares with them.
func (h *hull) clear(p, q geometry.Coord, skip ...geometry.EdgeID) bool {
next:
	for _, f := range h.edges {
		for _, x := range skip {
			if f == x {
				continue next
			}
		}
		r1, r2 := h.arena.Endpoints(f)
		if geometry.SegmentsCross(p, q, r1, r2) {
			return false
		}
	}
	return true
}

// emptyTriangle reports whether no frontier vertex other than x and y lies
// strictly inside triangle abc.
func (h *hull) emptyTriangle(a, b, c geometry.Coord, x, y geometry.NodeID) bool {
	sign := geometry.Orientation(a, b, c)
	for _, f := range h.edges {
		w := h.from(f)
		if w == x || w == y {
			continue
		}
		p := h.arena.Coord(w)
		o1, o2, o3 := geometry.Orientation(a, b, p), geometry.Orientation(b, c, p), geometry.Orientation(c, a, p)
		if sameSign(sign, o1) && sameSign(sign, o2) && sameSign(sign, o3) {
			return false
		}
	}
	return true
}

func sameSign(a, b int64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

// attach adds triangle (e, n), swaps e for the two new edges in the ring and
// returns the triangle with the new left and right frontier edges.
func (h *hull) attach(e geometry.EdgeID, n geometry.NodeID) (geometry.ShapeID, geometry.EdgeID, geometry.EdgeID, error) {
	u, v := h.from(e), h.to(e)
	left, right := h.arena.Edge(e).Left, h.arena.Edge(e).Right

	tri, err := h.arena.NewTriangleFromEdge(e, n)
	if err != nil {
		return geometry.NoShape, geometry.NoEdge, geometry.NoEdge, err
	}
	l := h.arena.EdgeBetween(v, n)
	r := h.arena.EdgeBetween(u, n)

	h.remove(e)
	h.add(r)
	h.add(l)
	h.arena.Link(right, r)
	h.arena.Link(r, l)
	h.arena.Link(l, left)
	return tri, l, r, nil
}

// close fills the corner between p and its left neighbour q and returns the
// triangle with the edge that replaces the pair on the frontier.
func (h *hull) close(p, q geometry.EdgeID) (geometry.ShapeID, geometry.EdgeID, error) {
	a, b := h.from(p), h.to(q)
	right, left := h.arena.Edge(p).Right, h.arena.Edge(q).Left

	tri, err := h.arena.NewTriangleFromEdges(p, q)
	if err != nil {
		return geometry.NoShape, geometry.NoEdge, err
	}
	k := h.arena.EdgeBetween(a, b)

	h.remove(p)
	h.remove(q)
	h.add(k)
	h.arena.Link(right, k)
	h.arena.Link(k, left)
	return tri, k, nil
}
