package geometry

import (
	"fmt"
	"math"
	"sort"
)

type ShapeKind uint8

const (
	KindCircle ShapeKind = iota
	KindConvexPolygon
	KindTriangle
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindConvexPolygon:
		return "convex polygon"
	case KindTriangle:
		return "triangle"
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// Shape is either a circle (Center, Radius) or a convex polygon (Center,
// Nodes, Edges). A triangle is a convex polygon with exactly three non
// collinear nodes.
type Shape struct {
	Kind   ShapeKind
	Center Coord
	Radius float64
	Nodes  []NodeID
	Edges  []EdgeID

	removed bool
}

func (a *Arena) NewCircle(center Coord, radius float64) ShapeID {
	return a.addShape(Shape{Kind: KindCircle, Center: center, Radius: radius})
}

// CircleTouchesSegment reports whether segment pq comes within the radius of
// circle s.
func (a *Arena) CircleTouchesSegment(s ShapeID, p, q Coord) bool {
	c := a.shapes[s]
	return segmentPointDistance(p, q, c.Center) <= c.Radius
}

// NewConvexPolygon creates one node per vertex and connects them in
// counter-clockwise order.
func (a *Arena) NewConvexPolygon(vertices []Coord) (ShapeID, error) {
	if len(vertices) < 3 {
		return NoShape, fmt.Errorf("convex polygon with %d vertices: %w", len(vertices), ErrInsufficientNodes)
	}
	nodes := make([]NodeID, len(vertices))
	for i, v := range vertices {
		nodes[i] = a.AddNode(v)
	}
	return a.NewConvexPolygonFromNodes(nodes)
}

// NewConvexPolygonFromNodes builds a polygon over existing nodes, reusing any
// edge that already connects two consecutive nodes. Every node records the
// polygon as an owner. Center is the bounding-box midpoint; nodes are ordered
// by angle about the vertex mean, which unlike the midpoint always lies
// inside a convex polygon.
func (a *Arena) NewConvexPolygonFromNodes(nodes []NodeID) (ShapeID, error) {
	if len(nodes) < 3 {
		return NoShape, fmt.Errorf("convex polygon with %d nodes: %w", len(nodes), ErrInsufficientNodes)
	}

	coords := make([]Coord, len(nodes))
	for i, n := range nodes {
		coords[i] = a.nodes[n].Coord
	}
	center := BoundsMidpoint(coords)

	var mx, my float64
	for _, c := range coords {
		mx += float64(c.X)
		my += float64(c.Y)
	}
	mx /= float64(len(coords))
	my /= float64(len(coords))
	theta := func(n NodeID) float64 {
		c := a.nodes[n].Coord
		return normalizeAngle(math.Atan2(float64(c.Y)-my, float64(c.X)-mx))
	}

	sorted := append([]NodeID(nil), nodes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return theta(sorted[i]) < theta(sorted[j])
	})

	edges := make([]EdgeID, 0, len(sorted))
	for i := range sorted {
		e, _, err := a.NewEdge(sorted[i], sorted[(i+1)%len(sorted)])
		if err != nil {
			for _, made := range edges {
				a.ReleaseIfUnused(made)
			}
			return NoShape, fmt.Errorf("convex polygon: %w", err)
		}
		edges = append(edges, e)
	}

	id := a.addShape(Shape{Kind: KindConvexPolygon, Center: center, Nodes: sorted, Edges: edges})
	for i, e := range edges {
		a.addShapeRef(e, id)
		a.Link(e, edges[(i+1)%len(edges)])
	}
	for _, n := range sorted {
		a.AddOwner(n, id)
	}
	return id, nil
}

// RemoveShape drops s from the mesh and releases every edge left without a
// shape and off the frontier.
func (a *Arena) RemoveShape(s ShapeID) {
	shape := &a.shapes[s]
	if shape.removed {
		return
	}
	shape.removed = true
	for _, e := range shape.Edges {
		a.removeShapeRef(e, s)
		a.ReleaseIfUnused(e)
	}
}

func segmentPointDistance(p, q, c Coord) float64 {
	d := q.Sub(p)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return p.Distance(c)
	}
	t := float64(c.Sub(p).Dot(d)) / float64(lenSq)
	t = math.Max(0, math.Min(1, t))
	x := float64(p.X) + t*float64(d.X) - float64(c.X)
	y := float64(p.Y) + t*float64(d.Y) - float64(c.Y)
	return math.Hypot(x, y)
}
