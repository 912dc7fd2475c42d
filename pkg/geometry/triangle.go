package geometry

import (
	"fmt"
	"math"
)

// NewTriangle builds a triangle over three nodes, stored counter-clockwise.
// Edges that already connect a pair are shared, the others are created.
func (a *Arena) NewTriangle(x, y, z NodeID) (ShapeID, error) {
	cx, cy, cz := a.nodes[x].Coord, a.nodes[y].Coord, a.nodes[z].Coord
	switch o := Orientation(cx, cy, cz); {
	case o == 0:
		return NoShape, fmt.Errorf("triangle %v %v %v: %w", cx, cy, cz, ErrIllegalTriangle)
	case o < 0:
		y, z = z, y
		cy, cz = cz, cy
	}

	pairs := [3][2]NodeID{{x, y}, {y, z}, {z, x}}
	var edges [3]EdgeID
	var created []EdgeID
	for i, p := range pairs {
		e, res, err := a.NewEdge(p[0], p[1])
		if err != nil {
			for _, c := range created {
				a.ReleaseIfUnused(c)
			}
			return NoShape, fmt.Errorf("triangle: %w", err)
		}
		if res == EdgeCreated {
			created = append(created, e)
		}
		edges[i] = e
	}

	id := a.addShape(Shape{
		Kind:   KindTriangle,
		Center: Centroid(cx, cy, cz),
		Nodes:  []NodeID{x, y, z},
		Edges:  edges[:],
	})
	for _, e := range edges {
		a.addShapeRef(e, id)
	}
	return id, nil
}

// NewTriangleFromEdge closes edge e with node n.
func (a *Arena) NewTriangleFromEdge(e EdgeID, n NodeID) (ShapeID, error) {
	edge := a.edges[e]
	return a.NewTriangle(edge.A, edge.B, n)
}

// NewTriangleFromEdges closes two edges that share a node.
func (a *Arena) NewTriangleFromEdges(e, other EdgeID) (ShapeID, error) {
	c, ok := a.CommonNode(e, other)
	if !ok {
		return NoShape, fmt.Errorf("triangle from edges %d and %d: %w", e, other, ErrNonAdjacent)
	}
	return a.NewTriangle(a.edges[e].Other(c), c, a.edges[other].Other(c))
}

// OppositeNode returns the vertex of triangle t that is not on e.
func (a *Arena) OppositeNode(t ShapeID, e EdgeID) NodeID {
	edge := a.edges[e]
	for _, n := range a.shapes[t].Nodes {
		if !edge.Has(n) {
			return n
		}
	}
	return NoNode
}

// AngleOpposite returns the interior angle of t at the vertex opposite e,
// from the law of cosines on exact squared lengths.
func (a *Arena) AngleOpposite(t ShapeID, e EdgeID) float64 {
	p := a.nodes[a.OppositeNode(t, e)].Coord
	u, v := a.Endpoints(e)

	pu, pv, uv := float64(p.DistanceSq(u)), float64(p.DistanceSq(v)), float64(u.DistanceSq(v))
	cos := (pu + pv - uv) / (2 * math.Sqrt(pu) * math.Sqrt(pv))
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// OtherEdges returns the two edges of triangle t other than e.
func (a *Arena) OtherEdges(t ShapeID, e EdgeID) (EdgeID, EdgeID) {
	out := [2]EdgeID{NoEdge, NoEdge}
	i := 0
	for _, x := range a.shapes[t].Edges {
		if x != e && i < 2 {
			out[i] = x
			i++
		}
	}
	return out[0], out[1]
}

// TriangleCoords returns the vertex coordinates of t.
func (a *Arena) TriangleCoords(t ShapeID) [3]Coord {
	n := a.shapes[t].Nodes
	return [3]Coord{a.nodes[n[0]].Coord, a.nodes[n[1]].Coord, a.nodes[n[2]].Coord}
}
