package navmesh

import (
	"fmt"
	"math"

	"navmesh-planner/pkg/geometry"
)

// legalize restores the Delaunay condition around a freshly built triangle.
func (t *Triangulator) legalize(tri geometry.ShapeID) int {
	if !t.arena.ShapeAlive(tri) {
		return 0
	}
	edges := append([]geometry.EdgeID(nil), t.arena.Shape(tri).Edges...)
	return t.legalizeEdges(edges, t.opts.CascadeLegalization)
}

// LegalizeAll checks every edge of the mesh, cascading through flipped
// neighbours, and returns the number of flips. Once it returns, a second
// call flips nothing.
func (t *Triangulator) LegalizeAll() int {
	return t.legalizeEdges(t.arena.Edges(), true)
}

// legalizeEdges flips every queued edge whose two opposite angles sum past
// π. Obstacle sides are never flipped. With cascade set, the four outer
// edges of a flipped quadrilateral are queued again.
func (t *Triangulator) legalizeEdges(queue []geometry.EdgeID, cascade bool) int {
	flips := 0
	n := t.arena.NodeCount()
	limit := 3*n*n + len(queue) + 64

	for steps := 0; len(queue) > 0 && steps < limit; steps++ {
		e := queue[0]
		queue = queue[1:]

		if !t.arena.EdgeAlive(e) || t.arena.IsBoundary(e) {
			continue
		}
		tris := t.arena.TrianglesOn(e)
		if len(tris) != 2 {
			continue
		}
		c, nb := tris[0], tris[1]
		if t.arena.AngleOpposite(c, e)+t.arena.AngleOpposite(nb, e) <= math.Pi+angleEpsilon {
			continue
		}

		_, outer, err := t.flip(e, c, nb)
		if err != nil {
			continue
		}
		flips++
		if cascade {
			queue = append(queue, outer[:]...)
		}
	}
	return flips
}

// flip replaces the diagonal e of the quadrilateral formed by triangles c
// and n with the other diagonal. It returns the new diagonal and the four
// outer edges. On failure the mesh is left unchanged.
func (t *Triangulator) flip(e geometry.EdgeID, c, n geometry.ShapeID) (geometry.EdgeID, [4]geometry.EdgeID, error) {
	a := t.arena
	pc, pn := a.OppositeNode(c, e), a.OppositeNode(n, e)
	l1, l2 := a.OtherEdges(n, e)
	c1, c2 := a.OtherEdges(c, e)

	n2, err := a.NewTriangleFromEdge(l1, pc)
	if err != nil {
		return geometry.NoEdge, [4]geometry.EdgeID{}, fmt.Errorf("flip edge %d: %w", e, err)
	}
	if _, err := a.NewTriangleFromEdge(l2, pc); err != nil {
		a.RemoveShape(n2)
		return geometry.NoEdge, [4]geometry.EdgeID{}, fmt.Errorf("flip edge %d: %w", e, err)
	}

	a.RemoveShape(n)
	a.RemoveShape(c)
	t.flips++
	return a.EdgeBetween(pc, pn), [4]geometry.EdgeID{l1, l2, c1, c2}, nil
}
