package navmesh

import (
	"log"

	"navmesh-planner/pkg/geometry"
)

// recoverConstraints makes every obstacle side between two mesh vertices an
// edge of the triangulation and returns how many sides were recovered.
func (t *Triangulator) recoverConstraints() int {
	recovered := 0
	for _, o := range t.obstacles {
		for _, s := range t.arena.Shape(o.poly).Edges {
			if len(t.arena.TrianglesOn(s)) > 0 {
				continue
			}
			edge := t.arena.Edge(s)
			if !t.arena.InMesh(edge.A) || !t.arena.InMesh(edge.B) {
				continue
			}
			if t.recoverEdge(s) {
				recovered++
			} else {
				pa, pb := t.arena.Endpoints(s)
				log.Printf("   ⚠️  Could not recover obstacle side %v-%v\n", pa, pb)
			}
		}
	}
	return recovered
}

// recoverEdge flips away every mesh edge that crosses s until s itself
// appears in the mesh.
func (t *Triangulator) recoverEdge(s geometry.EdgeID) bool {
	a := t.arena
	pa, pb := a.Endpoints(s)

	for i := 0; i < a.NodeCount(); i++ {
		id := geometry.NodeID(i)
		if a.InMesh(id) && geometry.OnOpenSegment(pa, pb, a.Coord(id)) {
			return false
		}
	}

	crosses := func(e geometry.EdgeID) bool {
		p, q := a.Endpoints(e)
		return geometry.SegmentsCross(pa, pb, p, q)
	}

	var queue []geometry.EdgeID
	for _, e := range a.Edges() {
		if e != s && len(a.TrianglesOn(e)) > 0 && crosses(e) {
			queue = append(queue, e)
		}
	}

	limit := 64 * (len(queue) + 1) * (len(queue) + 1)
	for steps := 0; len(queue) > 0 && steps < limit; steps++ {
		e := queue[0]
		queue = queue[1:]
		if !a.EdgeAlive(e) || !crosses(e) {
			continue
		}
		if a.IsBoundary(e) {
			// another obstacle's side is in the way
			return false
		}
		tris := a.TrianglesOn(e)
		if len(tris) != 2 {
			return false
		}

		edge := a.Edge(e)
		p1, p2 := a.Coord(edge.A), a.Coord(edge.B)
		xa, xb := a.Coord(a.OppositeNode(tris[0], e)), a.Coord(a.OppositeNode(tris[1], e))
		convex := geometry.Orientation(p1, p2, xa)*geometry.Orientation(p1, p2, xb) < 0 &&
			geometry.Orientation(xa, xb, p1)*geometry.Orientation(xa, xb, p2) < 0
		if !convex {
			queue = append(queue, e)
			continue
		}

		d, _, err := t.flip(e, tris[0], tris[1])
		if err != nil {
			queue = append(queue, e)
			continue
		}
		if d != geometry.NoEdge && crosses(d) {
			queue = append(queue, d)
		}
	}
	return len(a.TrianglesOn(s)) > 0
}
