package navmesh

import (
	"navmesh-planner/pkg/geometry"
)

// RemoveObstacleInterior drops every triangle that lies inside an obstacle
// and returns how many were removed. A triangle goes when one of its edges
// is a chord of an obstacle, when an edge passes through an obstacle's
// interior, or when its centroid lies inside an obstacle.
func (t *Triangulator) RemoveObstacleInterior() int {
	if len(t.obstacles) == 0 {
		return 0
	}
	a := t.arena
	idx := newObstacleIndex(a, t.obstacles)

	removed := 0
	for _, tri := range a.Triangles() {
		if t.insideObstacle(idx, tri) {
			a.RemoveShape(tri)
			removed++
		}
	}
	return removed
}

func (t *Triangulator) insideObstacle(idx *obstacleIndex, tri geometry.ShapeID) bool {
	a := t.arena
	for _, e := range a.Shape(tri).Edges {
		edge := a.Edge(e)
		if _, ok := a.SharesOwner(edge.A, edge.B); ok && !a.IsBoundary(e) {
			return true
		}
		p, q := a.Endpoints(e)
		if idx.segmentEntersInterior(p, q) {
			return true
		}
	}

	c := a.TriangleCoords(tri)
	x := float64(c[0].X+c[1].X+c[2].X) / 3
	y := float64(c[0].Y+c[1].Y+c[2].Y) / 3
	return idx.containsPoint(x, y)
}

// SeedNodes adds pathing nodes to the finished mesh: one at the midpoint of
// every edge spanning at least threshold on both axes, and one at the
// centroid of every triangle. Seeded nodes are not triangle vertices.
func (t *Triangulator) SeedNodes(threshold int) []geometry.NodeID {
	a := t.arena
	tris := a.Triangles()

	seen := make(map[geometry.EdgeID]bool)
	var edges []geometry.EdgeID
	for _, tri := range tris {
		for _, e := range a.Shape(tri).Edges {
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}

	var seeded []geometry.NodeID
	for _, e := range edges {
		p, q := a.Endpoints(e)
		if abs(p.X-q.X) < threshold || abs(p.Y-q.Y) < threshold {
			continue
		}
		seeded = append(seeded, a.AddNode(geometry.Coord{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}))
	}
	for _, tri := range tris {
		seeded = append(seeded, a.AddNode(a.Shape(tri).Center))
	}
	return seeded
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
