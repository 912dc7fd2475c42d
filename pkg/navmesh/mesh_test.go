package navmesh

import (
	"errors"
	"math"
	"testing"

	"navmesh-planner/pkg/geometry"
)

func square(x0, y0, size int) Obstacle {
	return NewObstacle([]geometry.Coord{
		{X: x0, Y: y0}, {X: x0, Y: y0 + size}, {X: x0 + size, Y: y0 + size}, {X: x0 + size, Y: y0},
	})
}

func staircase() []Obstacle {
	var obstacles []Obstacle
	for i := 0; i <= 400; i += 100 {
		obstacles = append(obstacles, square(i, i, 50))
	}
	return obstacles
}

func mustBuild(t *testing.T, obstacles []Obstacle, size geometry.MapSize) *Mesh {
	t.Helper()
	m, err := Build(obstacles, size, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func mustTriangulate(t *testing.T, obstacles []Obstacle, size geometry.MapSize, opts Options) *Triangulator {
	t.Helper()
	tr, err := NewTriangulator(obstacles, size, opts)
	if err != nil {
		t.Fatalf("NewTriangulator: %v", err)
	}
	if err := tr.Triangulate(); err != nil {
		t.Fatalf("Triangulate: %v", err)
	}
	return tr
}

// hasEdge reports whether some triangle of m has an edge between p and q.
func hasEdge(m *Mesh, p, q geometry.Coord) bool {
	for _, tri := range m.Triangles() {
		for _, e := range tri.Edges {
			a, b := m.Arena().Endpoints(e)
			if (a == p && b == q) || (a == q && b == p) {
				return true
			}
		}
	}
	return false
}

func vertexSet(m *Mesh) map[geometry.Coord]bool {
	set := make(map[geometry.Coord]bool)
	for _, tri := range m.Triangles() {
		for _, n := range tri.Nodes {
			set[m.Coord(n)] = true
		}
	}
	return set
}

func TestEmptyMapTwoTriangles(t *testing.T) {
	m := mustBuild(t, nil, geometry.MapSize{X: 500, Y: 500})

	if got := len(m.Triangles()); got != 2 {
		t.Fatalf("triangles = %d, want 2", got)
	}

	corners := geometry.MapSize{X: 500, Y: 500}.Corners()
	verts := vertexSet(m)
	if len(verts) != 4 {
		t.Errorf("triangle vertices = %v, want the four corners", verts)
	}
	for _, c := range corners {
		if !verts[c] {
			t.Errorf("corner %v is not a triangle vertex", c)
		}
	}

	shared := 0
	a, b := m.Triangles()[0], m.Triangles()[1]
	for _, ea := range a.Edges {
		for _, eb := range b.Edges {
			if ea == eb {
				shared++
			}
		}
	}
	if shared != 1 {
		t.Errorf("triangles share %d edges, want 1", shared)
	}
	if len(m.Dropped()) != 0 {
		t.Errorf("dropped %d nodes", len(m.Dropped()))
	}
}

func TestSquareObstacleHasNoInteriorDiagonal(t *testing.T) {
	obstacle := square(100, 100, 50)
	m := mustBuild(t, []Obstacle{obstacle}, geometry.MapSize{X: 500, Y: 500})

	diagonals := [][2]geometry.Coord{
		{{X: 100, Y: 100}, {X: 150, Y: 150}},
		{{X: 100, Y: 150}, {X: 150, Y: 100}},
	}
	for _, d := range diagonals {
		if hasEdge(m, d[0], d[1]) {
			t.Errorf("mesh keeps interior diagonal %v-%v", d[0], d[1])
		}
	}

	verts := vertexSet(m)
	want := append(geometry.MapSize{X: 500, Y: 500}.Corners(), obstacle.Vertices...)
	for _, c := range want {
		if !verts[c] {
			t.Errorf("%v is not a mesh vertex", c)
		}
	}
	if len(m.Vertices()) != 8 {
		t.Errorf("vertices = %d, want 8", len(m.Vertices()))
	}
}

// meshArea2 returns twice the area covered by m's triangles and fails on any
// triangle not stored counter-clockwise.
func meshArea2(t *testing.T, m *Mesh) int64 {
	t.Helper()
	var area int64
	for _, tri := range m.Triangles() {
		a, b, c := m.Coord(tri.Nodes[0]), m.Coord(tri.Nodes[1]), m.Coord(tri.Nodes[2])
		o := geometry.Orientation(a, b, c)
		if o <= 0 {
			t.Errorf("triangle %v %v %v is not counter-clockwise", a, b, c)
		}
		area += o
	}
	return area
}

func TestSliverObstacleKeepsFreeSpace(t *testing.T) {
	sliver := NewObstacle([]geometry.Coord{{X: 377, Y: 418}, {X: 376, Y: 440}, {X: 359, Y: 443}, {X: 374, Y: 422}})
	m := mustBuild(t, []Obstacle{sliver}, geometry.MapSize{X: 500, Y: 500})

	// twice the map area minus twice the sliver area (374)
	if got := meshArea2(t, m); got != 499626 {
		t.Errorf("2·covered area = %d, want 499626", got)
	}
	for i, v := range sliver.Vertices {
		w := sliver.Vertices[(i+1)%len(sliver.Vertices)]
		if !hasEdge(m, v, w) {
			t.Errorf("obstacle side %v-%v missing from the mesh", v, w)
		}
	}
	if hasEdge(m, geometry.Coord{X: 377, Y: 418}, geometry.Coord{X: 359, Y: 443}) ||
		hasEdge(m, geometry.Coord{X: 376, Y: 440}, geometry.Coord{X: 374, Y: 422}) {
		t.Error("mesh keeps an interior diagonal of the sliver")
	}
}

func TestStaircase(t *testing.T) {
	obstacles := staircase()
	m := mustBuild(t, obstacles, geometry.MapSize{X: 500, Y: 500})

	for _, o := range obstacles {
		lo, hi := o.Vertices[0], o.Vertices[2]
		if hasEdge(m, lo, hi) {
			t.Errorf("mesh keeps diagonal %v-%v", lo, hi)
		}
		if hasEdge(m, o.Vertices[1], o.Vertices[3]) {
			t.Errorf("mesh keeps diagonal %v-%v", o.Vertices[1], o.Vertices[3])
		}
	}
	if m.Removed() == 0 {
		t.Error("no obstacle-interior triangles were removed")
	}

	seeded := make(map[geometry.Coord]bool)
	for _, n := range m.SeededNodes() {
		seeded[m.Coord(n)] = true
	}
	for _, tri := range m.Triangles() {
		for _, e := range tri.Edges {
			p, q := m.Arena().Endpoints(e)
			if abs(p.X-q.X) < 10 || abs(p.Y-q.Y) < 10 {
				continue
			}
			mid := geometry.Coord{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
			if !seeded[mid] {
				t.Errorf("edge %v-%v has no seeded midpoint %v", p, q, mid)
			}
		}
	}
}

func TestMeshInvariants(t *testing.T) {
	cases := map[string][]Obstacle{
		"empty":     nil,
		"square":    {square(100, 100, 50)},
		"staircase": staircase(),
		"scattered": {square(40, 300, 60), square(320, 60, 80), square(200, 200, 30)},
	}

	for name, obstacles := range cases {
		t.Run(name, func(t *testing.T) {
			size := geometry.MapSize{X: 500, Y: 500}
			tr := mustTriangulate(t, obstacles, size, DefaultOptions())
			a := tr.Arena()

			if len(tr.Dropped()) != 0 {
				t.Errorf("dropped %d nodes", len(tr.Dropped()))
			}

			// hull is convex once the final walk ran
			ring := tr.Hull()
			for i, e := range ring {
				next := ring[(i+1)%len(ring)]
				angle, err := a.AngleWith(e, next)
				if err != nil {
					t.Fatalf("AngleWith: %v", err)
				}
				if angle < math.Pi-angleEpsilon {
					t.Errorf("hull corner at edge %d has angle %v", e, angle)
				}
			}

			if flips := tr.LegalizeAll(); flips != 0 {
				t.Errorf("second legalization flipped %d edges", flips)
			}

			pairs := make(map[[2]geometry.NodeID]geometry.EdgeID)
			for _, e := range a.Edges() {
				edge := a.Edge(e)
				key := [2]geometry.NodeID{min(edge.A, edge.B), max(edge.A, edge.B)}
				if other, ok := pairs[key]; ok {
					t.Errorf("edges %d and %d connect the same nodes", other, e)
				}
				pairs[key] = e

				for _, n := range []geometry.NodeID{edge.A, edge.B} {
					if !containsEdge(a.Node(n).Edges, e) {
						t.Errorf("node %d misses back-reference to edge %d", n, e)
					}
				}
				for _, s := range edge.Shapes {
					if !containsEdge(a.Shape(s).Edges, e) {
						t.Errorf("edge %d references shape %d which does not own it", e, s)
					}
				}

				tris := a.TrianglesOn(e)
				if len(tris) > 2 {
					t.Errorf("edge %d is shared by %d triangles", e, len(tris))
				}
				if len(tris) == 2 && !a.IsBoundary(e) {
					sum := a.AngleOpposite(tris[0], e) + a.AngleOpposite(tris[1], e)
					if sum > math.Pi+angleEpsilon {
						t.Errorf("edge %d violates Delaunay: %v", e, sum)
					}
				}
			}

			tr.RemoveObstacleInterior()
			for _, tri := range a.Triangles() {
				c := a.TriangleCoords(tri)
				cx := float64(c[0].X+c[1].X+c[2].X) / 3
				cy := float64(c[0].Y+c[1].Y+c[2].Y) / 3
				for _, o := range obstacles {
					if insideBox(o, cx, cy) {
						t.Errorf("triangle %v lies inside obstacle %v", c, o.Vertices)
					}
					for i := range c {
						p, q := c[i], c[(i+1)%3]
						mx, my := float64(p.X+q.X)/2, float64(p.Y+q.Y)/2
						if insideBox(o, mx, my) {
							t.Errorf("edge %v-%v crosses obstacle %v", p, q, o.Vertices)
						}
					}
				}
			}
		})
	}
}

func containsEdge(edges []geometry.EdgeID, e geometry.EdgeID) bool {
	for _, x := range edges {
		if x == e {
			return true
		}
	}
	return false
}

// insideBox reports whether (x, y) is strictly inside the bounding box of an
// axis-aligned square obstacle.
func insideBox(o Obstacle, x, y float64) bool {
	b := o.Ring().Bound()
	return x > b.Min[0] && x < b.Max[0] && y > b.Min[1] && y < b.Max[1]
}

func TestSeededMidpointRule(t *testing.T) {
	tr := mustTriangulate(t, staircase(), geometry.MapSize{X: 500, Y: 500}, DefaultOptions())
	tr.RemoveObstacleInterior()
	a := tr.Arena()
	tris := a.Triangles()

	before := a.NodeCount()
	seeded := tr.SeedNodes(10)

	mids := make(map[geometry.Coord]bool)
	edges := make(map[geometry.EdgeID]bool)
	for _, tri := range tris {
		for _, e := range a.Shape(tri).Edges {
			if edges[e] {
				continue
			}
			edges[e] = true
			p, q := a.Endpoints(e)
			if abs(p.X-q.X) >= 10 && abs(p.Y-q.Y) >= 10 {
				mids[geometry.Coord{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}] = true
			}
		}
	}

	if len(seeded) != len(mids)+len(tris) {
		t.Errorf("seeded %d nodes, want %d midpoints + %d centroids", len(seeded), len(mids), len(tris))
	}
	for i, n := range seeded {
		if int(n) < before {
			t.Errorf("seeded node %d reuses an existing slot", n)
		}
		if i < len(mids) && !mids[a.Coord(n)] {
			t.Errorf("seeded node %v is not a qualifying edge midpoint", a.Coord(n))
		}
		if a.InMesh(n) {
			t.Errorf("seeded node %v is a triangle vertex", a.Coord(n))
		}
	}
}

func TestSingleTriangleWithoutCorners(t *testing.T) {
	tri := NewObstacle([]geometry.Coord{{X: 10, Y: 10}, {X: 60, Y: 10}, {X: 30, Y: 50}})
	opts := DefaultOptions()
	opts.IncludeCorners = false

	tr := mustTriangulate(t, []Obstacle{tri}, geometry.MapSize{X: 100, Y: 100}, opts)
	if got := len(tr.Arena().Triangles()); got != 1 {
		t.Fatalf("triangles before post-processing = %d, want 1", got)
	}

	m, err := Build([]Obstacle{tri}, geometry.MapSize{X: 100, Y: 100}, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := len(m.Triangles()); got != 0 {
		t.Errorf("triangles after post-processing = %d, want 0", got)
	}
	if m.Removed() != 1 {
		t.Errorf("removed = %d, want 1", m.Removed())
	}
}

func TestBuildErrors(t *testing.T) {
	noCorners := DefaultOptions()
	noCorners.IncludeCorners = false

	line := NewObstacle([]geometry.Coord{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}})

	tests := []struct {
		name      string
		obstacles []Obstacle
		size      geometry.MapSize
		opts      Options
		want      error
	}{
		{"no nodes", nil, geometry.MapSize{X: 100, Y: 100}, noCorners, ErrInsufficientNodes},
		{"flat map", nil, geometry.MapSize{X: 100, Y: 0}, DefaultOptions(), ErrInsufficientNodes},
		{"collinear", []Obstacle{line}, geometry.MapSize{X: 100, Y: 100}, noCorners, ErrFailedTriangulation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.obstacles, tt.size, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSharedVerticesAreDeduplicated(t *testing.T) {
	// both squares share the corner (100, 100) and the map corner (0, 0)
	obstacles := []Obstacle{square(0, 0, 100), square(100, 100, 50)}
	tr, err := NewTriangulator(obstacles, geometry.MapSize{X: 500, Y: 500}, DefaultOptions())
	if err != nil {
		t.Fatalf("NewTriangulator: %v", err)
	}
	if got := len(tr.sources); got != 10 {
		t.Errorf("source nodes = %d, want 10", got)
	}
	if o := tr.Arena().Origin(); o != (geometry.Coord{X: 250, Y: 250}) {
		t.Errorf("origin = %v, want (250,250)", o)
	}
}
