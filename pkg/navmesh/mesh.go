package navmesh

import (
	"log"
	"time"

	"navmesh-planner/pkg/geometry"
)

// Triangle is one cell of the finished mesh.
type Triangle struct {
	ID    geometry.ShapeID
	Nodes [3]geometry.NodeID
	Edges [3]geometry.EdgeID
}

// Mesh is the read-only result of Build. Callers must not mutate the arena.
type Mesh struct {
	Size      geometry.MapSize
	Obstacles []Obstacle

	arena     *geometry.Arena
	triangles []Triangle
	vertices  []geometry.NodeID
	seeded    []geometry.NodeID
	dropped   []geometry.NodeID
	removed   int
	flips     int
}

// Build triangulates the free space of a map around convex obstacles,
// removes triangles inside obstacles and seeds pathing nodes.
func Build(obstacles []Obstacle, size geometry.MapSize, opts Options) (*Mesh, error) {
	startTime := time.Now()
	log.Printf("🗺️  Building navigation mesh on %dx%d map...\n", size.X, size.Y)
	log.Printf("   Obstacles: %d polygons\n", len(obstacles))

	t, err := NewTriangulator(obstacles, size, opts)
	if err != nil {
		return nil, err
	}
	if err := t.Triangulate(); err != nil {
		return nil, err
	}

	m := &Mesh{Size: size, Obstacles: obstacles, arena: t.arena}
	m.removed = t.RemoveObstacleInterior()
	m.flips = t.Flips()
	m.dropped = t.Dropped()

	inMesh := make(map[geometry.NodeID]bool)
	for _, id := range t.arena.Triangles() {
		s := t.arena.Shape(id)
		tri := Triangle{ID: id}
		copy(tri.Nodes[:], s.Nodes)
		copy(tri.Edges[:], s.Edges)
		m.triangles = append(m.triangles, tri)
		for _, n := range s.Nodes {
			inMesh[n] = true
		}
	}
	for _, n := range t.sources {
		if inMesh[n] {
			m.vertices = append(m.vertices, n)
		}
	}
	m.seeded = t.SeedNodes(opts.SeedThreshold)

	log.Printf("   ✅ Mesh built: %d triangles, %d vertices, %d seeded nodes\n",
		len(m.triangles), len(m.vertices), len(m.seeded))
	if m.removed > 0 {
		log.Printf("   ℹ️  Removed %d triangles inside obstacles\n", m.removed)
	}
	if len(m.dropped) > 0 {
		log.Printf("   ⚠️  Dropped %d nodes\n", len(m.dropped))
	}
	log.Printf("   ⏱️  Build time: %.2f seconds\n", time.Since(startTime).Seconds())
	return m, nil
}

// Triangles returns the triangles left after post-processing.
func (m *Mesh) Triangles() []Triangle { return m.triangles }

// Vertices returns the source nodes that are triangle vertices.
func (m *Mesh) Vertices() []geometry.NodeID { return m.vertices }

// SeededNodes returns the pathing nodes placed on edges and triangle
// centroids.
func (m *Mesh) SeededNodes() []geometry.NodeID { return m.seeded }

// Nodes returns every mesh node: vertices followed by seeded nodes.
func (m *Mesh) Nodes() []geometry.NodeID {
	out := make([]geometry.NodeID, 0, len(m.vertices)+len(m.seeded))
	out = append(out, m.vertices...)
	return append(out, m.seeded...)
}

// Dropped returns source nodes the sweep could not attach.
func (m *Mesh) Dropped() []geometry.NodeID { return m.dropped }

// Removed returns the number of triangles removed inside obstacles.
func (m *Mesh) Removed() int { return m.removed }

func (m *Mesh) Flips() int { return m.flips }

func (m *Mesh) Coord(n geometry.NodeID) geometry.Coord { return m.arena.Coord(n) }

func (m *Mesh) Arena() *geometry.Arena { return m.arena }
