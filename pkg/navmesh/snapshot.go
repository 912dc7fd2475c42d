package navmesh

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"navmesh-planner/pkg/geometry"
)

// Snapshot is the serialisable form of a finished mesh. Triangles index
// into Vertices.
type Snapshot struct {
	MapSize   geometry.MapSize `json:"mapSize" msgpack:"mapSize"`
	Vertices  []geometry.Coord `json:"vertices" msgpack:"vertices"`
	Seeded    []geometry.Coord `json:"seeded" msgpack:"seeded"`
	Triangles [][3]int         `json:"triangles" msgpack:"triangles"`
	Obstacles []Obstacle       `json:"obstacles" msgpack:"obstacles"`
}

// Snapshot flattens the mesh into plain coordinates.
func (m *Mesh) Snapshot() *Snapshot {
	s := &Snapshot{
		MapSize:   m.Size,
		Vertices:  make([]geometry.Coord, 0, len(m.vertices)),
		Seeded:    make([]geometry.Coord, 0, len(m.seeded)),
		Triangles: make([][3]int, 0, len(m.triangles)),
		Obstacles: m.Obstacles,
	}

	index := make(map[geometry.NodeID]int, len(m.vertices))
	for i, n := range m.vertices {
		index[n] = i
		s.Vertices = append(s.Vertices, m.Coord(n))
	}
	for _, n := range m.seeded {
		s.Seeded = append(s.Seeded, m.Coord(n))
	}
	for _, tri := range m.triangles {
		s.Triangles = append(s.Triangles, [3]int{index[tri.Nodes[0]], index[tri.Nodes[1]], index[tri.Nodes[2]]})
	}
	return s
}

// Nodes returns vertices followed by seeded nodes.
func (s *Snapshot) Nodes() []geometry.Coord {
	out := make([]geometry.Coord, 0, len(s.Vertices)+len(s.Seeded))
	out = append(out, s.Vertices...)
	return append(out, s.Seeded...)
}

// Lines returns each distinct triangle edge once, for visualization.
func (s *Snapshot) Lines() [][]geometry.Coord {
	lines := make([][]geometry.Coord, 0)

	// Edges are shared by neighbouring triangles, keep one copy
	seen := make(map[[2]int]bool)

	for _, tri := range s.Triangles {
		for i := range tri {
			a, b := tri[i], tri[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if !seen[key] {
				seen[key] = true
				lines = append(lines, []geometry.Coord{s.Vertices[a], s.Vertices[b]})
			}
		}
	}

	return lines
}

func useMsgpack(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".msgpack")
}

// SaveSnapshot writes the snapshot to filename, as msgpack when the name ends
// in .msgpack and as indented JSON otherwise.
func SaveSnapshot(s *Snapshot, filename string) error {
	log.Printf("💾 Saving navigation mesh to %s...\n", filename)

	var data []byte
	var err error
	if useMsgpack(filename) {
		data, err = msgpack.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal mesh: %w", err)
	}

	err = os.WriteFile(filename, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Mesh saved (%d bytes)\n", len(data))
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(filename string) (*Snapshot, error) {
	log.Printf("📂 Loading navigation mesh from %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var s Snapshot
	if useMsgpack(filename) {
		err = msgpack.Unmarshal(data, &s)
	} else {
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal mesh: %w", err)
	}

	for i, tri := range s.Triangles {
		for _, v := range tri {
			if v < 0 || v >= len(s.Vertices) {
				return nil, fmt.Errorf("triangle %d references vertex %d of %d", i, v, len(s.Vertices))
			}
		}
	}

	log.Printf("   ✅ Mesh loaded: %d triangles, %d nodes\n", len(s.Triangles), len(s.Vertices)+len(s.Seeded))
	return &s, nil
}
