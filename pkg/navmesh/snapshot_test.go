package navmesh

import (
	"os"
	"path/filepath"
	"testing"

	"navmesh-planner/pkg/geometry"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m := mustBuild(t, []Obstacle{square(100, 100, 50)}, geometry.MapSize{X: 500, Y: 500})
	snap := m.Snapshot()

	for _, name := range []string{"mesh.json", "mesh.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := SaveSnapshot(snap, path); err != nil {
				t.Fatalf("SaveSnapshot: %v", err)
			}
			got, err := LoadSnapshot(path)
			if err != nil {
				t.Fatalf("LoadSnapshot: %v", err)
			}

			if got.MapSize != snap.MapSize {
				t.Errorf("map size = %v, want %v", got.MapSize, snap.MapSize)
			}
			if len(got.Triangles) != len(snap.Triangles) || len(got.Nodes()) != len(snap.Nodes()) {
				t.Errorf("loaded %d triangles / %d nodes, want %d / %d",
					len(got.Triangles), len(got.Nodes()), len(snap.Triangles), len(snap.Nodes()))
			}
			if len(got.Lines()) != len(snap.Lines()) {
				t.Errorf("lines = %d, want %d", len(got.Lines()), len(snap.Lines()))
			}
			if len(got.Obstacles) != 1 || len(got.Obstacles[0].Vertices) != 4 {
				t.Errorf("obstacles = %v", got.Obstacles)
			}
		})
	}
}

func TestLoadSnapshotRejectsBadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	data := `{"mapSize":{"x":10,"y":10},"vertices":[{"x":0,"y":0}],"triangles":[[0,1,2]]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("LoadSnapshot accepted a triangle with out-of-range vertices")
	}
}

func TestSnapshotLines(t *testing.T) {
	m := mustBuild(t, nil, geometry.MapSize{X: 500, Y: 500})
	// two triangles over four corners share one diagonal
	if got := len(m.Snapshot().Lines()); got != 5 {
		t.Errorf("lines = %d, want 5", got)
	}
}

func TestLoadObstacles(t *testing.T) {
	dir := t.TempDir()
	geo := `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "Polygon",
      "coordinates": [[[10, 10], [60, 10], [60, 60], [10, 60], [10, 10]]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "MultiPolygon",
      "coordinates": [[[[200, 200], [250, 200], [225, 240], [200, 200]]]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 1]}}
  ]
}`
	wkt := "# zones\nPOLYGON((300 300, 340 300, 340 340, 300 340, 300 300))\n\nMULTIPOLYGON(((400 50, 450 50, 450 90, 400 50)))\n"

	files := map[string]string{"zones.geojson": geo, "more.wkt": wkt, "broken.geojson": "{"}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	obstacles, err := LoadObstacles(filepath.Join(dir, "*"), 0)
	if err != nil {
		t.Fatalf("LoadObstacles: %v", err)
	}
	if len(obstacles) != 4 {
		t.Fatalf("obstacles = %d, want 4", len(obstacles))
	}

	vertices := 0
	for _, o := range obstacles {
		vertices += len(o.Vertices)
	}
	if vertices != 14 {
		t.Errorf("total vertices = %d, want 14", vertices)
	}
}
