package navmesh

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/peterstace/simplefeatures/geom"
)

// LoadObstacles reads every obstacle file matching pattern. GeoJSON files
// hold a feature collection; .wkt files hold one geometry per line. Only
// polygon exteriors are used. Unreadable files are skipped with a warning.
func LoadObstacles(pattern string, tolerance float64) ([]Obstacle, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	log.Printf("Loading obstacles from %d files...\n", len(files))

	var rings []orb.Ring
	for _, file := range files {
		fileRings, err := loadRings(file)
		if err != nil {
			log.Printf("⚠️  Failed to load %s: %v\n", file, err)
			continue
		}
		rings = append(rings, fileRings...)
		log.Printf("   ✅ Loaded %d polygons from %s\n", len(fileRings), filepath.Base(file))
	}

	obstacles := PrepareObstacles(rings, tolerance)
	log.Printf("Total obstacles loaded: %d polygons\n", len(obstacles))
	return obstacles, nil
}

func loadRings(file string) ([]orb.Ring, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(file), ".wkt") {
		return parseWKT(data)
	}
	return parseGeoJSON(data)
}

func parseGeoJSON(data []byte) ([]orb.Ring, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	var rings []orb.Ring
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			// First ring is the outer boundary
			if len(g) > 0 {
				rings = append(rings, g[0])
			}
		case orb.MultiPolygon:
			for _, p := range g {
				if len(p) > 0 {
					rings = append(rings, p[0])
				}
			}
		}
	}
	return rings, nil
}

func parseWKT(data []byte) ([]orb.Ring, error) {
	var rings []orb.Ring
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := geom.UnmarshalWKT(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var mp geom.MultiPolygon
		switch g.Type() {
		case geom.TypePolygon:
			p, ok := g.AsPolygon()
			if !ok {
				continue
			}
			mp = p.AsMultiPolygon()
		case geom.TypeMultiPolygon:
			var ok bool
			if mp, ok = g.AsMultiPolygon(); !ok {
				continue
			}
		default:
			continue
		}
		for i := 0; i < mp.NumPolygons(); i++ {
			seq := mp.PolygonN(i).ExteriorRing().Coordinates()
			ring := make(orb.Ring, 0, seq.Length())
			for j := 0; j < seq.Length(); j++ {
				xy := seq.GetXY(j)
				ring = append(ring, orb.Point{xy.X, xy.Y})
			}
			rings = append(rings, ring)
		}
	}
	return rings, scanner.Err()
}
