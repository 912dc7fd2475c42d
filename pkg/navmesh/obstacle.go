package navmesh

import (
	"fmt"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
	"github.com/peterstace/simplefeatures/geom"

	"navmesh-planner/pkg/geometry"
)

// Obstacle is a convex polygon the mesh must route around. Center and Radius
// describe a bounding circle; NewObstacle fills them in.
type Obstacle struct {
	Vertices []geometry.Coord `json:"vertices" msgpack:"vertices"`
	Center   geometry.Coord   `json:"center" msgpack:"center"`
	Radius   float64          `json:"radius" msgpack:"radius"`
}

func NewObstacle(vertices []geometry.Coord) Obstacle {
	o := Obstacle{Vertices: vertices, Center: geometry.BoundsMidpoint(vertices)}
	for _, v := range vertices {
		o.Radius = math.Max(o.Radius, o.Center.Distance(v))
	}
	return o
}

// Ring returns the obstacle outline as a closed orb ring.
func (o Obstacle) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(o.Vertices)+1)
	for _, v := range o.Vertices {
		ring = append(ring, orb.Point{float64(v.X), float64(v.Y)})
	}
	if len(o.Vertices) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// PrepareObstacles turns raw outlines into usable obstacles: each ring is
// optionally simplified, replaced by its convex hull, and dropped when it is
// degenerate or lies inside another obstacle.
func PrepareObstacles(rings []orb.Ring, tolerance float64) []Obstacle {
	obstacles := make([]Obstacle, 0, len(rings))
	for _, r := range rings {
		if tolerance > 0 {
			r = simplify.DouglasPeucker(tolerance).Ring(r.Clone())
		}
		coords := make([]geometry.Coord, 0, len(r))
		for _, p := range r {
			coords = append(coords, geometry.Coord{X: int(math.Round(p[0])), Y: int(math.Round(p[1]))})
		}
		hull := convexHull(coords)
		if len(hull) < 3 {
			continue
		}
		obstacles = append(obstacles, NewObstacle(hull))
	}

	filtered := removeContainedObstacles(obstacles)
	log.Printf("   Obstacles after removing contained: %d (removed %d)\n",
		len(filtered), len(obstacles)-len(filtered))
	return filtered
}

// removeContainedObstacles removes obstacles that are fully contained within other obstacles
func removeContainedObstacles(obstacles []Obstacle) []Obstacle {
	if len(obstacles) <= 1 {
		return obstacles
	}

	contained := make([]bool, len(obstacles))
	for i := range obstacles {
		if contained[i] {
			continue
		}
		for j := range obstacles {
			if i == j || contained[j] {
				continue
			}
			if isContainedIn(obstacles[i], obstacles[j]) {
				contained[i] = true
				break
			}
			if isContainedIn(obstacles[j], obstacles[i]) {
				contained[j] = true
			}
		}
	}

	result := make([]Obstacle, 0, len(obstacles))
	for i, o := range obstacles {
		if !contained[i] {
			result = append(result, o)
		}
	}
	return result
}

// isContainedIn checks if every vertex of a lies inside or on b
func isContainedIn(a, b Obstacle) bool {
	ra, rb := a.Ring(), b.Ring()
	ba, bb := ra.Bound(), rb.Bound()
	if !bb.Contains(ba.Min) || !bb.Contains(ba.Max) {
		return false
	}
	for _, p := range ra {
		if !planar.RingContains(rb, p) {
			return false
		}
	}
	return true
}

// convexHull returns the counter-clockwise hull of points, starting at the
// lowest (then leftmost) vertex and without collinear vertices. Fewer than
// three points come back when the input is degenerate.
func convexHull(points []geometry.Coord) []geometry.Coord {
	if len(points) == 0 {
		return nil
	}
	var wkt strings.Builder
	wkt.WriteString("MULTIPOINT(")
	for i, p := range points {
		if i > 0 {
			wkt.WriteByte(',')
		}
		fmt.Fprintf(&wkt, "(%d %d)", p.X, p.Y)
	}
	wkt.WriteByte(')')

	g, err := geom.UnmarshalWKT(wkt.String())
	if err != nil {
		log.Printf("⚠️  Convex hull of %d points failed: %v\n", len(points), err)
		return nil
	}
	poly, ok := g.ConvexHull().AsPolygon()
	if !ok {
		return nil
	}

	seq := poly.ExteriorRing().Coordinates()
	ring := make([]geometry.Coord, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		ring = append(ring, geometry.Coord{X: int(math.Round(xy.X)), Y: int(math.Round(xy.Y))})
	}
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}

	var hull []geometry.Coord
	for i, c := range ring {
		prev, next := ring[(i+len(ring)-1)%len(ring)], ring[(i+1)%len(ring)]
		if geometry.Orientation(prev, c, next) != 0 {
			hull = append(hull, c)
		}
	}
	if len(hull) < 3 {
		return hull
	}
	if signedArea2(hull) < 0 {
		slices.Reverse(hull)
	}

	start := 0
	for i, c := range hull {
		if c.Y < hull[start].Y || (c.Y == hull[start].Y && c.X < hull[start].X) {
			start = i
		}
	}
	return append(append(make([]geometry.Coord, 0, len(hull)), hull[start:]...), hull[:start]...)
}

func signedArea2(ring []geometry.Coord) int64 {
	var area int64
	for i, c := range ring {
		area += c.Cross(ring[(i+1)%len(ring)])
	}
	return area
}
