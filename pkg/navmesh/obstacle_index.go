package navmesh

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"navmesh-planner/pkg/geometry"
)

// placedObstacle is an obstacle after it has been added to the arena.
type placedObstacle struct {
	Obstacle
	poly  geometry.ShapeID
	bound geometry.ShapeID
	ring  orb.Ring
	// outline in counter-clockwise order, taken from the polygon shape
	outline []geometry.Coord
}

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	obstacle *placedObstacle
	bbox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// obstacleIndex answers which obstacles may touch a segment or point
type obstacleIndex struct {
	arena *geometry.Arena
	tree  *rtreego.Rtree
}

func newObstacleIndex(arena *geometry.Arena, obstacles []*placedObstacle) *obstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, o := range obstacles {
		b := o.ring.Bound()
		bbox, err := boundsRect(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
		if err == nil {
			tree.Insert(&obstacleEntry{obstacle: o, bbox: bbox})
		}
	}

	return &obstacleIndex{arena: arena, tree: tree}
}

// query returns obstacles whose bounding box meets the box spanned by p and q
func (idx *obstacleIndex) query(p, q geometry.Coord) []*placedObstacle {
	bbox, err := boundsRect(
		float64(min(p.X, q.X)), float64(min(p.Y, q.Y)),
		float64(max(p.X, q.X)), float64(max(p.Y, q.Y)),
	)
	if err != nil {
		return nil
	}

	results := idx.tree.SearchIntersect(bbox)
	obstacles := make([]*placedObstacle, 0, len(results))
	for _, item := range results {
		obstacles = append(obstacles, item.(*obstacleEntry).obstacle)
	}
	return obstacles
}

// segmentEntersInterior reports whether segment pq passes through the open
// interior of any obstacle.
func (idx *obstacleIndex) segmentEntersInterior(p, q geometry.Coord) bool {
	for _, o := range idx.query(p, q) {
		if !idx.arena.CircleTouchesSegment(o.bound, p, q) {
			continue
		}
		if o.segmentEntersInterior(p, q) {
			return true
		}
	}
	return false
}

// containsPoint reports whether pt lies inside or on any obstacle.
func (idx *obstacleIndex) containsPoint(x, y float64) bool {
	c := geometry.Coord{X: int(math.Floor(x)), Y: int(math.Floor(y))}
	for _, o := range idx.query(c, geometry.Coord{X: c.X + 1, Y: c.Y + 1}) {
		if planar.RingContains(o.ring, orb.Point{x, y}) {
			return true
		}
	}
	return false
}

// segmentEntersInterior splits pq at every point where it meets the outline
// and tests the middle of each piece against the open interior.
func (o *placedObstacle) segmentEntersInterior(p, q geometry.Coord) bool {
	cuts := []float64{0, 1}
	d := q.Sub(p)
	for i, v := range o.outline {
		w := o.outline[(i+1)%len(o.outline)]
		if !geometry.SegmentsIntersect(p, q, v, w) {
			continue
		}
		side := w.Sub(v)
		denom := d.Cross(side)
		if denom != 0 {
			cuts = append(cuts, float64(v.Sub(p).Cross(side))/float64(denom))
			continue
		}
		// collinear overlap: cut at both outline endpoints
		lenSq := float64(d.Dot(d))
		cuts = append(cuts, float64(v.Sub(p).Dot(d))/lenSq, float64(w.Sub(p).Dot(d))/lenSq)
	}
	sort.Float64s(cuts)

	for i := 1; i < len(cuts); i++ {
		t0, t1 := clamp01(cuts[i-1]), clamp01(cuts[i])
		if t1-t0 < 1e-9 {
			continue
		}
		mid := (t0 + t1) / 2
		if o.strictlyContains(float64(p.X)+mid*float64(d.X), float64(p.Y)+mid*float64(d.Y)) {
			return true
		}
	}
	return false
}

func (o *placedObstacle) strictlyContains(x, y float64) bool {
	for i, v := range o.outline {
		w := o.outline[(i+1)%len(o.outline)]
		cross := float64(w.X-v.X)*(y-float64(v.Y)) - float64(w.Y-v.Y)*(x-float64(v.X))
		if cross <= 1e-9 {
			return false
		}
	}
	return true
}

// boundsRect builds an rtreego rectangle, padding flat boxes so the library
// accepts them
func boundsRect(minX, minY, maxX, maxY float64) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)},
	)
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
