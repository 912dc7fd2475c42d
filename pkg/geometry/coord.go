package geometry

import "math"

// Coord is an integer point on the map.
type Coord struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// MapSize is the extent of a rectangular map anchored at (0, 0).
type MapSize struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Corners returns the four map corners in the order (0,0), (0,y), (x,y), (x,0).
func (m MapSize) Corners() []Coord {
	return []Coord{{0, 0}, {0, m.Y}, {m.X, m.Y}, {m.X, 0}}
}

func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y}
}

// Cross returns the z component of c × o.
func (c Coord) Cross(o Coord) int64 {
	return int64(c.X)*int64(o.Y) - int64(c.Y)*int64(o.X)
}

func (c Coord) Dot(o Coord) int64 {
	return int64(c.X)*int64(o.X) + int64(c.Y)*int64(o.Y)
}

// DistanceSq returns the squared Euclidean distance, exact for integer input.
func (c Coord) DistanceSq(o Coord) int64 {
	d := c.Sub(o)
	return d.Dot(d)
}

func (c Coord) Distance(o Coord) float64 {
	return math.Sqrt(float64(c.DistanceSq(o)))
}

// Orientation is positive when c lies to the left of the directed line a->b,
// negative when it lies to the right and zero when the three are collinear.
func Orientation(a, b, c Coord) int64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Polar returns the polar coordinates of c about origin with theta in [0, 2π).
func Polar(c, origin Coord) (r, theta float64) {
	dx := float64(c.X - origin.X)
	dy := float64(c.Y - origin.Y)
	return math.Hypot(dx, dy), normalizeAngle(math.Atan2(dy, dx))
}

func normalizeAngle(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// BoundsMidpoint returns the midpoint of the axis-aligned bounding box of
// coords. It returns the zero Coord for an empty slice.
func BoundsMidpoint(coords []Coord) Coord {
	if len(coords) == 0 {
		return Coord{}
	}
	lo, hi := coords[0], coords[0]
	for _, c := range coords[1:] {
		lo.X = min(lo.X, c.X)
		lo.Y = min(lo.Y, c.Y)
		hi.X = max(hi.X, c.X)
		hi.Y = max(hi.Y, c.Y)
	}
	return Coord{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}
}

// Centroid returns the integer centroid of a triangle.
func Centroid(a, b, c Coord) Coord {
	return Coord{X: (a.X + b.X + c.X) / 3, Y: (a.Y + b.Y + c.Y) / 3}
}
