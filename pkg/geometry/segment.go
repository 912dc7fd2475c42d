package geometry

import "math"

// SegmentsIntersect reports whether segments pq and rs share at least one
// point, touching endpoints included.
func SegmentsIntersect(p, q, r, s Coord) bool {
	d1 := direction(r, s, p)
	d2 := direction(r, s, q)
	d3 := direction(p, q, r)
	d4 := direction(p, q, s)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(r, s, p) {
		return true
	}
	if d2 == 0 && onSegment(r, s, q) {
		return true
	}
	if d3 == 0 && onSegment(p, q, r) {
		return true
	}
	if d4 == 0 && onSegment(p, q, s) {
		return true
	}

	return false
}

// SegmentsCross reports whether pq and rs meet anywhere other than at an
// endpoint they share. Two segments sharing one endpoint cross only when they
// overlap along a common line.
func SegmentsCross(p, q, r, s Coord) bool {
	if (p == r && q == s) || (p == s && q == r) {
		return false
	}

	var pivot, u, v Coord
	switch {
	case p == r:
		pivot, u, v = p, q, s
	case p == s:
		pivot, u, v = p, q, r
	case q == r:
		pivot, u, v = q, p, s
	case q == s:
		pivot, u, v = q, p, r
	default:
		return SegmentsIntersect(p, q, r, s)
	}
	return Orientation(pivot, u, v) == 0 && u.Sub(pivot).Dot(v.Sub(pivot)) > 0
}

// OnOpenSegment reports whether c lies on segment ab, excluding a and b.
func OnOpenSegment(a, b, c Coord) bool {
	return c != a && c != b && direction(a, b, c) == 0 && onSegment(a, b, c)
}

// LineDistance returns the perpendicular distance from c to the infinite line
// through a and b.
func LineDistance(a, b, c Coord) float64 {
	length := a.Distance(b)
	if length == 0 {
		return a.Distance(c)
	}
	return math.Abs(float64(Orientation(a, b, c))) / length
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Coord) int64 {
	return int64(p3.X-p1.X)*int64(p2.Y-p1.Y) - int64(p2.X-p1.X)*int64(p3.Y-p1.Y)
}

// onSegment checks if q lies within the bounding box of segment pr
func onSegment(p, r, q Coord) bool {
	return q.X <= max(p.X, r.X) && q.X >= min(p.X, r.X) &&
		q.Y <= max(p.Y, r.Y) && q.Y >= min(p.Y, r.Y)
}
