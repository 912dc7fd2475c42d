package navmesh

import (
	"fmt"
	"log"
	"math"
	"sort"

	"navmesh-planner/pkg/geometry"
)

// angleEpsilon absorbs float noise in angle comparisons.
const angleEpsilon = 1e-9

// Options tunes mesh construction.
type Options struct {
	// SeedThreshold is the minimum span, on both axes, of an edge that gets a
	// pathing node at its midpoint.
	SeedThreshold int
	// IncludeCorners adds the four map corners to the source nodes.
	IncludeCorners bool
	// CascadeLegalization re-checks the outer edges of every flipped
	// quadrilateral during the sweep.
	CascadeLegalization bool
	// RecoverConstraints flips edges until every obstacle side is a mesh edge.
	RecoverConstraints bool
}

func DefaultOptions() Options {
	return Options{
		SeedThreshold:       10,
		IncludeCorners:      true,
		CascadeLegalization: true,
		RecoverConstraints:  true,
	}
}

// Triangulator builds a constrained Delaunay mesh with a circle sweep around
// the centre of the source nodes. It is single threaded.
type Triangulator struct {
	arena     *geometry.Arena
	opts      Options
	obstacles []*placedObstacle
	sources   []geometry.NodeID
	pending   []geometry.NodeID
	dropped   []geometry.NodeID
	hull      *hull
	flips     int
}

// NewTriangulator creates one node per distinct obstacle vertex and map
// corner and binds them to the sweep origin. Vertices shared between
// obstacles, or with a corner, collapse onto one node.
func NewTriangulator(obstacles []Obstacle, size geometry.MapSize, opts Options) (*Triangulator, error) {
	t := &Triangulator{arena: geometry.NewArena(geometry.Coord{}), opts: opts}

	byCoord := make(map[geometry.Coord]geometry.NodeID)
	nodeAt := func(c geometry.Coord) geometry.NodeID {
		if id, ok := byCoord[c]; ok {
			return id
		}
		id := t.arena.AddNode(c)
		byCoord[c] = id
		t.sources = append(t.sources, id)
		return id
	}

	for i, o := range obstacles {
		var ids []geometry.NodeID
		seen := make(map[geometry.NodeID]bool)
		for _, v := range o.Vertices {
			id := nodeAt(v)
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		poly, err := t.arena.NewConvexPolygonFromNodes(ids)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		if o.Radius == 0 {
			o = NewObstacle(o.Vertices)
		}

		placed := &placedObstacle{
			Obstacle: o,
			poly:     poly,
			bound:    t.arena.NewCircle(o.Center, o.Radius),
		}
		for _, n := range t.arena.Shape(poly).Nodes {
			placed.outline = append(placed.outline, t.arena.Coord(n))
		}
		placed.ring = NewObstacle(placed.outline).Ring()
		t.obstacles = append(t.obstacles, placed)
	}

	if opts.IncludeCorners {
		for _, c := range size.Corners() {
			nodeAt(c)
		}
	}

	if len(t.sources) < 3 {
		return nil, fmt.Errorf("%d source nodes: %w", len(t.sources), ErrInsufficientNodes)
	}

	coords := make([]geometry.Coord, len(t.sources))
	for i, n := range t.sources {
		coords[i] = t.arena.Coord(n)
	}
	t.arena.SetOrigin(geometry.BoundsMidpoint(coords))

	t.pending = append([]geometry.NodeID(nil), t.sources...)
	sort.SliceStable(t.pending, func(i, j int) bool {
		a, b := t.arena.Node(t.pending[i]), t.arena.Node(t.pending[j])
		if a.R != b.R {
			return a.R < b.R
		}
		return a.Theta < b.Theta
	})
	return t, nil
}

// Arena exposes the nodes, edges and shapes built so far.
func (t *Triangulator) Arena() *geometry.Arena { return t.arena }

// Dropped returns source nodes that could not be attached to the mesh.
func (t *Triangulator) Dropped() []geometry.NodeID { return t.dropped }

// Flips returns the number of edge flips performed so far.
func (t *Triangulator) Flips() int { return t.flips }

// Hull returns the frontier edges in counter-clockwise order.
func (t *Triangulator) Hull() []geometry.EdgeID {
	if t.hull == nil {
		return nil
	}
	return t.hull.ring()
}

// Triangulate runs the sweep, closes the frontier, recovers obstacle sides
// and restores the Delaunay condition over the whole mesh.
func (t *Triangulator) Triangulate() error {
	if err := t.firstTriangle(); err != nil {
		return err
	}

	for len(t.pending) > 0 {
		n := t.pending[0]
		t.pending = t.pending[1:]
		if !t.insert(n) {
			log.Printf("   ⚠️  Dropped node at %v\n", t.arena.Coord(n))
			t.dropped = append(t.dropped, n)
		}
	}

	t.finalWalk()
	if t.opts.RecoverConstraints {
		t.recoverConstraints()
	}
	t.LegalizeAll()
	return nil
}

// firstTriangle builds the first non-degenerate triangle from the closest
// nodes and seeds the frontier with it.
func (t *Triangulator) firstTriangle() error {
	p := t.pending
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			for k := j + 1; k < len(p); k++ {
				tri, err := t.arena.NewTriangle(p[i], p[j], p[k])
				if err != nil {
					continue
				}
				rest := make([]geometry.NodeID, 0, len(p)-3)
				for x, n := range p {
					if x != i && x != j && x != k {
						rest = append(rest, n)
					}
				}
				t.pending = rest
				t.hull = newHull(t.arena, tri)
				return nil
			}
		}
	}
	return ErrFailedTriangulation
}

// insert attaches n to the frontier. When nothing can take n the frontier
// is made convex first, after which some edge always can.
func (t *Triangulator) insert(n geometry.NodeID) bool {
	e, ok := t.hull.intersectingEdge(n)
	if !ok {
		t.finalWalk()
		if e, ok = t.hull.intersectingEdge(n); !ok {
			return false
		}
	}

	edge := t.arena.Edge(e)
	tri, l, r, err := t.hull.attach(e, n)
	if err != nil {
		for _, alt := range []geometry.EdgeID{edge.Left, edge.Right} {
			if !t.hull.canAttach(alt, n) {
				continue
			}
			if tri, l, r, err = t.hull.attach(alt, n); err == nil {
				break
			}
		}
		if err != nil {
			return false
		}
	}

	t.legalize(tri)
	t.walkLeft(l)
	t.walkRight(r)
	return true
}

// walkLeft fills acute corners counter-clockwise from the new left edge.
func (t *Triangulator) walkLeft(l geometry.EdgeID) {
	for t.hull.len() > 3 && t.arena.Edge(l).OnHull {
		q := t.arena.Edge(l).Left
		angle, err := t.arena.AngleWith(l, q)
		if err != nil || angle >= math.Pi/2 || !t.hull.canClose(l, q) {
			return
		}
		tri, k, err := t.hull.close(l, q)
		if err != nil {
			return
		}
		t.legalize(tri)
		l = k
	}
}

// walkRight fills acute corners clockwise from the new right edge.
func (t *Triangulator) walkRight(r geometry.EdgeID) {
	for t.hull.len() > 3 && t.arena.Edge(r).OnHull {
		p := t.arena.Edge(r).Right
		angle, err := t.arena.AngleWith(r, p)
		if err != nil || angle >= math.Pi/2 || !t.hull.canClose(p, r) {
			return
		}
		tri, k, err := t.hull.close(p, r)
		if err != nil {
			return
		}
		t.legalize(tri)
		r = k
	}
}

// finalWalk closes every reflex corner of the frontier until a full turn
// passes without change, leaving the frontier convex.
func (t *Triangulator) finalWalk() int {
	h := t.hull
	if h.len() <= 3 {
		return 0
	}

	closed := 0
	limit := (h.len() + 2) * (h.len() + 2)
	e := h.edges[0]
	for quiet, steps := 0, 0; quiet <= h.len() && steps < limit && h.len() > 3; steps++ {
		q := t.arena.Edge(e).Left
		angle, err := t.arena.AngleWith(e, q)
		if err == nil && angle < math.Pi-angleEpsilon && h.canClose(e, q) {
			if tri, k, err := h.close(e, q); err == nil {
				t.legalize(tri)
				closed++
				quiet = 0
				e = t.arena.Edge(k).Right
				continue
			}
		}
		e = q
		quiet++
	}
	return closed
}
