package geometry

// NodeID, EdgeID and ShapeID are handles into an Arena. Relations between
// nodes, edges and shapes are stored as handles, never as pointers.
type (
	NodeID  int32
	EdgeID  int32
	ShapeID int32
)

const (
	NoNode  NodeID  = -1
	NoEdge  EdgeID  = -1
	NoShape ShapeID = -1
)

// Arena owns every node, edge and shape of a mesh under construction.
// Released edges and removed shapes keep their slot so handles stay stable.
type Arena struct {
	origin Coord
	nodes  []Node
	edges  []Edge
	shapes []Shape
}

func NewArena(origin Coord) *Arena {
	return &Arena{origin: origin}
}

func (a *Arena) Origin() Coord { return a.origin }

// SetOrigin rebinds the polar coordinates of every node to origin.
func (a *Arena) SetOrigin(origin Coord) {
	a.origin = origin
	for i := range a.nodes {
		a.nodes[i].SetOrigin(origin)
	}
}

// AddNode creates a node at c with polar coordinates about the arena origin.
func (a *Arena) AddNode(c Coord) NodeID {
	n := Node{Coord: c}
	n.SetOrigin(a.origin)
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// Node returns a copy of the node. Slices in the copy alias arena storage
// and must not be modified.
func (a *Arena) Node(id NodeID) Node { return a.nodes[id] }

func (a *Arena) Coord(id NodeID) Coord { return a.nodes[id].Coord }

func (a *Arena) NodeCount() int { return len(a.nodes) }

// AddOwner records that the node is a vertex of the given polygon.
func (a *Arena) AddOwner(id NodeID, owner ShapeID) {
	for _, o := range a.nodes[id].Owners {
		if o == owner {
			return
		}
	}
	a.nodes[id].Owners = append(a.nodes[id].Owners, owner)
}

// Edge returns a copy of the edge.
func (a *Arena) Edge(id EdgeID) Edge { return a.edges[id] }

// EdgeAlive reports whether id refers to an edge that has not been released.
func (a *Arena) EdgeAlive(id EdgeID) bool {
	return id >= 0 && int(id) < len(a.edges) && !a.edges[id].released
}

// Edges returns the handles of every live edge in creation order.
func (a *Arena) Edges() []EdgeID {
	out := make([]EdgeID, 0, len(a.edges))
	for i := range a.edges {
		if !a.edges[i].released {
			out = append(out, EdgeID(i))
		}
	}
	return out
}

// Shape returns a copy of the shape.
func (a *Arena) Shape(id ShapeID) Shape { return a.shapes[id] }

func (a *Arena) ShapeAlive(id ShapeID) bool {
	return id >= 0 && int(id) < len(a.shapes) && !a.shapes[id].removed
}

// Triangles returns every live triangle in creation order.
func (a *Arena) Triangles() []ShapeID {
	var out []ShapeID
	for i := range a.shapes {
		if !a.shapes[i].removed && a.shapes[i].Kind == KindTriangle {
			out = append(out, ShapeID(i))
		}
	}
	return out
}

func (a *Arena) addShape(s Shape) ShapeID {
	a.shapes = append(a.shapes, s)
	return ShapeID(len(a.shapes) - 1)
}
