package geometry

// Node is a mesh vertex. R and Theta are polar coordinates about the origin
// the node was last bound to.
type Node struct {
	Coord  Coord
	R      float64
	Theta  float64
	Edges  []EdgeID
	Owners []ShapeID
}

// SetOrigin recomputes the polar coordinates against origin.
func (n *Node) SetOrigin(origin Coord) {
	n.R, n.Theta = Polar(n.Coord, origin)
}

// EdgeBetween returns the edge connecting x and y, or NoEdge.
func (a *Arena) EdgeBetween(x, y NodeID) EdgeID {
	for _, e := range a.nodes[x].Edges {
		if a.edges[e].Other(x) == y {
			return e
		}
	}
	return NoEdge
}

// SharesOwner reports whether x and y are vertices of a common polygon and
// returns that polygon.
func (a *Arena) SharesOwner(x, y NodeID) (ShapeID, bool) {
	for _, ox := range a.nodes[x].Owners {
		for _, oy := range a.nodes[y].Owners {
			if ox == oy {
				return ox, true
			}
		}
	}
	return NoShape, false
}

// InMesh reports whether any edge touching the node belongs to a triangle.
func (a *Arena) InMesh(id NodeID) bool {
	for _, e := range a.nodes[id].Edges {
		if len(a.TrianglesOn(e)) > 0 {
			return true
		}
	}
	return false
}

func removeEdgeRef(refs []EdgeID, e EdgeID) []EdgeID {
	for i, r := range refs {
		if r == e {
			return append(refs[:i], refs[i+1:]...)
		}
	}
	return refs
}
