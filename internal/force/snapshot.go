package force

// NodePosition is a node's position as handed to the presentation layer.
type NodePosition struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// LinkPosition is a link with both endpoints resolved to positions.
type LinkPosition struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Snapshot is a read-only copy of the layout after a tick.
type Snapshot struct {
	Tick  int            `json:"tick"`
	Alpha float64        `json:"alpha"`
	State State          `json:"state"`
	Nodes []NodePosition `json:"nodes"`
	Links []LinkPosition `json:"links"`
}

// Snapshot copies the current positions. The result shares no memory with
// the simulation.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:  s.ticks,
		Alpha: s.alpha,
		State: s.state,
		Nodes: make([]NodePosition, len(s.nodes)),
		Links: make([]LinkPosition, len(s.edges)),
	}
	for i := range s.nodes {
		n := &s.nodes[i]
		snap.Nodes[i] = NodePosition{ID: n.ID, X: n.X, Y: n.Y, Pinned: n.pinned}
	}
	for k, e := range s.edges {
		a := &s.nodes[s.index[e.Source]]
		b := &s.nodes[s.index[e.Target]]
		snap.Links[k] = LinkPosition{
			Source: e.Source,
			Target: e.Target,
			X1:     a.X,
			Y1:     a.Y,
			X2:     b.X,
			Y2:     b.Y,
		}
	}
	return snap
}
