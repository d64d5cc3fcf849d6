package force

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Cooling defaults.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.6

	// DragAlphaTarget is the temperature held while any node is pinned.
	DragAlphaTarget = 0.3

	initialRadius = 10.0
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// ErrUnknownNode is returned when an operation names a node id that is not
// part of the simulation.
var ErrUnknownNode = errors.New("unknown node")

// State is the cooling controller state.
type State int

const (
	// Cold: alpha is below alphaMin and ticks do nothing.
	Cold State = iota
	// Warm: started, reheated, or held hot by a pinned node.
	Warm
	// Settling: alpha is decaying toward a target below alphaMin.
	Settling
)

func (s State) String() string {
	switch s {
	case Cold:
		return "cold"
	case Warm:
		return "warm"
	case Settling:
		return "settling"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "cold":
		*s = Cold
	case "warm":
		*s = Warm
	case "settling":
		*s = Settling
	default:
		return fmt.Errorf("unknown state %q", text)
	}
	return nil
}

// Edge is an undirected link between two node ids.
type Edge struct {
	Source string
	Target string
}

// Node is the per-node simulation state.
type Node struct {
	ID     string
	X, Y   float64
	VX, VY float64

	pinned bool
	fx, fy float64
}

// Pin returns the override position when the node is pinned.
func (n *Node) Pin() (x, y float64, ok bool) {
	return n.fx, n.fy, n.pinned
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithCanvas sets the canvas size; the centering force targets its middle.
func WithCanvas(width, height float64) Option {
	return func(s *Simulation) {
		s.centerX = width / 2
		s.centerY = height / 2
	}
}

// WithAlphaDecay overrides the per-tick cooling rate.
func WithAlphaDecay(decay float64) Option {
	return func(s *Simulation) { s.alphaDecay = decay }
}

// WithAlphaMin overrides the temperature at which the simulation goes cold.
func WithAlphaMin(min float64) Option {
	return func(s *Simulation) { s.alphaMin = min }
}

// WithVelocityDecay overrides the velocity damping factor.
func WithVelocityDecay(decay float64) Option {
	return func(s *Simulation) { s.velocityDecay = decay }
}

// WithSeed seeds the jitter source used to separate coincident nodes.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewSource(seed)) }
}

// Simulation is a velocity-Verlet style force layout. It is not safe for
// concurrent use; see Driver.
type Simulation struct {
	nodes []Node
	index map[string]int
	edges []Edge

	params  Params
	charge  *manyBody
	links   *linkForce
	center  centerForce
	collide *collideForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	centerX, centerY float64

	state State
	ticks int
	pins  int
	rng   *rand.Rand
}

// New builds a simulation over the given node ids. Edges whose endpoints are
// not in ids are ignored. Nodes start on a phyllotaxis spiral around the canvas
// centre and the simulation starts Cold; call Start to begin.
func New(ids []string, edges []Edge, params Params, opts ...Option) *Simulation {
	s := &Simulation{
		index:         make(map[string]int, len(ids)),
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		state:         Cold,
		rng:           rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.nodes = make([]Node, 0, len(ids))
	for _, id := range ids {
		if _, dup := s.index[id]; dup {
			continue
		}
		i := len(s.nodes)
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		s.index[id] = i
		s.nodes = append(s.nodes, Node{
			ID: id,
			X:  s.centerX + radius*math.Cos(angle),
			Y:  s.centerY + radius*math.Sin(angle),
		})
	}

	for _, e := range edges {
		_, okS := s.index[e.Source]
		_, okT := s.index[e.Target]
		if okS && okT {
			s.edges = append(s.edges, e)
		}
	}

	s.charge = &manyBody{}
	s.links = newLinkForce(s.edges, s.index)
	s.center = centerForce{x: s.centerX, y: s.centerY}
	s.collide = &collideForce{strength: 1}
	s.applyParams(params)
	return s
}

func (s *Simulation) applyParams(p Params) {
	s.params = p.Clamp()
	s.charge.strength = s.params.ChargeStrength
	s.links.strength = s.params.LinkStrength
	s.links.distance = s.params.LinkDistance
	s.collide.radius = s.params.CollideRadius
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// Start warms the simulation at its current alpha.
func (s *Simulation) Start() {
	if s.alpha < s.alphaMin && s.alphaTarget < s.alphaMin {
		s.alpha = 1
	}
	s.state = Warm
}

// Reheat resets alpha to 1 and warms the simulation.
func (s *Simulation) Reheat() {
	s.alpha = 1
	s.state = Warm
}

// Stop sets alpha to zero; the simulation goes Cold until disturbed.
func (s *Simulation) Stop() {
	s.alpha = 0
	s.state = Cold
}

// SetParams replaces the force coefficients and reheats. The new values apply
// from the next tick. It returns the clamped parameters in effect.
func (s *Simulation) SetParams(p Params) Params {
	s.applyParams(p)
	s.Reheat()
	return s.params
}

// Params returns the parameters in effect.
func (s *Simulation) Params() Params {
	return s.params
}

// Pin forces node id to (x, y) until Unpin. The first pin raises alphaTarget
// so the layout stays warm while it is held.
func (s *Simulation) Pin(id string, x, y float64) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("pin %q: %w", id, ErrUnknownNode)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("pin %q: non-finite position (%v, %v)", id, x, y)
	}
	n := &s.nodes[i]
	if !n.pinned {
		n.pinned = true
		s.pins++
	}
	n.fx, n.fy = x, y
	s.alphaTarget = DragAlphaTarget
	s.state = Warm
	return nil
}

// Unpin releases node id. Releasing the last pin drops alphaTarget to zero so
// the layout cools back down.
func (s *Simulation) Unpin(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("unpin %q: %w", id, ErrUnknownNode)
	}
	n := &s.nodes[i]
	if !n.pinned {
		return nil
	}
	n.pinned = false
	n.fx, n.fy = 0, 0
	s.pins--
	if s.pins == 0 {
		s.alphaTarget = 0
	}
	return nil
}

// Tick advances the simulation one step. It reports false, and changes
// nothing, when the simulation is Cold.
func (s *Simulation) Tick() bool {
	if s.state == Cold {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	if s.alpha > 0 {
		s.accumulate(s.alpha)
	}
	s.integrate()
	s.ticks++

	switch {
	case s.alpha < s.alphaMin:
		s.state = Cold
	case s.alphaTarget < s.alphaMin:
		s.state = Settling
	default:
		s.state = Warm
	}
	return true
}

// accumulate adds every force contribution into node velocities. Collision
// is resolved last against the positions the other forces produce.
func (s *Simulation) accumulate(alpha float64) {
	s.charge.apply(s.nodes, alpha, s.jiggle)
	s.links.apply(s.nodes, alpha, s.jiggle)
	s.center.apply(s.nodes)
	s.collide.apply(s.nodes, s.jiggle)
}

func (s *Simulation) integrate() {
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.pinned {
			n.X, n.Y = n.fx, n.fy
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= s.velocityDecay
		n.VY *= s.velocityDecay
		n.X += n.VX
		n.Y += n.VY

		if !finite(n.X) || !finite(n.Y) || !finite(n.VX) || !finite(n.VY) {
			n.X, n.Y = s.centerX, s.centerY
			n.VX, n.VY = 0, 0
		}
	}
}

// RunUntilCold ticks until the simulation goes cold or maxTicks steps have
// run, and returns the number of ticks taken. maxTicks <= 0 means no limit.
func (s *Simulation) RunUntilCold(maxTicks int) int {
	n := 0
	for (maxTicks <= 0 || n < maxTicks) && s.Tick() {
		n++
	}
	return n
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the temperature alpha is decaying toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// State returns the cooling controller state.
func (s *Simulation) State() State { return s.state }

// Ticks returns the number of ticks executed.
func (s *Simulation) Ticks() int { return s.ticks }

// Len returns the number of nodes.
func (s *Simulation) Len() int { return len(s.nodes) }

// Node returns a copy of the state of node id.
func (s *Simulation) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// KineticEnergy is the sum of squared velocities over all nodes.
func (s *Simulation) KineticEnergy() float64 {
	var e float64
	for i := range s.nodes {
		e += s.nodes[i].VX*s.nodes[i].VX + s.nodes[i].VY*s.nodes[i].VY
	}
	return e
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
