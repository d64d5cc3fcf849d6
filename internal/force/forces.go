package force

import "math"

// manyBody is the Barnes-Hut approximated n-body repulsion.
type manyBody struct {
	strength float64
	xs, ys   []float64
}

func (f *manyBody) apply(nodes []Node, alpha float64, jiggle func() float64) {
	if len(nodes) < 2 || f.strength == 0 {
		return
	}
	f.xs = resize(f.xs, len(nodes))
	f.ys = resize(f.ys, len(nodes))
	for i := range nodes {
		f.xs[i] = nodes[i].X
		f.ys[i] = nodes[i].Y
	}

	tree := buildQuadtree(f.xs, f.ys, jiggle)
	for i := range nodes {
		fx, fy := tree.repulsion(i, f.strength)
		nodes[i].VX += fx * alpha
		nodes[i].VY += fy * alpha
	}
}

// linkForce pulls the endpoints of every link toward a target separation.
// The correction is split by bias so that the endpoint with more links moves
// less.
type linkForce struct {
	distance float64
	strength float64

	source, target []int
	bias           []float64
}

func newLinkForce(edges []Edge, index map[string]int) *linkForce {
	f := &linkForce{}
	count := make(map[int]int)
	for _, e := range edges {
		s, okS := index[e.Source]
		t, okT := index[e.Target]
		if !okS || !okT || s == t {
			continue
		}
		f.source = append(f.source, s)
		f.target = append(f.target, t)
		count[s]++
		count[t]++
	}

	f.bias = make([]float64, len(f.source))
	for k := range f.source {
		cs := float64(count[f.source[k]])
		ct := float64(count[f.target[k]])
		f.bias[k] = cs / (cs + ct)
	}
	return f
}

func (f *linkForce) apply(nodes []Node, alpha float64, jiggle func() float64) {
	if f.strength == 0 {
		return
	}
	for k := range f.source {
		s := &nodes[f.source[k]]
		t := &nodes[f.target[k]]

		x := t.X + t.VX - s.X - s.VX
		y := t.Y + t.VY - s.Y - s.VY
		if x == 0 {
			x = jiggle()
		}
		if y == 0 {
			y = jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - f.distance) / l * alpha * f.strength
		x *= l
		y *= l

		b := f.bias[k]
		t.VX -= x * b
		t.VY -= y * b
		s.VX += x * (1 - b)
		s.VY += y * (1 - b)
	}
}

// centerForce translates the whole layout so its centroid sits on (x, y).
// It moves positions directly and leaves velocities untouched.
type centerForce struct {
	x, y float64
}

func (f centerForce) apply(nodes []Node) {
	if len(nodes) == 0 {
		return
	}
	var sx, sy float64
	for i := range nodes {
		sx += nodes[i].X
		sy += nodes[i].Y
	}
	n := float64(len(nodes))
	sx = sx/n - f.x
	sy = sy/n - f.y
	for i := range nodes {
		nodes[i].X -= sx
		nodes[i].Y -= sy
	}
}

// collideForce separates nodes whose radii overlap. It works on the positions
// nodes are about to move to (x + vx), so it runs after every other force.
type collideForce struct {
	radius   float64
	strength float64
	xs, ys   []float64
}

func (f *collideForce) apply(nodes []Node, jiggle func() float64) {
	if len(nodes) < 2 || f.radius <= 0 {
		return
	}
	f.xs = resize(f.xs, len(nodes))
	f.ys = resize(f.ys, len(nodes))
	for i := range nodes {
		f.xs[i] = nodes[i].X + nodes[i].VX
		f.ys[i] = nodes[i].Y + nodes[i].VY
	}
	tree := buildQuadtree(f.xs, f.ys, jiggle)

	// Uniform radii: the pair distance is 2r and each side takes half.
	r := 2 * f.radius
	r2 := r * r
	for i := range nodes {
		n := &nodes[i]
		xi := n.X + n.VX
		yi := n.Y + n.VY

		tree.visit(func(q *quadNode) bool {
			if q.x > xi+r || q.x+q.size < xi-r || q.y > yi+r || q.y+q.size < yi-r {
				return true
			}
			if !q.isLeaf() {
				return false
			}
			for _, j := range q.bodies {
				if j <= i {
					continue
				}
				m := &nodes[j]
				x := xi - m.X - m.VX
				y := yi - m.Y - m.VY
				l := x*x + y*y
				if l >= r2 {
					continue
				}
				if x == 0 {
					x = jiggle()
					l += x * x
				}
				if y == 0 {
					y = jiggle()
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.strength
				x *= l
				y *= l
				n.VX += x * 0.5
				n.VY += y * 0.5
				m.VX -= x * 0.5
				m.VY -= y * 0.5
			}
			return true
		})
	}
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
