package force

import "math"

// Theta is the Barnes-Hut accuracy parameter. A cell whose width divided by
// its distance from the query point is below Theta is treated as a single body
// at its centre of mass.
const Theta = 0.9

// distanceMin2 bounds the squared distance used by the repulsion kernel so that
// nearly coincident bodies do not produce unbounded forces.
const distanceMin2 = 1.0

// maxDepth stops subdivision for bodies that are closer than float precision
// can separate; they are stacked in a single leaf instead.
const maxDepth = 48

// quadNode represents a quadtree cell for Barnes-Hut simulation.
// Cells are square: (x, y) is the top-left corner and size the side length.
type quadNode struct {
	x, y, size float64

	// Center of mass of every body in the subtree
	centerX, centerY float64
	mass             float64

	// Indices of bodies held by a leaf. More than one entry only when the
	// bodies share a position or maxDepth was reached.
	bodies []int

	nw, ne, sw, se *quadNode
}

func newQuadNode(x, y, size float64) *quadNode {
	return &quadNode{x: x, y: y, size: size}
}

func (q *quadNode) isLeaf() bool {
	return q.nw == nil
}

// contains reports whether (px, py) lies inside the cell bounds.
func (q *quadNode) contains(px, py float64) bool {
	return px >= q.x && px <= q.x+q.size && py >= q.y && py <= q.y+q.size
}

// insert adds body i at (px, py) with unit mass.
func (q *quadNode) insert(i int, px, py float64, depth int) {
	if q.isLeaf() {
		// Empty leaf, or a leaf we can no longer split usefully
		if len(q.bodies) == 0 || depth >= maxDepth || (q.centerX == px && q.centerY == py) {
			q.bodies = append(q.bodies, i)
			q.addMass(px, py)
			return
		}

		// Split: push the existing bodies down one level
		half := q.size / 2
		q.nw = newQuadNode(q.x, q.y, half)
		q.ne = newQuadNode(q.x+half, q.y, half)
		q.sw = newQuadNode(q.x, q.y+half, half)
		q.se = newQuadNode(q.x+half, q.y+half, half)

		old := q.bodies
		q.bodies = nil
		for _, b := range old {
			q.child(q.centerX, q.centerY).insert(b, q.centerX, q.centerY, depth+1)
		}
	}

	q.addMass(px, py)
	q.child(px, py).insert(i, px, py, depth+1)
}

// addMass folds a unit-mass body at (px, py) into the cell's centroid.
func (q *quadNode) addMass(px, py float64) {
	total := q.mass + 1
	q.centerX = (q.centerX*q.mass + px) / total
	q.centerY = (q.centerY*q.mass + py) / total
	q.mass = total
}

// child returns the quadrant that owns (px, py).
func (q *quadNode) child(px, py float64) *quadNode {
	half := q.size / 2
	midX := q.x + half
	midY := q.y + half

	if px < midX {
		if py < midY {
			return q.nw
		}
		return q.sw
	}
	if py < midY {
		return q.ne
	}
	return q.se
}

// quadtree is rebuilt from body positions once per tick.
type quadtree struct {
	root   *quadNode
	xs, ys []float64
	jiggle func() float64
}

// buildQuadtree constructs a square quadtree covering every position.
func buildQuadtree(xs, ys []float64, jiggle func() float64) *quadtree {
	t := &quadtree{xs: xs, ys: ys, jiggle: jiggle}
	if len(xs) == 0 {
		return t
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < len(xs); i++ {
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}

	// 10% padding, and at least one unit so a single body still gets a cell
	size := math.Max(maxX-minX, maxY-minY)
	padding := math.Max(size*0.1, 1)
	size += 2 * padding
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2

	t.root = newQuadNode(cx-size/2, cy-size/2, size)
	for i := range xs {
		t.root.insert(i, xs[i], ys[i], 0)
	}
	return t
}

// repulsion computes the many-body force on body i, before alpha scaling.
// strength is negative for repulsion. The result points along
// strength * mass * delta / distance^2 summed over bodies or pseudo-bodies.
func (t *quadtree) repulsion(i int, strength float64) (float64, float64) {
	if t.root == nil {
		return 0, 0
	}
	return t.accumulate(t.root, i, t.xs[i], t.ys[i], strength)
}

func (t *quadtree) accumulate(q *quadNode, i int, px, py, strength float64) (float64, float64) {
	if q.mass == 0 {
		return 0, 0
	}

	if q.isLeaf() {
		fx, fy := 0.0, 0.0
		for _, b := range q.bodies {
			if b == i {
				continue
			}
			dx, dy := t.xs[b]-px, t.ys[b]-py
			bx, by := t.kernel(dx, dy, 1, strength)
			fx += bx
			fy += by
		}
		return fx, fy
	}

	dx := q.centerX - px
	dy := q.centerY - py

	// A cell holding the query body is never collapsed, so a body never
	// repels itself through its own pseudo-body.
	if !q.contains(px, py) {
		dist2 := dx*dx + dy*dy
		if q.size*q.size < Theta*Theta*dist2 {
			return t.kernel(dx, dy, q.mass, strength)
		}
	}

	fx, fy := 0.0, 0.0
	for _, c := range [...]*quadNode{q.nw, q.ne, q.sw, q.se} {
		cx, cy := t.accumulate(c, i, px, py, strength)
		fx += cx
		fy += cy
	}
	return fx, fy
}

// kernel is the inverse-distance interaction between a body and a (pseudo-)body
// of the given mass offset by (dx, dy).
func (t *quadtree) kernel(dx, dy, mass, strength float64) (float64, float64) {
	if dx == 0 {
		dx = t.jiggle()
	}
	if dy == 0 {
		dy = t.jiggle()
	}
	l := dx*dx + dy*dy
	if l < distanceMin2 {
		l = math.Sqrt(distanceMin2 * l)
	}
	w := strength * mass / l
	return dx * w, dy * w
}

// visit walks the tree depth-first. Returning true from fn skips the children
// of that cell.
func (t *quadtree) visit(fn func(q *quadNode) bool) {
	if t.root == nil {
		return
	}
	stack := []*quadNode{t.root}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if q.mass == 0 || fn(q) || q.isLeaf() {
			continue
		}
		stack = append(stack, q.se, q.sw, q.ne, q.nw)
	}
}
