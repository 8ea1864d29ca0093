package physics

import (
	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// contactSlop is the penetration depth below which two shapes are considered touching, not overlapping.
	contactSlop = 1e-4

	// groundSkin is how far below a resolved position the ground probe looks.
	groundSkin = 0.01

	// bisectIterations bounds the search for the last free position along a blocked move.
	bisectIterations = 10

	// minSweepStep is the smallest sub-step a move is split into.
	minSweepStep = 0.05

	areaEpsilon = 1e-9
)

// axisOrder resolves vertical motion first so that grounding is decided before sliding.
var axisOrder = [3]int{1, 0, 2}

func boxesOverlap(a, b common.AABB) bool {
	for i := range 3 {
		if a.Min[i] >= b.Max[i]-contactSlop || a.Max[i] <= b.Min[i]+contactSlop {
			return false
		}
	}
	return true
}

// overlapsBox reports whether the world-space box penetrates this body's shape.
func (b *body) overlapsBox(box common.AABB) bool {
	if !boxesOverlap(box, b.worldBox()) {
		return false
	}
	if len(b.tris) == 0 {
		return true
	}
	local := box.Translate(b.translation.Mul(-1))
	center, half := local.Center(), local.HalfExtents()
	for i := range b.tris {
		t := &b.tris[i]
		if !boxesOverlap(local, t.bounds) {
			continue
		}
		if triBoxOverlap(center, half, t.a, t.b, t.c) {
			return true
		}
	}
	return false
}

// triBoxOverlap is the separating axis test between a box (center, half extents) and a triangle.
// It checks the three box axes, the triangle normal and the nine edge cross products.
func triBoxOverlap(center, half, a, b, c mgl32.Vec3) bool {
	v0, v1, v2 := a.Sub(center), b.Sub(center), c.Sub(center)

	for i := range 3 {
		lo := math32.Min(v0[i], math32.Min(v1[i], v2[i]))
		hi := math32.Max(v0[i], math32.Max(v1[i], v2[i]))
		if lo >= half[i]-contactSlop || hi <= -half[i]+contactSlop {
			return false
		}
	}

	edges := [3]mgl32.Vec3{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}
	if separatedOn(edges[0].Cross(edges[1]), half, v0, v1, v2) {
		return false
	}
	units := [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for _, u := range units {
		for _, e := range edges {
			if separatedOn(u.Cross(e), half, v0, v1, v2) {
				return false
			}
		}
	}
	return true
}

func separatedOn(axis, half, v0, v1, v2 mgl32.Vec3) bool {
	l := axis.Len()
	if l < 1e-6 {
		return false
	}
	p0, p1, p2 := axis.Dot(v0), axis.Dot(v1), axis.Dot(v2)
	r := half[0]*math32.Abs(axis[0]) + half[1]*math32.Abs(axis[1]) + half[2]*math32.Abs(axis[2])
	lo := math32.Min(p0, math32.Min(p1, p2))
	hi := math32.Max(p0, math32.Max(p1, p2))
	slop := contactSlop * l
	return lo >= r-slop || hi <= -r+slop
}

// overlapping returns the bodies other than b that penetrate box.
// w.mu must be held.
func (w *world) overlapping(b *body, box common.AABB) map[scene.NodeID]struct{} {
	out := make(map[scene.NodeID]struct{})
	for _, id := range w.order {
		o := w.bodies[id]
		if o == b {
			continue
		}
		if o.overlapsBox(box) {
			out[id] = struct{}{}
		}
	}
	return out
}

// blocked reports whether box penetrates any body other than b.
// Bodies in started were already penetrated before the move; they block only downward motion,
// so a body can leave an obstacle sideways or upward but never sink further into it.
// w.mu must be held.
func (w *world) blocked(b *body, box common.AABB, started map[scene.NodeID]struct{}, downward bool) bool {
	for _, id := range w.order {
		o := w.bodies[id]
		if o == b {
			continue
		}
		if _, ok := started[id]; ok && !downward {
			continue
		}
		if o.overlapsBox(box) {
			return true
		}
	}
	return false
}

// sweepAxis moves b from pos along one axis by up to d.
// w.mu must be held.
//
// Returns:
//   - float32: the signed distance actually travelled
//   - bool: true if the move was cut short by contact
func (w *world) sweepAxis(b *body, pos mgl32.Vec3, axis int, d float32, started map[scene.NodeID]struct{}) (float32, bool) {
	half := b.localBox.HalfExtents()
	maxStep := math32.Max(math32.Min(half[0], math32.Min(half[1], half[2])), minSweepStep)
	steps := max(int(math32.Ceil(math32.Abs(d)/maxStep)), 1)
	step := d / float32(steps)
	downward := axis == 1 && d < 0

	var travelled float32
	for range steps {
		next := pos
		next[axis] += travelled + step
		if !w.blocked(b, b.boxAt(next), started, downward) {
			travelled += step
			continue
		}

		lo, hi := float32(0), float32(1)
		for range bisectIterations {
			mid := (lo + hi) / 2
			probe := pos
			probe[axis] += travelled + step*mid
			if w.blocked(b, b.boxAt(probe), started, downward) {
				hi = mid
			} else {
				lo = mid
			}
		}
		return travelled + step*lo, true
	}
	return travelled, false
}

// resolve moves b by the displacement one axis at a time.
// w.mu must be held.
//
// Returns:
//   - mgl32.Vec3: the resolved position
//   - [3]bool: per-axis contact flags
//   - bool: true if the body ends on the ground
func (w *world) resolve(b *body, displacement mgl32.Vec3) (mgl32.Vec3, [3]bool, bool) {
	started := w.overlapping(b, b.worldBox())
	pos := b.translation
	var hit [3]bool
	grounded := false
	for _, axis := range axisOrder {
		d := displacement[axis]
		if d == 0 || math32.IsNaN(d) || math32.IsInf(d, 0) {
			continue
		}
		moved, contact := w.sweepAxis(b, pos, axis, d, started)
		pos[axis] += moved
		hit[axis] = contact
		if contact && axis == 1 && d < 0 {
			grounded = true
		}
	}
	if !grounded && displacement[1] <= 0 {
		probe := b.boxAt(pos.Add(mgl32.Vec3{0, -groundSkin, 0}))
		grounded = w.blocked(b, probe, started, true)
	}
	return pos, hit, grounded
}
