package physics

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RayHit describes the closest body struck by a ray.
type RayHit struct {
	Node     scene.NodeID
	Kind     BodyKind
	Distance float32
	Point    mgl32.Vec3
}

func (w *world) CastRay(origin, dir mgl32.Vec3, maxDist float32, exclude ...scene.NodeID) (RayHit, bool) {
	dir = common.NormalizeOrZero(dir)
	if dir == (mgl32.Vec3{}) || !(maxDist > 0) {
		return RayHit{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var best RayHit
	found := false
	for _, id := range w.order {
		if slices.Contains(exclude, id) {
			continue
		}
		b := w.bodies[id]
		t, ok := rayAABB(origin, dir, b.worldBox())
		if !ok || t > maxDist || (found && t >= best.Distance) {
			continue
		}
		if len(b.tris) > 0 {
			limit := maxDist
			if found {
				limit = best.Distance
			}
			t, ok = rayTriangles(origin.Sub(b.translation), dir, b.tris, limit)
			if !ok {
				continue
			}
		}
		best = RayHit{Node: id, Kind: b.kind, Distance: t}
		found = true
	}
	if !found {
		return RayHit{}, false
	}
	best.Point = origin.Add(dir.Mul(best.Distance))
	return best, true
}

// rayAABB is the slab test. A ray starting inside the box hits at distance zero.
func rayAABB(origin, dir mgl32.Vec3, box common.AABB) (float32, bool) {
	tmin, tmax := float32(0), common.Inf32()
	for i := range 3 {
		if math32.Abs(dir[i]) < 1e-8 {
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (box.Min[i] - origin[i]) * inv
		t2 := (box.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// rayTriangles returns the nearest two-sided triangle hit no further than limit.
func rayTriangles(origin, dir mgl32.Vec3, tris []triangle, limit float32) (float32, bool) {
	best := limit
	found := false
	for i := range tris {
		if t, ok := rayTriangle(origin, dir, &tris[i]); ok && t <= best {
			best = t
			found = true
		}
	}
	return best, found
}

// rayTriangle is the Möller–Trumbore intersection test.
func rayTriangle(origin, dir mgl32.Vec3, tri *triangle) (float32, bool) {
	e1 := tri.b.Sub(tri.a)
	e2 := tri.c.Sub(tri.a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < 1e-10 {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(tri.a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
