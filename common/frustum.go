package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the distance of p from the plane, positive on the side the normal points to.
func (p Plane) SignedDistance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.Distance
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a view-projection matrix.
// Uses the Gribb/Hartmann method for plane extraction, with the near plane taken from row 2 alone
// because the projection maps depth to WebGPU's [0, 1] range.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	var f Frustum
	f.Planes[FrustumLeft] = planeFromRow(r3.Add(r0))
	f.Planes[FrustumRight] = planeFromRow(r3.Sub(r0))
	f.Planes[FrustumBottom] = planeFromRow(r3.Add(r1))
	f.Planes[FrustumTop] = planeFromRow(r3.Sub(r1))
	f.Planes[FrustumNear] = planeFromRow(r2)
	f.Planes[FrustumFar] = planeFromRow(r3.Sub(r2))
	return f
}

// planeFromRow builds a normalized plane from a combined matrix row.
func planeFromRow(row mgl32.Vec4) Plane {
	p := Plane{Normal: row.Vec3(), Distance: row[3]}
	if l := p.Normal.Len(); l > 0 {
		p.Normal = p.Normal.Mul(1 / l)
		p.Distance /= l
	}
	return p
}

// IntersectsAABB reports whether any part of the box may be inside the frustum.
// It tests the box corner furthest along each plane normal, so boxes near frustum corners can be reported
// as intersecting when they are not. It never rejects a visible box.
//
// Parameters:
//   - box: the world-space box
//
// Returns:
//   - bool: false only when the box is entirely outside one plane
func (f Frustum) IntersectsAABB(box AABB) bool {
	if box.IsEmpty() {
		return false
	}
	for _, p := range f.Planes {
		var corner mgl32.Vec3
		for i := range 3 {
			if p.Normal[i] >= 0 {
				corner[i] = box.Max[i]
			} else {
				corner[i] = box.Min[i]
			}
		}
		if p.SignedDistance(corner) < 0 {
			return false
		}
	}
	return true
}

// TransformAABB returns the world-space box enclosing a local box under a transform matrix.
//
// Parameters:
//   - box: the local box
//   - m: the local-to-world matrix
//
// Returns:
//   - AABB: the enclosing box, empty if box is empty
func TransformAABB(box AABB, m mgl32.Mat4) AABB {
	if box.IsEmpty() {
		return box
	}
	out := EmptyAABB()
	for i := range 8 {
		c := mgl32.Vec3{box.Min[0], box.Min[1], box.Min[2]}
		if i&1 != 0 {
			c[0] = box.Max[0]
		}
		if i&2 != 0 {
			c[1] = box.Max[1]
		}
		if i&4 != 0 {
			c[2] = box.Max[2]
		}
		w := m.Mul4x1(c.Vec4(1)).Vec3()
		out = out.Union(AABB{Min: w, Max: w})
	}
	return out
}
