package physics

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// TriMesh construction errors.
var (
	ErrEmptyMesh      = errors.New("trimesh has no triangles")
	ErrIndexCount     = errors.New("trimesh index count is not a multiple of 3")
	ErrIndexRange     = errors.New("trimesh index out of range")
	ErrDegenerateMesh = errors.New("trimesh has no triangle with non-zero area")
)

// ColliderKind tags the concrete shape behind a Collider.
type ColliderKind int

const (
	ColliderTriMesh ColliderKind = iota
	ColliderCylinder
	ColliderCuboid
	ColliderCapsule
)

// String returns the lowercase name of the collider kind.
func (k ColliderKind) String() string {
	switch k {
	case ColliderTriMesh:
		return "trimesh"
	case ColliderCylinder:
		return "cylinder"
	case ColliderCuboid:
		return "cuboid"
	case ColliderCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// Collider is a collision shape in the local space of the body it is attached to.
// The concrete types are *TriMesh, *Cylinder, *Cuboid and *Capsule.
type Collider interface {
	// Kind returns the shape tag.
	Kind() ColliderKind

	// LocalAABB returns the shape's bounds in body space.
	LocalAABB() common.AABB
}

// TriMesh is a static triangle soup. Zero-area triangles are dropped at construction.
type TriMesh struct {
	Vertices  []mgl32.Vec3
	Triangles [][3]uint32
}

// Cylinder is a Y-aligned cylinder centered on the body origin.
type Cylinder struct {
	Radius     float32
	HalfHeight float32
}

// Cuboid is a box centered on the body origin.
type Cuboid struct {
	HalfExtents mgl32.Vec3
}

// Capsule is the set of points within Radius of the segment A-B.
type Capsule struct {
	A, B   mgl32.Vec3
	Radius float32
}

var (
	_ Collider = &TriMesh{}
	_ Collider = &Cylinder{}
	_ Collider = &Cuboid{}
	_ Collider = &Capsule{}
)

// NewTriMesh builds a triangle mesh collider from indexed geometry.
//
// Parameters:
//   - vertices: vertex positions
//   - indices: triangle list indices, three per triangle
//
// Returns:
//   - *TriMesh: the collider
//   - error: ErrEmptyMesh, ErrIndexCount, ErrIndexRange or ErrDegenerateMesh
func NewTriMesh(vertices []mgl32.Vec3, indices []uint32) (*TriMesh, error) {
	if len(indices) == 0 || len(vertices) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(indices)%3 != 0 {
		return nil, ErrIndexCount
	}
	tris := make([][3]uint32, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		t := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		for _, idx := range t {
			if int(idx) >= len(vertices) {
				return nil, ErrIndexRange
			}
		}
		a, b, c := vertices[t[0]], vertices[t[1]], vertices[t[2]]
		if b.Sub(a).Cross(c.Sub(a)).Len() <= areaEpsilon {
			continue
		}
		tris = append(tris, t)
	}
	if len(tris) == 0 {
		return nil, ErrDegenerateMesh
	}
	return &TriMesh{Vertices: vertices, Triangles: tris}, nil
}

func (m *TriMesh) Kind() ColliderKind { return ColliderTriMesh }

func (m *TriMesh) LocalAABB() common.AABB {
	box := common.EmptyAABB()
	for _, t := range m.Triangles {
		for _, idx := range t {
			v := m.Vertices[idx]
			box = box.Union(common.AABB{Min: v, Max: v})
		}
	}
	return box
}

// NewCylinder creates a Y-aligned cylinder collider.
//
// Parameters:
//   - radius: the cylinder radius
//   - halfHeight: half the cylinder height
//
// Returns:
//   - *Cylinder: the collider
func NewCylinder(radius, halfHeight float32) *Cylinder {
	return &Cylinder{Radius: radius, HalfHeight: halfHeight}
}

func (c *Cylinder) Kind() ColliderKind { return ColliderCylinder }

func (c *Cylinder) LocalAABB() common.AABB {
	h := mgl32.Vec3{c.Radius, c.HalfHeight, c.Radius}
	return common.AABB{Min: h.Mul(-1), Max: h}
}

// NewCuboid creates a box collider.
//
// Parameters:
//   - halfExtents: half the box size on each axis
//
// Returns:
//   - *Cuboid: the collider
func NewCuboid(halfExtents mgl32.Vec3) *Cuboid {
	return &Cuboid{HalfExtents: halfExtents}
}

func (c *Cuboid) Kind() ColliderKind { return ColliderCuboid }

func (c *Cuboid) LocalAABB() common.AABB {
	return common.AABB{Min: c.HalfExtents.Mul(-1), Max: c.HalfExtents}
}

// NewCapsule creates a capsule collider around the segment a-b.
//
// Parameters:
//   - a: first segment end point
//   - b: second segment end point
//   - radius: the capsule radius
//
// Returns:
//   - *Capsule: the collider
func NewCapsule(a, b mgl32.Vec3, radius float32) *Capsule {
	return &Capsule{A: a, B: b, Radius: radius}
}

func (c *Capsule) Kind() ColliderKind { return ColliderCapsule }

func (c *Capsule) LocalAABB() common.AABB {
	r := mgl32.Vec3{c.Radius, c.Radius, c.Radius}
	return common.AABB{
		Min: common.MinVec3(c.A, c.B).Sub(r),
		Max: common.MaxVec3(c.A, c.B).Add(r),
	}
}
