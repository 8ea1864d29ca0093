package physics

import (
	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BodyKind tags how a body is moved.
type BodyKind int

const (
	// BodyFixed never moves.
	BodyFixed BodyKind = iota

	// BodyDynamic is moved by gravity, impulses and contacts.
	BodyDynamic

	// BodyKinematicPositionBased is moved only by explicit MoveKinematic or SetTranslation calls.
	BodyKinematicPositionBased
)

// String returns the lowercase name of the body kind.
func (k BodyKind) String() string {
	switch k {
	case BodyFixed:
		return "fixed"
	case BodyDynamic:
		return "dynamic"
	case BodyKinematicPositionBased:
		return "kinematic"
	default:
		return "unknown"
	}
}

// BodyState is a read-only snapshot of a body.
type BodyState struct {
	Node        scene.NodeID
	Kind        BodyKind
	Collider    Collider
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Velocity    mgl32.Vec3
	Mass        float32
	Grounded    bool
}

// triangle is a trimesh face in body space, with its bounds cached for the broad test.
type triangle struct {
	a, b, c mgl32.Vec3
	bounds  common.AABB
}

type body struct {
	node        scene.NodeID
	kind        BodyKind
	collider    Collider
	translation mgl32.Vec3
	rotation    mgl32.Quat
	velocity    mgl32.Vec3
	mass        float32
	grounded    bool

	// localBox is the body-space bounds with scale applied. Rotation is ignored for box shapes.
	localBox common.AABB

	// tris holds trimesh faces rotated and scaled into body space; empty for box shapes.
	tris []triangle
}

func newBody(node scene.NodeID, kind BodyKind, c Collider, t common.Transform, mass float32) *body {
	b := &body{
		node:        node,
		kind:        kind,
		collider:    c,
		translation: t.Translation,
		rotation:    t.Rotation,
		mass:        mass,
	}
	scale := mgl32.Vec3{math32.Abs(t.Scale[0]), math32.Abs(t.Scale[1]), math32.Abs(t.Scale[2])}

	mesh, ok := c.(*TriMesh)
	if !ok {
		local := c.LocalAABB()
		b.localBox = common.NewAABB(mulVec3(local.Min, scale), mulVec3(local.Max, scale))
		return b
	}

	// Trimesh vertices carry the full rotation and signed scale so that mirrored nodes stay correct.
	xf := func(v mgl32.Vec3) mgl32.Vec3 {
		return t.Rotation.Rotate(mulVec3(v, t.Scale))
	}
	b.localBox = common.EmptyAABB()
	b.tris = make([]triangle, 0, len(mesh.Triangles))
	for _, idx := range mesh.Triangles {
		tri := triangle{a: xf(mesh.Vertices[idx[0]]), b: xf(mesh.Vertices[idx[1]]), c: xf(mesh.Vertices[idx[2]])}
		tri.bounds = common.NewAABB(common.MinVec3(tri.a, common.MinVec3(tri.b, tri.c)), common.MaxVec3(tri.a, common.MaxVec3(tri.b, tri.c)))
		b.tris = append(b.tris, tri)
		b.localBox = b.localBox.Union(tri.bounds)
	}
	return b
}

func (b *body) worldBox() common.AABB {
	return b.boxAt(b.translation)
}

func (b *body) boxAt(pos mgl32.Vec3) common.AABB {
	return b.localBox.Translate(pos)
}

func (b *body) state() BodyState {
	return BodyState{
		Node:        b.node,
		Kind:        b.kind,
		Collider:    b.collider,
		Translation: b.translation,
		Rotation:    b.rotation,
		Velocity:    b.velocity,
		Mass:        b.mass,
		Grounded:    b.grounded,
	}
}

func mulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
