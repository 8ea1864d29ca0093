package collider_synth

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/physics"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Node name markers recognized by the synthesizer.
const (
	ColliderOnlyMarker = "-colonly"
	RigidMarker        = "-rigid"
	BarrelMarker       = "Barrel"
)

// Classification is the physics role a node's name assigns it.
type Classification int

const (
	// ClassNone leaves the node untouched.
	ClassNone Classification = iota

	// ClassColliderOnly turns the node's single child mesh into hidden static collision geometry.
	ClassColliderOnly

	// ClassRigid makes the node a dynamic body shaped by the bounds of its child meshes.
	ClassRigid
)

// Classify maps a node name to its physics role. Collider-only wins when a name carries both markers.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - Classification: the node's role
func Classify(name string) Classification {
	switch {
	case strings.Contains(name, ColliderOnlyMarker):
		return ClassColliderOnly
	case strings.Contains(name, RigidMarker):
		return ClassRigid
	default:
		return ClassNone
	}
}

// Report counts the nodes a synthesis pass processed.
type Report struct {
	// ColliderOnly is the number of collider-only nodes that received a fixed trimesh body.
	ColliderOnly int

	// Rigid is the number of rigid nodes that received a dynamic body.
	Rigid int

	// Skipped is the number of classified nodes left without a body because of bad geometry.
	Skipped int
}

// Synthesizer builds physics bodies for a loaded scene from node naming conventions and mesh geometry.
type Synthesizer interface {
	// Run walks the scene once and inserts a body into the world for every usable classified node.
	// It is meant to run exactly once per scene load; running it twice inserts nothing new and counts every node as skipped.
	//
	// Parameters:
	//   - sc: the fully loaded scene
	//   - w: the physics world to populate
	//
	// Returns:
	//   - Report: how many nodes of each kind were processed
	Run(sc scene.Scene, w physics.World) Report
}

type synthesizer struct {
	logger *zap.Logger
}

var _ Synthesizer = &synthesizer{}

// NewSynthesizer creates a Synthesizer with the provided options applied.
//
// Parameters:
//   - options: variadic list of SynthesizerBuilderOption functions
//
// Returns:
//   - Synthesizer: the synthesizer
func NewSynthesizer(options ...SynthesizerBuilderOption) Synthesizer {
	s := &synthesizer{logger: zap.NewNop()}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *synthesizer) Run(sc scene.Scene, w physics.World) Report {
	var nodes []scene.Node
	sc.Walk(func(n scene.Node) bool {
		if !n.Primitive && Classify(n.Name) != ClassNone {
			nodes = append(nodes, n)
		}
		return true
	})
	s.logger.Info("synthesizing colliders", zap.Int("nodes", sc.Len()), zap.Int("classified", len(nodes)))

	var r Report
	for _, n := range nodes {
		switch Classify(n.Name) {
		case ClassColliderOnly:
			if s.colliderOnly(sc, w, n) {
				r.ColliderOnly++
			} else {
				r.Skipped++
			}
		case ClassRigid:
			if s.rigid(sc, w, n) {
				r.Rigid++
			} else {
				r.Skipped++
			}
		}
	}

	s.logger.Info("converted collision-only meshes and added rigid body colliders",
		zap.Int("colonly", r.ColliderOnly),
		zap.Int("rigid", r.Rigid),
		zap.Int("skipped", r.Skipped),
	)
	return r
}

func (s *synthesizer) colliderOnly(sc scene.Scene, w physics.World, n scene.Node) bool {
	sc.SetVisibility(n.ID, scene.VisibilityHidden)
	log := s.logger.With(zap.String("node", n.Name))

	switch len(n.Children) {
	case 1:
	case 0:
		log.Warn("colonly object has no children, expected 1")
		return false
	default:
		log.Warn("colonly object has too many children, expected 1", zap.Int("children", len(n.Children)))
		return false
	}

	child, ok := sc.Node(n.Children[0])
	if !ok || !child.HasMesh() {
		log.Warn("colonly object first child has no mesh")
		return false
	}
	mesh, ok := sc.Mesh(*child.Mesh)
	if !ok {
		log.Warn("colonly object mesh not loaded", zap.String("child", child.Name))
		return false
	}

	// The collider lives on the colonly node, so the child's offset is baked into the vertices.
	m := child.Transform.Matrix()
	vertices := make([]mgl32.Vec3, len(mesh.Positions))
	for i, p := range mesh.Positions {
		vertices[i] = m.Mul4x1(p.Vec4(1)).Vec3()
	}
	collider, err := physics.NewTriMesh(vertices, mesh.Indices)
	if err != nil {
		log.Warn("unable to generate trimesh collider from colonly object", zap.String("child", child.Name), zap.Error(err))
		return false
	}
	if err := w.Insert(n.ID, physics.BodyFixed, collider, sc.WorldTransform(n.ID)); err != nil {
		log.Warn("unable to insert colonly body", zap.Error(err))
		return false
	}
	return true
}

func (s *synthesizer) rigid(sc scene.Scene, w physics.World, n scene.Node) bool {
	log := s.logger.With(zap.String("node", n.Name))

	boxes := make([]common.AABB, 0, len(n.Children))
	for _, id := range n.Children {
		child, ok := sc.Node(id)
		if !ok || !child.HasMesh() {
			log.Warn("rigid object child has no mesh", zap.Int("child", int(id)))
			continue
		}
		mesh, ok := sc.Mesh(*child.Mesh)
		if !ok {
			log.Warn("rigid object mesh not loaded", zap.String("child", child.Name))
			continue
		}
		box := mesh.AABB()
		if box.IsEmpty() {
			log.Warn("rigid object mesh has no AABB", zap.String("child", child.Name))
			continue
		}
		boxes = append(boxes, box)
	}

	collider, ok := RigidCollider(n.Name, boxes)
	if !ok {
		log.Warn("rigid object has no mesh children, no collider built")
		return false
	}
	if err := w.Insert(n.ID, physics.BodyDynamic, collider, sc.WorldTransform(n.ID)); err != nil {
		log.Warn("unable to insert rigid body", zap.Error(err))
		return false
	}
	return true
}

// RigidCollider derives a rigid node's collider from the union of its child mesh bounds.
// The union's half extents are used around the node origin, which assumes the meshes are symmetric about it.
// Barrels become cylinders and everything else becomes a cuboid.
//
// Parameters:
//   - name: the rigid node's name
//   - boxes: the local-space bounds of each child mesh
//
// Returns:
//   - physics.Collider: the cylinder or cuboid
//   - bool: false if there are no boxes to union
func RigidCollider(name string, boxes []common.AABB) (physics.Collider, bool) {
	union := common.UnionAll(boxes...)
	if union.IsEmpty() {
		return nil, false
	}
	half := union.HalfExtents()
	if strings.Contains(name, BarrelMarker) {
		return physics.NewCylinder(half.X(), half.Y()), true
	}
	return physics.NewCuboid(half), true
}
