package scene

import (
	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID addresses a node in a scene's arena. IDs are assigned in insertion order and are never reused.
type NodeID int

// NoNode is the parent of a root node.
const NoNode NodeID = -1

// MeshID addresses a mesh in a scene's mesh store.
type MeshID int

// MaterialID addresses a material in a scene's material store.
type MaterialID int

// LightID addresses a light in a scene's light store.
type LightID int

// Visibility controls whether a node is drawn.
type Visibility int

const (
	// VisibilityInherited draws the node when its parent is drawn.
	VisibilityInherited Visibility = iota

	// VisibilityHidden hides the node and all its descendants.
	VisibilityHidden

	// VisibilityVisible draws the node regardless of its parent.
	VisibilityVisible
)

// Node is a single entry in the scene arena.
// The parent-to-children edges are owned by the scene; Parent is a non-owning back-reference used for lookup only.
type Node struct {
	ID              NodeID
	Name            string
	Transform       common.Transform
	Parent          NodeID
	Children        []NodeID
	Mesh            *MeshID
	Material        *MaterialID
	Light           *LightID
	Visibility      Visibility
	NotShadowCaster bool

	// Primitive marks a node the loader created to carry one primitive of its parent's mesh.
	// It is geometry only and never names an authored object.
	Primitive bool
}

// HasMesh reports whether a mesh is attached to the node.
func (n Node) HasMesh() bool {
	return n.Mesh != nil
}

// Mesh is indexed triangle geometry in the local space of the node it is attached to.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Indices   []uint32
}

// AABB returns the local-space bounding box of the mesh positions.
//
// Returns:
//   - common.AABB: the bounding box, or an empty box when the mesh has no positions
func (m Mesh) AABB() common.AABB {
	box := common.EmptyAABB()
	for _, p := range m.Positions {
		box = box.Union(common.AABB{Min: p, Max: p})
	}
	return box
}

// Environment holds the scene-wide lighting and presentation settings.
type Environment struct {
	AmbientColor      common.Color
	AmbientBrightness float32
	ClearColor        common.Color

	// PointLightShadowMapSize is the per-face shadow map resolution for point lights, in texels.
	PointLightShadowMapSize int
}
