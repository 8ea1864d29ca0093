package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/camera"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/light"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_Hierarchy(t *testing.T) {
	s := NewScene("level")
	root := s.AddNode("Room", common.TransformFromXYZ(0, 1, 0), NoNode)
	a := s.AddNode("A", common.TransformFromXYZ(1, 0, 0), root)
	b := s.AddNode("B", common.TransformFromXYZ(0, 0, 2), a)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []NodeID{root}, s.Roots())

	n, ok := s.Node(root)
	require.True(t, ok)
	assert.Equal(t, []NodeID{a}, n.Children)

	n, ok = s.Node(b)
	require.True(t, ok)
	assert.Equal(t, a, n.Parent)

	assert.True(t, s.WorldTransform(b).Translation.ApproxEqual(mgl32.Vec3{1, 1, 2}))

	id, ok := s.FindByName("B")
	assert.True(t, ok)
	assert.Equal(t, b, id)

	_, ok = s.FindByName("missing")
	assert.False(t, ok)

	assert.Equal(t, NoNode, s.AddNode("orphan", common.IdentityTransform(), NodeID(42)))
}

func TestScene_NodeIsCopy(t *testing.T) {
	s := NewScene("level")
	root := s.AddNode("Root", common.IdentityTransform(), NoNode)
	s.AddNode("Child", common.IdentityTransform(), root)

	n, _ := s.Node(root)
	n.Children[0] = 99
	n.Name = "changed"

	again, _ := s.Node(root)
	assert.Equal(t, NodeID(1), again.Children[0])
	assert.Equal(t, "Root", again.Name)
}

func TestScene_SetWorldTranslation(t *testing.T) {
	s := NewScene("level")
	parent := common.TransformFromXYZ(2, 0, 0)
	parent.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	parent.Scale = mgl32.Vec3{2, 2, 2}
	p := s.AddNode("Parent", parent, NoNode)
	c := s.AddNode("Child", common.IdentityTransform(), p)

	target := mgl32.Vec3{3, 4, -5}
	s.SetWorldTranslation(c, target)
	assert.True(t, s.WorldTransform(c).Translation.ApproxEqualThreshold(target, 1e-5))

	s.SetWorldTranslation(p, mgl32.Vec3{0, 0, 0})
	assert.True(t, s.WorldTransform(p).Translation.ApproxEqual(mgl32.Vec3{}))
}

func TestScene_Visibility(t *testing.T) {
	s := NewScene("level")
	root := s.AddNode("Wall-colonly", common.IdentityTransform(), NoNode)
	child := s.AddNode("Wall.Mesh", common.IdentityTransform(), root)
	override := s.AddNode("Override", common.IdentityTransform(), root)

	assert.True(t, s.IsVisible(child))

	s.SetVisibility(root, VisibilityHidden)
	s.SetVisibility(override, VisibilityVisible)
	assert.False(t, s.IsVisible(root))
	assert.False(t, s.IsVisible(child), "hidden is inherited")
	assert.True(t, s.IsVisible(override))
}

func TestScene_Stores(t *testing.T) {
	s := NewScene("level")
	n := s.AddNode("Crate", common.IdentityTransform(), NoNode)

	meshID := s.AddMesh(Mesh{Name: "cube", Positions: []mgl32.Vec3{{-1, 0, 2}, {1, 3, -2}}})
	s.AttachMesh(n, meshID)
	mat := material.NewMaterial(material.WithName("glow"), material.WithEmissive(common.Color{1, 0, 0}))
	matID := s.AddMaterial(mat)
	s.AttachMaterial(n, matID)
	lightID := s.AddLight(n, light.NewLight(light.LightTypePoint))

	node, _ := s.Node(n)
	require.True(t, node.HasMesh())
	assert.Equal(t, meshID, *node.Mesh)
	assert.Equal(t, matID, *node.Material)
	assert.Equal(t, lightID, *node.Light)

	m, ok := s.Mesh(meshID)
	require.True(t, ok)
	assert.Equal(t, common.NewAABB(mgl32.Vec3{-1, 0, -2}, mgl32.Vec3{1, 3, 2}), m.AABB())

	_, ok = s.Mesh(MeshID(7))
	assert.False(t, ok)

	assert.Same(t, mat, s.Material(matID))
	assert.Nil(t, s.Material(MaterialID(3)))
	assert.Len(t, s.Materials(), 1)
	assert.Len(t, s.Lights(), 1)
	assert.NotNil(t, s.Light(lightID))
}

func TestScene_Camera(t *testing.T) {
	s := NewScene("level", WithActive(true))
	assert.True(t, s.Active())
	assert.Nil(t, s.Camera())
	assert.Equal(t, NoNode, s.CameraNode())

	n := s.AddNode("Camera", common.IdentityTransform(), NoNode)
	cam := camera.NewCamera()
	s.SetCamera(n, cam)
	assert.Equal(t, n, s.CameraNode())
	assert.Same(t, cam, s.Camera())
}

func TestMesh_EmptyAABB(t *testing.T) {
	assert.True(t, Mesh{}.AABB().IsEmpty())
}
