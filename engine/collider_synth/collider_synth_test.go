package collider_synth

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/physics"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// boxMesh returns the eight corners of the box min-max joined into twelve triangles.
func boxMesh(min, max mgl32.Vec3) scene.Mesh {
	return scene.Mesh{
		Positions: []mgl32.Vec3{
			{min[0], min[1], min[2]}, {max[0], min[1], min[2]}, {max[0], max[1], min[2]}, {min[0], max[1], min[2]},
			{min[0], min[1], max[2]}, {max[0], min[1], max[2]}, {max[0], max[1], max[2]}, {min[0], max[1], max[2]},
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3,
			4, 6, 5, 4, 7, 6,
			0, 4, 5, 0, 5, 1,
			3, 2, 6, 3, 6, 7,
			0, 3, 7, 0, 7, 4,
			1, 5, 6, 1, 6, 2,
		},
	}
}

func addMeshChild(sc scene.Scene, parent scene.NodeID, name string, m scene.Mesh) scene.NodeID {
	id := sc.AddNode(name, common.IdentityTransform(), parent)
	sc.AttachMesh(id, sc.AddMesh(m))
	return id
}

func newObserved() (Synthesizer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return NewSynthesizer(WithLogger(zap.New(core))), logs
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Classification
	}{
		{"Wall-colonly", ClassColliderOnly},
		{"Floor-colonly.001", ClassColliderOnly},
		{"Crate01-rigid", ClassRigid},
		{"Barrel-rigid.002", ClassRigid},
		{"Thing-rigid-colonly", ClassColliderOnly},
		{"TorchCylinder.003", ClassNone},
		{"", ClassNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestRigidCollider(t *testing.T) {
	crateBoxes := []common.AABB{
		common.NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}),
		common.NewAABB(mgl32.Vec3{-0.5, -2, -0.5}, mgl32.Vec3{0.5, 2, 0.5}),
	}

	t.Run("crate is a cuboid", func(t *testing.T) {
		c, ok := RigidCollider("Crate01-rigid", crateBoxes)
		require.True(t, ok)
		cuboid, ok := c.(*physics.Cuboid)
		require.True(t, ok)
		assert.Equal(t, mgl32.Vec3{1, 2, 1}, cuboid.HalfExtents)
	})

	t.Run("child order does not matter", func(t *testing.T) {
		a, _ := RigidCollider("Crate01-rigid", crateBoxes)
		b, _ := RigidCollider("Crate01-rigid", []common.AABB{crateBoxes[1], crateBoxes[0]})
		assert.Equal(t, a, b)
	})

	t.Run("barrel is a cylinder", func(t *testing.T) {
		box := common.NewAABB(mgl32.Vec3{-0.5, -1, -0.5}, mgl32.Vec3{0.5, 1, 0.5})
		c, ok := RigidCollider("Barrel01-rigid", []common.AABB{box})
		require.True(t, ok)
		cyl, ok := c.(*physics.Cylinder)
		require.True(t, ok)
		assert.Equal(t, float32(0.5), cyl.Radius)
		assert.Equal(t, float32(1.0), cyl.HalfHeight)
	})

	t.Run("no boxes", func(t *testing.T) {
		_, ok := RigidCollider("Crate01-rigid", nil)
		assert.False(t, ok)
	})
}

func TestRun_Rigid(t *testing.T) {
	sc := scene.NewScene("level")
	crate := sc.AddNode("Crate01-rigid", common.TransformFromXYZ(3, 1, 0), scene.NoNode)
	addMeshChild(sc, crate, "Crate01.0", boxMesh(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	addMeshChild(sc, crate, "Crate01.1", boxMesh(mgl32.Vec3{-0.5, -2, -0.5}, mgl32.Vec3{0.5, 2, 0.5}))
	sc.AddNode("Crate01.empty", common.IdentityTransform(), crate)

	w := physics.NewWorld()
	s, logs := newObserved()
	r := s.Run(sc, w)

	assert.Equal(t, Report{Rigid: 1}, r)
	body, ok := w.Body(crate)
	require.True(t, ok)
	assert.Equal(t, physics.BodyDynamic, body.Kind)
	assert.Equal(t, mgl32.Vec3{3, 1, 0}, body.Translation)
	require.IsType(t, &physics.Cuboid{}, body.Collider)
	assert.Equal(t, mgl32.Vec3{1, 2, 1}, body.Collider.(*physics.Cuboid).HalfExtents)

	assert.Equal(t, 1, logs.FilterMessage("rigid object child has no mesh").Len())
	assert.True(t, sc.IsVisible(crate), "rigid nodes stay visible")
}

func TestRun_PrimitiveSharingObjectName(t *testing.T) {
	sc := scene.NewScene("level")
	crate := sc.AddNode("Crate01-rigid", common.TransformFromXYZ(0, 1, 0), scene.NoNode)
	prim := addMeshChild(sc, crate, "Crate01-rigid.0", boxMesh(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	sc.SetPrimitive(prim, true)

	wall := sc.AddNode("Wall-colonly", common.IdentityTransform(), scene.NoNode)
	wallPrim := addMeshChild(sc, wall, "Wall-colonly.0", boxMesh(mgl32.Vec3{-2, 0, -0.1}, mgl32.Vec3{2, 3, 0.1}))
	sc.SetPrimitive(wallPrim, true)

	w := physics.NewWorld()
	s, logs := newObserved()
	r := s.Run(sc, w)

	assert.Equal(t, Report{ColliderOnly: 1, Rigid: 1}, r)
	assert.Equal(t, 0, logs.Len())
	_, ok := w.Body(prim)
	assert.False(t, ok)
	_, ok = w.Body(wallPrim)
	assert.False(t, ok)
}

func TestRun_RigidWithoutMeshes(t *testing.T) {
	sc := scene.NewScene("level")
	crate := sc.AddNode("Crate02-rigid", common.IdentityTransform(), scene.NoNode)

	w := physics.NewWorld()
	s, logs := newObserved()
	r := s.Run(sc, w)

	assert.Equal(t, Report{Skipped: 1}, r)
	_, ok := w.Body(crate)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.Len())
}

func TestRun_ColliderOnly(t *testing.T) {
	wall := boxMesh(mgl32.Vec3{-2, 0, -0.1}, mgl32.Vec3{2, 3, 0.1})

	tests := []struct {
		name     string
		build    func(sc scene.Scene) scene.NodeID
		wantBody bool
		wantWarn string
	}{
		{
			name: "one mesh child",
			build: func(sc scene.Scene) scene.NodeID {
				n := sc.AddNode("Wall-colonly", common.IdentityTransform(), scene.NoNode)
				addMeshChild(sc, n, "Wall.0", wall)
				return n
			},
			wantBody: true,
		},
		{
			name: "no children",
			build: func(sc scene.Scene) scene.NodeID {
				return sc.AddNode("Wall-colonly", common.IdentityTransform(), scene.NoNode)
			},
			wantWarn: "colonly object has no children, expected 1",
		},
		{
			name: "two children",
			build: func(sc scene.Scene) scene.NodeID {
				n := sc.AddNode("Wall-colonly", common.IdentityTransform(), scene.NoNode)
				addMeshChild(sc, n, "Wall.0", wall)
				addMeshChild(sc, n, "Wall.1", wall)
				return n
			},
			wantWarn: "colonly object has too many children, expected 1",
		},
		{
			name: "child without mesh",
			build: func(sc scene.Scene) scene.NodeID {
				n := sc.AddNode("Wall-colonly", common.IdentityTransform(), scene.NoNode)
				sc.AddNode("Wall.0", common.IdentityTransform(), n)
				return n
			},
			wantWarn: "colonly object first child has no mesh",
		},
		{
			name: "mesh not loaded",
			build: func(sc scene.Scene) scene.NodeID {
				n := sc.AddNode("Wall-colonly", common.IdentityTransform(), scene.NoNode)
				c := sc.AddNode("Wall.0", common.IdentityTransform(), n)
				sc.AttachMesh(c, scene.MeshID(41))
				return n
			},
			wantWarn: "colonly object mesh not loaded",
		},
		{
			name: "degenerate mesh",
			build: func(sc scene.Scene) scene.NodeID {
				n := sc.AddNode("Wall-colonly", common.IdentityTransform(), scene.NoNode)
				addMeshChild(sc, n, "Wall.0", scene.Mesh{
					Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
					Indices:   []uint32{0, 1, 2},
				})
				return n
			},
			wantWarn: "unable to generate trimesh collider from colonly object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scene.NewScene("level")
			n := tt.build(sc)
			w := physics.NewWorld()
			s, logs := newObserved()

			r := s.Run(sc, w)

			assert.False(t, sc.IsVisible(n), "colonly nodes are always hidden")
			body, ok := w.Body(n)
			if tt.wantBody {
				require.True(t, ok)
				assert.Equal(t, Report{ColliderOnly: 1}, r)
				assert.Equal(t, physics.BodyFixed, body.Kind)
				assert.Equal(t, physics.ColliderTriMesh, body.Collider.Kind())
				assert.Zero(t, logs.Len())
				return
			}
			assert.False(t, ok)
			assert.Equal(t, Report{Skipped: 1}, r)
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantWarn, entry.Message)
			assert.Equal(t, "Wall-colonly", entry.ContextMap()["node"])
		})
	}
}

func TestRun_ColliderOnlyBakesChildTransform(t *testing.T) {
	sc := scene.NewScene("level")
	n := sc.AddNode("Floor-colonly", common.TransformFromXYZ(0, -1, 0), scene.NoNode)
	child := sc.AddNode("Floor.0", common.TransformFromXYZ(10, 0, 0), n)
	sc.AttachMesh(child, sc.AddMesh(scene.Mesh{
		Positions: []mgl32.Vec3{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}, {-1, 0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}))

	w := physics.NewWorld()
	NewSynthesizer().Run(sc, w)

	body, ok := w.Body(n)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, body.Translation)
	box := body.Collider.LocalAABB()
	assert.Equal(t, mgl32.Vec3{9, 0, -1}, box.Min)
	assert.Equal(t, mgl32.Vec3{11, 0, 1}, box.Max)

	hit, ok := w.CastRay(mgl32.Vec3{10, 5, 0}, mgl32.Vec3{0, -1, 0}, 10)
	require.True(t, ok)
	assert.Equal(t, n, hit.Node)
	assert.InDelta(t, 6, hit.Distance, 1e-4)
}

func TestRun_IgnoresUnclassified(t *testing.T) {
	sc := scene.NewScene("level")
	n := sc.AddNode("TorchCylinder.001", common.IdentityTransform(), scene.NoNode)
	addMeshChild(sc, n, "Torch.0", boxMesh(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))

	w := physics.NewWorld()
	r := NewSynthesizer().Run(sc, w)
	assert.Equal(t, Report{}, r)
	assert.Zero(t, w.Len())
	assert.True(t, sc.IsVisible(n))
}
