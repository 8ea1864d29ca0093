package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/light"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// gltfSceneBuilder turns a parsed glTF document into a scene.Scene.
//
// Node layout follows the usual glTF import convention: every glTF node becomes a scene node with
// the same name and local transform, and each primitive of a node's mesh becomes a child node named
// "<mesh>.<index>" carrying the geometry and material. Collider synthesis relies on this layout when
// it looks for the mesh children of marked nodes.
type gltfSceneBuilder struct {
	parser gltfParser
	logger *zap.Logger

	sc        scene.Scene
	materials map[int]scene.MaterialID
	fallback  *scene.MaterialID
	visited   map[int]bool
}

// buildScene converts the parser's document into a new scene.
//
// Parameters:
//   - name: the name of the new scene
//   - parser: a parser holding a successfully parsed document
//   - logger: receives warnings about skipped content
//
// Returns:
//   - scene.Scene: the built scene
//   - error: error if geometry cannot be read
func buildScene(name string, parser gltfParser, logger *zap.Logger) (scene.Scene, error) {
	b := &gltfSceneBuilder{
		parser:    parser,
		logger:    logger,
		sc:        scene.NewScene(name),
		materials: make(map[int]scene.MaterialID),
		visited:   make(map[int]bool),
	}

	for _, root := range b.roots() {
		if err := b.addNode(root, scene.NoNode); err != nil {
			return nil, err
		}
	}
	return b.sc, nil
}

// roots returns the root node indices of the default scene, or every parentless node when the
// document declares no scenes.
func (b *gltfSceneBuilder) roots() []int {
	doc := b.parser.Document()
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

func (b *gltfSceneBuilder) addNode(index int, parent scene.NodeID) error {
	doc := b.parser.Document()
	if index < 0 || index >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", index)
	}
	if b.visited[index] {
		return fmt.Errorf("node %d appears more than once in the hierarchy", index)
	}
	b.visited[index] = true

	src := &doc.Nodes[index]
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("Node%d", index)
	}

	id := b.sc.AddNode(name, gltfNodeTransform(src), parent)

	if src.Mesh != nil {
		if err := b.addPrimitives(id, *src.Mesh); err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}
	}

	if src.Extensions != nil && src.Extensions.LightsPunctual != nil {
		b.addLight(id, name, src.Extensions.LightsPunctual.Light)
	}

	for _, child := range src.Children {
		if err := b.addNode(child, id); err != nil {
			return err
		}
	}
	return nil
}

// addPrimitives adds one child node per triangle primitive of the mesh.
func (b *gltfSceneBuilder) addPrimitives(node scene.NodeID, meshIndex int) error {
	doc := b.parser.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	m := &doc.Meshes[meshIndex]
	meshName := m.Name
	if meshName == "" {
		meshName = fmt.Sprintf("Mesh%d", meshIndex)
	}

	for i, prim := range m.Primitives {
		primName := fmt.Sprintf("%s.%d", meshName, i)

		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			b.logger.Warn("skipping non-triangle primitive", zap.String("mesh", primName), zap.Int("mode", *prim.Mode))
			continue
		}
		posIdx, ok := prim.Attributes[gltfAttributePosition]
		if !ok {
			b.logger.Warn("skipping primitive without positions", zap.String("mesh", primName))
			continue
		}

		raw, err := b.parser.ReadVec3Accessor(posIdx)
		if err != nil {
			return fmt.Errorf("%s positions: %w", primName, err)
		}
		positions := make([]mgl32.Vec3, len(raw))
		for j, p := range raw {
			positions[j] = mgl32.Vec3(p)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = b.parser.ReadIndicesAccessor(*prim.Indices)
			if err != nil {
				return fmt.Errorf("%s indices: %w", primName, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for j := range indices {
				indices[j] = uint32(j)
			}
		}

		child := b.sc.AddNode(primName, common.IdentityTransform(), node)
		b.sc.SetPrimitive(child, true)
		b.sc.AttachMesh(child, b.sc.AddMesh(scene.Mesh{Name: primName, Positions: positions, Indices: indices}))
		b.sc.AttachMaterial(child, b.material(prim.Material))
	}
	return nil
}

// material returns the scene material for a glTF material index, creating it on first use.
// Primitives without a material share a single default material.
func (b *gltfSceneBuilder) material(index *int) scene.MaterialID {
	doc := b.parser.Document()
	if index == nil || *index < 0 || *index >= len(doc.Materials) {
		if b.fallback == nil {
			id := b.sc.AddMaterial(material.NewMaterial(material.WithName("default")))
			b.fallback = &id
		}
		return *b.fallback
	}
	if id, ok := b.materials[*index]; ok {
		return id
	}

	src := &doc.Materials[*index]
	opts := []material.MaterialBuilderOption{material.WithName(src.Name)}
	if pbr := src.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			opts = append(opts, material.WithBaseColor(mgl32.Vec4(*pbr.BaseColorFactor)))
		}
		if pbr.MetallicFactor != nil {
			opts = append(opts, material.WithMetallic(*pbr.MetallicFactor))
		}
		if pbr.RoughnessFactor != nil {
			opts = append(opts, material.WithRoughness(*pbr.RoughnessFactor))
		}
	}
	if src.EmissiveFactor != nil {
		emissive := common.Color(*src.EmissiveFactor)
		if src.Extensions != nil && src.Extensions.EmissiveStrength != nil {
			emissive = emissive.Mul(src.Extensions.EmissiveStrength.EmissiveStrength)
		}
		opts = append(opts, material.WithEmissive(emissive))
	}

	id := b.sc.AddMaterial(material.NewMaterial(opts...))
	b.materials[*index] = id
	return id
}

// addLight attaches a KHR_lights_punctual light to a node. Invalid references are skipped.
func (b *gltfSceneBuilder) addLight(node scene.NodeID, nodeName string, index int) {
	doc := b.parser.Document()
	if doc.Extensions == nil || doc.Extensions.LightsPunctual == nil ||
		index < 0 || index >= len(doc.Extensions.LightsPunctual.Lights) {
		b.logger.Warn("node references a missing light", zap.String("node", nodeName), zap.Int("light", index))
		return
	}
	src := &doc.Extensions.LightsPunctual.Lights[index]

	var kind light.LightType
	switch src.Type {
	case gltfLightTypeDirectional:
		kind = light.LightTypeDirectional
	case gltfLightTypePoint:
		kind = light.LightTypePoint
	case gltfLightTypeSpot:
		kind = light.LightTypeSpot
	default:
		b.logger.Warn("skipping light of unknown type", zap.String("node", nodeName), zap.String("type", src.Type))
		return
	}

	name := src.Name
	if name == "" {
		name = nodeName
	}
	opts := []light.LightBuilderOption{light.WithName(name), light.WithColor(common.Color{1, 1, 1}), light.WithIntensity(1)}
	if src.Color != nil {
		opts = append(opts, light.WithColor(common.Color(*src.Color)))
	}
	if src.Intensity != nil {
		opts = append(opts, light.WithIntensity(*src.Intensity))
	}
	if src.Range != nil {
		opts = append(opts, light.WithRange(*src.Range))
	}
	if kind == light.LightTypeSpot {
		inner, outer := float32(0), math32.Pi/4
		if src.Spot != nil {
			if src.Spot.InnerConeAngle != nil {
				inner = *src.Spot.InnerConeAngle
			}
			if src.Spot.OuterConeAngle != nil {
				outer = *src.Spot.OuterConeAngle
			}
		}
		opts = append(opts, light.WithSpotCone(inner, outer))
	}

	b.sc.AddLight(node, light.NewLight(kind, opts...))
}

// gltfNodeTransform returns the local transform of a node from its matrix or TRS properties.
func gltfNodeTransform(n *gltfNode) common.Transform {
	if n.Matrix != nil {
		return decomposeMatrix(mgl32.Mat4(*n.Matrix))
	}

	t := common.IdentityTransform()
	if n.Translation != nil {
		t.Translation = mgl32.Vec3(*n.Translation)
	}
	if n.Rotation != nil {
		r := *n.Rotation
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t
}

// decomposeMatrix splits an affine column-major matrix into translation, rotation and scale.
// Shear is discarded. A negative determinant is folded into the X scale.
func decomposeMatrix(m mgl32.Mat4) common.Transform {
	t := common.IdentityTransform()
	t.Translation = m.Col(3).Vec3()

	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	scale := mgl32.Vec3{cols[0].Len(), cols[1].Len(), cols[2].Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}

	var rot mgl32.Mat4
	for i := 0; i < 3; i++ {
		if scale[i] == 0 {
			t.Scale = scale
			return t
		}
		c := cols[i].Mul(1 / scale[i])
		rot.SetCol(i, c.Vec4(0))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

	t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
	t.Scale = scale
	return t
}
