package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/camera"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/light"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is an arena of named nodes with transforms, plus ID-keyed stores for the meshes, materials and lights
// attached to them. A scene is built by the loader on a worker goroutine and then handed to the simulation
// thread, which owns it for the rest of the session.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// AddNode appends a node to the arena.
	//
	// Parameters:
	//   - name: the node name
	//   - t: the node transform relative to its parent
	//   - parent: the parent node, or NoNode for a root
	//
	// Returns:
	//   - NodeID: the new node's ID, or NoNode if parent does not exist
	AddNode(name string, t common.Transform, parent NodeID) NodeID

	// Node returns a copy of the node with the given ID.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - Node: the node
	//   - bool: false if no such node exists
	Node(id NodeID) (Node, bool)

	// Len returns the number of nodes in the arena.
	Len() int

	// Roots returns the IDs of all nodes without a parent, in insertion order.
	Roots() []NodeID

	// Walk calls fn for every node in insertion order until fn returns false.
	// The arena must not be modified from inside fn.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(n Node) bool)

	// FindByName returns the first node, in insertion order, with the exact given name.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - NodeID: the node ID
	//   - bool: false if no node has that name
	FindByName(name string) (NodeID, bool)

	// SetTransform replaces a node's local transform.
	SetTransform(id NodeID, t common.Transform)

	// WorldTransform composes the transforms from the root down to the node.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - common.Transform: the node's world transform, or identity if the node does not exist
	WorldTransform(id NodeID) common.Transform

	// SetWorldTranslation moves a node so that its world translation equals pos, keeping its local rotation and scale.
	SetWorldTranslation(id NodeID, pos mgl32.Vec3)

	// SetVisibility sets a node's visibility flag.
	SetVisibility(id NodeID, v Visibility)

	// IsVisible resolves inherited visibility for a node.
	//
	// Parameters:
	//   - id: the node ID
	//
	// Returns:
	//   - bool: true if the node would be drawn
	IsVisible(id NodeID) bool

	// SetNotShadowCaster marks whether a node is excluded from casting shadows.
	SetNotShadowCaster(id NodeID, excluded bool)

	// SetPrimitive marks whether a node only carries one primitive of its parent's mesh.
	SetPrimitive(id NodeID, primitive bool)

	// AddMesh stores a mesh.
	//
	// Returns:
	//   - MeshID: the stored mesh's ID
	AddMesh(m Mesh) MeshID

	// Mesh returns a stored mesh.
	//
	// Returns:
	//   - Mesh: the mesh
	//   - bool: false if the ID is not in the store
	Mesh(id MeshID) (Mesh, bool)

	// AttachMesh references a stored mesh from a node. The node does not own the mesh.
	AttachMesh(node NodeID, mesh MeshID)

	// AddMaterial stores a material.
	//
	// Returns:
	//   - MaterialID: the stored material's ID
	AddMaterial(m material.Material) MaterialID

	// Material returns a stored material, or nil.
	Material(id MaterialID) material.Material

	// Materials returns every stored material in insertion order.
	Materials() []material.Material

	// AttachMaterial references a stored material from a node.
	AttachMaterial(node NodeID, m MaterialID)

	// AddLight stores a light and attaches it to a node.
	//
	// Parameters:
	//   - node: the node that positions the light
	//   - l: the light
	//
	// Returns:
	//   - LightID: the stored light's ID
	AddLight(node NodeID, l light.Light) LightID

	// Light returns a stored light, or nil.
	Light(id LightID) light.Light

	// Lights returns every stored light in insertion order.
	Lights() []light.Light

	// Environment returns the scene-wide lighting settings.
	Environment() Environment

	// SetEnvironment replaces the scene-wide lighting settings.
	SetEnvironment(env Environment)

	// SetCamera attaches a camera to a node, replacing any previous camera.
	SetCamera(node NodeID, cam camera.Camera)

	// Camera returns the scene's camera, or nil.
	Camera() camera.Camera

	// CameraNode returns the node the camera is attached to, or NoNode.
	CameraNode() NodeID
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	nodes     []Node
	meshes    []Mesh
	materials []material.Material
	lights    []light.Light

	env        Environment
	cam        camera.Camera
	cameraNode NodeID
}

var _ Scene = &scene{}

// NewScene creates a new empty Scene with the provided name and options applied.
//
// Parameters:
//   - name: the scene name
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.RWMutex{},
		name:       name,
		cameraNode: NoNode,
		env: Environment{
			AmbientColor:            common.Color{1, 1, 1},
			AmbientBrightness:       0.05,
			PointLightShadowMapSize: light.ShadowMapResolution,
		},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) AddNode(name string, t common.Transform, parent NodeID) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if parent != NoNode && !s.valid(parent) {
		return NoNode
	}
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, Node{
		ID:        id,
		Name:      name,
		Transform: t,
		Parent:    parent,
	})
	if parent != NoNode {
		s.nodes[parent].Children = append(s.nodes[parent].Children, id)
	}
	return id
}

func (s *scene) Node(id NodeID) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid(id) {
		return Node{}, false
	}
	n := s.nodes[id]
	n.Children = slices.Clone(n.Children)
	return n, true
}

func (s *scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func (s *scene) Roots() []NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var roots []NodeID
	for _, n := range s.nodes {
		if n.Parent == NoNode {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

func (s *scene) Walk(fn func(n Node) bool) {
	s.mu.RLock()
	snapshot := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		n.Children = slices.Clone(n.Children)
		snapshot[i] = n
	}
	s.mu.RUnlock()

	for _, n := range snapshot {
		if !fn(n) {
			return
		}
	}
}

func (s *scene) FindByName(name string) (NodeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		if n.Name == name {
			return n.ID, true
		}
	}
	return NoNode, false
}

func (s *scene) SetTransform(id NodeID, t common.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid(id) {
		s.nodes[id].Transform = t
	}
}

func (s *scene) WorldTransform(id NodeID) common.Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.worldTransform(id)
}

func (s *scene) SetWorldTranslation(id NodeID, pos mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid(id) {
		return
	}
	n := &s.nodes[id]
	if n.Parent == NoNode {
		n.Transform.Translation = pos
		return
	}
	parent := s.worldTransform(n.Parent)
	local := parent.Rotation.Inverse().Rotate(pos.Sub(parent.Translation))
	for i := range 3 {
		if parent.Scale[i] != 0 {
			local[i] /= parent.Scale[i]
		}
	}
	n.Transform.Translation = local
}

func (s *scene) SetVisibility(id NodeID, v Visibility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid(id) {
		s.nodes[id].Visibility = v
	}
}

func (s *scene) IsVisible(id NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for s.valid(id) {
		switch s.nodes[id].Visibility {
		case VisibilityHidden:
			return false
		case VisibilityVisible:
			return true
		}
		id = s.nodes[id].Parent
	}
	return true
}

func (s *scene) SetNotShadowCaster(id NodeID, excluded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid(id) {
		s.nodes[id].NotShadowCaster = excluded
	}
}

func (s *scene) SetPrimitive(id NodeID, primitive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid(id) {
		s.nodes[id].Primitive = primitive
	}
}

func (s *scene) AddMesh(m Mesh) MeshID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meshes = append(s.meshes, m)
	return MeshID(len(s.meshes) - 1)
}

func (s *scene) Mesh(id MeshID) (Mesh, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || int(id) >= len(s.meshes) {
		return Mesh{}, false
	}
	return s.meshes[id], true
}

func (s *scene) AttachMesh(node NodeID, mesh MeshID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid(node) {
		s.nodes[node].Mesh = &mesh
	}
}

func (s *scene) AddMaterial(m material.Material) MaterialID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials = append(s.materials, m)
	return MaterialID(len(s.materials) - 1)
}

func (s *scene) Material(id MaterialID) material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || int(id) >= len(s.materials) {
		return nil
	}
	return s.materials[id]
}

func (s *scene) Materials() []material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.materials)
}

func (s *scene) AttachMaterial(node NodeID, m MaterialID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid(node) {
		s.nodes[node].Material = &m
	}
}

func (s *scene) AddLight(node NodeID, l light.Light) LightID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
	id := LightID(len(s.lights) - 1)
	if s.valid(node) {
		s.nodes[node].Light = &id
	}
	return id
}

func (s *scene) Light(id LightID) light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || int(id) >= len(s.lights) {
		return nil
	}
	return s.lights[id]
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) Environment() Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.env
}

func (s *scene) SetEnvironment(env Environment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.env = env
}

func (s *scene) SetCamera(node NodeID, cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
	s.cameraNode = node
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) CameraNode() NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cameraNode
}

func (s *scene) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}

// worldTransform must be called with s.mu held.
func (s *scene) worldTransform(id NodeID) common.Transform {
	if !s.valid(id) {
		return common.IdentityTransform()
	}
	n := s.nodes[id]
	if n.Parent == NoNode {
		return n.Transform
	}
	return s.worldTransform(n.Parent).Mul(n.Transform)
}
