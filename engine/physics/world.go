package physics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// World errors.
var (
	ErrBodyExists   = errors.New("node already has a body")
	ErrNoBody       = errors.New("node has no body")
	ErrNilCollider  = errors.New("collider is nil")
	ErrNotKinematic = errors.New("body is not kinematic")
	ErrNotDynamic   = errors.New("body is not dynamic")
)

// KinematicOutput is the result of resolving a kinematic move against the world.
type KinematicOutput struct {
	// Grounded is true when the body ends the move resting on something below it.
	Grounded bool

	// Translation is the body's resolved position.
	Translation mgl32.Vec3

	// Applied is the displacement that was actually applied after collisions.
	Applied mgl32.Vec3
}

// World is a collection of rigid bodies keyed by the scene node they move.
//
// The solver treats every non-mesh shape as its axis-aligned bounds and resolves motion one axis at a time,
// which is enough for a character walking through static level geometry and for pushable props.
// Bodies do not rotate.
type World interface {
	// Insert creates a body for a node.
	//
	// Parameters:
	//   - node: the scene node the body moves
	//   - kind: how the body is moved
	//   - collider: the body's shape in local space
	//   - t: the body's initial world transform
	//
	// Returns:
	//   - error: ErrBodyExists or ErrNilCollider
	Insert(node scene.NodeID, kind BodyKind, collider Collider, t common.Transform) error

	// Remove deletes a node's body.
	//
	// Returns:
	//   - bool: false if the node had no body
	Remove(node scene.NodeID) bool

	// Body returns a snapshot of a node's body.
	//
	// Returns:
	//   - BodyState: the body snapshot
	//   - bool: false if the node has no body
	Body(node scene.NodeID) (BodyState, bool)

	// Bodies returns snapshots of every body in insertion order.
	Bodies() []BodyState

	// Len returns the number of bodies.
	Len() int

	// SetTranslation teleports a body without collision checks.
	//
	// Returns:
	//   - error: ErrNoBody
	SetTranslation(node scene.NodeID, pos mgl32.Vec3) error

	// MoveKinematic resolves a desired displacement for a kinematic body, sliding along whatever it hits.
	//
	// Parameters:
	//   - node: the kinematic body's node
	//   - desired: the displacement to attempt
	//
	// Returns:
	//   - KinematicOutput: the resolved position and ground contact
	//   - error: ErrNoBody or ErrNotKinematic
	MoveKinematic(node scene.NodeID, desired mgl32.Vec3) (KinematicOutput, error)

	// CastRay finds the closest body hit by a ray.
	//
	// Parameters:
	//   - origin: the ray start in world space
	//   - dir: the ray direction; it does not need to be normalized
	//   - maxDist: the maximum hit distance
	//   - exclude: nodes whose bodies the ray passes through
	//
	// Returns:
	//   - RayHit: the closest hit
	//   - bool: false if nothing was hit, which is not an error
	CastRay(origin, dir mgl32.Vec3, maxDist float32, exclude ...scene.NodeID) (RayHit, bool)

	// ApplyImpulse adds an instantaneous change in momentum to a dynamic body.
	//
	// Returns:
	//   - error: ErrNoBody or ErrNotDynamic
	ApplyImpulse(node scene.NodeID, impulse mgl32.Vec3) error

	// Step advances dynamic bodies by dt seconds.
	Step(dt float32)

	// Gravity returns the world's gravity acceleration.
	Gravity() mgl32.Vec3
}

type world struct {
	mu *sync.Mutex

	logger   *zap.Logger
	gravity  mgl32.Vec3
	friction float32
	mass     float32

	bodies map[scene.NodeID]*body
	order  []scene.NodeID
}

var _ World = &world{}

// NewWorld creates an empty World with earth gravity and the provided options applied.
//
// Parameters:
//   - options: variadic list of WorldBuilderOption functions to configure the world
//
// Returns:
//   - World: the new world
func NewWorld(options ...WorldBuilderOption) World {
	w := &world{
		mu:       &sync.Mutex{},
		logger:   zap.NewNop(),
		gravity:  mgl32.Vec3{0, -9.81, 0},
		friction: 6,
		mass:     1,
		bodies:   make(map[scene.NodeID]*body),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *world) Insert(node scene.NodeID, kind BodyKind, collider Collider, t common.Transform) error {
	if collider == nil {
		return ErrNilCollider
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.bodies[node]; ok {
		return fmt.Errorf("insert node %d: %w", node, ErrBodyExists)
	}
	w.bodies[node] = newBody(node, kind, collider, t, w.mass)
	w.order = append(w.order, node)
	w.logger.Debug("body inserted",
		zap.Int("node", int(node)),
		zap.Stringer("kind", kind),
		zap.Stringer("collider", collider.Kind()),
	)
	return nil
}

func (w *world) Remove(node scene.NodeID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.bodies[node]; !ok {
		return false
	}
	delete(w.bodies, node)
	for i, id := range w.order {
		if id == node {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

func (w *world) Body(node scene.NodeID) (BodyState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[node]
	if !ok {
		return BodyState{}, false
	}
	return b.state(), true
}

func (w *world) Bodies() []BodyState {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]BodyState, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id].state())
	}
	return out
}

func (w *world) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

func (w *world) SetTranslation(node scene.NodeID, pos mgl32.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[node]
	if !ok {
		return fmt.Errorf("set translation of node %d: %w", node, ErrNoBody)
	}
	b.translation = pos
	b.grounded = false
	return nil
}

func (w *world) MoveKinematic(node scene.NodeID, desired mgl32.Vec3) (KinematicOutput, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[node]
	if !ok {
		return KinematicOutput{}, fmt.Errorf("move node %d: %w", node, ErrNoBody)
	}
	if b.kind != BodyKinematicPositionBased {
		return KinematicOutput{}, fmt.Errorf("move node %d: %w", node, ErrNotKinematic)
	}

	start := b.translation
	pos, _, grounded := w.resolve(b, desired)
	b.translation = pos
	b.grounded = grounded
	return KinematicOutput{
		Grounded:    grounded,
		Translation: pos,
		Applied:     pos.Sub(start),
	}, nil
}

func (w *world) ApplyImpulse(node scene.NodeID, impulse mgl32.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[node]
	if !ok {
		return fmt.Errorf("impulse on node %d: %w", node, ErrNoBody)
	}
	if b.kind != BodyDynamic {
		return fmt.Errorf("impulse on node %d: %w", node, ErrNotDynamic)
	}
	b.velocity = b.velocity.Add(impulse.Mul(1 / b.mass))
	return nil
}

func (w *world) Step(dt float32) {
	if dt <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.order {
		b := w.bodies[id]
		if b.kind != BodyDynamic {
			continue
		}
		b.velocity = b.velocity.Add(w.gravity.Mul(dt))
		pos, hit, grounded := w.resolve(b, b.velocity.Mul(dt))
		for axis, h := range hit {
			if h {
				b.velocity[axis] = 0
			}
		}
		if grounded {
			damp := math32.Max(0, 1-w.friction*dt)
			b.velocity[0] *= damp
			b.velocity[2] *= damp
			if b.velocity[1] < 0 {
				b.velocity[1] = 0
			}
		}
		b.translation = pos
		b.grounded = grounded
	}
}

func (w *world) Gravity() mgl32.Vec3 {
	return w.gravity
}
