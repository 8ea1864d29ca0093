package app_state

import (
	"errors"
	"fmt"
)

// ErrBackwardTransition is returned for any transition other than a move to the immediately following state.
var ErrBackwardTransition = errors.New("application state can only advance one step forward")

// AppState is the phase the application is in. Phases only move forward.
type AppState int

const (
	// LoadingAssets waits for every registered asset to resolve. It is the initial state.
	LoadingAssets AppState = iota

	// SettingUpScene synthesizes physics and fixes up lighting on the loaded scene.
	SettingUpScene

	// InGame runs the player controller. It is the terminal state.
	InGame
)

// String returns the state's name.
func (s AppState) String() string {
	switch s {
	case LoadingAssets:
		return "LoadingAssets"
	case SettingUpScene:
		return "SettingUpScene"
	case InGame:
		return "InGame"
	default:
		return fmt.Sprintf("AppState(%d)", int(s))
	}
}

// Machine holds the current AppState and when it was entered.
// It belongs to the simulation thread and is not safe for concurrent use.
type Machine struct {
	state     AppState
	tick      uint64
	enteredAt uint64
}

// NewMachine creates a Machine in LoadingAssets. The initial state counts as entered on the first tick.
func NewMachine() *Machine {
	return &Machine{}
}

// State returns the current state.
func (m *Machine) State() AppState {
	return m.state
}

// Tick returns the number of ticks begun so far.
func (m *Machine) Tick() uint64 {
	return m.tick
}

// BeginTick starts a new tick. Call it once per tick before Advance and EnteredThisTick.
func (m *Machine) BeginTick() {
	m.tick++
	if m.tick == 1 && m.state == LoadingAssets {
		m.enteredAt = 1
	}
}

// Advance moves to next.
//
// Parameters:
//   - next: the state to enter; it must directly follow the current state
//
// Returns:
//   - error: ErrBackwardTransition for any other target
func (m *Machine) Advance(next AppState) error {
	if next != m.state+1 || next > InGame {
		return fmt.Errorf("%s -> %s: %w", m.state, next, ErrBackwardTransition)
	}
	m.state = next
	m.enteredAt = m.tick
	return nil
}

// EnteredThisTick reports whether the current state was entered during the current tick,
// which is when one-shot on-enter work runs.
func (m *Machine) EnteredThisTick() bool {
	return m.enteredAt == m.tick
}

// Transition is the pure per-tick transition function.
//
// Parameters:
//   - current: the current state
//   - assetsLoaded: the load tracker reports every asset loaded
//   - sceneReady: collider synthesis and lighting fixup have both run
//
// Returns:
//   - AppState: the state to be in after this tick
//   - bool: true if the state changed
func Transition(current AppState, assetsLoaded, sceneReady bool) (AppState, bool) {
	switch {
	case current == LoadingAssets && assetsLoaded:
		return SettingUpScene, true
	case current == SettingUpScene && sceneReady:
		return InGame, true
	default:
		return current, false
	}
}

// Once runs a function at most one time. The setup passes use it so that re-entering a tick cannot repeat them.
type Once struct {
	done bool
}

// Do calls fn if it has not been called yet.
//
// Returns:
//   - bool: true if fn ran on this call
func (o *Once) Do(fn func()) bool {
	if o.done {
		return false
	}
	o.done = true
	fn()
	return true
}

// Done reports whether Do has run.
func (o *Once) Done() bool {
	return o.done
}
