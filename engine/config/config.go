package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file the game loads when no path is given.
const DefaultPath = "assets/config.json"

//go:embed config.schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Validation errors returned by Config.Validate.
var (
	ErrNonPositiveRadius   = errors.New("player_capsule_radius must be greater than zero")
	ErrNegativeSpeed       = errors.New("player_speed must not be negative")
	ErrNegativeCylinder    = errors.New("player_capsule_cylinder_height must not be negative")
	ErrNegativeEmissive    = errors.New("emissive_scale must not be negative")
	ErrNegativePushRange   = errors.New("player_force_push_max_distance must not be negative")
	ErrFallBelowSpawnLevel = errors.New("fall_off_level_y must be below spawn_position.y")
)

// Config is the immutable set of gameplay tunables. It is loaded once during the asset loading phase and
// shared read-only for the rest of the session.
type Config struct {
	// PlayerSpeed is the horizontal player speed in meters per second.
	PlayerSpeed float32 `yaml:"player_speed"`

	// PlayerCameraHeight is the distance of the camera from the bottom of the player's capsule.
	PlayerCameraHeight float32 `yaml:"player_camera_height"`

	// PlayerCapsuleRadius is the radius of the player's capsule.
	PlayerCapsuleRadius float32 `yaml:"player_capsule_radius"`

	// PlayerCapsuleCylinderHeight is the height of the cylindrical part of the player's capsule.
	PlayerCapsuleCylinderHeight float32 `yaml:"player_capsule_cylinder_height"`

	// MouseSensitivity scales pointer motion into degrees of rotation per pixel of the smaller window dimension.
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`

	// EmissiveScale multiplies the colors of all emissive materials, pushing them into HDR range for bloom.
	EmissiveScale float32 `yaml:"emissive_scale"`

	// Gravity is the downward acceleration in meters per second squared.
	Gravity float32 `yaml:"gravity"`

	// JumpVelocity is the upward velocity in meters per second applied by a jump.
	JumpVelocity float32 `yaml:"jump_velocity"`

	// FallOffLevelY is the height below which the player is considered to have fallen off the level.
	FallOffLevelY float32 `yaml:"fall_off_level_y"`

	// SpawnPosition is where the bottom of the player's capsule is placed at spawn and respawn.
	SpawnPosition mgl32.Vec3 `yaml:"spawn_position"`

	// Instructions is the text shown at the beginning of the game.
	Instructions string `yaml:"instructions"`

	// PlayerForcePushMaxDistance is the maximum reach of the force push ray.
	PlayerForcePushMaxDistance float32 `yaml:"player_force_push_max_distance"`

	// PlayerForcePushVelocity is the magnitude of the impulse applied by a force push.
	PlayerForcePushVelocity float32 `yaml:"player_force_push_velocity"`

	// AmbientColor is the color of the scene's ambient light.
	AmbientColor mgl32.Vec3 `yaml:"ambient_color"`

	// AmbientBrightness is the intensity of the scene's ambient light.
	AmbientBrightness float32 `yaml:"ambient_brightness"`

	// ClearColor is the color the frame is cleared to before drawing.
	ClearColor mgl32.Vec3 `yaml:"clear_color"`
}

// Defaults returns the configuration used for any key the config file omits.
//
// Returns:
//   - Config: the default tunables
func Defaults() Config {
	return Config{
		PlayerSpeed:                 5.0,
		PlayerCameraHeight:          1.0,
		PlayerCapsuleRadius:         0.25,
		PlayerCapsuleCylinderHeight: 1.0,
		MouseSensitivity:            0.00012,
		EmissiveScale:               4.0,
		Gravity:                     9.81,
		JumpVelocity:                4.0,
		FallOffLevelY:               -10.0,
		SpawnPosition:               mgl32.Vec3{0, 0, 0},
		Instructions:                "Use WASD to move and mouse to look.",
		PlayerForcePushMaxDistance:  5.0,
		PlayerForcePushVelocity:     3.0,
		AmbientColor:                mgl32.Vec3{1, 1, 1},
		AmbientBrightness:           0.05,
		ClearColor:                  mgl32.Vec3{0, 0, 0},
	}
}

// Load reads, schema-checks and decodes a config file on top of Defaults.
// JSON and YAML are both accepted since the decoder is YAML, a superset of JSON.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the decoded and validated config
//   - error: error if the file cannot be read, fails the schema, or fails Validate
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse schema-checks and decodes raw config bytes on top of Defaults.
//
// Parameters:
//   - raw: JSON or YAML config bytes
//
// Returns:
//   - Config: the decoded and validated config
//   - error: error if the bytes are malformed, fail the schema, or fail Validate
func Parse(raw []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	s, err := compiledSchema()
	if err != nil {
		return Config{}, err
	}
	if err := s.Validate(doc); err != nil {
		return Config{}, fmt.Errorf("schema: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the semantic constraints that a schema cannot express, and repeats the range checks so that
// configs built in code are held to the same rules as files.
//
// Returns:
//   - error: the first violated constraint, or nil
func (c Config) Validate() error {
	switch {
	case c.PlayerCapsuleRadius <= 0:
		return ErrNonPositiveRadius
	case c.PlayerSpeed < 0:
		return ErrNegativeSpeed
	case c.PlayerCapsuleCylinderHeight < 0:
		return ErrNegativeCylinder
	case c.EmissiveScale < 0:
		return ErrNegativeEmissive
	case c.PlayerForcePushMaxDistance < 0:
		return ErrNegativePushRange
	case c.FallOffLevelY >= c.SpawnPosition.Y():
		return ErrFallBelowSpawnLevel
	}
	return nil
}

// compiledSchema compiles the embedded JSON schema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("config.schema.json", schemaSource)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile config schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}
