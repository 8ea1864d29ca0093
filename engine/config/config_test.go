package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "player_speed": 6.5,
  "player_camera_height": 1.2,
  "player_capsule_radius": 0.3,
  "player_capsule_cylinder_height": 0.9,
  "mouse_sensitivity": 0.0001,
  "emissive_scale": 10,
  "gravity": 9.81,
  "jump_velocity": 5,
  "fall_off_level_y": -20,
  "spawn_position": [1, 2, 3],
  "instructions": "WASD to move",
  "player_force_push_max_distance": 4,
  "player_force_push_velocity": 2.5,
  "clear_color": [0.1, 0.1, 0.2]
}`

func TestParse_JSON(t *testing.T) {
	cfg, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, float32(6.5), cfg.PlayerSpeed)
	assert.Equal(t, float32(0.3), cfg.PlayerCapsuleRadius)
	assert.Equal(t, float32(10), cfg.EmissiveScale)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cfg.SpawnPosition)
	assert.Equal(t, "WASD to move", cfg.Instructions)
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0.2}, cfg.ClearColor)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, Defaults().AmbientBrightness, cfg.AmbientBrightness)
	assert.Equal(t, Defaults().AmbientColor, cfg.AmbientColor)
}

func TestParse_YAML(t *testing.T) {
	cfg, err := Parse([]byte("player_speed: 3\nspawn_position: [0, 1, 0]\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(3), cfg.PlayerSpeed)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, cfg.SpawnPosition)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown key", `{"player_sped": 5}`},
		{"wrong type", `{"player_speed": "fast"}`},
		{"short vector", `{"spawn_position": [1, 2]}`},
		{"zero radius", `{"player_capsule_radius": 0}`},
		{"negative emissive", `{"emissive_scale": -1}`},
		{"not an object", `[1, 2, 3]`},
		{"malformed", `{"player_speed": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero radius", func(c *Config) { c.PlayerCapsuleRadius = 0 }, ErrNonPositiveRadius},
		{"negative speed", func(c *Config) { c.PlayerSpeed = -1 }, ErrNegativeSpeed},
		{"negative cylinder", func(c *Config) { c.PlayerCapsuleCylinderHeight = -1 }, ErrNegativeCylinder},
		{"negative emissive", func(c *Config) { c.EmissiveScale = -2 }, ErrNegativeEmissive},
		{"negative push", func(c *Config) { c.PlayerForcePushMaxDistance = -1 }, ErrNegativePushRange},
		{"fall level above spawn", func(c *Config) { c.FallOffLevelY = 5 }, ErrFallBelowSpawnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(6.5), cfg.PlayerSpeed)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}
