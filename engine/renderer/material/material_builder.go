package material

import (
	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a functional option for configuring a Material via NewMaterial.
type MaterialBuilderOption func(*material)

// WithName sets the material identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor sets the albedo RGBA color.
//
// Parameters:
//   - c: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(c mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = c
	}
}

// WithMetallic sets the metallic factor.
//
// Parameters:
//   - metallic: the metallic factor in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
	}
}

// WithRoughness sets the roughness factor.
//
// Parameters:
//   - roughness: the roughness factor in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithEmissive sets the linear RGB emissive color.
//
// Parameters:
//   - c: the emissive color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = c
	}
}
