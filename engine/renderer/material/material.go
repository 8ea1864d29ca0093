package material

import (
	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// material is the implementation of the Material interface.
type material struct {
	name      string
	baseColor mgl32.Vec4
	metallic  float32
	roughness float32
	emissive  common.Color
}

// Material defines the interface for a surface material referenced by scene nodes.
//
// Surface properties are set at load time. The emissive color is mutable because the
// scene fixup pass rescales it into HDR range after loading, where the renderer's bloom
// post-process picks it up.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - mgl32.Vec4: the base color as RGBA values
	BaseColor() mgl32.Vec4

	// Metallic retrieves the metallic factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Emissive retrieves the linear RGB emissive color of the material.
	//
	// Returns:
	//   - common.Color: the emissive color, zero for non-emissive materials
	Emissive() common.Color

	// IsEmissive reports whether any emissive channel is greater than zero.
	//
	// Returns:
	//   - bool: true if the material emits light
	IsEmissive() bool

	// SetEmissive replaces the emissive color.
	//
	// Parameters:
	//   - c: the new emissive color
	SetEmissive(c common.Color)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: mgl32.Vec4{1, 1, 1, 1},
		metallic:  1.0,
		roughness: 1.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() mgl32.Vec4 {
	return m.baseColor
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Emissive() common.Color {
	return m.emissive
}

func (m *material) IsEmissive() bool {
	return m.emissive[0] > 0 || m.emissive[1] > 0 || m.emissive[2] > 0
}

func (m *material) SetEmissive(c common.Color) {
	m.emissive = c
}
