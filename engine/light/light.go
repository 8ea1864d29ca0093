package light

import (
	"github.com/Carmen-Shannon/oxy-dungeon/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Its direction is the forward axis of the node that owns it.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from the owning node's position.
	// Attenuates with distance up to a configurable range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone along the owning node's forward axis.
	// Attenuates with both distance and angle from the cone axis.
	LightTypeSpot
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	name         string
	lightType    LightType
	color        common.Color
	intensity    float32
	lightRange   float32
	innerCone    float32 // radians
	outerCone    float32 // radians
	castsShadows bool
}

// Light defines the interface for a light source attached to a scene node.
//
// Lights carry no transform of their own; position and direction come from the node
// they are attached to. The shadow flag is consumed by the renderer and is normalized
// by the scene fixup pass after loading, since imported lights arrive without it.
type Light interface {
	// Name returns the light's name as authored in the scene file, or an empty string.
	//
	// Returns:
	//   - string: the light name
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Color returns the linear RGB color of the light.
	//
	// Returns:
	//   - common.Color: color as (r, g, b)
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point and spot lights.
	// Zero means unbounded.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// SpotCone returns the inner and outer cone half-angles for spot lights in radians.
	//
	// Returns:
	//   - float32: inner half-angle
	//   - float32: outer half-angle
	SpotCone() (float32, float32)

	// CastsShadows returns whether this light is eligible for shadow map generation.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - c: the new color
	SetColor(c common.Color)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetCastsShadows sets whether the light is eligible for shadow mapping.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied. Lights do not cast shadows unless configured to.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:    lightType,
		color:        common.Color{1, 1, 1},
		intensity:    1.0,
		innerCone:    0,
		outerCone:    0.7853982, // pi/4, the KHR_lights_punctual default
		castsShadows: false,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) SpotCone() (float32, float32) {
	return l.innerCone, l.outerCone
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetColor(c common.Color) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}
