package light

// ShadowMapResolution is the default width and height in texels of a shadow depth texture.
// Scenes start with this value until the scene fixup raises it.
const ShadowMapResolution = 2048

// PointLightShadowMapResolution is the width and height in texels of each cube face of a point light's
// shadow map. The dungeon is lit almost entirely by point lights, so they get the sharper maps.
const PointLightShadowMapResolution = 4096
