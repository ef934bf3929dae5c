package light

import _ "embed"

// GLSLLightSource is the canonical GLSL definition of the Light struct.
// Member names match the Member* constants and the Fields layout.
//
//go:embed assets/light.glsl
var GLSLLightSource string

// GLSLShadowSource is the canonical GLSL definition of the Shadow struct sampled by
// lit materials that opt into the shadow pass.
//
//go:embed assets/shadow.glsl
var GLSLShadowSource string
