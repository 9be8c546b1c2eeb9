package sprite

import "github.com/go-gl/mathgl/mgl32"

// Uniform and attribute names of the 2D program. Custom programs passed to
// a Batch or Sprite must declare the same inputs.
const (
	AttrPosition       = "aPosition"
	AttrTexcoord       = "aTexcoord"
	UniformProject     = "uProject"
	UniformTransform   = "uTransform"
	UniformTextureSize = "uTextureSize"
	UniformTexture     = "uTexture"
)

// VertexSource transforms pixel positions by uTransform then uProject and
// converts texel coordinates to normalized ones.
const VertexSource = `#version 330 core
in vec2 aPosition;
in vec2 aTexcoord;

uniform mat3 uProject;
uniform mat3 uTransform;
uniform vec2 uTextureSize;

out vec2 vTexcoord;

void main() {
    vec3 pos = uProject * uTransform * vec3(aPosition, 1.0);
    vTexcoord = aTexcoord / uTextureSize;
    gl_Position = vec4(pos.xy, 0.0, 1.0);
}
`

// FragmentSource samples uTexture.
const FragmentSource = `#version 330 core
uniform sampler2D uTexture;

in vec2 vTexcoord;
out vec4 fragColor;

void main() {
    fragColor = texture(uTexture, vTexcoord);
}
`

// Projection maps canvas pixels, origin top-left and y pointing down, to
// clip space for a viewport of width x height.
func Projection(width, height float32) mgl32.Mat3 {
	if width == 0 || height == 0 {
		return mgl32.Ident3()
	}
	return mgl32.Mat3{
		2 / width, 0, 0,
		0, -2 / height, 0,
		-1, 1, 1,
	}
}
