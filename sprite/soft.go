package sprite

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mode777/tgl"
	"github.com/mode777/tgl/softdevice"
)

// softShader runs the 2D program on a softdevice.
var softShader = &softdevice.Shader{
	Attributes: []softdevice.Decl{
		{Name: AttrPosition, Type: tgl.UniformFloatVec2},
		{Name: AttrTexcoord, Type: tgl.UniformFloatVec2},
	},
	Uniforms: []softdevice.Decl{
		{Name: UniformProject, Type: tgl.UniformFloatMat3},
		{Name: UniformTransform, Type: tgl.UniformFloatMat3},
		{Name: UniformTextureSize, Type: tgl.UniformFloatVec2},
		{Name: UniformTexture, Type: tgl.UniformSampler2D},
	},
	Varyings: 2,
	Vertex: func(e *softdevice.Env, in []mgl32.Vec4, out []float32) mgl32.Vec4 {
		m := e.Mat3(UniformProject).Mul3(e.Mat3(UniformTransform))
		pos := m.Mul3x1(mgl32.Vec3{in[0][0], in[0][1], 1})
		size := e.Vec2(UniformTextureSize)
		if size[0] != 0 && size[1] != 0 {
			out[0] = in[1][0] / size[0]
			out[1] = in[1][1] / size[1]
		}
		return mgl32.Vec4{pos[0], pos[1], 0, 1}
	},
	Fragment: func(e *softdevice.Env, in []float32) (mgl32.Vec4, bool) {
		return e.Sample(UniformTexture, in[0], in[1]), true
	},
}

// RegisterSoft registers the 2D program with d so NewContext2d works on a
// software device.
func RegisterSoft(d *softdevice.Device) {
	d.Register(VertexSource, FragmentSource, softShader)
}
