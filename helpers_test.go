package tgl_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mode777/tgl"
	"github.com/mode777/tgl/softdevice"
	"github.com/stretchr/testify/require"
)

// The solid program draws 2D clip space positions in a uniform color, or
// in the texture color when uTextured is set.
const (
	solidVS = "solid.vert"
	solidFS = "solid.frag"
)

var solidShader = &softdevice.Shader{
	Attributes: []softdevice.Decl{
		{Name: "aPos", Type: tgl.UniformFloatVec2},
		{Name: "aUV", Type: tgl.UniformFloatVec2},
	},
	Uniforms: []softdevice.Decl{
		{Name: "uColor", Type: tgl.UniformFloatVec4},
		{Name: "uOffset", Type: tgl.UniformFloatVec2},
		{Name: "uTextured", Type: tgl.UniformFloat},
		{Name: "uTex", Type: tgl.UniformSampler2D},
		{Name: "uMatrix", Type: tgl.UniformFloatMat3},
	},
	Varyings: 2,
	Vertex: func(e *softdevice.Env, in []mgl32.Vec4, out []float32) mgl32.Vec4 {
		off := e.Vec2("uOffset")
		out[0], out[1] = in[1][0], in[1][1]
		return mgl32.Vec4{in[0][0] + off[0], in[0][1] + off[1], 0, 1}
	},
	Fragment: func(e *softdevice.Env, in []float32) (mgl32.Vec4, bool) {
		if e.Float("uTextured") != 0 {
			return e.Sample("uTex", in[0], in[1]), true
		}
		return e.Vec4("uColor"), true
	},
}

func newDevice(t *testing.T, w, h int, opts ...softdevice.Option) (*softdevice.Device, *tgl.Context) {
	t.Helper()
	dev := softdevice.New(w, h, opts...)
	dev.Register(solidVS, solidFS, solidShader)
	return dev, tgl.NewContext(dev)
}

func newSolidProgram(t *testing.T, ctx *tgl.Context) *tgl.Program {
	t.Helper()
	p, err := tgl.NewProgram(ctx, tgl.ProgramOptions{VertexSource: solidVS, FragmentSource: solidFS})
	require.NoError(t, err)
	return p
}

var quadAttributes = []tgl.AttributeOptions{
	{Name: "aPos", Components: 2},
	{Name: "aUV", Components: 2},
}

// fullQuad covers clip space with texture coordinates matching the image
// orientation: v = 0 at the top.
var fullQuad = []float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	1, 1, 1, 0,
	-1, -1, 0, 1,
	1, 1, 1, 0,
	-1, 1, 0, 0,
}

func newQuad(t *testing.T, ctx *tgl.Context, extra tgl.DrawableOptions) *tgl.Drawable {
	t.Helper()
	opts := extra
	opts.Buffers = []tgl.BufferSource{tgl.BuildBuffer(tgl.BufferOptions{
		Data:       fullQuad,
		Attributes: quadAttributes,
	})}
	if opts.Program == (tgl.ProgramSource{}) {
		opts.Program = tgl.BuildProgram(tgl.ProgramOptions{VertexSource: solidVS, FragmentSource: solidFS})
	}
	d, err := tgl.NewDrawable(ctx, opts)
	require.NoError(t, err)
	return d
}
