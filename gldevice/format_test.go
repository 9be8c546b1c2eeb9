//go:build !js

package gldevice

import (
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/mode777/tgl"
	"github.com/stretchr/testify/assert"
)

func TestCoreFormat(t *testing.T) {
	tests := []struct {
		name     string
		format   tgl.PixelFormat
		typ      tgl.PixelType
		in       []byte
		internal int32
		upload   uint32
		want     []byte
	}{
		{"rgba", tgl.RGBA, tgl.PixelUnsignedByte, []byte{1, 2, 3, 4}, gl.RGBA8, gl.RGBA, []byte{1, 2, 3, 4}},
		{"rgb", tgl.RGB, tgl.PixelUnsignedByte, []byte{1, 2, 3}, gl.RGB8, gl.RGB, []byte{1, 2, 3}},
		{"rgba float", tgl.RGBA, tgl.PixelFloat, nil, gl.RGBA32F, gl.RGBA, nil},
		{"alpha", tgl.Alpha, tgl.PixelUnsignedByte, []byte{7, 9}, gl.RGBA8, gl.RGBA, []byte{0, 0, 0, 7, 0, 0, 0, 9}},
		{"luminance", tgl.Luminance, tgl.PixelUnsignedByte, []byte{5}, gl.RGBA8, gl.RGBA, []byte{5, 5, 5, 255}},
		{"luminance alpha", tgl.LuminanceAlpha, tgl.PixelUnsignedByte, []byte{5, 6}, gl.RGBA8, gl.RGBA, []byte{5, 5, 5, 6}},
		{"storage only", tgl.Luminance, tgl.PixelUnsignedByte, nil, gl.RGBA8, gl.RGBA, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			internal, upload, data := coreFormat(tt.format, tt.typ, tt.in)
			assert.Equal(t, tt.internal, internal)
			assert.Equal(t, tt.upload, upload)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestRenderbufferFormat(t *testing.T) {
	assert.Equal(t, uint32(gl.DEPTH24_STENCIL8), renderbufferFormat(tgl.RenderbufferDepthStencil))
	assert.Equal(t, uint32(tgl.RenderbufferDepthComponent16), renderbufferFormat(tgl.RenderbufferDepthComponent16))
}

func TestTrimArraySuffix(t *testing.T) {
	assert.Equal(t, "uLights", trimArraySuffix("uLights[0]"))
	assert.Equal(t, "uColor", trimArraySuffix("uColor"))
}
