//go:build !js

package gldevice

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/mode777/tgl"
)

// coreFormat maps a texture upload to formats a core profile accepts.
// Luminance and alpha formats were removed from core, so 8-bit data in
// those layouts is expanded to RGBA.
func coreFormat(format tgl.PixelFormat, typ tgl.PixelType, pixels []byte) (internal int32, upload uint32, data []byte) {
	switch format {
	case tgl.RGBA:
		if typ == tgl.PixelFloat {
			return gl.RGBA32F, gl.RGBA, pixels
		}
		return gl.RGBA8, gl.RGBA, pixels
	case tgl.RGB:
		if typ == tgl.PixelFloat {
			return gl.RGB32F, gl.RGB, pixels
		}
		return gl.RGB8, gl.RGB, pixels
	case tgl.Alpha, tgl.Luminance, tgl.LuminanceAlpha:
		if typ == tgl.PixelUnsignedByte {
			return gl.RGBA8, gl.RGBA, expandRGBA(format, pixels)
		}
	}
	return int32(format), uint32(format), pixels
}

// expandRGBA converts 8-bit alpha, luminance or luminance-alpha pixels to
// RGBA. A nil input stays nil so storage-only uploads keep working.
func expandRGBA(format tgl.PixelFormat, src []byte) []byte {
	if src == nil {
		return nil
	}
	n := format.Channels()
	dst := make([]byte, 0, len(src)/n*4)
	for i := 0; i+n <= len(src); i += n {
		switch format {
		case tgl.Alpha:
			dst = append(dst, 0, 0, 0, src[i])
		case tgl.Luminance:
			l := src[i]
			dst = append(dst, l, l, l, 255)
		default:
			l := src[i]
			dst = append(dst, l, l, l, src[i+1])
		}
	}
	return dst
}

// renderbufferFormat returns the sized internal format for f.
func renderbufferFormat(f tgl.RenderbufferFormat) uint32 {
	if f == tgl.RenderbufferDepthStencil {
		return gl.DEPTH24_STENCIL8
	}
	return uint32(f)
}

// trimArraySuffix strips the "[0]" drivers append to array uniform names.
func trimArraySuffix(name string) string {
	return strings.TrimSuffix(name, "[0]")
}
