// Package softdevice implements tgl.Device as a CPU rasterizer.
//
// Programs are Go functions registered against the exact vertex and fragment
// source text a program will be created with, so code written for a GPU
// backend runs unchanged. The device keeps a call counter per method, which
// makes it the reference backend for testing state suppression.
package softdevice

import (
	"fmt"
	"image"

	"github.com/mode777/tgl"
)

const maxVertexAttribs = 16

// Option configures a Device.
type Option func(*Device)

// WithMaxTextureUnits sets the number of texture units the device reports.
// The default is 16.
func WithMaxTextureUnits(n int) Option {
	return func(d *Device) {
		d.maxUnits = n
	}
}

// Device is a software tgl.Device. It owns a default framebuffer of the size
// given to New, stored bottom-up like a GL framebuffer.
type Device struct {
	width, height int
	color         []byte
	depth         []float32
	maxUnits      int

	shaders map[sourceKey]*Shader
	next    tgl.Handle

	programs      map[tgl.Handle]*program
	buffers       map[tgl.Handle]*buffer
	textures      map[tgl.Handle]*texture
	renderbuffers map[tgl.Handle]*renderbuffer
	framebuffers  map[tgl.Handle]*framebuffer

	st      tgl.Snapshot
	attribs [maxVertexAttribs]attrib
	errs    []tgl.ErrorCode
	calls   map[string]int
}

var _ tgl.Device = (*Device)(nil)

// New returns a device with a width x height default framebuffer cleared to
// transparent black and GL default state.
func New(width, height int, opts ...Option) *Device {
	d := &Device{
		maxUnits:      16,
		shaders:       make(map[sourceKey]*Shader),
		programs:      make(map[tgl.Handle]*program),
		buffers:       make(map[tgl.Handle]*buffer),
		textures:      make(map[tgl.Handle]*texture),
		renderbuffers: make(map[tgl.Handle]*renderbuffer),
		framebuffers:  make(map[tgl.Handle]*framebuffer),
		calls:         make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.st = tgl.Snapshot{
		Textures:           make([]tgl.Handle, d.maxUnits),
		ColorMask:          [4]bool{true, true, true, true},
		BlendEquationRGB:   tgl.FuncAdd,
		BlendEquationAlpha: tgl.FuncAdd,
		BlendFunc:          tgl.BlendFunc{SrcRGB: tgl.One, DstRGB: tgl.Zero, SrcAlpha: tgl.One, DstAlpha: tgl.Zero},
		CullFaceMode:       tgl.CullBack,
		DepthFunc:          tgl.DepthLess,
		ClearDepth:         1,
	}
	d.Resize(width, height)
	return d
}

// Resize reallocates the default framebuffer and resets the viewport to
// cover it. Contents are lost.
func (d *Device) Resize(width, height int) {
	d.width, d.height = width, height
	d.color = make([]byte, 4*width*height)
	d.depth = make([]float32, width*height)
	for i := range d.depth {
		d.depth[i] = 1
	}
	d.st.Viewport = [4]int32{0, 0, int32(width), int32(height)}
}

// Size returns the size of the default framebuffer.
func (d *Device) Size() (int, int) { return d.width, d.height }

// Image returns a copy of the default framebuffer with its first row at the
// top.
func (d *Device) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
	d.CopyTo(img.Pix)
	return img
}

// CopyTo copies the default framebuffer into dst as top-down RGBA rows.
// dst must hold 4*width*height bytes.
func (d *Device) CopyTo(dst []byte) {
	stride := 4 * d.width
	for y := 0; y < d.height; y++ {
		src := d.color[(d.height-1-y)*stride : (d.height-y)*stride]
		copy(dst[y*stride:(y+1)*stride], src)
	}
}

// Calls returns how often the named Device method has been called since the
// last ResetCalls.
func (d *Device) Calls(method string) int { return d.calls[method] }

// TotalCalls returns the number of Device method calls since the last
// ResetCalls.
func (d *Device) TotalCalls() int {
	n := 0
	for _, c := range d.calls {
		n += c
	}
	return n
}

// ResetCalls zeroes every call counter.
func (d *Device) ResetCalls() { clear(d.calls) }

func (d *Device) count(method string) { d.calls[method]++ }

func (d *Device) fail(code tgl.ErrorCode) {
	if len(d.errs) == 0 || d.errs[len(d.errs)-1] != code {
		d.errs = append(d.errs, code)
	}
}

func (d *Device) handle() tgl.Handle {
	d.next++
	return d.next
}

func (d *Device) Limits() tgl.Limits {
	return tgl.Limits{MaxTextureUnits: d.maxUnits}
}

func (d *Device) Snapshot() tgl.Snapshot {
	d.count("Snapshot")
	return d.st.Clone()
}

func (d *Device) GetError() tgl.ErrorCode {
	if len(d.errs) == 0 {
		return tgl.NoError
	}
	e := d.errs[0]
	d.errs = d.errs[1:]
	return e
}

func (d *Device) SetEnabled(f tgl.Feature, on bool) {
	d.count("SetEnabled")
	switch f {
	case tgl.FeatureBlend:
		d.st.Blending = on
	case tgl.FeatureCullFace:
		d.st.FaceCulling = on
	case tgl.FeatureDepthTest:
		d.st.DepthTest = on
	case tgl.FeaturePolygonOffsetFill:
		d.st.PolygonOffsetFill = on
	case tgl.FeatureSampleAlphaToCoverage:
		d.st.SampleAlphaToCoverage = on
	case tgl.FeatureSampleCoverage:
		d.st.SampleCoverage = on
	case tgl.FeatureScissorTest:
		d.st.ScissorTest = on
	case tgl.FeatureStencilTest:
		d.st.StencilTest = on
	default:
		d.fail(tgl.InvalidEnum)
	}
}

func (d *Device) Viewport(x, y, w, h int32) {
	d.count("Viewport")
	if w < 0 || h < 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	d.st.Viewport = [4]int32{x, y, w, h}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.count("ClearColor")
	d.st.ClearColor = [4]float32{r, g, b, a}
}

func (d *Device) BlendColor(r, g, b, a float32) {
	d.count("BlendColor")
	d.st.BlendColor = [4]float32{r, g, b, a}
}

func (d *Device) ColorMask(r, g, b, a bool) {
	d.count("ColorMask")
	d.st.ColorMask = [4]bool{r, g, b, a}
}

func (d *Device) BlendEquationSeparate(rgb, alpha tgl.BlendEquation) {
	d.count("BlendEquationSeparate")
	d.st.BlendEquationRGB = rgb
	d.st.BlendEquationAlpha = alpha
}

func (d *Device) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha tgl.BlendFactor) {
	d.count("BlendFuncSeparate")
	d.st.BlendFunc = tgl.BlendFunc{SrcRGB: srcRGB, DstRGB: dstRGB, SrcAlpha: srcAlpha, DstAlpha: dstAlpha}
}

func (d *Device) CullFace(mode tgl.CullMode) {
	d.count("CullFace")
	d.st.CullFaceMode = mode
}

func (d *Device) DepthFunc(mode tgl.DepthMode) {
	d.count("DepthFunc")
	d.st.DepthFunc = mode
}

func (d *Device) ClearDepth(v float32) {
	d.count("ClearDepth")
	d.st.ClearDepth = v
}

func (d *Device) ClearStencil(v int32) {
	d.count("ClearStencil")
	d.st.ClearStencil = v
}

// String describes the device for logs.
func (d *Device) String() string {
	return fmt.Sprintf("softdevice(%dx%d, %d units)", d.width, d.height, d.maxUnits)
}
