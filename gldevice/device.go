//go:build !js

// Package gldevice implements tgl.Device on desktop OpenGL 3.3 core through
// go-gl. A context must be current on the calling goroutine before New and
// for every later call; with glfw that means runtime.LockOSThread in main's
// init and all rendering on the main goroutine.
package gldevice

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/mode777/tgl"
)

// Device forwards tgl.Device calls to the current OpenGL context.
type Device struct {
	vao      uint32
	maxUnits int
}

var _ tgl.Device = (*Device)(nil)

// New loads the OpenGL function pointers of the current context and binds
// the vertex array object every attribute pointer is recorded in.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gldevice: init: %w", err)
	}
	d := &Device{}
	var units int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &units)
	d.maxUnits = int(units)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	tgl.Logger().Debug("gldevice: initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"maxTextureUnits", d.maxUnits)
	return d, nil
}

// Close deletes the vertex array object. Resources created through the
// device are not tracked and stay alive until their Delete.
func (d *Device) Close() {
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
	d.vao = 0
}

func (d *Device) Limits() tgl.Limits {
	return tgl.Limits{MaxTextureUnits: d.maxUnits}
}

func (d *Device) Snapshot() tgl.Snapshot {
	var s tgl.Snapshot

	active := getInt(gl.ACTIVE_TEXTURE)
	s.ActiveTexture = int(active - gl.TEXTURE0)
	s.Textures = make([]tgl.Handle, d.maxUnits)
	for i := range s.Textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		s.Textures[i] = tgl.Handle(getInt(gl.TEXTURE_BINDING_2D))
	}
	gl.ActiveTexture(uint32(active))

	gl.GetFloatv(gl.COLOR_CLEAR_VALUE, &s.ClearColor[0])
	gl.GetFloatv(gl.BLEND_COLOR, &s.BlendColor[0])
	gl.GetBooleanv(gl.COLOR_WRITEMASK, &s.ColorMask[0])
	gl.GetIntegerv(gl.VIEWPORT, &s.Viewport[0])

	s.BlendEquationRGB = tgl.BlendEquation(getInt(gl.BLEND_EQUATION_RGB))
	s.BlendEquationAlpha = tgl.BlendEquation(getInt(gl.BLEND_EQUATION_ALPHA))
	s.BlendFunc = tgl.BlendFunc{
		SrcRGB:   tgl.BlendFactor(getInt(gl.BLEND_SRC_RGB)),
		DstRGB:   tgl.BlendFactor(getInt(gl.BLEND_DST_RGB)),
		SrcAlpha: tgl.BlendFactor(getInt(gl.BLEND_SRC_ALPHA)),
		DstAlpha: tgl.BlendFactor(getInt(gl.BLEND_DST_ALPHA)),
	}
	s.CullFaceMode = tgl.CullMode(getInt(gl.CULL_FACE_MODE))
	s.DepthFunc = tgl.DepthMode(getInt(gl.DEPTH_FUNC))
	gl.GetFloatv(gl.DEPTH_CLEAR_VALUE, &s.ClearDepth)
	s.ClearStencil = getInt(gl.STENCIL_CLEAR_VALUE)

	s.Blending = gl.IsEnabled(gl.BLEND)
	s.FaceCulling = gl.IsEnabled(gl.CULL_FACE)
	s.DepthTest = gl.IsEnabled(gl.DEPTH_TEST)
	s.PolygonOffsetFill = gl.IsEnabled(gl.POLYGON_OFFSET_FILL)
	s.SampleAlphaToCoverage = gl.IsEnabled(gl.SAMPLE_ALPHA_TO_COVERAGE)
	s.SampleCoverage = gl.IsEnabled(gl.SAMPLE_COVERAGE)
	s.ScissorTest = gl.IsEnabled(gl.SCISSOR_TEST)
	s.StencilTest = gl.IsEnabled(gl.STENCIL_TEST)

	s.Framebuffer = tgl.Handle(getInt(gl.DRAW_FRAMEBUFFER_BINDING))
	s.VertexBuffer = tgl.Handle(getInt(gl.ARRAY_BUFFER_BINDING))
	s.IndexBuffer = tgl.Handle(getInt(gl.ELEMENT_ARRAY_BUFFER_BINDING))
	s.Renderbuffer = tgl.Handle(getInt(gl.RENDERBUFFER_BINDING))
	s.Program = tgl.Handle(getInt(gl.CURRENT_PROGRAM))
	return s
}

func getInt(pname uint32) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

// --- Programs ---

func (d *Device) CreateProgram(vertexSource, fragmentSource string) (tgl.Handle, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(log, "\x00"))
	}
	return tgl.Handle(program), nil
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) DeleteProgram(p tgl.Handle) { gl.DeleteProgram(uint32(p)) }
func (d *Device) UseProgram(p tgl.Handle)    { gl.UseProgram(uint32(p)) }

func (d *Device) ActiveAttributes(p tgl.Handle) []tgl.ActiveInfo {
	return activeInfos(uint32(p), gl.ACTIVE_ATTRIBUTES, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH,
		gl.GetActiveAttrib, gl.GetAttribLocation)
}

func (d *Device) ActiveUniforms(p tgl.Handle) []tgl.ActiveInfo {
	return activeInfos(uint32(p), gl.ACTIVE_UNIFORMS, gl.ACTIVE_UNIFORM_MAX_LENGTH,
		gl.GetActiveUniform, gl.GetUniformLocation)
}

type activeFunc func(program, index uint32, bufSize int32, length, size *int32, xtype *uint32, name *uint8)

// activeInfos lists the active attributes or uniforms of program. Array
// names are reported without their "[0]" suffix.
func activeInfos(program, countParam, lengthParam uint32, active activeFunc, location func(uint32, *uint8) int32) []tgl.ActiveInfo {
	var count, maxLen int32
	gl.GetProgramiv(program, countParam, &count)
	gl.GetProgramiv(program, lengthParam, &maxLen)

	infos := make([]tgl.ActiveInfo, 0, count)
	buf := make([]uint8, maxLen+1)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		active(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		cname := gl.Str(name + "\x00")
		infos = append(infos, tgl.ActiveInfo{
			Name:     trimArraySuffix(name),
			Type:     tgl.UniformType(xtype),
			Size:     int(size),
			Location: location(program, cname),
		})
	}
	return infos
}

func (d *Device) Uniform1f(loc int32, v float32)   { gl.Uniform1f(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32)     { gl.Uniform1i(loc, v) }
func (d *Device) Uniform2fv(loc int32, v []float32) { gl.Uniform2fv(loc, 1, &v[0]) }
func (d *Device) Uniform3fv(loc int32, v []float32) { gl.Uniform3fv(loc, 1, &v[0]) }
func (d *Device) Uniform4fv(loc int32, v []float32) { gl.Uniform4fv(loc, 1, &v[0]) }

func (d *Device) UniformMatrix2fv(loc int32, v []float32) {
	gl.UniformMatrix2fv(loc, 1, false, &v[0])
}

func (d *Device) UniformMatrix3fv(loc int32, v []float32) {
	gl.UniformMatrix3fv(loc, 1, false, &v[0])
}

func (d *Device) UniformMatrix4fv(loc int32, v []float32) {
	gl.UniformMatrix4fv(loc, 1, false, &v[0])
}

// --- Buffers ---

func (d *Device) CreateBuffer() tgl.Handle {
	var b uint32
	gl.GenBuffers(1, &b)
	return tgl.Handle(b)
}

func (d *Device) DeleteBuffer(b tgl.Handle) {
	h := uint32(b)
	gl.DeleteBuffers(1, &h)
}

func (d *Device) BindBuffer(target tgl.BufferTarget, b tgl.Handle) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (d *Device) BufferData(target tgl.BufferTarget, data []byte, usage tgl.BufferUsage) {
	gl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (d *Device) BufferSubData(target tgl.BufferTarget, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(uint32(target), offset, len(data), gl.Ptr(data))
}

func (d *Device) EnableVertexAttribArray(loc int) {
	gl.EnableVertexAttribArray(uint32(loc))
}

func (d *Device) VertexAttribPointer(loc, size int, typ tgl.DataType, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), uint32(typ), normalized, int32(stride), uintptr(offset))
}

// --- Textures ---

func (d *Device) CreateTexture() tgl.Handle {
	var t uint32
	gl.GenTextures(1, &t)
	return tgl.Handle(t)
}

func (d *Device) DeleteTexture(t tgl.Handle) {
	h := uint32(t)
	gl.DeleteTextures(1, &h)
}

func (d *Device) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (d *Device) BindTexture(t tgl.Handle) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) TexImage2D(level int, format tgl.PixelFormat, w, h int, typ tgl.PixelType, pixels []byte) {
	internal, upload, data := coreFormat(format, typ, pixels)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, int32(level), internal, int32(w), int32(h), 0, upload, uint32(typ), ptr(data))
}

func (d *Device) TexParameteri(param tgl.TextureParameter, v int32) {
	gl.TexParameteri(gl.TEXTURE_2D, uint32(param), v)
}

// --- Renderbuffers and framebuffers ---

func (d *Device) CreateRenderbuffer() tgl.Handle {
	var r uint32
	gl.GenRenderbuffers(1, &r)
	return tgl.Handle(r)
}

func (d *Device) DeleteRenderbuffer(r tgl.Handle) {
	h := uint32(r)
	gl.DeleteRenderbuffers(1, &h)
}

func (d *Device) BindRenderbuffer(r tgl.Handle) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(r))
}

func (d *Device) RenderbufferStorage(format tgl.RenderbufferFormat, w, h int) {
	gl.RenderbufferStorage(gl.RENDERBUFFER, renderbufferFormat(format), int32(w), int32(h))
}

func (d *Device) CreateFramebuffer() tgl.Handle {
	var f uint32
	gl.GenFramebuffers(1, &f)
	return tgl.Handle(f)
}

func (d *Device) DeleteFramebuffer(f tgl.Handle) {
	h := uint32(f)
	gl.DeleteFramebuffers(1, &h)
}

func (d *Device) BindFramebuffer(f tgl.Handle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

func (d *Device) FramebufferTexture2D(att tgl.Attachment, t tgl.Handle) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, uint32(att), gl.TEXTURE_2D, uint32(t), 0)
}

func (d *Device) FramebufferRenderbuffer(att tgl.Attachment, r tgl.Handle) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, uint32(att), gl.RENDERBUFFER, uint32(r))
}

func (d *Device) CheckFramebufferStatus() tgl.FramebufferStatus {
	return tgl.FramebufferStatus(gl.CheckFramebufferStatus(gl.FRAMEBUFFER))
}

// --- Fixed function state ---

func (d *Device) SetEnabled(f tgl.Feature, on bool) {
	if on {
		gl.Enable(uint32(f))
	} else {
		gl.Disable(uint32(f))
	}
}

func (d *Device) Viewport(x, y, w, h int32)     { gl.Viewport(x, y, w, h) }
func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (d *Device) BlendColor(r, g, b, a float32) { gl.BlendColor(r, g, b, a) }
func (d *Device) ColorMask(r, g, b, a bool)     { gl.ColorMask(r, g, b, a) }
func (d *Device) CullFace(mode tgl.CullMode)    { gl.CullFace(uint32(mode)) }
func (d *Device) DepthFunc(mode tgl.DepthMode)  { gl.DepthFunc(uint32(mode)) }
func (d *Device) ClearDepth(v float32)          { gl.ClearDepth(float64(v)) }
func (d *Device) ClearStencil(v int32)          { gl.ClearStencil(v) }

func (d *Device) BlendEquationSeparate(rgb, alpha tgl.BlendEquation) {
	gl.BlendEquationSeparate(uint32(rgb), uint32(alpha))
}

func (d *Device) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha tgl.BlendFactor) {
	gl.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcAlpha), uint32(dstAlpha))
}

// --- Drawing ---

func (d *Device) Clear(flags tgl.ClearFlags) { gl.Clear(uint32(flags)) }

func (d *Device) DrawArrays(mode tgl.PrimitiveType, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (d *Device) DrawElements(mode tgl.PrimitiveType, count int, typ tgl.DataType, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), int32(count), uint32(typ), uintptr(offset))
}

func (d *Device) ReadPixels(x, y, w, h int, dst []byte) {
	if len(dst) == 0 {
		return
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(int32(x), int32(y), int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
}

func (d *Device) GetError() tgl.ErrorCode {
	return tgl.ErrorCode(gl.GetError())
}

// ptr returns a pointer to the first byte of b, or nil for empty data so
// storage is allocated without an upload.
func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}
