package tgl

// Handle is an opaque identifier issued by a Device for a created resource.
// The zero Handle means "no resource" (binding it unbinds the slot).
type Handle uint32

// Limits reports device capabilities the core needs to validate usage.
type Limits struct {
	// MaxTextureUnits is the number of combined texture image units.
	MaxTextureUnits int
}

// ActiveInfo describes one active attribute or uniform of a linked program.
type ActiveInfo struct {
	Name     string
	Type     UniformType
	Size     int
	Location int32
}

// Device is the stateful, handle-based graphics API the core renders through.
//
// Every call is synchronous from the caller's point of view and must be made
// from the goroutine that owns the device. Resource wrappers never call the
// Bind*, Use*, Enable or state setters directly: those go through a
// StateCache so redundant calls are suppressed.
type Device interface {
	// Limits returns the device capabilities.
	Limits() Limits
	// Snapshot reads the current value of every state slot the cache tracks.
	// Called once when a StateCache is created.
	Snapshot() Snapshot

	CreateProgram(vertexSource, fragmentSource string) (Handle, error)
	DeleteProgram(p Handle)
	UseProgram(p Handle)
	ActiveAttributes(p Handle) []ActiveInfo
	ActiveUniforms(p Handle) []ActiveInfo

	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)
	Uniform2fv(location int32, v []float32)
	Uniform3fv(location int32, v []float32)
	Uniform4fv(location int32, v []float32)
	UniformMatrix2fv(location int32, v []float32)
	UniformMatrix3fv(location int32, v []float32)
	UniformMatrix4fv(location int32, v []float32)

	CreateBuffer() Handle
	DeleteBuffer(b Handle)
	BindBuffer(target BufferTarget, b Handle)
	BufferData(target BufferTarget, data []byte, usage BufferUsage)
	BufferSubData(target BufferTarget, offset int, data []byte)
	EnableVertexAttribArray(location int)
	VertexAttribPointer(location, size int, typ DataType, normalized bool, stride, offset int)

	CreateTexture() Handle
	DeleteTexture(t Handle)
	ActiveTexture(unit int)
	BindTexture(t Handle)
	TexImage2D(level int, format PixelFormat, width, height int, typ PixelType, pixels []byte)
	TexParameteri(param TextureParameter, value int32)

	CreateRenderbuffer() Handle
	DeleteRenderbuffer(r Handle)
	BindRenderbuffer(r Handle)
	RenderbufferStorage(format RenderbufferFormat, width, height int)

	CreateFramebuffer() Handle
	DeleteFramebuffer(f Handle)
	BindFramebuffer(f Handle)
	FramebufferTexture2D(attachment Attachment, t Handle)
	FramebufferRenderbuffer(attachment Attachment, r Handle)
	CheckFramebufferStatus() FramebufferStatus

	SetEnabled(feature Feature, enabled bool)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	BlendColor(r, g, b, a float32)
	ColorMask(r, g, b, a bool)
	BlendEquationSeparate(rgb, alpha BlendEquation)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor)
	CullFace(mode CullMode)
	DepthFunc(mode DepthMode)
	ClearDepth(d float32)
	ClearStencil(s int32)

	Clear(flags ClearFlags)
	DrawArrays(mode PrimitiveType, first, count int)
	DrawElements(mode PrimitiveType, count int, typ DataType, offset int)
	// ReadPixels reads RGBA8 pixels of the bound framebuffer into dst.
	ReadPixels(x, y, width, height int, dst []byte)
	GetError() ErrorCode
}
