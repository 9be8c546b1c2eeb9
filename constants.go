package tgl

import "fmt"

// The enum values below match their OpenGL (ES 2.0 / WebGL 1) counterparts so
// GL backends can pass them through unchanged.

// DataType is a scalar component type of vertex attributes and indices.
type DataType uint32

const (
	Byte          DataType = 0x1400
	UnsignedByte  DataType = 0x1401
	Short         DataType = 0x1402
	UnsignedShort DataType = 0x1403
	Int           DataType = 0x1404
	UnsignedInt   DataType = 0x1405
	Float         DataType = 0x1406
)

// Size returns the size of one component of type t in bytes.
func (t DataType) Size() int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	default:
		return 0
	}
}

// PrimitiveType selects how vertices are assembled into primitives.
type PrimitiveType uint32

const (
	Points        PrimitiveType = 0x0000
	Lines         PrimitiveType = 0x0001
	LineLoop      PrimitiveType = 0x0002
	LineStrip     PrimitiveType = 0x0003
	Triangles     PrimitiveType = 0x0004
	TriangleStrip PrimitiveType = 0x0005
	TriangleFan   PrimitiveType = 0x0006
)

// BufferTarget is the binding point of a buffer.
type BufferTarget uint32

const (
	ArrayBuffer        BufferTarget = 0x8892
	ElementArrayBuffer BufferTarget = 0x8893
)

// BufferUsage is a hint about how often buffer contents change.
type BufferUsage uint32

const (
	StreamDraw  BufferUsage = 0x88E0
	StaticDraw  BufferUsage = 0x88E4
	DynamicDraw BufferUsage = 0x88E8
)

// Feature is a device capability toggled with SetEnabled.
type Feature uint32

const (
	FeatureCullFace              Feature = 0x0B44
	FeatureDepthTest             Feature = 0x0B71
	FeatureStencilTest           Feature = 0x0B90
	FeatureBlend                 Feature = 0x0BE2
	FeatureScissorTest           Feature = 0x0C11
	FeaturePolygonOffsetFill     Feature = 0x8037
	FeatureSampleAlphaToCoverage Feature = 0x809E
	FeatureSampleCoverage        Feature = 0x80A0
)

// BlendEquation combines source and destination colors.
type BlendEquation uint32

const (
	FuncAdd             BlendEquation = 0x8006
	FuncSubtract        BlendEquation = 0x800A
	FuncReverseSubtract BlendEquation = 0x800B
)

func (e BlendEquation) String() string {
	switch e {
	case FuncAdd:
		return "FUNC_ADD"
	case FuncSubtract:
		return "FUNC_SUBTRACT"
	case FuncReverseSubtract:
		return "FUNC_REVERSE_SUBTRACT"
	}
	return fmt.Sprintf("BlendEquation(0x%04X)", uint32(e))
}

// BlendFactor scales source or destination colors before blending.
type BlendFactor uint32

const (
	Zero             BlendFactor = 0
	One              BlendFactor = 1
	SrcColor         BlendFactor = 0x0300
	OneMinusSrcColor BlendFactor = 0x0301
	SrcAlpha         BlendFactor = 0x0302
	OneMinusSrcAlpha BlendFactor = 0x0303
	DstAlpha         BlendFactor = 0x0304
	OneMinusDstAlpha BlendFactor = 0x0305
	DstColor         BlendFactor = 0x0306
	OneMinusDstColor BlendFactor = 0x0307
)

// BlendFunc is the four blend factors set with BlendFuncSeparate.
type BlendFunc struct {
	SrcRGB, DstRGB     BlendFactor
	SrcAlpha, DstAlpha BlendFactor
}

// CullMode selects which polygon faces are culled.
type CullMode uint32

const (
	CullFront        CullMode = 0x0404
	CullBack         CullMode = 0x0405
	CullFrontAndBack CullMode = 0x0408
)

func (m CullMode) String() string {
	switch m {
	case CullFront:
		return "FRONT"
	case CullBack:
		return "BACK"
	case CullFrontAndBack:
		return "FRONT_AND_BACK"
	}
	return fmt.Sprintf("CullMode(0x%04X)", uint32(m))
}

// DepthMode is the depth comparison function.
type DepthMode uint32

const (
	DepthNever    DepthMode = 0x0200
	DepthLess     DepthMode = 0x0201
	DepthEqual    DepthMode = 0x0202
	DepthLEqual   DepthMode = 0x0203
	DepthGreater  DepthMode = 0x0204
	DepthNotEqual DepthMode = 0x0205
	DepthGEqual   DepthMode = 0x0206
	DepthAlways   DepthMode = 0x0207
)

// ClearFlags selects the buffers cleared by Context.Clear.
type ClearFlags uint32

const (
	DepthBufferBit   ClearFlags = 0x0100
	StencilBufferBit ClearFlags = 0x0400
	ColorBufferBit   ClearFlags = 0x4000
)

// PixelFormat is the channel layout of texture data.
type PixelFormat uint32

const (
	Alpha          PixelFormat = 0x1906
	RGB            PixelFormat = 0x1907
	RGBA           PixelFormat = 0x1908
	Luminance      PixelFormat = 0x1909
	LuminanceAlpha PixelFormat = 0x190A
)

// Channels returns the number of components per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case Alpha, Luminance:
		return 1
	case LuminanceAlpha:
		return 2
	case RGB:
		return 3
	default:
		return 4
	}
}

// PixelType is the storage type of texture data.
type PixelType uint32

const (
	PixelUnsignedByte         PixelType = 0x1401
	PixelFloat                PixelType = 0x1406
	PixelUnsignedShort4444    PixelType = 0x8033
	PixelUnsignedShort5551    PixelType = 0x8034
	PixelUnsignedShort565     PixelType = 0x8363
)

// Filter is a texture minification or magnification filter.
type Filter int32

const (
	Nearest              Filter = 0x2600
	Linear               Filter = 0x2601
	NearestMipmapNearest Filter = 0x2700
	LinearMipmapNearest  Filter = 0x2701
	NearestMipmapLinear  Filter = 0x2702
	LinearMipmapLinear   Filter = 0x2703
)

// WrapMode is a texture coordinate wrapping mode.
type WrapMode int32

const (
	Repeat         WrapMode = 0x2901
	ClampToEdge    WrapMode = 0x812F
	MirroredRepeat WrapMode = 0x8370
)

// TextureParameter names a texture parameter set with TexParameteri.
type TextureParameter uint32

const (
	TextureMagFilter TextureParameter = 0x2800
	TextureMinFilter TextureParameter = 0x2801
	TextureWrapS     TextureParameter = 0x2802
	TextureWrapT     TextureParameter = 0x2803
)

// RenderbufferFormat is the internal format of a renderbuffer.
type RenderbufferFormat uint32

const (
	RenderbufferRGBA4            RenderbufferFormat = 0x8056
	RenderbufferRGB5A1           RenderbufferFormat = 0x8057
	RenderbufferRGB565           RenderbufferFormat = 0x8D62
	RenderbufferDepthComponent16 RenderbufferFormat = 0x81A5
	RenderbufferStencilIndex8    RenderbufferFormat = 0x8D48
	RenderbufferDepthStencil     RenderbufferFormat = 0x84F9
)

// Attachment is a framebuffer attachment point.
type Attachment uint32

const (
	ColorAttachment0       Attachment = 0x8CE0
	DepthAttachment        Attachment = 0x8D00
	StencilAttachment      Attachment = 0x8D20
	DepthStencilAttachment Attachment = 0x821A
)

// FramebufferStatus is the completeness status of the bound framebuffer.
type FramebufferStatus uint32

const (
	FramebufferComplete                FramebufferStatus = 0x8CD5
	FramebufferIncompleteAttachment    FramebufferStatus = 0x8CD6
	FramebufferMissingAttachment       FramebufferStatus = 0x8CD7
	FramebufferIncompleteDimensions    FramebufferStatus = 0x8CD9
	FramebufferUnsupported             FramebufferStatus = 0x8CDD
)

func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "FRAMEBUFFER_COMPLETE"
	case FramebufferIncompleteAttachment:
		return "FRAMEBUFFER_INCOMPLETE_ATTACHMENT"
	case FramebufferMissingAttachment:
		return "FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT"
	case FramebufferIncompleteDimensions:
		return "FRAMEBUFFER_INCOMPLETE_DIMENSIONS"
	case FramebufferUnsupported:
		return "FRAMEBUFFER_UNSUPPORTED"
	}
	return fmt.Sprintf("FramebufferStatus(0x%04X)", uint32(s))
}

// UniformType is the GLSL type of an active uniform or attribute.
type UniformType uint32

const (
	UniformInt         UniformType = 0x1404
	UniformFloat       UniformType = 0x1406
	UniformFloatVec2   UniformType = 0x8B50
	UniformFloatVec3   UniformType = 0x8B51
	UniformFloatVec4   UniformType = 0x8B52
	UniformIntVec2     UniformType = 0x8B53
	UniformIntVec3     UniformType = 0x8B54
	UniformIntVec4     UniformType = 0x8B55
	UniformBool        UniformType = 0x8B56
	UniformFloatMat2   UniformType = 0x8B5A
	UniformFloatMat3   UniformType = 0x8B5B
	UniformFloatMat4   UniformType = 0x8B5C
	UniformSampler2D   UniformType = 0x8B5E
	UniformSamplerCube UniformType = 0x8B60
)

// ErrorCode is a device error flag returned by GetError.
type ErrorCode uint32

const (
	NoError                     ErrorCode = 0
	InvalidEnum                 ErrorCode = 0x0500
	InvalidValue                ErrorCode = 0x0501
	InvalidOperation            ErrorCode = 0x0502
	OutOfMemory                 ErrorCode = 0x0505
	InvalidFramebufferOperation ErrorCode = 0x0506
)

func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "NO_ERROR"
	case InvalidEnum:
		return "INVALID_ENUM"
	case InvalidValue:
		return "INVALID_VALUE"
	case InvalidOperation:
		return "INVALID_OPERATION"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("ErrorCode(0x%04X)", uint32(e))
}
