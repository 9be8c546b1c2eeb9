package tgl

import "errors"

// Configuration and usage errors. Constructors and draw calls wrap these with
// the offending name or value, so match them with errors.Is.
var (
	// ErrNoBuffers is returned by NewDrawable when no vertex buffer is given.
	ErrNoBuffers = errors.New("at least one vertex buffer is required to draw")
	// ErrMissingSource is returned when program source text is empty.
	ErrMissingSource = errors.New("shader source is missing")
	// ErrCompile wraps the device's compile or link log.
	ErrCompile = errors.New("shader compilation failed")
	// ErrUnknownUniform is returned when a uniform name is not active in a program.
	ErrUnknownUniform = errors.New("unknown uniform")
	// ErrUnknownAttribute is returned when an attribute name is not active in a program.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrUnsupportedUniform is returned for uniform types or values that cannot be sent.
	ErrUnsupportedUniform = errors.New("unsupported data type for uniform")
	// ErrTextureUnits is returned when more textures are bound than the device has units.
	ErrTextureUnits = errors.New("maximum texture units exceeded")
	// ErrAttachmentMismatch is returned when a framebuffer attachment's size differs.
	ErrAttachmentMismatch = errors.New("framebuffer attachment size mismatch")
	// ErrFramebufferIncomplete is returned when the device rejects a framebuffer.
	ErrFramebufferIncomplete = errors.New("framebuffer incomplete")
	// ErrInvalidData is returned for vertex, index or pixel data of the wrong shape.
	ErrInvalidData = errors.New("invalid data")
	// ErrDevice wraps error flags reported by Device.GetError.
	ErrDevice = errors.New("device error")
)
