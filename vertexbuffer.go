package tgl

import (
	"encoding/binary"
	"fmt"
)

// AttributeOptions declares one vertex attribute of a buffer.
type AttributeOptions struct {
	Name       string
	Components int
	// Type defaults to Float.
	Type       DataType
	Normalized bool
	// Offset is used as the byte offset when HasOffset is set. Otherwise the
	// attribute starts where the previous one ended.
	Offset    int
	HasOffset bool
}

// AttributeInfo is the resolved layout of one attribute.
type AttributeInfo struct {
	Name       string
	Components int
	Type       DataType
	Normalized bool
	Offset     int
}

// BufferOptions describes a vertex buffer to create.
type BufferOptions struct {
	// Usage defaults to StaticDraw.
	Usage BufferUsage
	// Data is []float32, []int16, []uint16, []int8, []uint8, []int32,
	// []uint32 or raw []byte.
	Data       any
	Attributes []AttributeOptions
}

// VertexBuffer holds interleaved vertex data described by a list of
// attributes.
type VertexBuffer struct {
	ctx        *Context
	handle     Handle
	usage      BufferUsage
	attributes []AttributeInfo
	vertexSize int
	size       int
}

// NewVertexBuffer computes the attribute layout, creates the buffer and
// uploads opts.Data.
func NewVertexBuffer(ctx *Context, opts BufferOptions) (*VertexBuffer, error) {
	if len(opts.Attributes) == 0 {
		return nil, fmt.Errorf("tgl: new vertex buffer: %w: no attributes declared", ErrInvalidData)
	}
	data, err := encodeData(opts.Data)
	if err != nil {
		return nil, fmt.Errorf("tgl: new vertex buffer: %w", err)
	}
	if opts.Usage == 0 {
		opts.Usage = StaticDraw
	}
	attrs, stride := layoutAttributes(opts.Attributes)

	b := &VertexBuffer{
		ctx:        ctx,
		handle:     ctx.dev.CreateBuffer(),
		usage:      opts.Usage,
		attributes: attrs,
		vertexSize: stride,
		size:       len(data),
	}
	b.Bind()
	ctx.dev.BufferData(ArrayBuffer, data, b.usage)
	ctx.log.Debug("tgl: vertex buffer created",
		"handle", b.handle,
		"bytes", b.size,
		"stride", b.vertexSize)
	return b, nil
}

// layoutAttributes assigns offsets in declaration order and returns the
// per-vertex stride.
func layoutAttributes(in []AttributeOptions) ([]AttributeInfo, int) {
	out := make([]AttributeInfo, len(in))
	offset := 0
	for i, a := range in {
		typ := a.Type
		if typ == 0 {
			typ = Float
		}
		info := AttributeInfo{
			Name:       a.Name,
			Components: a.Components,
			Type:       typ,
			Normalized: a.Normalized,
			Offset:     offset,
		}
		if a.HasOffset {
			info.Offset = a.Offset
		}
		out[i] = info
		offset += typ.Size() * a.Components
	}
	return out, offset
}

// Handle returns the device handle of the buffer.
func (b *VertexBuffer) Handle() Handle { return b.handle }

// Attributes returns the resolved attribute layout.
func (b *VertexBuffer) Attributes() []AttributeInfo { return b.attributes }

// VertexSize returns the stride of one vertex in bytes.
func (b *VertexBuffer) VertexSize() int { return b.vertexSize }

// Size returns the size of the buffer contents in bytes.
func (b *VertexBuffer) Size() int { return b.size }

// VertexCount returns the number of whole vertices in the buffer.
func (b *VertexBuffer) VertexCount() int {
	if b.vertexSize == 0 {
		return 0
	}
	return b.size / b.vertexSize
}

// Bind binds the buffer to the array buffer target.
func (b *VertexBuffer) Bind() {
	b.ctx.state.VertexBuffer.Set(b.handle)
}

// SubData replaces part of the buffer contents starting at the byte offset
// without reallocating.
func (b *VertexBuffer) SubData(offset int, data any) error {
	raw, err := encodeData(data)
	if err != nil {
		return fmt.Errorf("tgl: vertex buffer sub data: %w", err)
	}
	if offset < 0 || offset+len(raw) > b.size {
		return fmt.Errorf("tgl: vertex buffer sub data: %w: %d bytes at offset %d exceed size %d",
			ErrInvalidData, len(raw), offset, b.size)
	}
	b.Bind()
	b.ctx.dev.BufferSubData(ArrayBuffer, offset, raw)
	return nil
}

// SetData reallocates the buffer and uploads data.
func (b *VertexBuffer) SetData(data any) error {
	raw, err := encodeData(data)
	if err != nil {
		return fmt.Errorf("tgl: vertex buffer data: %w", err)
	}
	b.Bind()
	b.ctx.dev.BufferData(ArrayBuffer, raw, b.usage)
	b.size = len(raw)
	return nil
}

// EnableAttribute binds the buffer and points the attribute at location to
// the named attribute's layout.
func (b *VertexBuffer) EnableAttribute(name string, location int) error {
	for _, a := range b.attributes {
		if a.Name != name {
			continue
		}
		b.Bind()
		b.ctx.dev.EnableVertexAttribArray(location)
		b.ctx.dev.VertexAttribPointer(location, a.Components, a.Type, a.Normalized, b.vertexSize, a.Offset)
		return nil
	}
	return fmt.Errorf("tgl: %w: %q not declared by buffer", ErrUnknownAttribute, name)
}

// Delete releases the buffer.
func (b *VertexBuffer) Delete() {
	b.ctx.dev.DeleteBuffer(b.handle)
	b.ctx.state.forgetBuffer(b.handle)
}

// encodeData converts typed slices into little-endian bytes.
func encodeData(data any) ([]byte, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case []byte:
		return d, nil
	case []float32, []int16, []uint16, []int8, []int32, []uint32:
		return binary.Append(nil, binary.LittleEndian, d)
	case []float64:
		f := make([]float32, len(d))
		for i, v := range d {
			f[i] = float32(v)
		}
		return binary.Append(nil, binary.LittleEndian, f)
	}
	return nil, fmt.Errorf("%w: unsupported data type %T", ErrInvalidData, data)
}
