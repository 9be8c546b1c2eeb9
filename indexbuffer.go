package tgl

import (
	"encoding/binary"
)

// IndexBuffer holds 16-bit vertex indices.
type IndexBuffer struct {
	ctx    *Context
	handle Handle
	length int
}

// NewIndexBuffer creates an index buffer and uploads indices.
func NewIndexBuffer(ctx *Context, indices []uint16) *IndexBuffer {
	ib := &IndexBuffer{
		ctx:    ctx,
		handle: ctx.dev.CreateBuffer(),
		length: len(indices),
	}
	ib.Bind()
	raw := make([]byte, 2*len(indices))
	for i, v := range indices {
		binary.LittleEndian.PutUint16(raw[2*i:], v)
	}
	ctx.dev.BufferData(ElementArrayBuffer, raw, StaticDraw)
	ctx.log.Debug("tgl: index buffer created", "handle", ib.handle, "indices", ib.length)
	return ib
}

// Handle returns the device handle of the buffer.
func (ib *IndexBuffer) Handle() Handle { return ib.handle }

// Type returns the index data type, always UnsignedShort.
func (ib *IndexBuffer) Type() DataType { return UnsignedShort }

// Len returns the number of indices.
func (ib *IndexBuffer) Len() int { return ib.length }

// Bind binds the buffer to the element array target.
func (ib *IndexBuffer) Bind() {
	ib.ctx.state.IndexBuffer.Set(ib.handle)
}

// Delete releases the buffer.
func (ib *IndexBuffer) Delete() {
	ib.ctx.dev.DeleteBuffer(ib.handle)
	ib.ctx.state.forgetBuffer(ib.handle)
}
