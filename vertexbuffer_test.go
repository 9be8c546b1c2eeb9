package tgl_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/mode777/tgl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexBufferLayout(t *testing.T) {
	_, ctx := newDevice(t, 8, 8)
	vb, err := tgl.NewVertexBuffer(ctx, tgl.BufferOptions{
		Data: make([]int16, 24),
		Attributes: []tgl.AttributeOptions{
			{Name: "aPos", Components: 2, Type: tgl.Short},
			{Name: "aColor", Components: 4, Type: tgl.UnsignedByte, Normalized: true},
			{Name: "aPad", Components: 1, Type: tgl.Float, Offset: 2, HasOffset: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []tgl.AttributeInfo{
		{Name: "aPos", Components: 2, Type: tgl.Short, Offset: 0},
		{Name: "aColor", Components: 4, Type: tgl.UnsignedByte, Normalized: true, Offset: 4},
		{Name: "aPad", Components: 1, Type: tgl.Float, Offset: 2},
	}, vb.Attributes())
	assert.Equal(t, 12, vb.VertexSize())
	assert.Equal(t, 48, vb.Size())
	assert.Equal(t, 4, vb.VertexCount())
}

func TestVertexBufferDefaults(t *testing.T) {
	_, ctx := newDevice(t, 8, 8)
	vb, err := tgl.NewVertexBuffer(ctx, tgl.BufferOptions{
		Data:       fullQuad,
		Attributes: quadAttributes,
	})
	require.NoError(t, err)
	assert.Equal(t, tgl.Float, vb.Attributes()[0].Type)
	assert.Equal(t, 16, vb.VertexSize())
	assert.Equal(t, 6, vb.VertexCount())

	_, err = tgl.NewVertexBuffer(ctx, tgl.BufferOptions{Data: fullQuad})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
	_, err = tgl.NewVertexBuffer(ctx, tgl.BufferOptions{Data: []string{"x"}, Attributes: quadAttributes})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
}

func TestVertexBufferEncodesLittleEndian(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	vb, err := tgl.NewVertexBuffer(ctx, tgl.BufferOptions{
		Data:       []float32{1.5, -2},
		Attributes: []tgl.AttributeOptions{{Name: "a", Components: 1}},
	})
	require.NoError(t, err)

	raw := dev.BufferContents(vb.Handle())
	require.Len(t, raw, 8)
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	assert.Equal(t, float32(-2), math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])))

	require.NoError(t, vb.SetData([]float64{3}))
	assert.Equal(t, 4, vb.Size())
	raw = dev.BufferContents(vb.Handle())
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(raw)))
}

func TestVertexBufferSubData(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	vb, err := tgl.NewVertexBuffer(ctx, tgl.BufferOptions{
		Usage:      tgl.DynamicDraw,
		Data:       make([]int16, 8),
		Attributes: []tgl.AttributeOptions{{Name: "a", Components: 2, Type: tgl.Short}},
	})
	require.NoError(t, err)
	dev.ResetCalls()

	require.NoError(t, vb.SubData(4, []int16{-1, 7}))
	assert.Equal(t, 1, dev.Calls("BufferSubData"))
	assert.Zero(t, dev.Calls("BufferData"), "no reallocation")

	raw := dev.BufferContents(vb.Handle())
	assert.Equal(t, []byte{0, 0, 0, 0, 0xff, 0xff, 7, 0, 0, 0}, raw[:10])

	err = vb.SubData(14, []int16{1, 2})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
	err = vb.SubData(-2, []int16{1})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
	assert.Equal(t, 1, dev.Calls("BufferSubData"))
}

func TestVertexBufferBindIsCached(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	vb, err := tgl.NewVertexBuffer(ctx, tgl.BufferOptions{Data: fullQuad, Attributes: quadAttributes})
	require.NoError(t, err)
	dev.ResetCalls()

	vb.Bind()
	vb.Bind()
	assert.Zero(t, dev.Calls("BindBuffer"))

	assert.ErrorIs(t, vb.EnableAttribute("aMissing", 0), tgl.ErrUnknownAttribute)
	require.NoError(t, vb.EnableAttribute("aUV", 1))
	assert.Equal(t, 1, dev.Calls("VertexAttribPointer"))

	vb.Delete()
	assert.Equal(t, tgl.Handle(0), ctx.State().VertexBuffer.Get())
}

func TestIndexBuffer(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	ib := tgl.NewIndexBuffer(ctx, []uint16{0, 1, 2, 0x0102})

	assert.Equal(t, 4, ib.Len())
	assert.Equal(t, tgl.UnsignedShort, ib.Type())
	assert.Equal(t, []byte{0, 0, 1, 0, 2, 0, 2, 1}, dev.BufferContents(ib.Handle()))
	assert.Equal(t, ib.Handle(), ctx.State().IndexBuffer.Get())

	ib.Delete()
	assert.Equal(t, tgl.Handle(0), ctx.State().IndexBuffer.Get())
}
