package sprite

import (
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/mode777/tgl"
	"github.com/mode777/tgl/internal/imagecmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCapacity(t *testing.T) {
	dev, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)

	for _, n := range []int{1, 2, 7} {
		b, err := NewBatch(c2d, BatchOptions{Size: n, Texture: tex})
		require.NoError(t, err)
		assert.Equal(t, n, b.Size())
		assert.Len(t, b.Data(), 16*n)
		assert.Equal(t, 6*n, b.IndexCount())

		b.Set(0, Frame{W: 8, H: 8}, nil)
		require.NoError(t, b.Update())
		assert.Len(t, b.Data(), 16*n)
		assert.Equal(t, 6*n, b.IndexCount())
		assert.Len(t, dev.BufferContents(b.drawable.Buffers()[0].Handle()), 2*16*n)
		b.Dispose()
	}
}

func TestBatchSizeLimits(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)

	_, err := NewBatch(c2d, BatchOptions{Size: 0, Texture: tex})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
	_, err = NewBatch(c2d, BatchOptions{Size: MaxBatchSize + 1, Texture: tex})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
	_, err = NewBatch(c2d, BatchOptions{Size: 1})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
	_, err = NewBatch(c2d, BatchOptions{Size: 2, Texture: tex, Sprites: []SpriteDef{{Index: 2}}})
	assert.ErrorIs(t, err, tgl.ErrInvalidData)
}

func TestBatchIndexPattern(t *testing.T) {
	dev, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 3, Texture: tex})
	require.NoError(t, err)

	raw := dev.BufferContents(b.drawable.Indices().Handle())
	require.Len(t, raw, 2*18)
	got := make([]uint16, 18)
	for i := range got {
		got[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	assert.Equal(t, []uint16{
		0, 1, 2, 0, 3, 1,
		4, 5, 6, 4, 7, 5,
		8, 9, 10, 8, 11, 9,
	}, got)
}

func TestBatchPacking(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 2, Texture: tex})
	require.NoError(t, err)

	b.Set(1, Frame{X: 10, Y: 20, W: 30, H: 40}, NewTransform(TransformOptions{X: 100, Y: 50}))
	require.NoError(t, b.Update())

	assert.Equal(t, make([]int16, 16), b.Data()[:16])
	assert.Equal(t, []int16{
		100, 50, 10, 20,
		130, 90, 40, 60,
		130, 50, 40, 20,
		100, 90, 10, 60,
	}, b.Data()[16:])
}

func TestBatchUpdateOnlyRepacksDirty(t *testing.T) {
	dev, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 3, Texture: tex, Sprites: []SpriteDef{
		{Index: 0, Frame: Frame{W: 32, H: 32}, Transform: TransformOptions{X: 50, Y: 50, Rotation: 1}},
		{Index: 1, Frame: Frame{X: 128, Y: 128, W: 32, H: 32}, Transform: TransformOptions{X: 150, Y: 150, Rotation: 2}},
	}})
	require.NoError(t, err)
	require.NoError(t, b.Update())

	first := append([]int16(nil), b.Sprite(0).Data()...)
	empty := append([]int16(nil), b.Sprite(2).Data()...)

	dev.ResetCalls()
	b.Sprite(1).Move(10, 10).Rotate(0.5)
	require.NoError(t, b.Update())
	assert.Equal(t, 1, dev.Calls("BufferSubData"), "one upload per update")
	assert.Equal(t, first, b.Sprite(0).Data())
	assert.Equal(t, empty, b.Sprite(2).Data())

	dev.ResetCalls()
	require.NoError(t, b.Update())
	assert.Zero(t, dev.Calls("BufferSubData"), "nothing changed")
}

func TestBatchSharedTransform(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 1, Texture: tex})
	require.NoError(t, err)

	tr := Identity()
	p := b.Set(0, Frame{W: 10, H: 10}, tr)
	require.NoError(t, b.Update())
	assert.Equal(t, int16(0), p.Data()[0])

	tr.SetX(25)
	require.NoError(t, b.Update())
	assert.Equal(t, int16(25), p.Data()[0])
}

func TestBatchDelete(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 2, Texture: tex})
	require.NoError(t, err)

	p := b.Set(0, Frame{W: 10, H: 10}, NewTransform(TransformOptions{X: 5, Y: 5}))
	require.NoError(t, b.Update())
	assert.True(t, p.Valid())
	assert.NotEqual(t, make([]int16, 16), p.Data())

	b.Delete(0)
	assert.False(t, p.Valid())
	assert.Equal(t, make([]int16, 16), p.Data())
	require.NoError(t, b.Update())
	assert.Len(t, b.Data(), 32)
}

func TestEmptySlotHandles(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 2, Texture: tex})
	require.NoError(t, err)

	// A slot that was never set.
	p := b.Sprite(1)
	require.NotNil(t, p.Transform())
	assert.NotPanics(t, func() {
		p.MoveTo(3, 4).Move(1, 1).RotateTo(0.5).Rotate(0.5).
			ScaleTo(2, 2).Scale(2, 1).MoveOriginTo(1, 1).MoveOrigin(1, 1).Center(true, true)
		p.BoundingBox()
	})
	assert.Equal(t, float32(4), p.Transform().X())
	assert.False(t, p.Valid())
	require.NoError(t, b.Update())
	assert.Equal(t, make([]int16, 16), p.Data(), "empty slots are not packed")

	// A deleted slot.
	q := b.Set(0, Frame{W: 10, H: 10}, NewTransform(TransformOptions{X: 5, Y: 5}))
	require.NoError(t, b.Update())
	b.Delete(0)
	require.NotNil(t, q.Transform())
	assert.Equal(t, float32(0), q.Transform().X(), "deleted slots start from identity")
	assert.NotPanics(t, func() {
		q.BoundingBox()
		q.MoveTo(7, 7)
	})
	require.NoError(t, b.Update())
	assert.Equal(t, make([]int16, 16), q.Data())
}

func TestProxyBoundingBox(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 1, Texture: tex})
	require.NoError(t, err)

	p := b.Set(0, Frame{X: 128, Y: 128, W: 128, H: 128},
		NewTransform(TransformOptions{X: 64, Y: 64, OriginX: 64, OriginY: 64}))
	assert.Equal(t, Rect{X: 0, Y: 0, W: 128, H: 128}, p.BoundingBox())

	p.Move(10, 0)
	assert.Equal(t, Rect{X: 10, Y: 0, W: 128, H: 128}, p.BoundingBox())

	p.Scale(0.5, 0.5)
	assert.Equal(t, Rect{X: 42, Y: 32, W: 64, H: 64}, p.BoundingBox())
}

func TestProxyMutatorsChain(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 1, Texture: tex})
	require.NoError(t, err)

	p := b.Set(0, Frame{W: 40, H: 20}, nil).
		MoveTo(5, 6).Move(1, 1).
		RotateTo(1).Rotate(0.5).
		ScaleTo(2, 3).Scale(2, 2).
		MoveOriginTo(1, 2).MoveOrigin(1, 1).
		Center(true, false)

	tr := p.Transform()
	assert.Equal(t, float32(6), tr.X())
	assert.Equal(t, float32(7), tr.Y())
	assert.InDelta(t, 1.5, tr.Rotation(), 1e-6)
	assert.Equal(t, float32(4), tr.ScaleX())
	assert.Equal(t, float32(6), tr.ScaleY())
	assert.Equal(t, float32(20), tr.OriginX())
	assert.Equal(t, float32(3), tr.OriginY())
	assert.Equal(t, 0, p.Index())
}

func TestProxyFlipInvolution(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 1, Texture: tex})
	require.NoError(t, err)
	p := b.Set(0, Frame{X: 16, Y: 32, W: 64, H: 48}, NewTransform(TransformOptions{X: 10, Y: 10, Rotation: 0.3}))
	require.NoError(t, b.Update())
	orig := append([]int16(nil), p.Data()...)

	for f := FlipFlags(1); f <= flipMask; f++ {
		p.Flip(f)
		assert.NotEqual(t, orig, p.Data(), "flip %v changes texcoords", f)
		p.Flip(f)
		assert.Equal(t, orig, p.Data(), "flip %v twice", f)

		p.FlipTo(f)
		flipped := append([]int16(nil), p.Data()...)
		p.FlipTo(f)
		assert.Equal(t, flipped, p.Data(), "flipTo %v twice", f)
		assert.Equal(t, f, p.Flipped())
		p.FlipTo(0)
		assert.Equal(t, orig, p.Data(), "flipTo none restores %v", f)
	}
}

func TestProxyFlipSurvivesUpdate(t *testing.T) {
	_, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 1, Texture: tex})
	require.NoError(t, err)

	p := b.Set(0, Frame{W: 10, H: 10}, nil).Flip(FlipH)
	require.NoError(t, b.Update())
	flipped := append([]int16(nil), p.Data()...)

	p.Move(3, 0)
	require.NoError(t, b.Update())
	assert.Equal(t, flipped[2:4], p.Data()[2:4])
	assert.Equal(t, []int16{10, 0}, p.Data()[2:4])
}

func TestBatchDrawIsOneCall(t *testing.T) {
	dev, ctx, c2d := newTestContext(t)
	tex, _ := newBlockTexture(t, ctx)
	b, err := NewBatch(c2d, BatchOptions{Size: 50, Texture: tex})
	require.NoError(t, err)
	for i := 0; i < 50; i += 2 {
		b.Set(i, Frame{W: 8, H: 8}, NewTransform(TransformOptions{X: float32(i * 5), Y: 10}))
	}
	require.NoError(t, b.Update())

	dev.ResetCalls()
	ctx.ResetStats()
	require.NoError(t, b.Draw())
	assert.Equal(t, 1, dev.Calls("DrawElements"))
	assert.Zero(t, dev.Calls("DrawArrays"))
	assert.Equal(t, 1, ctx.Stats().DrawCalls)
	require.NoError(t, ctx.CheckErrors())
}

func TestBatchRendersReference(t *testing.T) {
	dev, ctx, c2d := newTestContext(t)
	tex, texImg := newBlockTexture(t, ctx)

	b, err := NewBatch(c2d, BatchOptions{Size: 2, Texture: tex})
	require.NoError(t, err)
	sprites := []placed{
		{Frame{X: 128, Y: 128, W: 128, H: 128}, TransformOptions{X: 120, Y: 120, OriginX: 64, OriginY: 64, Rotation: 1}},
		{Frame{X: 0, Y: 0, W: 128, H: 128}, TransformOptions{X: 200, Y: 120, OriginX: 64, OriginY: 64, Rotation: 1}},
	}
	for i, s := range sprites {
		b.Set(i, s.frame, NewTransform(s.transform))
	}
	require.NoError(t, b.Update())

	ctx.SetClearColor(tgl.ColorBlack)
	ctx.Clear(tgl.ColorBufferBit)
	require.NoError(t, b.Draw())
	require.NoError(t, ctx.CheckErrors())

	got := dev.Image()
	want := reference(texImg, color.NRGBA{A: 255}, sprites)
	res := imagecmp.Compare(want, got)
	if res.Percent() < 97 {
		_ = imagecmp.SaveFailure(t.TempDir(), "batch", want, got)
	}
	assert.GreaterOrEqual(t, res.Percent(), 97.0)
}
