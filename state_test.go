package tgl_test

import (
	"testing"

	"github.com/mode777/tgl"
	"github.com/mode777/tgl/softdevice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Seeding ---

func TestStateCacheSeedsFromDevice(t *testing.T) {
	dev, ctx := newDevice(t, 64, 32)
	st := ctx.State()

	assert.Equal(t, 1, dev.Calls("Snapshot"))
	assert.Equal(t, [4]int32{0, 0, 64, 32}, st.Viewport.Get())
	assert.Equal(t, [4]bool{true, true, true, true}, st.ColorMask.Get())
	assert.Equal(t, tgl.CullBack, st.CullFaceMode.Get())
	assert.Equal(t, float32(1), st.ClearDepth.Get())
	assert.Equal(t, 16, st.MaxTextureUnits())
	assert.Zero(t, st.Depth())
}

// --- Suppression ---

func TestSlotSetIsIdempotent(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	st := ctx.State()
	dev.ResetCalls()

	assert.True(t, st.Blending.Set(true))
	assert.False(t, st.Blending.Set(true))
	assert.Equal(t, 1, dev.Calls("SetEnabled"))

	assert.True(t, st.DepthFunc.Set(tgl.DepthLEqual))
	assert.False(t, st.DepthFunc.Set(tgl.DepthLEqual))
	assert.Equal(t, 1, dev.Calls("DepthFunc"))

	assert.False(t, st.Blending.Set(true))
	assert.Equal(t, 1, dev.Calls("SetEnabled"))
}

func TestArraySlotsCompareElementwise(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	st := ctx.State()
	dev.ResetCalls()

	st.ClearColor.Set([4]float32{0.1, 0.2, 0.3, 1})
	c := [4]float32{0.1, 0.2, 0.3, 1}
	assert.False(t, st.ClearColor.Set(c), "a fresh array with equal values")
	assert.Equal(t, 1, dev.Calls("ClearColor"))

	c[3] = 0.5
	assert.True(t, st.ClearColor.Set(c))
	assert.Equal(t, 2, dev.Calls("ClearColor"))

	st.Viewport.Set([4]int32{0, 0, 8, 8})
	assert.Zero(t, dev.Calls("Viewport"))
	st.ColorMask.Set([4]bool{true, true, true, false})
	st.ColorMask.Set([4]bool{true, true, true, false})
	assert.Equal(t, 1, dev.Calls("ColorMask"))
}

func TestSetCachedSkipsDevice(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	st := ctx.State()
	dev.ResetCalls()

	st.Program.SetCached(7)
	assert.Equal(t, tgl.Handle(7), st.Program.Get())
	assert.Zero(t, dev.Calls("UseProgram"))

	st.Program.Set(7)
	assert.Zero(t, dev.Calls("UseProgram"))
}

func TestBlendEquationSlotsKeepEachOther(t *testing.T) {
	_, ctx := newDevice(t, 8, 8)
	st := ctx.State()

	st.BlendEquationRGB.Set(tgl.FuncReverseSubtract)
	st.BlendEquationAlpha.Set(tgl.FuncSubtract)
	snap := ctx.Device().Snapshot()
	assert.Equal(t, tgl.FuncReverseSubtract, snap.BlendEquationRGB)
	assert.Equal(t, tgl.FuncSubtract, snap.BlendEquationAlpha)
}

func TestStats(t *testing.T) {
	_, ctx := newDevice(t, 8, 8)
	st := ctx.State()
	ctx.ResetStats()

	st.DepthTest.Set(true)
	st.DepthTest.Set(true)
	st.DepthTest.Set(true)
	s := ctx.Stats()
	assert.Equal(t, 1, s.StateWrites)
	assert.Equal(t, 2, s.SuppressedWrites)
	assert.Contains(t, s.String(), "suppressed: 2")

	ctx.ResetStats()
	assert.Equal(t, tgl.Stats{}, ctx.Stats())
}

// --- Textures ---

func TestTextureSlotTracksUnits(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8, softdevice.WithMaxTextureUnits(4))
	st := ctx.State()
	require.Equal(t, 4, st.MaxTextureUnits())
	dev.ResetCalls()

	st.ActiveTexture.Set(0)
	st.Texture.Set(5)
	st.ActiveTexture.Set(2)
	st.Texture.Set(5)
	assert.Equal(t, 2, dev.Calls("BindTexture"), "same texture, different units")

	st.ActiveTexture.Set(0)
	assert.False(t, st.Texture.Set(5))
	assert.Equal(t, tgl.Handle(5), st.Texture.Unit(2))
	assert.Equal(t, 2, dev.Calls("BindTexture"))
}

func TestActiveTextureOutOfRangePanics(t *testing.T) {
	_, ctx := newDevice(t, 8, 8, softdevice.WithMaxTextureUnits(2))
	assert.Panics(t, func() { ctx.State().ActiveTexture.Set(2) })
}

// --- Snapshots ---

func TestPushPopRestores(t *testing.T) {
	dev, ctx := newDevice(t, 32, 32)
	st := ctx.State()
	before := st.Snapshot()

	st.Push()
	assert.Equal(t, 1, st.Depth())
	st.Blending.Set(true)
	st.BlendFunc.Set(tgl.BlendNormal.BlendFunc())
	st.Viewport.Set([4]int32{1, 2, 3, 4})
	st.ClearColor.Set([4]float32{1, 0, 0, 1})
	st.ActiveTexture.Set(3)
	st.Texture.Set(9)

	st.Pop()
	assert.Zero(t, st.Depth())
	assert.Equal(t, before, st.Snapshot())
	assert.Equal(t, before, dev.Snapshot(), "device agrees with the cache")
}

func TestPopOnlyWritesChangedSlots(t *testing.T) {
	dev, ctx := newDevice(t, 32, 32)
	st := ctx.State()

	st.Push()
	st.DepthTest.Set(true)
	dev.ResetCalls()
	st.Pop()
	assert.Equal(t, 1, dev.Calls("SetEnabled"))
	assert.Equal(t, 1, dev.TotalCalls())
}

func TestNestedPushPop(t *testing.T) {
	_, ctx := newDevice(t, 32, 32)
	st := ctx.State()

	st.Push()
	st.CullFaceMode.Set(tgl.CullFront)
	st.Push()
	st.CullFaceMode.Set(tgl.CullFrontAndBack)
	st.Pop()
	assert.Equal(t, tgl.CullFront, st.CullFaceMode.Get())
	st.Pop()
	assert.Equal(t, tgl.CullBack, st.CullFaceMode.Get())

	// Pop without Push restores the base state.
	st.CullFaceMode.Set(tgl.CullFront)
	st.Pop()
	assert.Equal(t, tgl.CullBack, st.CullFaceMode.Get())
}

func TestReset(t *testing.T) {
	_, ctx := newDevice(t, 32, 32)
	st := ctx.State()
	st.Push()
	st.Push()
	st.ScissorTest.Set(true)
	st.Reset()
	assert.Zero(t, st.Depth())
	assert.False(t, st.ScissorTest.Get())
}

func TestSnapshotString(t *testing.T) {
	_, ctx := newDevice(t, 32, 32)
	s := ctx.State().State()
	assert.Contains(t, s, "viewport:")
	assert.Contains(t, s, "[0 0 32 32]")
	assert.Contains(t, s, "maxTextureUnits:")
}

func TestSnapshotClone(t *testing.T) {
	a := tgl.Snapshot{Textures: []tgl.Handle{1, 2}}
	b := a.Clone()
	b.Textures[0] = 9
	assert.Equal(t, tgl.Handle(1), a.Textures[0])
}

// --- Listeners ---

func TestSlotListeners(t *testing.T) {
	_, ctx := newDevice(t, 32, 32)
	vp := ctx.State().Viewport

	var got [][4]int32
	id := vp.On(func(v [4]int32) { got = append(got, v) })

	vp.Set([4]int32{0, 0, 10, 10})
	vp.Set([4]int32{0, 0, 10, 10})
	ctx.Resize(20, 20)
	assert.Equal(t, [][4]int32{{0, 0, 10, 10}, {0, 0, 20, 20}}, got)

	vp.Off(id)
	vp.Set([4]int32{0, 0, 5, 5})
	assert.Len(t, got, 2)

	w, h := ctx.Size()
	assert.Equal(t, 5, w)
	assert.Equal(t, 5, h)
}

func TestListenersFireOnPop(t *testing.T) {
	_, ctx := newDevice(t, 32, 32)
	st := ctx.State()
	n := 0
	st.Viewport.On(func([4]int32) { n++ })

	st.Push()
	st.Viewport.Set([4]int32{0, 0, 1, 1})
	st.Pop()
	assert.Equal(t, 2, n)
	assert.Equal(t, [4]int32{0, 0, 32, 32}, st.Viewport.Get())
}
