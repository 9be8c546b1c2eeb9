package tgl_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mode777/tgl"
	"github.com/mode777/tgl/softdevice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawLowerRight(t *testing.T, ctx *tgl.Context, c [4]float32) {
	t.Helper()
	d := newQuad(t, ctx, tgl.DrawableOptions{})
	d.SetUniform("uColor", c)
	require.NoError(t, d.Draw(tgl.Triangles, 0, 3))
}

func TestContextCheckErrors(t *testing.T) {
	dev, ctx := newDevice(t, 4, 4)
	require.NoError(t, ctx.CheckErrors())

	dev.BindTexture(999)
	dev.ActiveTexture(99)
	err := ctx.CheckErrors()
	require.ErrorIs(t, err, tgl.ErrDevice)
	assert.Equal(t, 2, strings.Count(err.Error(), "device error"))

	assert.NoError(t, ctx.CheckErrors(), "flags are drained")
}

func TestContextReadPixelsIsTopDown(t *testing.T) {
	dev, ctx := newDevice(t, 8, 8)
	drawLowerRight(t, ctx, [4]float32{1, 0, 0, 1})

	img := ctx.ReadPixels(image.Rect(0, 0, 8, 8))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(7, 7))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
	assert.Equal(t, dev.Image().Pix, img.Pix)

	// Rows 0-3 from the bottom, columns 4-7: all below the diagonal.
	part := ctx.ReadPixels(image.Rect(4, 0, 8, 4))
	assert.Equal(t, image.Rect(0, 0, 4, 4), part.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, color.NRGBA{R: 255, A: 255}, part.NRGBAAt(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestContextScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	dev := softdevice.New(8, 4)
	ctx := tgl.NewContext(dev, tgl.WithScreenshotDir(dir))
	ctx.SetClearColor(tgl.ColorWhite)
	ctx.Clear(tgl.ColorBufferBit)

	path, err := ctx.Screenshot("my shot/1")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_my_shot_1.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	r, g, b, a := img.At(3, 2).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})

	path, err = ctx.Screenshot("  ")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_unlabeled.png"), path)
}

func TestContextScreenshotNames(t *testing.T) {
	dir := t.TempDir()
	ctx := tgl.NewContext(softdevice.New(2, 2), tgl.WithScreenshotDir(dir))

	cases := map[string]string{
		"title-1.0": "_title-1.0.png",
		" padded ":  "_padded.png",
		"a:b*c?":    "_a_b_c_.png",
		"café":      "_caf_.png",
		"../escape": "_.._escape.png",
		"":          "_unlabeled.png",
		"tab\there": "_tab_here.png",
	}
	for label, suffix := range cases {
		path, err := ctx.Screenshot(label)
		require.NoError(t, err, label)
		assert.Equal(t, dir, filepath.Dir(path), label)
		assert.True(t, strings.HasSuffix(path, suffix), "%q -> %s", label, path)

		f, err := os.Open(path)
		require.NoError(t, err, label)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err, label)
		assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds(), label)
	}
}

func TestContextViewport(t *testing.T) {
	dev := softdevice.New(16, 16)
	ctx := tgl.NewContext(dev, tgl.WithViewport(8, 4))
	w, h := ctx.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, [4]int32{0, 0, 8, 4}, dev.Snapshot().Viewport)

	ctx.Resize(32, 16)
	w, h = ctx.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
	assert.Same(t, dev, ctx.Device().(*softdevice.Device))
}

func TestContextSetBlendMode(t *testing.T) {
	_, ctx := newDevice(t, 4, 4)
	st := ctx.State()

	ctx.SetBlendMode(tgl.BlendAdd)
	assert.True(t, st.Blending.Get())
	assert.Equal(t, tgl.BlendAdd.BlendFunc(), st.BlendFunc.Get())
	assert.Equal(t, tgl.FuncAdd, st.BlendEquationRGB.Get())

	ctx.SetBlendMode(tgl.BlendNone)
	assert.False(t, st.Blending.Get())
	assert.Equal(t, tgl.BlendAdd.BlendFunc(), st.BlendFunc.Get(), "factors are kept")

	assert.Equal(t, tgl.BlendFunc{tgl.SrcAlpha, tgl.OneMinusSrcAlpha, tgl.One, tgl.OneMinusSrcAlpha},
		tgl.BlendNormal.BlendFunc())
}

func TestContextBlendsWithCache(t *testing.T) {
	dev, ctx := newDevice(t, 4, 4)
	ctx.SetClearColor(tgl.ColorWhite)
	ctx.Clear(tgl.ColorBufferBit)

	ctx.SetBlendMode(tgl.BlendMultiply)
	d := newQuad(t, ctx, tgl.DrawableOptions{})
	d.SetUniform("uColor", [4]float32{1, 0, 0, 1})
	require.NoError(t, d.DrawTriangles())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, dev.Image().NRGBAAt(2, 2))
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := tgl.NewContext(softdevice.New(4, 4), tgl.WithLogger(l))
	assert.Same(t, l, ctx.Log())
	assert.Contains(t, buf.String(), "tgl: context created")

	buf.Reset()
	ctx.ResetStats()
	ctx.LogStats()
	assert.Contains(t, buf.String(), "drawCalls=0")
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { tgl.SetLogger(nil) })
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tgl.SetLogger(l)
	assert.Same(t, l, tgl.Logger())
	ctx := tgl.NewContext(softdevice.New(4, 4))
	assert.Same(t, l, ctx.Log())

	tgl.SetLogger(nil)
	assert.False(t, tgl.Logger().Enabled(t.Context(), slog.LevelError))
}

func TestStatsString(t *testing.T) {
	s := tgl.Stats{DrawCalls: 2, StateWrites: 5, SuppressedWrites: 7}
	assert.Equal(t, "draw calls: 2 | state writes: 5 | suppressed: 7", s.String())
}
