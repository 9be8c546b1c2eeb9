package sprite

import (
	"image"
	"image/color"
	"testing"

	"github.com/mode777/tgl"
	"github.com/mode777/tgl/softdevice"
	"github.com/stretchr/testify/require"
)

const (
	canvasW = 320
	canvasH = 240
)

func newTestContext(t *testing.T) (*softdevice.Device, *tgl.Context, *Context2d) {
	t.Helper()
	dev := softdevice.New(canvasW, canvasH)
	RegisterSoft(dev)
	ctx := tgl.NewContext(dev)
	c2d, err := NewContext2d(ctx)
	require.NoError(t, err)
	return dev, ctx, c2d
}

var blockColors = []color.NRGBA{
	{R: 230, G: 60, B: 60, A: 255},
	{R: 60, G: 200, B: 80, A: 255},
	{R: 50, G: 90, B: 220, A: 255},
	{R: 240, G: 220, B: 70, A: 255},
	{R: 200, G: 80, B: 220, A: 255},
}

// blockImage returns a size x size image of block x block squares in
// distinct colors.
func blockImage(size, block int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	per := size / block
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y/block)*per + x/block
			img.SetNRGBA(x, y, blockColors[i%len(blockColors)])
		}
	}
	return img
}

func newBlockTexture(t *testing.T, ctx *tgl.Context) (*tgl.Texture, *image.NRGBA) {
	t.Helper()
	img := blockImage(256, 64)
	tex, err := tgl.NewTexture(ctx, tgl.TextureOptions{
		Image:     img,
		FilterMin: tgl.Nearest,
		FilterMag: tgl.Nearest,
		WrapS:     tgl.ClampToEdge,
		WrapT:     tgl.ClampToEdge,
	})
	require.NoError(t, err)
	return tex, img
}

type placed struct {
	frame     Frame
	transform TransformOptions
}

// reference renders sprites analytically: every pixel center is mapped back
// into each sprite's frame and takes the texel it lands on. Later sprites
// cover earlier ones.
func reference(tex *image.NRGBA, bg color.NRGBA, sprites []placed) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	ts := make([]*Transform2d, len(sprites))
	for i, s := range sprites {
		ts[i] = NewTransform(s.transform)
	}
	for y := 0; y < canvasH; y++ {
		for x := 0; x < canvasW; x++ {
			c := bg
			for i, s := range sprites {
				lx, ly := ts[i].Inverse(float32(x)+0.5, float32(y)+0.5)
				if lx >= 0 && ly >= 0 && lx < float32(s.frame.W) && ly < float32(s.frame.H) {
					c = tex.NRGBAAt(s.frame.X+int(lx), s.frame.Y+int(ly))
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
