// Package present shows a CPU framebuffer in an ebiten window.
package present

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayInterval is the number of ticks between overlay refreshes.
const overlayInterval = 30

// Source is a framebuffer that can be copied out as top-down RGBA rows,
// such as a *softdevice.Device.
type Source interface {
	Size() (int, int)
	CopyTo(dst []byte)
}

// StepFunc advances the application by dt seconds and renders into the
// source. Returning ebiten.Termination closes the window without error.
type StepFunc func(dt float32) error

// Game is an ebiten.Game that runs a step per tick and presents the source
// every frame.
type Game struct {
	src  Source
	step StepFunc

	pix []byte
	img *ebiten.Image

	info    func() string
	overlay *ebiten.Image
	ticks   int
}

// New returns a Game presenting src.
func New(src Source, step StepFunc) *Game {
	return &Game{src: src, step: step}
}

// ShowStats draws an overlay with FPS, TPS and the lines returned by info,
// refreshed about twice a second. A nil info shows only the rates.
func (g *Game) ShowStats(info func() string) {
	if info == nil {
		info = func() string { return "" }
	}
	g.info = info
}

func (g *Game) Update() error {
	g.ticks++
	if g.step == nil {
		return nil
	}
	return g.step(1 / float32(ebiten.TPS()))
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := g.src.Size()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
		g.pix = make([]byte, 4*w*h)
	}
	g.src.CopyTo(g.pix)
	premultiply(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)

	if g.info != nil {
		g.drawOverlay(screen)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	if g.overlay == nil || g.ticks >= overlayInterval {
		g.ticks = 0
		if g.overlay == nil {
			g.overlay = ebiten.NewImage(200, 64)
		}
		g.overlay.Clear()
		g.overlay.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(g.overlay, g.statsText())
	}
	screen.DrawImage(g.overlay, nil)
}

func (g *Game) statsText() string {
	text := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	if extra := g.info(); extra != "" {
		text += "\n" + extra
	}
	return text
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.src.Size()
}

// Run opens a window scaled by scale and blocks until it is closed.
func Run(title string, scale int, g *Game) error {
	if scale < 1 {
		scale = 1
	}
	w, h := g.src.Size()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

// premultiply converts straight alpha RGBA in place to the premultiplied
// form ebiten images store.
func premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 255 {
			continue
		}
		pix[i] = uint8((uint32(pix[i])*a + 127) / 255)
		pix[i+1] = uint8((uint32(pix[i+1])*a + 127) / 255)
		pix[i+2] = uint8((uint32(pix[i+2])*a + 127) / 255)
	}
}
