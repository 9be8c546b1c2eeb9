// Package demo builds the animated sprite batch drawn by the demo commands.
// It is independent of the window and the device backend.
package demo

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/mode777/tgl"
	"github.com/mode777/tgl/internal/config"
	"github.com/mode777/tgl/sprite"
	"github.com/tanema/gween/ease"
)

// Background is the clear color of the demo canvas.
var Background = tgl.Color{R: 0.06, G: 0.06, B: 0.09, A: 1}

// Scene is a sprite batch whose sprites spin and pulse with looping tweens.
type Scene struct {
	ctx     *tgl.Context
	c2d     *sprite.Context2d
	texture *tgl.Texture
	batch   *sprite.Batch
	program *tgl.Program

	tweens []*sprite.TweenGroup
}

// New builds the scene described by cfg. Without a layout, cfg.BatchSize
// sprites showing the whole texture are laid out on a grid covering the
// viewport.
func New(ctx *tgl.Context, cfg config.Sprites) (*Scene, error) {
	c2d, err := sprite.NewContext2d(ctx)
	if err != nil {
		return nil, err
	}
	s := &Scene{ctx: ctx, c2d: c2d}
	if err := s.build(cfg); err != nil {
		s.Delete()
		return nil, fmt.Errorf("demo: %w", err)
	}
	return s, nil
}

func (s *Scene) build(cfg config.Sprites) error {
	var err error
	if cfg.Texture != "" {
		s.texture, err = tgl.LoadTexture(s.ctx, cfg.Texture, tgl.TextureOptions{
			FilterMin: tgl.Nearest,
			FilterMag: tgl.Nearest,
		})
	} else {
		s.texture, err = tgl.NewTexture(s.ctx, tgl.TextureOptions{
			Image:     Checker(64, 16),
			FilterMin: tgl.Nearest,
			FilterMag: tgl.Nearest,
		})
	}
	if err != nil {
		return err
	}

	var opts sprite.BatchOptions
	if cfg.Layout != "" {
		opts, err = s.layoutOptions(cfg)
	} else {
		opts = s.gridOptions(cfg.BatchSize)
	}
	if err != nil {
		return err
	}
	s.batch, err = sprite.NewBatch(s.c2d, opts)
	if err != nil {
		return err
	}

	for i := 0; i < s.batch.Size(); i++ {
		if p := s.batch.Sprite(i); p.Valid() {
			s.animate(i, p.Transform())
		}
	}
	return nil
}

func (s *Scene) layoutOptions(cfg config.Sprites) (sprite.BatchOptions, error) {
	layout, err := sprite.LoadLayoutFile(cfg.Layout)
	if err != nil {
		return sprite.BatchOptions{}, err
	}
	var atlas *sprite.Atlas
	if cfg.Atlas != "" {
		if atlas, err = sprite.LoadAtlasFile(cfg.Atlas); err != nil {
			return sprite.BatchOptions{}, err
		}
	}
	if err := layout.Resolve(atlas); err != nil {
		return sprite.BatchOptions{}, err
	}
	return layout.BatchOptions(s.texture), nil
}

func (s *Scene) gridOptions(n int) sprite.BatchOptions {
	w, h := s.ctx.Size()
	cols := int(math32.Ceil(math32.Sqrt(float32(n) * float32(w) / float32(max(h, 1)))))
	cols = max(cols, 1)
	rows := (n + cols - 1) / cols
	cellW := float32(w) / float32(cols)
	cellH := float32(h) / float32(rows)

	frame := sprite.Frame{W: s.texture.Width(), H: s.texture.Height()}
	scale := 0.8 * min(cellW/float32(frame.W), cellH/float32(frame.H))
	defs := make([]sprite.SpriteDef, n)
	for i := range defs {
		defs[i] = sprite.SpriteDef{
			Index: i,
			Frame: frame,
			Transform: sprite.TransformOptions{
				X:       (float32(i%cols) + 0.5) * cellW,
				Y:       (float32(i/cols) + 0.5) * cellH,
				OriginX: float32(frame.W) / 2,
				OriginY: float32(frame.H) / 2,
				ScaleX:  scale,
				ScaleY:  scale,
			},
		}
		if i%3 == 1 {
			defs[i].Flip = sprite.FlipH
		}
	}
	return sprite.BatchOptions{Size: n, Texture: s.texture, Program: s.program, Sprites: defs}
}

// animate gives sprite i a spin and, on every other sprite, a pulse.
func (s *Scene) animate(i int, t *sprite.Transform2d) {
	period := 2 + float32(i%4)*0.5
	s.tweens = append(s.tweens, sprite.TweenRotation(t, t.Rotation()+2*math32.Pi, period, ease.InOutQuad))
	if i%2 == 0 {
		sx, sy := t.ScaleX(), t.ScaleY()
		s.tweens = append(s.tweens, sprite.TweenScale(t, sx*1.25, sy*1.25, period/2, ease.InOutSine))
	}
}

// Update advances the tweens by dt seconds, restarting finished ones, and
// repacks the batch.
func (s *Scene) Update(dt float32) error {
	for _, tw := range s.tweens {
		tw.Update(dt)
		if tw.Done {
			tw.Reset()
		}
	}
	return s.batch.Update()
}

// Draw clears the bound framebuffer and draws the batch.
func (s *Scene) Draw() error {
	s.ctx.SetClearColor(Background)
	s.ctx.Clear(tgl.ColorBufferBit)
	return s.batch.Draw()
}

// Batch returns the batch of the scene.
func (s *Scene) Batch() *sprite.Batch { return s.batch }

// Context2d returns the 2D context the scene draws with.
func (s *Scene) Context2d() *sprite.Context2d { return s.c2d }

// SetProgram rebuilds the batch drawing with p, keeping every sprite's frame,
// flip and transform so running tweens continue. A nil p selects the
// built-in 2D program. The previous custom program is deleted.
func (s *Scene) SetProgram(p *tgl.Program) error {
	old := s.batch
	next, err := sprite.NewBatch(s.c2d, sprite.BatchOptions{
		Size:    old.Size(),
		Texture: s.texture,
		Program: p,
	})
	if err != nil {
		return fmt.Errorf("demo: set program: %w", err)
	}
	for i := 0; i < old.Size(); i++ {
		src := old.Sprite(i)
		if !src.Valid() {
			continue
		}
		next.Set(i, src.Frame(), src.Transform()).FlipTo(src.Flipped())
	}
	old.Dispose()
	if s.program != nil && s.program != p {
		s.program.Delete()
	}
	s.batch = next
	s.program = p
	return nil
}

// Delete releases every resource of the scene.
func (s *Scene) Delete() {
	if s.batch != nil {
		s.batch.Dispose()
	}
	if s.program != nil {
		s.program.Delete()
	}
	if s.texture != nil {
		s.texture.Delete()
	}
	s.c2d.Delete()
}

// Checker returns a size x size checkerboard of cell x cell squares with
// a colored diagonal, so flips and rotations are visible.
func Checker(size, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	light := color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	dark := color.NRGBA{R: 60, G: 70, B: 90, A: 255}
	mark := color.NRGBA{R: 240, G: 120, B: 40, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dark
			if (x/cell+y/cell)%2 == 0 {
				c = light
			}
			if x/cell == y/cell && x < size/2 {
				c = mark
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
