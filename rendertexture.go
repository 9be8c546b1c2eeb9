package tgl

import "fmt"

// RenderTexture is a framebuffer with a color texture attached, for drawing
// offscreen and sampling the result.
type RenderTexture struct {
	ctx     *Context
	texture *Texture
	fb      *Framebuffer
}

// NewRenderTexture creates a w x h RGBA render texture with nearest
// filtering and edge clamping.
func NewRenderTexture(ctx *Context, w, h int) (*RenderTexture, error) {
	tex, err := NewTexture(ctx, TextureOptions{
		Width:     w,
		Height:    h,
		FilterMin: Nearest,
		FilterMag: Nearest,
		WrapS:     ClampToEdge,
		WrapT:     ClampToEdge,
	})
	if err != nil {
		return nil, err
	}
	fb, err := NewFramebuffer(ctx, FramebufferOptions{Width: w, Height: h, Color: tex})
	if err != nil {
		tex.Delete()
		return nil, fmt.Errorf("tgl: new render texture: %w", err)
	}
	return &RenderTexture{ctx: ctx, texture: tex, fb: fb}, nil
}

// Texture returns the color texture.
func (rt *RenderTexture) Texture() *Texture { return rt.texture }

// Framebuffer returns the framebuffer drawing into the texture.
func (rt *RenderTexture) Framebuffer() *Framebuffer { return rt.fb }

func (rt *RenderTexture) Width() int  { return rt.fb.Width() }
func (rt *RenderTexture) Height() int { return rt.fb.Height() }

// Render runs fn with the render texture bound as target.
func (rt *RenderTexture) Render(fn func() error) error {
	return rt.fb.Render(fn)
}

// Fill clears the render texture to c.
func (rt *RenderTexture) Fill(c Color) {
	_ = rt.fb.Render(func() error {
		rt.ctx.SetClearColor(c)
		rt.ctx.Clear(ColorBufferBit)
		return nil
	})
}

// Clear clears the render texture to transparent black.
func (rt *RenderTexture) Clear() {
	rt.Fill(ColorTransparent)
}

// Resize replaces the texture and framebuffer with new ones of the given
// size. Contents are lost.
func (rt *RenderTexture) Resize(w, h int) error {
	if w == rt.Width() && h == rt.Height() {
		return nil
	}
	next, err := NewRenderTexture(rt.ctx, w, h)
	if err != nil {
		return err
	}
	rt.Delete()
	*rt = *next
	return nil
}

// Delete releases the framebuffer and texture.
func (rt *RenderTexture) Delete() {
	rt.fb.Delete()
	rt.texture.Delete()
}
