package tgl

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// TextureOptions describes a 2D texture. Zero fields take the defaults:
// RGBA, unsigned byte pixels, linear filtering and repeat wrapping.
type TextureOptions struct {
	Level     int
	Format    PixelFormat
	PixelType PixelType
	FilterMin Filter
	FilterMag Filter
	WrapS     WrapMode
	WrapT     WrapMode

	// Width and Height are required with Pixels. Without any source they
	// allocate uninitialized storage, for example for a render target.
	Width, Height int
	Pixels        []byte
	Image         image.Image
}

func (o *TextureOptions) applyDefaults() {
	if o.Format == 0 {
		o.Format = RGBA
	}
	if o.PixelType == 0 {
		o.PixelType = PixelUnsignedByte
	}
	if o.FilterMin == 0 {
		o.FilterMin = Linear
	}
	if o.FilterMag == 0 {
		o.FilterMag = Linear
	}
	if o.WrapS == 0 {
		o.WrapS = Repeat
	}
	if o.WrapT == 0 {
		o.WrapT = Repeat
	}
}

// Texture is a 2D texture.
type Texture struct {
	ctx    *Context
	handle Handle
	opts   TextureOptions
	width  int
	height int
}

// NewTexture creates a texture and uploads its source, if any.
func NewTexture(ctx *Context, opts TextureOptions) (*Texture, error) {
	opts.applyDefaults()
	if opts.Pixels != nil && (opts.Width <= 0 || opts.Height <= 0) {
		return nil, fmt.Errorf("tgl: new texture: %w: pixel data requires width and height", ErrInvalidData)
	}
	t := &Texture{
		ctx:    ctx,
		handle: ctx.dev.CreateTexture(),
		opts:   opts,
	}

	switch {
	case opts.Image != nil:
		t.SetImage(opts.Image)
	case opts.Pixels != nil:
		if err := t.SetData(opts.Pixels, opts.Width, opts.Height); err != nil {
			t.Delete()
			return nil, err
		}
	case opts.Width > 0 && opts.Height > 0:
		t.bind()
		ctx.dev.TexImage2D(opts.Level, opts.Format, opts.Width, opts.Height, opts.PixelType, nil)
		t.width, t.height = opts.Width, opts.Height
	default:
		t.bind()
		ctx.log.Warn("tgl: created an empty texture", "handle", t.handle)
	}

	t.SetFilter(opts.FilterMin, opts.FilterMag)
	t.SetWrapping(opts.WrapS, opts.WrapT)
	ctx.log.Debug("tgl: texture created", "handle", t.handle, "width", t.width, "height", t.height)
	return t, nil
}

// Handle returns the device handle of the texture.
func (t *Texture) Handle() Handle { return t.handle }

// Width returns the width of the texture in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height of the texture in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the pixel format of the texture.
func (t *Texture) Format() PixelFormat { return t.opts.Format }

// Bind binds the texture to unit and returns the unit.
func (t *Texture) Bind(unit int) int {
	t.ctx.state.ActiveTexture.Set(unit)
	t.ctx.state.Texture.Set(t.handle)
	return unit
}

// bind binds the texture to the active unit for a mutation.
func (t *Texture) bind() {
	t.ctx.state.Texture.Set(t.handle)
}

// SetFilter sets the minification and magnification filters.
func (t *Texture) SetFilter(minFilter, magFilter Filter) {
	t.bind()
	t.ctx.dev.TexParameteri(TextureMinFilter, int32(minFilter))
	t.ctx.dev.TexParameteri(TextureMagFilter, int32(magFilter))
	t.opts.FilterMin, t.opts.FilterMag = minFilter, magFilter
}

// SetWrapping sets the wrap modes of the s and t coordinates.
func (t *Texture) SetWrapping(s, tt WrapMode) {
	t.bind()
	t.ctx.dev.TexParameteri(TextureWrapS, int32(s))
	t.ctx.dev.TexParameteri(TextureWrapT, int32(tt))
	t.opts.WrapS, t.opts.WrapT = s, tt
}

// SetData uploads raw pixels of the texture's format and pixel type.
func (t *Texture) SetData(pixels []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("tgl: texture data: %w: size %dx%d", ErrInvalidData, width, height)
	}
	if t.opts.PixelType == PixelUnsignedByte {
		if need := width * height * t.opts.Format.Channels(); len(pixels) < need {
			return fmt.Errorf("tgl: texture data: %w: %d bytes for %dx%d, need %d",
				ErrInvalidData, len(pixels), width, height, need)
		}
	}
	t.bind()
	t.ctx.dev.TexImage2D(t.opts.Level, t.opts.Format, width, height, t.opts.PixelType, pixels)
	t.width, t.height = width, height
	return nil
}

// SetImage uploads img as non-premultiplied RGBA.
func (t *Texture) SetImage(img image.Image) {
	rgba := toNRGBA(img)
	t.opts.Format = RGBA
	t.opts.PixelType = PixelUnsignedByte
	b := rgba.Bounds()
	t.bind()
	t.ctx.dev.TexImage2D(t.opts.Level, RGBA, b.Dx(), b.Dy(), PixelUnsignedByte, rgba.Pix)
	t.width, t.height = b.Dx(), b.Dy()
}

// Delete releases the texture.
func (t *Texture) Delete() {
	t.ctx.dev.DeleteTexture(t.handle)
	t.ctx.state.forgetTexture(t.handle)
}

// toNRGBA returns img as a tightly packed NRGBA image with origin (0, 0).
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
