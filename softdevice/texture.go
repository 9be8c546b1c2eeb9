package softdevice

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mode777/tgl"
)

// texture stores level 0 as RGBA8 whatever the upload format.
type texture struct {
	w, h         int
	pix          []byte
	minF, magF   tgl.Filter
	wrapS, wrapT tgl.WrapMode
}

type renderbuffer struct {
	w, h   int
	format tgl.RenderbufferFormat
	depth  []float32
}

type framebuffer struct {
	color tgl.Handle
	depth tgl.Handle
}

func (d *Device) CreateTexture() tgl.Handle {
	d.count("CreateTexture")
	h := d.handle()
	d.textures[h] = &texture{
		minF:  tgl.NearestMipmapLinear,
		magF:  tgl.Linear,
		wrapS: tgl.Repeat,
		wrapT: tgl.Repeat,
	}
	return h
}

func (d *Device) DeleteTexture(h tgl.Handle) {
	d.count("DeleteTexture")
	delete(d.textures, h)
	for i, t := range d.st.Textures {
		if t == h {
			d.st.Textures[i] = 0
		}
	}
}

func (d *Device) ActiveTexture(unit int) {
	d.count("ActiveTexture")
	if unit < 0 || unit >= d.maxUnits {
		d.fail(tgl.InvalidEnum)
		return
	}
	d.st.ActiveTexture = unit
}

func (d *Device) BindTexture(h tgl.Handle) {
	d.count("BindTexture")
	if _, ok := d.textures[h]; !ok && h != 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	d.st.Textures[d.st.ActiveTexture] = h
}

func (d *Device) boundTexture() *texture {
	return d.textures[d.st.Textures[d.st.ActiveTexture]]
}

func (d *Device) TexImage2D(level int, format tgl.PixelFormat, w, h int, typ tgl.PixelType, pixels []byte) {
	d.count("TexImage2D")
	t := d.boundTexture()
	if t == nil {
		d.fail(tgl.InvalidOperation)
		return
	}
	if w < 0 || h < 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	if level != 0 {
		return
	}
	if typ != tgl.PixelUnsignedByte {
		d.fail(tgl.InvalidEnum)
		return
	}
	ch := format.Channels()
	if pixels != nil && len(pixels) < w*h*ch {
		d.fail(tgl.InvalidOperation)
		return
	}
	t.w, t.h = w, h
	t.pix = make([]byte, 4*w*h)
	if pixels == nil {
		return
	}
	for i := 0; i < w*h; i++ {
		src := pixels[i*ch : i*ch+ch]
		dst := t.pix[4*i : 4*i+4]
		switch format {
		case tgl.RGBA:
			copy(dst, src)
		case tgl.RGB:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 255
		case tgl.Alpha:
			dst[3] = src[0]
		case tgl.Luminance:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 255
		case tgl.LuminanceAlpha:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
		}
	}
}

func (d *Device) TexParameteri(param tgl.TextureParameter, v int32) {
	d.count("TexParameteri")
	t := d.boundTexture()
	if t == nil {
		d.fail(tgl.InvalidOperation)
		return
	}
	switch param {
	case tgl.TextureMinFilter:
		t.minF = tgl.Filter(v)
	case tgl.TextureMagFilter:
		t.magF = tgl.Filter(v)
	case tgl.TextureWrapS:
		t.wrapS = tgl.WrapMode(v)
	case tgl.TextureWrapT:
		t.wrapT = tgl.WrapMode(v)
	default:
		d.fail(tgl.InvalidEnum)
	}
}

// TexturePixels returns a copy of level 0 of texture h as RGBA8 rows.
func (d *Device) TexturePixels(h tgl.Handle) (pix []byte, width, height int) {
	t, ok := d.textures[h]
	if !ok {
		return nil, 0, 0
	}
	return append([]byte(nil), t.pix...), t.w, t.h
}

// sample filters with the magnification filter; mipmaps are not stored, so
// mipmapped minification filters sample level 0.
func (t *texture) sample(s, tc float32) mgl32.Vec4 {
	x := s*float32(t.w) - 0.5
	y := tc*float32(t.h) - 0.5
	if t.magF == tgl.Nearest || t.magF == tgl.NearestMipmapNearest || t.magF == tgl.NearestMipmapLinear {
		return t.texel(int(math32.Floor(x+0.5)), int(math32.Floor(y+0.5)))
	}
	x0, y0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)
	a := t.texel(ix, iy)
	b := t.texel(ix+1, iy)
	c := t.texel(ix, iy+1)
	e := t.texel(ix+1, iy+1)
	top := a.Mul(1 - fx).Add(b.Mul(fx))
	bottom := c.Mul(1 - fx).Add(e.Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy))
}

func (t *texture) texel(x, y int) mgl32.Vec4 {
	x = wrap(x, t.w, t.wrapS)
	y = wrap(y, t.h, t.wrapT)
	p := t.pix[4*(y*t.w+x):]
	return mgl32.Vec4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func wrap(i, n int, mode tgl.WrapMode) int {
	switch mode {
	case tgl.ClampToEdge:
		return min(max(i, 0), n-1)
	case tgl.MirroredRepeat:
		period := 2 * n
		i = ((i % period) + period) % period
		if i >= n {
			i = period - 1 - i
		}
		return i
	default:
		return ((i % n) + n) % n
	}
}

func (d *Device) CreateRenderbuffer() tgl.Handle {
	d.count("CreateRenderbuffer")
	h := d.handle()
	d.renderbuffers[h] = &renderbuffer{}
	return h
}

func (d *Device) DeleteRenderbuffer(h tgl.Handle) {
	d.count("DeleteRenderbuffer")
	delete(d.renderbuffers, h)
	if d.st.Renderbuffer == h {
		d.st.Renderbuffer = 0
	}
}

func (d *Device) BindRenderbuffer(h tgl.Handle) {
	d.count("BindRenderbuffer")
	if _, ok := d.renderbuffers[h]; !ok && h != 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	d.st.Renderbuffer = h
}

func (d *Device) RenderbufferStorage(format tgl.RenderbufferFormat, w, h int) {
	d.count("RenderbufferStorage")
	rb, ok := d.renderbuffers[d.st.Renderbuffer]
	if !ok {
		d.fail(tgl.InvalidOperation)
		return
	}
	rb.w, rb.h, rb.format = w, h, format
	rb.depth = make([]float32, w*h)
	for i := range rb.depth {
		rb.depth[i] = 1
	}
}

func (d *Device) CreateFramebuffer() tgl.Handle {
	d.count("CreateFramebuffer")
	h := d.handle()
	d.framebuffers[h] = &framebuffer{}
	return h
}

func (d *Device) DeleteFramebuffer(h tgl.Handle) {
	d.count("DeleteFramebuffer")
	delete(d.framebuffers, h)
	if d.st.Framebuffer == h {
		d.st.Framebuffer = 0
	}
}

func (d *Device) BindFramebuffer(h tgl.Handle) {
	d.count("BindFramebuffer")
	if _, ok := d.framebuffers[h]; !ok && h != 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	d.st.Framebuffer = h
}

func (d *Device) FramebufferTexture2D(att tgl.Attachment, t tgl.Handle) {
	d.count("FramebufferTexture2D")
	fb, ok := d.framebuffers[d.st.Framebuffer]
	if !ok || att != tgl.ColorAttachment0 {
		d.fail(tgl.InvalidOperation)
		return
	}
	fb.color = t
}

func (d *Device) FramebufferRenderbuffer(att tgl.Attachment, r tgl.Handle) {
	d.count("FramebufferRenderbuffer")
	fb, ok := d.framebuffers[d.st.Framebuffer]
	if !ok {
		d.fail(tgl.InvalidOperation)
		return
	}
	switch att {
	case tgl.DepthAttachment, tgl.DepthStencilAttachment:
		fb.depth = r
	case tgl.StencilAttachment:
	default:
		d.fail(tgl.InvalidEnum)
	}
}

func (d *Device) CheckFramebufferStatus() tgl.FramebufferStatus {
	d.count("CheckFramebufferStatus")
	return d.status()
}

func (d *Device) status() tgl.FramebufferStatus {
	if d.st.Framebuffer == 0 {
		return tgl.FramebufferComplete
	}
	fb := d.framebuffers[d.st.Framebuffer]
	if fb.color == 0 && fb.depth == 0 {
		return tgl.FramebufferMissingAttachment
	}
	var cw, ch int
	if fb.color != 0 {
		t, ok := d.textures[fb.color]
		if !ok || t.w == 0 || t.h == 0 {
			return tgl.FramebufferIncompleteAttachment
		}
		cw, ch = t.w, t.h
	}
	if fb.depth != 0 {
		rb, ok := d.renderbuffers[fb.depth]
		if !ok || rb.w == 0 || rb.h == 0 {
			return tgl.FramebufferIncompleteAttachment
		}
		if fb.color != 0 && (rb.w != cw || rb.h != ch) {
			return tgl.FramebufferIncompleteDimensions
		}
	}
	return tgl.FramebufferComplete
}
