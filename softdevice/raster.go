package softdevice

import (
	"encoding/binary"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mode777/tgl"
)

// target is the color and depth storage draws and clears write to. Rows are
// stored bottom-up.
type target struct {
	w, h  int
	color []byte
	depth []float32
}

func (d *Device) target() (target, bool) {
	if d.st.Framebuffer == 0 {
		return target{w: d.width, h: d.height, color: d.color, depth: d.depth}, true
	}
	fb, ok := d.framebuffers[d.st.Framebuffer]
	if !ok {
		return target{}, false
	}
	var t target
	if tex, ok := d.textures[fb.color]; ok {
		t.w, t.h, t.color = tex.w, tex.h, tex.pix
	}
	if rb, ok := d.renderbuffers[fb.depth]; ok {
		if t.color == nil {
			t.w, t.h = rb.w, rb.h
		}
		t.depth = rb.depth
	}
	return t, true
}

func (d *Device) Clear(flags tgl.ClearFlags) {
	d.count("Clear")
	t, ok := d.target()
	if !ok || d.status() != tgl.FramebufferComplete {
		d.fail(tgl.InvalidFramebufferOperation)
		return
	}
	if flags&tgl.ColorBufferBit != 0 && t.color != nil {
		var c [4]byte
		for i, v := range d.st.ClearColor {
			c[i] = toByte(v)
		}
		mask := d.st.ColorMask
		for i := 0; i < len(t.color); i += 4 {
			for ch := 0; ch < 4; ch++ {
				if mask[ch] {
					t.color[i+ch] = c[ch]
				}
			}
		}
	}
	if flags&tgl.DepthBufferBit != 0 && t.depth != nil {
		v := min(max(d.st.ClearDepth, 0), 1)
		for i := range t.depth {
			t.depth[i] = v
		}
	}
}

func (d *Device) ReadPixels(x, y, w, h int, dst []byte) {
	d.count("ReadPixels")
	t, ok := d.target()
	if !ok || t.color == nil {
		d.fail(tgl.InvalidFramebufferOperation)
		return
	}
	if len(dst) < 4*w*h {
		d.fail(tgl.InvalidOperation)
		return
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			o := 4 * (row*w + col)
			sx, sy := x+col, y+row
			if sx < 0 || sy < 0 || sx >= t.w || sy >= t.h {
				dst[o], dst[o+1], dst[o+2], dst[o+3] = 0, 0, 0, 0
				continue
			}
			copy(dst[o:o+4], t.color[4*(sy*t.w+sx):])
		}
	}
}

func (d *Device) DrawArrays(mode tgl.PrimitiveType, first, count int) {
	d.count("DrawArrays")
	if first < 0 || count < 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = first + i
	}
	d.draw(mode, idx)
}

func (d *Device) DrawElements(mode tgl.PrimitiveType, count int, typ tgl.DataType, offset int) {
	d.count("DrawElements")
	ib, ok := d.buffers[d.st.IndexBuffer]
	if !ok {
		d.fail(tgl.InvalidOperation)
		return
	}
	sz := typ.Size()
	if count < 0 || offset < 0 || sz == 0 || typ == tgl.Byte || typ == tgl.Short || typ == tgl.Int || typ == tgl.Float {
		d.fail(tgl.InvalidEnum)
		return
	}
	if offset+count*sz > len(ib.data) {
		d.fail(tgl.InvalidOperation)
		return
	}
	idx := make([]int, count)
	for i := range idx {
		p := ib.data[offset+i*sz:]
		switch typ {
		case tgl.UnsignedByte:
			idx[i] = int(p[0])
		case tgl.UnsignedShort:
			idx[i] = int(binary.LittleEndian.Uint16(p))
		case tgl.UnsignedInt:
			idx[i] = int(binary.LittleEndian.Uint32(p))
		}
	}
	d.draw(mode, idx)
}

// vertex is a shaded vertex in window coordinates.
type vertex struct {
	x, y, z, w float32
	vary       []float32
}

func (d *Device) draw(mode tgl.PrimitiveType, idx []int) {
	p, ok := d.programs[d.st.Program]
	if !ok {
		d.fail(tgl.InvalidOperation)
		return
	}
	t, ok := d.target()
	if !ok || d.status() != tgl.FramebufferComplete {
		d.fail(tgl.InvalidFramebufferOperation)
		return
	}

	var tris [][3]int
	switch mode {
	case tgl.Triangles:
		for i := 0; i+2 < len(idx); i += 3 {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		}
	case tgl.TriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				tris = append(tris, [3]int{i, i + 1, i + 2})
			} else {
				tris = append(tris, [3]int{i + 1, i, i + 2})
			}
		}
	case tgl.TriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			tris = append(tris, [3]int{0, i, i + 1})
		}
	case tgl.Points, tgl.Lines, tgl.LineLoop, tgl.LineStrip:
		// Not rasterized.
		return
	default:
		d.fail(tgl.InvalidEnum)
		return
	}

	env := &Env{d: d, p: p}
	sh := p.shader
	shaded := make(map[int]*vertex, len(idx))
	in := make([]mgl32.Vec4, len(sh.Attributes))
	vp := d.st.Viewport

	shade := func(i int) *vertex {
		if v, ok := shaded[i]; ok {
			return v
		}
		for loc := range in {
			in[loc] = d.fetch(loc, i)
		}
		vary := make([]float32, sh.Varyings)
		pos := sh.Vertex(env, in, vary)
		v := &vertex{w: pos[3], vary: vary}
		if pos[3] > 0 {
			nx, ny, nz := pos[0]/pos[3], pos[1]/pos[3], pos[2]/pos[3]
			v.x = (nx+1)/2*float32(vp[2]) + float32(vp[0])
			v.y = (ny+1)/2*float32(vp[3]) + float32(vp[1])
			v.z = (nz + 1) / 2
		}
		shaded[i] = v
		return v
	}

	frag := make([]float32, sh.Varyings)
	for _, tri := range tris {
		a, b, c := shade(idx[tri[0]]), shade(idx[tri[1]]), shade(idx[tri[2]])
		if a.w <= 0 || b.w <= 0 || c.w <= 0 {
			continue
		}
		d.raster(t, env, a, b, c, frag)
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether the edge a->b of a counter-clockwise triangle owns
// the pixels lying exactly on it.
func topLeft(a, b *vertex) bool {
	return (a.y == b.y && b.x < a.x) || b.y < a.y
}

func (d *Device) raster(t target, env *Env, a, b, c *vertex, frag []float32) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}
	front := area > 0
	if d.st.FaceCulling {
		switch d.st.CullFaceMode {
		case tgl.CullFrontAndBack:
			return
		case tgl.CullFront:
			if front {
				return
			}
		case tgl.CullBack:
			if !front {
				return
			}
		}
	}
	if !front {
		b, c = c, b
		area = -area
	}

	vp := d.st.Viewport
	x0 := max(int(math32.Floor(min(a.x, b.x, c.x))), int(vp[0]), 0)
	y0 := max(int(math32.Floor(min(a.y, b.y, c.y))), int(vp[1]), 0)
	x1 := min(int(math32.Ceil(max(a.x, b.x, c.x))), int(vp[0]+vp[2]), t.w)
	y1 := min(int(math32.Ceil(max(a.y, b.y, c.y))), int(vp[1]+vp[3]), t.h)

	tlA, tlB, tlC := topLeft(b, c), topLeft(c, a), topLeft(a, b)
	sh := env.p.shader

	for py := y0; py < y1; py++ {
		cy := float32(py) + 0.5
		for px := x0; px < x1; px++ {
			cx := float32(px) + 0.5
			w0 := edge(b.x, b.y, c.x, c.y, cx, cy)
			w1 := edge(c.x, c.y, a.x, a.y, cx, cy)
			w2 := edge(a.x, a.y, b.x, b.y, cx, cy)
			if w0 < 0 || w1 < 0 || w2 < 0 ||
				(w0 == 0 && !tlA) || (w1 == 0 && !tlB) || (w2 == 0 && !tlC) {
				continue
			}
			l0, l1, l2 := w0/area, w1/area, w2/area
			pi := py*t.w + px

			if d.st.DepthTest && t.depth != nil {
				z := l0*a.z + l1*b.z + l2*c.z
				if !depthPass(d.st.DepthFunc, z, t.depth[pi]) {
					continue
				}
				t.depth[pi] = z
			}
			if t.color == nil {
				continue
			}
			for i := range frag {
				frag[i] = l0*a.vary[i] + l1*b.vary[i] + l2*c.vary[i]
			}
			col, keep := sh.Fragment(env, frag)
			if !keep {
				continue
			}
			d.write(t.color[4*pi:4*pi+4], col)
		}
	}
}

func depthPass(f tgl.DepthMode, z, cur float32) bool {
	switch f {
	case tgl.DepthNever:
		return false
	case tgl.DepthLess:
		return z < cur
	case tgl.DepthEqual:
		return z == cur
	case tgl.DepthLEqual:
		return z <= cur
	case tgl.DepthGreater:
		return z > cur
	case tgl.DepthNotEqual:
		return z != cur
	case tgl.DepthGEqual:
		return z >= cur
	}
	return true
}

// write blends src into the destination pixel and stores it honoring the
// color mask.
func (d *Device) write(px []byte, src mgl32.Vec4) {
	out := src
	if d.st.Blending {
		dst := mgl32.Vec4{float32(px[0]) / 255, float32(px[1]) / 255, float32(px[2]) / 255, float32(px[3]) / 255}
		bf := d.st.BlendFunc
		for ch := 0; ch < 4; ch++ {
			sf, df, eq := bf.SrcRGB, bf.DstRGB, d.st.BlendEquationRGB
			if ch == 3 {
				sf, df, eq = bf.SrcAlpha, bf.DstAlpha, d.st.BlendEquationAlpha
			}
			s := src[ch] * factor(sf, ch, src, dst)
			t := dst[ch] * factor(df, ch, src, dst)
			switch eq {
			case tgl.FuncSubtract:
				out[ch] = s - t
			case tgl.FuncReverseSubtract:
				out[ch] = t - s
			default:
				out[ch] = s + t
			}
		}
	}
	for ch := 0; ch < 4; ch++ {
		if d.st.ColorMask[ch] {
			px[ch] = toByte(out[ch])
		}
	}
}

func factor(f tgl.BlendFactor, ch int, src, dst mgl32.Vec4) float32 {
	switch f {
	case tgl.Zero:
		return 0
	case tgl.One:
		return 1
	case tgl.SrcColor:
		return src[ch]
	case tgl.OneMinusSrcColor:
		return 1 - src[ch]
	case tgl.SrcAlpha:
		return src[3]
	case tgl.OneMinusSrcAlpha:
		return 1 - src[3]
	case tgl.DstAlpha:
		return dst[3]
	case tgl.OneMinusDstAlpha:
		return 1 - dst[3]
	case tgl.DstColor:
		return dst[ch]
	case tgl.OneMinusDstColor:
		return 1 - dst[ch]
	}
	return 1
}

func toByte(v float32) byte {
	return byte(math32.Round(min(max(v, 0), 1) * 255))
}
