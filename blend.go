package tgl

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

var (
	ColorBlack       = Color{0, 0, 0, 1}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorTransparent = Color{}
)

func (c Color) array() [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

// BlendMode selects a compositing preset applied with Context.SetBlendMode.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (blending disabled)
)

// BlendFunc returns the blend factors of the preset. BlendNone returns the
// factors of an opaque copy.
func (b BlendMode) BlendFunc() BlendFunc {
	switch b {
	case BlendAdd:
		return BlendFunc{SrcAlpha, One, One, One}
	case BlendMultiply:
		return BlendFunc{DstColor, OneMinusSrcAlpha, DstAlpha, OneMinusSrcAlpha}
	case BlendScreen:
		return BlendFunc{One, OneMinusSrcColor, One, OneMinusSrcAlpha}
	case BlendErase:
		return BlendFunc{Zero, OneMinusSrcAlpha, Zero, OneMinusSrcAlpha}
	case BlendBelow:
		return BlendFunc{OneMinusDstAlpha, One, OneMinusDstAlpha, One}
	case BlendNone:
		return BlendFunc{One, Zero, One, Zero}
	default:
		return BlendFunc{SrcAlpha, OneMinusSrcAlpha, One, OneMinusSrcAlpha}
	}
}

// SetBlendMode applies a blend preset through the state cache.
func (c *Context) SetBlendMode(b BlendMode) {
	if b == BlendNone {
		c.state.Blending.Set(false)
		return
	}
	c.state.Blending.Set(true)
	c.state.BlendEquationRGB.Set(FuncAdd)
	c.state.BlendEquationAlpha.Set(FuncAdd)
	c.state.BlendFunc.Set(b.BlendFunc())
}
