package sprite

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"
)

// Frame is a source rectangle in texture pixels.
type Frame struct {
	X, Y, W, H int
}

// Empty reports whether the frame covers no pixels.
func (f Frame) Empty() bool { return f.W <= 0 || f.H <= 0 }

// UnmarshalYAML accepts a frame either as a [x, y, w, h] sequence or as a
// mapping with x, y, w and h keys.
func (f *Frame) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		var v []int
		if err := n.Decode(&v); err != nil {
			return err
		}
		if len(v) != 4 {
			return fmt.Errorf("sprite: line %d: frame needs 4 values, got %d", n.Line, len(v))
		}
		*f = Frame{X: v[0], Y: v[1], W: v[2], H: v[3]}
		return nil
	}
	var m struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
		W int `yaml:"w"`
		H int `yaml:"h"`
	}
	if err := n.Decode(&m); err != nil {
		return err
	}
	*f = Frame{X: m.X, Y: m.Y, W: m.W, H: m.H}
	return nil
}

// Rect is an axis aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float32
}

// FlipFlags select texture coordinate flips of a quad. Flips are applied
// diagonal first, then horizontal, then vertical.
type FlipFlags uint8

const (
	FlipH FlipFlags = 1 << iota
	FlipV
	FlipD

	flipMask = FlipH | FlipV | FlipD
)

func (f FlipFlags) String() string {
	if f&flipMask == 0 {
		return "none"
	}
	var parts []string
	if f&FlipH != 0 {
		parts = append(parts, "h")
	}
	if f&FlipV != 0 {
		parts = append(parts, "v")
	}
	if f&FlipD != 0 {
		parts = append(parts, "d")
	}
	return strings.Join(parts, "|")
}

// UnmarshalYAML accepts a list of "h", "v" and "d".
func (f *FlipFlags) UnmarshalYAML(n *yaml.Node) error {
	var names []string
	if n.Kind == yaml.ScalarNode {
		names = []string{n.Value}
	} else if err := n.Decode(&names); err != nil {
		return err
	}
	*f = 0
	for _, s := range names {
		switch strings.ToLower(s) {
		case "h", "horizontal":
			*f |= FlipH
		case "v", "vertical":
			*f |= FlipV
		case "d", "diagonal":
			*f |= FlipD
		case "", "none":
		default:
			return fmt.Errorf("sprite: line %d: unknown flip %q", n.Line, s)
		}
	}
	return nil
}

// uvOrder maps each flip combination to the corner whose texture coordinate
// each quad vertex takes. Quad vertices are the frame corners (0,0), (w,h),
// (w,0) and (0,h), in that order.
var uvOrder [8][4]int

func init() {
	for f := range uvOrder {
		o := [4]int{0, 1, 2, 3}
		if FlipFlags(f)&FlipD != 0 {
			o[2], o[3] = o[3], o[2]
		}
		if FlipFlags(f)&FlipH != 0 {
			o[0], o[2] = o[2], o[0]
			o[1], o[3] = o[3], o[1]
		}
		if FlipFlags(f)&FlipV != 0 {
			o[0], o[3] = o[3], o[0]
			o[1], o[2] = o[2], o[1]
		}
		uvOrder[f] = o
	}
}

// corners returns the frame-local corners of a quad in vertex order.
func (f Frame) corners() [4][2]float32 {
	w, h := float32(f.W), float32(f.H)
	return [4][2]float32{{0, 0}, {w, h}, {w, 0}, {0, h}}
}

// texcoords returns the texture coordinates of a quad in vertex order.
func (f Frame) texcoords(flip FlipFlags) [4][2]int16 {
	x0, y0 := int16(f.X), int16(f.Y)
	x1, y1 := int16(f.X+f.W), int16(f.Y+f.H)
	base := [4][2]int16{{x0, y0}, {x1, y1}, {x1, y0}, {x0, y1}}
	var out [4][2]int16
	for v, c := range uvOrder[flip&flipMask] {
		out[v] = base[c]
	}
	return out
}

// packQuad writes the 16 values of a quad into dst: per vertex the position
// transformed by t and rounded to whole pixels, then the texture coordinate.
func packQuad(dst []int16, f Frame, t *Transform2d, flip FlipFlags) {
	uv := f.texcoords(flip)
	for v, c := range f.corners() {
		x, y := t.Transform(c[0], c[1])
		o := 4 * v
		dst[o] = int16(math32.Round(x))
		dst[o+1] = int16(math32.Round(y))
		dst[o+2] = uv[v][0]
		dst[o+3] = uv[v][1]
	}
}

// packTexcoords rewrites only the texture coordinates of a packed quad.
func packTexcoords(dst []int16, f Frame, flip FlipFlags) {
	uv := f.texcoords(flip)
	for v := range uv {
		dst[4*v+2] = uv[v][0]
		dst[4*v+3] = uv[v][1]
	}
}

// boundingBox transforms the four corners of f and returns their bounds.
func boundingBox(f Frame, t *Transform2d) Rect {
	c := f.corners()
	minX, minY := t.Transform(c[0][0], c[0][1])
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		x, y := t.Transform(p[0], p[1])
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
