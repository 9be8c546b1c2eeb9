package sprite

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Component selects which parts of a Transform2d take part in composition.
type Component uint8

const (
	Translation Component = 1 << iota
	Rotation
	Scale
	Origin

	// AllComponents enables every component. It is what a zero
	// TransformOptions.Components means.
	AllComponents = Translation | Rotation | Scale | Origin
)

// TransformOptions holds the initial values of a Transform2d.
// A zero ScaleX or ScaleY means 1.
type TransformOptions struct {
	X        float32 `yaml:"x" toml:"x"`
	Y        float32 `yaml:"y" toml:"y"`
	OriginX  float32 `yaml:"originX" toml:"origin_x"`
	OriginY  float32 `yaml:"originY" toml:"origin_y"`
	ScaleX   float32 `yaml:"scaleX" toml:"scale_x"`
	ScaleY   float32 `yaml:"scaleY" toml:"scale_y"`
	Rotation float32 `yaml:"rotation" toml:"rotation"`

	// Components limits composition to the given components. Disabled
	// components keep their values but compose as identity.
	Components Component `yaml:"-" toml:"-"`
}

// Transform2d is a 2D affine transform composed from a position, an origin,
// a rotation and a scale. Scaling and rotation pivot around the origin, then
// the result is translated to the position.
//
// The matrix is rebuilt lazily: every setter marks the transform dirty and
// the next Matrix or Transform call recomposes it.
type Transform2d struct {
	x, y     float32
	ox, oy   float32
	sx, sy   float32
	rotation float32
	sin, cos float32

	enabled    Component
	matrix     mgl32.Mat3
	dirty      bool
	generation uint64
}

// NewTransform returns a transform initialized from opts.
func NewTransform(opts TransformOptions) *Transform2d {
	t := &Transform2d{enabled: opts.Components, matrix: mgl32.Ident3()}
	if t.enabled == 0 {
		t.enabled = AllComponents
	}
	t.Reset(opts)
	return t
}

// Identity returns a transform that maps every point onto itself.
func Identity() *Transform2d { return NewTransform(TransformOptions{}) }

// Reset sets every value from opts. Enabled components are not changed.
func (t *Transform2d) Reset(opts TransformOptions) {
	t.x, t.y = opts.X, opts.Y
	t.ox, t.oy = opts.OriginX, opts.OriginY
	t.sx, t.sy = opts.ScaleX, opts.ScaleY
	if t.sx == 0 {
		t.sx = 1
	}
	if t.sy == 0 {
		t.sy = 1
	}
	t.SetRotation(opts.Rotation)
}

// Options returns the current values as TransformOptions.
func (t *Transform2d) Options() TransformOptions {
	return TransformOptions{
		X: t.x, Y: t.y,
		OriginX: t.ox, OriginY: t.oy,
		ScaleX: t.sx, ScaleY: t.sy,
		Rotation:   t.rotation,
		Components: t.enabled,
	}
}

func (t *Transform2d) X() float32        { return t.x }
func (t *Transform2d) Y() float32        { return t.y }
func (t *Transform2d) OriginX() float32  { return t.ox }
func (t *Transform2d) OriginY() float32  { return t.oy }
func (t *Transform2d) ScaleX() float32   { return t.sx }
func (t *Transform2d) ScaleY() float32   { return t.sy }
func (t *Transform2d) Rotation() float32 { return t.rotation }

// Components returns the components taking part in composition.
func (t *Transform2d) Components() Component { return t.enabled }

func (t *Transform2d) SetX(v float32)       { t.x = v; t.touch() }
func (t *Transform2d) SetY(v float32)       { t.y = v; t.touch() }
func (t *Transform2d) SetOriginX(v float32) { t.ox = v; t.touch() }
func (t *Transform2d) SetOriginY(v float32) { t.oy = v; t.touch() }
func (t *Transform2d) SetScaleX(v float32)  { t.sx = v; t.touch() }
func (t *Transform2d) SetScaleY(v float32)  { t.sy = v; t.touch() }

// SetRotation sets the rotation in radians.
func (t *Transform2d) SetRotation(r float32) {
	t.rotation = r
	t.sin, t.cos = math32.Sincos(r)
	t.touch()
}

// SetPosition sets X and Y.
func (t *Transform2d) SetPosition(x, y float32) {
	t.x, t.y = x, y
	t.touch()
}

// SetOrigin sets OriginX and OriginY.
func (t *Transform2d) SetOrigin(x, y float32) {
	t.ox, t.oy = x, y
	t.touch()
}

// SetScale sets ScaleX and ScaleY.
func (t *Transform2d) SetScale(x, y float32) {
	t.sx, t.sy = x, y
	t.touch()
}

// SetComponents changes the components taking part in composition.
func (t *Transform2d) SetComponents(c Component) {
	t.enabled = c
	t.touch()
}

func (t *Transform2d) touch() {
	t.dirty = true
	t.generation++
}

// Dirty reports whether the matrix will be rebuilt on the next read.
func (t *Transform2d) Dirty() bool { return t.dirty }

// Generation is incremented by every setter. Holders of a shared transform
// compare it against the value they last saw to detect changes.
func (t *Transform2d) Generation() uint64 { return t.generation }

// Matrix returns the composed column-major matrix.
func (t *Transform2d) Matrix() mgl32.Mat3 {
	if t.dirty {
		t.build()
		t.dirty = false
	}
	return t.matrix
}

func (t *Transform2d) build() {
	x, y := t.x, t.y
	ox, oy := t.ox, t.oy
	sx, sy := t.sx, t.sy
	sin, cos := t.sin, t.cos
	if t.enabled&Translation == 0 {
		x, y = 0, 0
	}
	if t.enabled&Origin == 0 {
		ox, oy = 0, 0
	}
	if t.enabled&Scale == 0 {
		sx, sy = 1, 1
	}
	if t.enabled&Rotation == 0 {
		sin, cos = 0, 1
	}

	m := &t.matrix
	m[0] = sx * cos
	m[1] = sx * sin
	m[2] = 0
	m[3] = sy * -sin
	m[4] = sy * cos
	m[5] = 0
	m[6] = -ox*sx*cos + -oy*sy*-sin + x
	m[7] = -ox*sx*sin + -oy*sy*cos + y
	m[8] = 1
}

// Transform maps a point from local to parent space.
func (t *Transform2d) Transform(x, y float32) (float32, float32) {
	m := t.Matrix()
	return m[0]*x + m[3]*y + m[6], m[1]*x + m[4]*y + m[7]
}

// Inverse maps a point from parent to local space. A singular transform
// returns the point unchanged.
func (t *Transform2d) Inverse(x, y float32) (float32, float32) {
	m := t.Matrix()
	det := m[0]*m[4] - m[3]*m[1]
	if math32.Abs(det) < 1e-12 {
		return x, y
	}
	inv := 1 / det
	a := m[4] * inv
	b := -m[1] * inv
	c := -m[3] * inv
	d := m[0] * inv
	tx := -(a*m[6] + c*m[7])
	ty := -(b*m[6] + d*m[7])
	return a*x + c*y + tx, b*x + d*y + ty
}
