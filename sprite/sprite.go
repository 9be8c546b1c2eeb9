package sprite

import (
	"fmt"

	"github.com/mode777/tgl"
)

// quadSize is the number of int16 values of one packed quad: four vertices
// of position x, y and texel coordinate u, v.
const quadSize = 16

// quadIndices draws a packed quad as two triangles.
var quadIndices = [6]uint16{0, 1, 2, 0, 3, 1}

func quadAttributes() []tgl.AttributeOptions {
	return []tgl.AttributeOptions{
		{Name: AttrPosition, Components: 2, Type: tgl.Short},
		{Name: AttrTexcoord, Components: 2, Type: tgl.Short},
	}
}

// SpriteOptions describes a standalone sprite.
type SpriteOptions struct {
	Texture *tgl.Texture
	// Frame defaults to the whole texture.
	Frame     Frame
	Transform TransformOptions
	// Program defaults to the 2D program of the Context2d.
	Program *tgl.Program
}

// Sprite is a textured quad drawn with its own vertex buffer. Its transform
// is sent as a uniform, so moving a sprite never touches vertex data.
type Sprite struct {
	c2d       *Context2d
	texture   *tgl.Texture
	frame     Frame
	transform *Transform2d
	drawable  *tgl.Drawable
	data      [quadSize]int16
	flip      FlipFlags

	bbox      Rect
	bboxDirty bool
	bboxGen   uint64
}

// New creates a sprite of opts.Frame of opts.Texture.
func New(c2d *Context2d, opts SpriteOptions) (*Sprite, error) {
	if opts.Texture == nil {
		return nil, fmt.Errorf("sprite: new sprite: %w: no texture", tgl.ErrInvalidData)
	}
	frame := opts.Frame
	if frame == (Frame{}) {
		frame = Frame{W: opts.Texture.Width(), H: opts.Texture.Height()}
	}
	program := opts.Program
	if program == nil {
		program = c2d.Program()
	}
	s := &Sprite{
		c2d:       c2d,
		texture:   opts.Texture,
		frame:     frame,
		transform: NewTransform(opts.Transform),
		bboxDirty: true,
	}
	s.packLocal()

	d, err := tgl.NewDrawable(c2d.Context(), tgl.DrawableOptions{
		Buffers: []tgl.BufferSource{tgl.BuildBuffer(tgl.BufferOptions{
			Usage:      tgl.DynamicDraw,
			Data:       s.data[:],
			Attributes: quadAttributes(),
		})},
		Program: tgl.UseProgram(program),
		Indices: tgl.BuildIndices(quadIndices[:]),
		Textures: []tgl.TextureBinding{
			{Uniform: UniformTexture, Source: tgl.UseTexture(opts.Texture)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sprite: new sprite: %w", err)
	}
	s.drawable = d
	return s, nil
}

// packLocal writes the untransformed quad. The transform is applied by the
// program.
func (s *Sprite) packLocal() {
	for v, c := range s.frame.corners() {
		s.data[4*v] = int16(c[0])
		s.data[4*v+1] = int16(c[1])
	}
	packTexcoords(s.data[:], s.frame, s.flip)
}

// Frame returns the texture region of the sprite.
func (s *Sprite) Frame() Frame { return s.frame }

// Texture returns the sprite texture.
func (s *Sprite) Texture() *tgl.Texture { return s.texture }

// Transform returns the transform of the sprite. Changes made to it directly
// are picked up by the next Draw and BoundingBox.
func (s *Sprite) Transform() *Transform2d { return s.transform }

// Data returns the packed vertex data of the quad.
func (s *Sprite) Data() []int16 { return s.data[:] }

// Flipped returns the current flip state.
func (s *Sprite) Flipped() FlipFlags { return s.flip }

// Draw draws the sprite with the projection of the current viewport.
func (s *Sprite) Draw() error {
	d := s.drawable
	d.SetUniform(UniformProject, s.c2d.Projection())
	d.SetUniform(UniformTransform, s.transform.Matrix())
	d.SetUniform(UniformTextureSize, [2]float32{float32(s.texture.Width()), float32(s.texture.Height())})
	return d.DrawTriangles()
}

// Delete releases the vertex and index buffers of the sprite. The texture
// and program are not deleted.
func (s *Sprite) Delete() { s.drawable.Delete() }

// BoundingBox returns the canvas space bounds of the transformed frame.
func (s *Sprite) BoundingBox() Rect {
	if s.bboxDirty || s.bboxGen != s.transform.Generation() {
		s.bbox = boundingBox(s.frame, s.transform)
		s.bboxGen = s.transform.Generation()
		s.bboxDirty = false
	}
	return s.bbox
}

func (s *Sprite) setDirty() { s.bboxDirty = true }

// Flip toggles the given flips.
func (s *Sprite) Flip(flags FlipFlags) error {
	s.flip ^= flags & flipMask
	packTexcoords(s.data[:], s.frame, s.flip)
	return s.drawable.Buffers()[0].SubData(0, s.data[:])
}

// FlipTo sets the flip state to flags.
func (s *Sprite) FlipTo(flags FlipFlags) error {
	if diff := (s.flip ^ flags) & flipMask; diff != 0 {
		return s.Flip(diff)
	}
	return nil
}

// MoveTo sets the position.
func (s *Sprite) MoveTo(x, y float32) *Sprite {
	s.transform.SetPosition(x, y)
	s.setDirty()
	return s
}

// Move moves the sprite by x, y.
func (s *Sprite) Move(x, y float32) *Sprite {
	t := s.transform
	t.SetPosition(t.X()+x, t.Y()+y)
	s.setDirty()
	return s
}

// RotateTo sets the rotation in radians.
func (s *Sprite) RotateTo(r float32) *Sprite {
	s.transform.SetRotation(r)
	s.setDirty()
	return s
}

// Rotate adds r radians to the rotation.
func (s *Sprite) Rotate(r float32) *Sprite {
	s.transform.SetRotation(s.transform.Rotation() + r)
	s.setDirty()
	return s
}

// ScaleTo sets the scale.
func (s *Sprite) ScaleTo(x, y float32) *Sprite {
	s.transform.SetScale(x, y)
	s.setDirty()
	return s
}

// Scale multiplies the scale by x, y.
func (s *Sprite) Scale(x, y float32) *Sprite {
	t := s.transform
	t.SetScale(t.ScaleX()*x, t.ScaleY()*y)
	s.setDirty()
	return s
}

// MoveOriginTo sets the origin.
func (s *Sprite) MoveOriginTo(x, y float32) *Sprite {
	s.transform.SetOrigin(x, y)
	s.setDirty()
	return s
}

// MoveOrigin moves the origin by x, y.
func (s *Sprite) MoveOrigin(x, y float32) *Sprite {
	t := s.transform
	t.SetOrigin(t.OriginX()+x, t.OriginY()+y)
	s.setDirty()
	return s
}

// Center moves the origin to the middle of the frame on the selected axes.
func (s *Sprite) Center(x, y bool) *Sprite {
	center(s.transform, s.frame, x, y)
	s.setDirty()
	return s
}

func center(t *Transform2d, f Frame, x, y bool) {
	if x {
		t.SetOriginX(float32(f.W) / 2)
	}
	if y {
		t.SetOriginY(float32(f.H) / 2)
	}
}
