package sprite

import (
	"fmt"

	"github.com/mode777/tgl"
)

// MaxBatchSize is the largest batch whose vertices 16-bit indices can
// address.
const MaxBatchSize = 1 << 14

// SpriteDef places a sprite in a batch slot.
type SpriteDef struct {
	Index     int              `yaml:"index"`
	Frame     Frame            `yaml:"frame"`
	Name      string           `yaml:"name"`
	Transform TransformOptions `yaml:"transform"`
	Flip      FlipFlags        `yaml:"flip"`
}

// BatchOptions describes a batch.
type BatchOptions struct {
	// Size is the fixed number of sprite slots.
	Size    int
	Texture *tgl.Texture
	// Program defaults to the 2D program of the Context2d.
	Program *tgl.Program
	// Sprites are placed before the batch is returned.
	Sprites []SpriteDef
}

type slot struct {
	frame     Frame
	transform *Transform2d
	flip      FlipFlags
	used      bool
	dirty     bool
	gen       uint64

	bbox      Rect
	bboxDirty bool
	bboxGen   uint64
}

// Batch packs a fixed number of quads into one vertex buffer and draws them
// all with one indexed draw call. Slots are addressed through Proxy handles.
//
// Vertex positions are transformed on the CPU by Update; the batch's own
// transform is applied by the program to the whole batch.
type Batch struct {
	c2d       *Context2d
	texture   *tgl.Texture
	drawable  *tgl.Drawable
	transform *Transform2d

	data    []int16
	slots   []slot
	pending bool
}

// NewBatch creates a batch of opts.Size empty slots sharing opts.Texture.
// Empty slots hold an identity transform and are skipped by Update until
// Set fills them.
func NewBatch(c2d *Context2d, opts BatchOptions) (*Batch, error) {
	if opts.Size <= 0 || opts.Size > MaxBatchSize {
		return nil, fmt.Errorf("sprite: new batch: %w: size %d out of range 1..%d",
			tgl.ErrInvalidData, opts.Size, MaxBatchSize)
	}
	if opts.Texture == nil {
		return nil, fmt.Errorf("sprite: new batch: %w: no texture", tgl.ErrInvalidData)
	}
	program := opts.Program
	if program == nil {
		program = c2d.Program()
	}

	indices := make([]uint16, 6*opts.Size)
	for i := 0; i < opts.Size; i++ {
		base := uint16(4 * i)
		for j, idx := range quadIndices {
			indices[6*i+j] = base + idx
		}
	}
	b := &Batch{
		c2d:       c2d,
		texture:   opts.Texture,
		transform: Identity(),
		data:      make([]int16, quadSize*opts.Size),
		slots:     make([]slot, opts.Size),
	}
	for i := range b.slots {
		b.slots[i].transform = Identity()
	}
	d, err := tgl.NewDrawable(c2d.Context(), tgl.DrawableOptions{
		Buffers: []tgl.BufferSource{tgl.BuildBuffer(tgl.BufferOptions{
			Usage:      tgl.DynamicDraw,
			Data:       b.data,
			Attributes: quadAttributes(),
		})},
		Program: tgl.UseProgram(program),
		Indices: tgl.BuildIndices(indices),
		Textures: []tgl.TextureBinding{
			{Uniform: UniformTexture, Source: tgl.UseTexture(opts.Texture)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sprite: new batch: %w", err)
	}
	b.drawable = d

	for _, def := range opts.Sprites {
		if def.Index < 0 || def.Index >= opts.Size {
			d.Delete()
			return nil, fmt.Errorf("sprite: new batch: %w: sprite index %d out of range", tgl.ErrInvalidData, def.Index)
		}
		b.Set(def.Index, def.Frame, NewTransform(def.Transform)).FlipTo(def.Flip)
	}
	return b, nil
}

// Size returns the number of slots.
func (b *Batch) Size() int { return len(b.slots) }

// Texture returns the shared texture.
func (b *Batch) Texture() *tgl.Texture { return b.texture }

// Transform returns the transform applied to the whole batch when drawing.
func (b *Batch) Transform() *Transform2d { return b.transform }

// Data returns the packed vertex data: 16 values per slot, per vertex
// position x, y and texel coordinate u, v.
func (b *Batch) Data() []int16 { return b.data }

// IndexCount returns the number of indices drawn, always 6 per slot.
func (b *Batch) IndexCount() int { return b.drawable.Indices().Len() }

// Set places a sprite of frame with transform t in slot i and returns its
// handle. A nil t is replaced with an identity transform. The transform is
// shared, not copied: changes to it are picked up by the next Update.
func (b *Batch) Set(i int, frame Frame, t *Transform2d) Proxy {
	if t == nil {
		t = Identity()
	}
	s := &b.slots[i]
	*s = slot{
		frame:     frame,
		transform: t,
		used:      true,
		dirty:     true,
		bboxDirty: true,
	}
	return Proxy{b: b, i: i}
}

// Sprite returns the handle of slot i.
func (b *Batch) Sprite(i int) Proxy {
	_ = b.slots[i]
	return Proxy{b: b, i: i}
}

// Delete empties slot i. Its quad is zeroed and renders as nothing. The
// slot keeps a fresh identity transform so its handle stays usable.
func (b *Batch) Delete(i int) {
	b.slots[i] = slot{transform: Identity()}
	clear(b.quad(i))
	b.pending = true
}

func (b *Batch) quad(i int) []int16 {
	return b.data[quadSize*i : quadSize*(i+1)]
}

// Update repacks the slots whose sprite or transform changed since the last
// Update and uploads the packed data in one call.
func (b *Batch) Update() error {
	for i := range b.slots {
		s := &b.slots[i]
		if !s.used || (!s.dirty && s.gen == s.transform.Generation()) {
			continue
		}
		packQuad(b.quad(i), s.frame, s.transform, s.flip)
		s.gen = s.transform.Generation()
		s.dirty = false
		b.pending = true
	}
	if !b.pending {
		return nil
	}
	if err := b.drawable.Buffers()[0].SubData(0, b.data); err != nil {
		return fmt.Errorf("sprite: batch update: %w", err)
	}
	b.pending = false
	return nil
}

// Draw draws every slot with one indexed draw call.
func (b *Batch) Draw() error {
	d := b.drawable
	d.SetUniform(UniformProject, b.c2d.Projection())
	d.SetUniform(UniformTransform, b.transform.Matrix())
	d.SetUniform(UniformTextureSize, [2]float32{float32(b.texture.Width()), float32(b.texture.Height())})
	return d.DrawTriangles()
}

// Dispose releases the vertex and index buffers. The texture and program are
// not deleted.
func (b *Batch) Dispose() { b.drawable.Delete() }

// Proxy is a handle to one slot of a Batch. Its mutators change the slot's
// transform and return the handle so calls can be chained; Update writes
// the result into the packed data.
type Proxy struct {
	b *Batch
	i int
}

// Index returns the slot index.
func (p Proxy) Index() int { return p.i }

// Valid reports whether the slot holds a sprite.
func (p Proxy) Valid() bool { return p.b != nil && p.b.slots[p.i].used }

func (p Proxy) slot() *slot { return &p.b.slots[p.i] }

// Frame returns the texture region of the sprite.
func (p Proxy) Frame() Frame { return p.slot().frame }

// SetFrame changes the texture region of the sprite.
func (p Proxy) SetFrame(f Frame) Proxy {
	s := p.slot()
	s.frame = f
	s.dirty = true
	s.bboxDirty = true
	return p
}

// Transform returns the transform of the sprite.
func (p Proxy) Transform() *Transform2d { return p.slot().transform }

// Data returns the 16 packed values of the slot.
func (p Proxy) Data() []int16 { return p.b.quad(p.i) }

// Flipped returns the current flip state.
func (p Proxy) Flipped() FlipFlags { return p.slot().flip }

// Flip toggles the given flips. Texture coordinates are rewritten in the
// packed data immediately and uploaded by the next Update.
func (p Proxy) Flip(flags FlipFlags) Proxy {
	s := p.slot()
	s.flip ^= flags & flipMask
	packTexcoords(p.b.quad(p.i), s.frame, s.flip)
	p.b.pending = true
	return p
}

// FlipTo sets the flip state to flags.
func (p Proxy) FlipTo(flags FlipFlags) Proxy {
	if diff := (p.slot().flip ^ flags) & flipMask; diff != 0 {
		p.Flip(diff)
	}
	return p
}

// BoundingBox returns the canvas space bounds of the transformed frame.
func (p Proxy) BoundingBox() Rect {
	s := p.slot()
	if s.bboxDirty || s.bboxGen != s.transform.Generation() {
		s.bbox = boundingBox(s.frame, s.transform)
		s.bboxGen = s.transform.Generation()
		s.bboxDirty = false
	}
	return s.bbox
}

func (p Proxy) setDirty() {
	s := p.slot()
	s.dirty = true
	s.bboxDirty = true
}

// MoveTo sets the position.
func (p Proxy) MoveTo(x, y float32) Proxy {
	p.Transform().SetPosition(x, y)
	p.setDirty()
	return p
}

// Move moves the sprite by x, y.
func (p Proxy) Move(x, y float32) Proxy {
	t := p.Transform()
	t.SetPosition(t.X()+x, t.Y()+y)
	p.setDirty()
	return p
}

// RotateTo sets the rotation in radians.
func (p Proxy) RotateTo(r float32) Proxy {
	p.Transform().SetRotation(r)
	p.setDirty()
	return p
}

// Rotate adds r radians to the rotation.
func (p Proxy) Rotate(r float32) Proxy {
	t := p.Transform()
	t.SetRotation(t.Rotation() + r)
	p.setDirty()
	return p
}

// ScaleTo sets the scale.
func (p Proxy) ScaleTo(x, y float32) Proxy {
	p.Transform().SetScale(x, y)
	p.setDirty()
	return p
}

// Scale multiplies the scale by x, y.
func (p Proxy) Scale(x, y float32) Proxy {
	t := p.Transform()
	t.SetScale(t.ScaleX()*x, t.ScaleY()*y)
	p.setDirty()
	return p
}

// MoveOriginTo sets the origin.
func (p Proxy) MoveOriginTo(x, y float32) Proxy {
	p.Transform().SetOrigin(x, y)
	p.setDirty()
	return p
}

// MoveOrigin moves the origin by x, y.
func (p Proxy) MoveOrigin(x, y float32) Proxy {
	t := p.Transform()
	t.SetOrigin(t.OriginX()+x, t.OriginY()+y)
	p.setDirty()
	return p
}

// Center moves the origin to the middle of the frame on the selected axes.
func (p Proxy) Center(x, y bool) Proxy {
	center(p.Transform(), p.Frame(), x, y)
	p.setDirty()
	return p
}
