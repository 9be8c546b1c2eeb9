package tgl

import "fmt"

// BufferSource selects the vertex buffer of a Drawable: either an existing
// buffer (UseBuffer) or one built from options (BuildBuffer).
type BufferSource struct {
	buffer *VertexBuffer
	opts   *BufferOptions
}

// UseBuffer draws from an existing buffer. The Drawable does not own it.
func UseBuffer(b *VertexBuffer) BufferSource { return BufferSource{buffer: b} }

// BuildBuffer builds a buffer owned by the Drawable.
func BuildBuffer(opts BufferOptions) BufferSource { return BufferSource{opts: &opts} }

// ProgramSource selects the program of a Drawable.
type ProgramSource struct {
	program *Program
	opts    *ProgramOptions
}

// UseProgram draws with an existing program. The Drawable does not own it.
func UseProgram(p *Program) ProgramSource { return ProgramSource{program: p} }

// BuildProgram builds a program owned by the Drawable.
func BuildProgram(opts ProgramOptions) ProgramSource { return ProgramSource{opts: &opts} }

// IndexSource selects the index buffer of a Drawable. The zero value means
// non-indexed drawing.
type IndexSource struct {
	buffer  *IndexBuffer
	indices []uint16
	set     bool
}

// UseIndices draws with an existing index buffer.
func UseIndices(ib *IndexBuffer) IndexSource { return IndexSource{buffer: ib, set: true} }

// BuildIndices builds an index buffer owned by the Drawable.
func BuildIndices(indices []uint16) IndexSource { return IndexSource{indices: indices, set: true} }

// TextureSource selects one texture of a Drawable.
type TextureSource struct {
	texture *Texture
	opts    *TextureOptions
}

// UseTexture samples an existing texture.
func UseTexture(t *Texture) TextureSource { return TextureSource{texture: t} }

// BuildTexture builds a texture owned by the Drawable.
func BuildTexture(opts TextureOptions) TextureSource { return TextureSource{opts: &opts} }

// TextureBinding binds a texture to a sampler uniform. Bindings are assigned
// texture units in order.
type TextureBinding struct {
	Uniform string
	Source  TextureSource
}

// DrawableOptions describes a Drawable.
type DrawableOptions struct {
	Buffers  []BufferSource
	Program  ProgramSource
	Indices  IndexSource
	Textures []TextureBinding
	// Uniforms are sent on the first Draw.
	Uniforms map[string]any
}

type boundTexture struct {
	uniform string
	texture *Texture
}

// Drawable combines a program, vertex buffers, optional indices, textures
// and a set of pending uniforms into something that can be drawn with one
// call.
//
// Uniforms are one-shot: every Draw sends the pending set and then clears it.
// A uniform that is not set again before the next Draw keeps whatever value
// the program last received.
type Drawable struct {
	ctx      *Context
	buffers  []*VertexBuffer
	program  *Program
	indices  *IndexBuffer
	textures []boundTexture
	uniforms map[string]any

	owned []interface{ Delete() }
}

// NewDrawable resolves every source, building the ones given as options,
// in the order buffers, program, indices, textures. On failure everything
// built so far is deleted.
func NewDrawable(ctx *Context, opts DrawableOptions) (_ *Drawable, err error) {
	if len(opts.Buffers) == 0 {
		return nil, fmt.Errorf("tgl: new drawable: %w", ErrNoBuffers)
	}
	if len(opts.Textures) > ctx.state.MaxTextureUnits() {
		return nil, fmt.Errorf("tgl: new drawable: %w: %d textures, %d units",
			ErrTextureUnits, len(opts.Textures), ctx.state.MaxTextureUnits())
	}

	d := &Drawable{ctx: ctx, uniforms: make(map[string]any, len(opts.Uniforms))}
	defer func() {
		if err != nil {
			d.Delete()
		}
	}()

	for i, src := range opts.Buffers {
		switch {
		case src.buffer != nil:
			d.buffers = append(d.buffers, src.buffer)
		case src.opts != nil:
			b, err := NewVertexBuffer(ctx, *src.opts)
			if err != nil {
				return nil, err
			}
			d.buffers = append(d.buffers, b)
			d.owned = append(d.owned, b)
		default:
			return nil, fmt.Errorf("tgl: new drawable: %w: buffer %d", ErrMissingSource, i)
		}
	}

	switch {
	case opts.Program.program != nil:
		d.program = opts.Program.program
	case opts.Program.opts != nil:
		p, err := NewProgram(ctx, *opts.Program.opts)
		if err != nil {
			return nil, err
		}
		d.program = p
		d.owned = append(d.owned, p)
	default:
		return nil, fmt.Errorf("tgl: new drawable: %w: program", ErrMissingSource)
	}

	if opts.Indices.set {
		if opts.Indices.buffer != nil {
			d.indices = opts.Indices.buffer
		} else {
			d.indices = NewIndexBuffer(ctx, opts.Indices.indices)
			d.owned = append(d.owned, d.indices)
		}
	}

	for _, tb := range opts.Textures {
		switch {
		case tb.Source.texture != nil:
			d.textures = append(d.textures, boundTexture{tb.Uniform, tb.Source.texture})
		case tb.Source.opts != nil:
			t, err := NewTexture(ctx, *tb.Source.opts)
			if err != nil {
				return nil, err
			}
			d.textures = append(d.textures, boundTexture{tb.Uniform, t})
			d.owned = append(d.owned, t)
		default:
			return nil, fmt.Errorf("tgl: new drawable: %w: texture %q", ErrMissingSource, tb.Uniform)
		}
	}

	for name, v := range opts.Uniforms {
		d.uniforms[name] = v
	}
	return d, nil
}

// Program returns the program the Drawable draws with.
func (d *Drawable) Program() *Program { return d.program }

// Buffers returns the vertex buffers in declaration order.
func (d *Drawable) Buffers() []*VertexBuffer { return d.buffers }

// Indices returns the index buffer, or nil for non-indexed drawing.
func (d *Drawable) Indices() *IndexBuffer { return d.indices }

// Texture returns the texture bound to the named sampler uniform, or nil.
func (d *Drawable) Texture(uniform string) *Texture {
	for _, bt := range d.textures {
		if bt.uniform == uniform {
			return bt.texture
		}
	}
	return nil
}

// SetUniform queues a uniform value for the next Draw.
func (d *Drawable) SetUniform(name string, value any) {
	d.uniforms[name] = value
}

// PendingUniforms returns the number of uniforms queued for the next Draw.
func (d *Drawable) PendingUniforms() int { return len(d.uniforms) }

// Draw draws count vertices (or indices) starting at start with the given
// primitive mode. A negative count draws to the end. Uniforms queued with
// SetUniform are dropped when Draw returns, whether it succeeded or not.
func (d *Drawable) Draw(mode PrimitiveType, start, count int) error {
	defer clear(d.uniforms)
	p := d.program
	p.Use()

	for _, b := range d.buffers {
		for _, a := range b.attributes {
			loc, err := p.AttributeLocation(a.Name)
			if err != nil {
				return err
			}
			if err := b.EnableAttribute(a.Name, loc); err != nil {
				return err
			}
		}
	}

	for i, bt := range d.textures {
		unit := bt.texture.Bind(i)
		if err := p.SetUniform(bt.uniform, unit); err != nil {
			return err
		}
	}

	if err := p.SetUniforms(d.uniforms); err != nil {
		return err
	}

	dev := d.ctx.dev
	if d.indices != nil {
		d.indices.Bind()
		if count < 0 {
			count = d.indices.Len() - start
		}
		dev.DrawElements(mode, count, d.indices.Type(), start*d.indices.Type().Size())
	} else {
		if count < 0 {
			count = d.buffers[0].VertexCount() - start
		}
		dev.DrawArrays(mode, start, count)
	}
	d.ctx.countDraw()
	return nil
}

// DrawTriangles draws every vertex or index as triangles.
func (d *Drawable) DrawTriangles() error {
	return d.Draw(Triangles, 0, -1)
}

// Delete releases the resources the Drawable built itself.
func (d *Drawable) Delete() {
	for _, r := range d.owned {
		r.Delete()
	}
	d.owned = nil
}
