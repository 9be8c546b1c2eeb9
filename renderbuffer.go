package tgl

// RenderbufferOptions describes a renderbuffer. Format defaults to
// RenderbufferDepthComponent16.
type RenderbufferOptions struct {
	Width, Height int
	Format        RenderbufferFormat
}

// Renderbuffer is an offscreen image used as a framebuffer attachment.
type Renderbuffer struct {
	ctx    *Context
	handle Handle
	width  int
	height int
	format RenderbufferFormat
}

// NewRenderbuffer creates a renderbuffer and allocates its storage.
func NewRenderbuffer(ctx *Context, opts RenderbufferOptions) *Renderbuffer {
	if opts.Format == 0 {
		opts.Format = RenderbufferDepthComponent16
	}
	r := &Renderbuffer{
		ctx:    ctx,
		handle: ctx.dev.CreateRenderbuffer(),
		width:  opts.Width,
		height: opts.Height,
		format: opts.Format,
	}
	r.Bind()
	ctx.dev.RenderbufferStorage(r.format, r.width, r.height)
	return r
}

// Handle returns the device handle of the renderbuffer.
func (r *Renderbuffer) Handle() Handle { return r.handle }

func (r *Renderbuffer) Width() int                 { return r.width }
func (r *Renderbuffer) Height() int                { return r.height }
func (r *Renderbuffer) Format() RenderbufferFormat { return r.format }

// Bind binds the renderbuffer.
func (r *Renderbuffer) Bind() {
	r.ctx.state.Renderbuffer.Set(r.handle)
}

// Delete releases the renderbuffer.
func (r *Renderbuffer) Delete() {
	r.ctx.dev.DeleteRenderbuffer(r.handle)
	r.ctx.state.forgetRenderbuffer(r.handle)
}

// attachment returns the framebuffer attachment point matching the format.
func (r *Renderbuffer) attachment() Attachment {
	switch r.format {
	case RenderbufferDepthComponent16:
		return DepthAttachment
	case RenderbufferStencilIndex8:
		return StencilAttachment
	case RenderbufferDepthStencil:
		return DepthStencilAttachment
	default:
		return ColorAttachment0
	}
}
