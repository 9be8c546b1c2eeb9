package tgl

import "fmt"

// FramebufferOptions describes a framebuffer and its attachments. Every
// attachment must match Width x Height.
type FramebufferOptions struct {
	Width, Height int
	Color         *Texture
	Depth         *Renderbuffer
}

// Framebuffer is an offscreen render target.
type Framebuffer struct {
	ctx    *Context
	handle Handle
	width  int
	height int
	color  *Texture
	depth  *Renderbuffer
}

// NewFramebuffer creates a framebuffer, attaches opts.Color and opts.Depth
// and verifies it is complete. The caller's framebuffer binding is left
// untouched.
func NewFramebuffer(ctx *Context, opts FramebufferOptions) (*Framebuffer, error) {
	if c := opts.Color; c != nil && (c.Width() != opts.Width || c.Height() != opts.Height) {
		return nil, fmt.Errorf("tgl: new framebuffer: %w: color %dx%d, framebuffer %dx%d",
			ErrAttachmentMismatch, c.Width(), c.Height(), opts.Width, opts.Height)
	}
	if d := opts.Depth; d != nil {
		if d.Width() != opts.Width || d.Height() != opts.Height {
			return nil, fmt.Errorf("tgl: new framebuffer: %w: depth %dx%d, framebuffer %dx%d",
				ErrAttachmentMismatch, d.Width(), d.Height(), opts.Width, opts.Height)
		}
		if d.attachment() == ColorAttachment0 {
			return nil, fmt.Errorf("tgl: new framebuffer: %w: renderbuffer format 0x%04X is not a depth or stencil format",
				ErrAttachmentMismatch, uint32(d.Format()))
		}
	}

	fb := &Framebuffer{
		ctx:    ctx,
		handle: ctx.dev.CreateFramebuffer(),
		width:  opts.Width,
		height: opts.Height,
		color:  opts.Color,
		depth:  opts.Depth,
	}

	ctx.state.Push()
	defer ctx.state.Pop()

	fb.Bind()
	if fb.color != nil {
		ctx.dev.FramebufferTexture2D(ColorAttachment0, fb.color.Handle())
	}
	if fb.depth != nil {
		ctx.dev.FramebufferRenderbuffer(fb.depth.attachment(), fb.depth.Handle())
	}
	if status := ctx.dev.CheckFramebufferStatus(); status != FramebufferComplete {
		ctx.log.Warn("tgl: framebuffer incomplete", "handle", fb.handle, "status", status.String())
		fb.Delete()
		return nil, fmt.Errorf("tgl: new framebuffer: %w: %s", ErrFramebufferIncomplete, status)
	}
	ctx.log.Debug("tgl: framebuffer created", "handle", fb.handle, "width", fb.width, "height", fb.height)
	return fb, nil
}

// Handle returns the device handle of the framebuffer.
func (fb *Framebuffer) Handle() Handle { return fb.handle }

func (fb *Framebuffer) Width() int  { return fb.width }
func (fb *Framebuffer) Height() int { return fb.height }

// Color returns the color attachment, or nil.
func (fb *Framebuffer) Color() *Texture { return fb.color }

// Depth returns the depth attachment, or nil.
func (fb *Framebuffer) Depth() *Renderbuffer { return fb.depth }

// Bind binds the framebuffer.
func (fb *Framebuffer) Bind() {
	fb.ctx.state.Framebuffer.Set(fb.handle)
}

// Render binds the framebuffer and a matching viewport, runs fn and restores
// the previous state. The state is restored even if fn returns an error or
// panics.
func (fb *Framebuffer) Render(fn func() error) error {
	st := fb.ctx.state
	st.Push()
	defer st.Pop()

	fb.Bind()
	st.Viewport.Set([4]int32{0, 0, int32(fb.width), int32(fb.height)})
	return fn()
}

// Delete releases the framebuffer. Attachments are not deleted.
func (fb *Framebuffer) Delete() {
	fb.ctx.dev.DeleteFramebuffer(fb.handle)
	fb.ctx.state.forgetFramebuffer(fb.handle)
}
