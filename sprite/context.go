package sprite

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mode777/tgl"
)

// Context2d holds what sprites and batches of one tgl.Context share: the 2D
// program and the projection of the current viewport.
type Context2d struct {
	ctx      *tgl.Context
	program  *tgl.Program
	project  mgl32.Mat3
	viewport tgl.ListenerID
}

// NewContext2d compiles the 2D program on ctx.
func NewContext2d(ctx *tgl.Context) (*Context2d, error) {
	p, err := tgl.NewProgram(ctx, tgl.ProgramOptions{
		VertexSource:   VertexSource,
		FragmentSource: FragmentSource,
	})
	if err != nil {
		return nil, fmt.Errorf("sprite: new context: %w", err)
	}
	c := &Context2d{ctx: ctx, program: p}
	vp := ctx.State().Viewport
	c.setViewport(vp.Get())
	c.viewport = vp.On(c.setViewport)
	return c, nil
}

func (c *Context2d) setViewport(v [4]int32) {
	c.project = Projection(float32(v[2]), float32(v[3]))
}

// Context returns the underlying tgl.Context.
func (c *Context2d) Context() *tgl.Context { return c.ctx }

// Program returns the shared 2D program.
func (c *Context2d) Program() *tgl.Program { return c.program }

// Projection returns the projection of the current viewport. It is rebuilt
// only when the viewport changes.
func (c *Context2d) Projection() mgl32.Mat3 { return c.project }

// Delete deletes the 2D program and stops tracking the viewport.
func (c *Context2d) Delete() {
	c.ctx.State().Viewport.Off(c.viewport)
	c.program.Delete()
}
