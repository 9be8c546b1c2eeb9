// Package tgl is a thin rendering core over a stateful, handle-based graphics
// device.
//
// Client code describes geometry declaratively with resource wrappers
// ([Program], [VertexBuffer], [IndexBuffer], [Texture], [Renderbuffer],
// [Framebuffer]) and draws it through a [Drawable]. Every bind and state
// change goes through the [StateCache] owned by the [Context], which drops
// calls that would not change device state.
//
// # Quick start
//
// A [Device] is provided by a backend: gldevice for OpenGL 3.3, softdevice for
// a CPU rasterizer used in tests and headless rendering.
//
//	ctx := tgl.NewContext(dev, tgl.WithViewport(640, 480))
//
//	tri, err := tgl.NewDrawable(ctx, tgl.DrawableOptions{
//		Program: tgl.BuildProgram(tgl.ProgramOptions{
//			VertexSource:   vs,
//			FragmentSource: fs,
//		}),
//		Buffers: []tgl.BufferSource{tgl.BuildBuffer(tgl.BufferOptions{
//			Data: []float32{-1, -1, 1, -1, 0, 1},
//			Attributes: []tgl.AttributeOptions{
//				{Name: "aPosition", Components: 2},
//			},
//		})},
//	})
//	if err != nil {
//		return err
//	}
//	ctx.Clear(tgl.ColorBufferBit)
//	return tri.DrawTriangles()
//
// # State cache
//
// Each cached slot is a [Slot] with Get, Set and SetCached. Set issues the
// device call only when the value differs from the cached one; listeners
// registered with On run once per effective write. [StateCache.Push] and
// [StateCache.Pop] scope temporary changes, as [Framebuffer.Render] does.
//
// Changing device state without going through the cache leaves it stale.
//
// # Uniforms
//
// Uniforms queued on a Drawable are sent by the next Draw and then dropped.
// Values not queued again keep whatever the program last received.
//
// # Logging
//
// tgl logs through [log/slog]. Nothing is logged until [SetLogger] is called.
//
// # 2D sprites
//
// The sprite sub-package adds [sprite.Transform2d], standalone sprites and a
// fixed-capacity sprite batch that packs every quad into one vertex buffer.
package tgl
