// Package sprite draws textured 2D quads on a tgl.Context.
//
// A Context2d owns the shared 2D program and tracks the viewport to keep a
// pixel space projection current. Single sprites own a small vertex buffer
// and send their transform as a uniform. A Batch packs many quads into one
// buffer, transforms them on the CPU and draws them all with one call:
//
//	c2d, err := sprite.NewContext2d(ctx)
//	if err != nil {
//		return err
//	}
//	batch, err := sprite.NewBatch(c2d, sprite.BatchOptions{Size: 64, Texture: tex})
//	if err != nil {
//		return err
//	}
//	batch.Set(0, sprite.Frame{W: 32, H: 32}, nil).MoveTo(100, 80).Center(true, true)
//	if err := batch.Update(); err != nil {
//		return err
//	}
//	return batch.Draw()
//
// Tilemaps, TexturePacker atlases, YAML layouts and gween tweens build on
// the batch.
package sprite
