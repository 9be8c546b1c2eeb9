package tgl

import "math/bits"

// TargetPool recycles render textures keyed by power-of-two dimensions.
// After warmup, Acquire and Release do not create device resources.
type TargetPool struct {
	ctx     *Context
	buckets map[uint64][]*RenderTexture
}

// NewTargetPool returns an empty pool creating its targets from ctx.
func NewTargetPool(ctx *Context) *TargetPool {
	return &TargetPool{ctx: ctx}
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared render texture of at least w x h pixels.
// Dimensions are rounded up to the next power of two.
func (p *TargetPool) Acquire(w, h int) (*RenderTexture, error) {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if stack := p.buckets[key]; len(stack) > 0 {
		rt := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		rt.Clear()
		return rt, nil
	}
	return NewRenderTexture(p.ctx, pw, ph)
}

// Release returns a render texture to the pool. It is cleared on the next
// Acquire, not here.
func (p *TargetPool) Release(rt *RenderTexture) {
	if rt == nil {
		return
	}
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*RenderTexture)
	}
	key := poolKey(rt.Width(), rt.Height())
	p.buckets[key] = append(p.buckets[key], rt)
}

// Len returns the number of idle render textures in the pool.
func (p *TargetPool) Len() int {
	n := 0
	for _, s := range p.buckets {
		n += len(s)
	}
	return n
}

// Delete releases every idle render texture.
func (p *TargetPool) Delete() {
	for _, s := range p.buckets {
		for _, rt := range s {
			rt.Delete()
		}
	}
	p.buckets = nil
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
