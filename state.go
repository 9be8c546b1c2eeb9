package tgl

import (
	"fmt"
	"strings"
)

// Snapshot holds the value of every device state slot tracked by a StateCache.
type Snapshot struct {
	ActiveTexture int
	// Textures holds the bound texture per texture unit.
	Textures []Handle

	ClearColor [4]float32
	BlendColor [4]float32
	ColorMask  [4]bool
	Viewport   [4]int32

	BlendEquationRGB   BlendEquation
	BlendEquationAlpha BlendEquation
	BlendFunc          BlendFunc
	CullFaceMode       CullMode
	DepthFunc          DepthMode
	ClearDepth         float32
	ClearStencil       int32

	Blending              bool
	FaceCulling           bool
	DepthTest             bool
	PolygonOffsetFill     bool
	SampleAlphaToCoverage bool
	SampleCoverage        bool
	ScissorTest           bool
	StencilTest           bool

	Framebuffer  Handle
	VertexBuffer Handle
	IndexBuffer  Handle
	Renderbuffer Handle
	Program      Handle
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	s.Textures = append([]Handle(nil), s.Textures...)
	return s
}

// String returns a human-readable dump of every slot, one per line.
func (s Snapshot) String() string {
	var b strings.Builder
	w := func(name string, v any) { fmt.Fprintf(&b, "%-22s %v\n", name+":", v) }
	w("activeTexture", s.ActiveTexture)
	if s.ActiveTexture < len(s.Textures) {
		w("texture", s.Textures[s.ActiveTexture])
	}
	w("blendColor", s.BlendColor)
	w("blendEquationRgb", s.BlendEquationRGB)
	w("blendEquationAlpha", s.BlendEquationAlpha)
	w("blendFunc", s.BlendFunc)
	w("blending", s.Blending)
	w("clearColor", s.ClearColor)
	w("clearDepth", s.ClearDepth)
	w("clearStencil", s.ClearStencil)
	w("colorMask", s.ColorMask)
	w("cullFaceMode", s.CullFaceMode)
	w("depthFunc", s.DepthFunc)
	w("depthTest", s.DepthTest)
	w("faceCulling", s.FaceCulling)
	w("framebuffer", s.Framebuffer)
	w("indexBuffer", s.IndexBuffer)
	w("polygonOffsetFill", s.PolygonOffsetFill)
	w("program", s.Program)
	w("renderbuffer", s.Renderbuffer)
	w("sampleAlphaToCoverage", s.SampleAlphaToCoverage)
	w("sampleCoverage", s.SampleCoverage)
	w("scissorTest", s.ScissorTest)
	w("stencilTest", s.StencilTest)
	w("vertexBuffer", s.VertexBuffer)
	w("viewport", s.Viewport)
	w("maxTextureUnits", len(s.Textures))
	return b.String()
}

// ListenerID identifies a change listener registered with Slot.On.
type ListenerID int

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// writeCounter counts issued and suppressed slot writes.
type writeCounter struct {
	issued     int
	suppressed int
}

// Slot caches one unit of device state. Values are compared with ==, so
// array-valued slots compare elementwise.
type Slot[T comparable] struct {
	value     T
	set       func(T)
	counter   *writeCounter
	listeners []listener[T]
	nextID    ListenerID
}

func newSlot[T comparable](initial T, set func(T), c *writeCounter) *Slot[T] {
	return &Slot[T]{value: initial, set: set, counter: c}
}

// Get returns the cached value without touching the device.
func (s *Slot[T]) Get() T { return s.value }

// Set issues the device call for v unless v equals the cached value.
// It reports whether a device call was made.
func (s *Slot[T]) Set(v T) bool {
	return s.write(v, false)
}

// SetCached records v as the current device value without issuing a device
// call. Use it only when the device is known to already hold v.
func (s *Slot[T]) SetCached(v T) {
	s.write(v, true)
}

func (s *Slot[T]) write(v T, cacheOnly bool) bool {
	if v == s.value {
		if s.counter != nil {
			s.counter.suppressed++
		}
		return false
	}
	if !cacheOnly {
		s.set(v)
		if s.counter != nil {
			s.counter.issued++
		}
	}
	s.value = v
	for _, l := range s.listeners {
		l.fn(v)
	}
	return !cacheOnly
}

// On registers fn to be called after every effective write to the slot.
func (s *Slot[T]) On(fn func(T)) ListenerID {
	s.nextID++
	s.listeners = append(s.listeners, listener[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Off removes the listener registered under id.
func (s *Slot[T]) Off(id ListenerID) {
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// TextureSlot caches the texture bound to each texture unit. Get and Set
// act on the unit currently selected by the ActiveTexture slot.
type TextureSlot struct {
	units   []Handle
	active  *Slot[int]
	bind    func(Handle)
	counter *writeCounter
}

// Get returns the texture bound to the active unit.
func (s *TextureSlot) Get() Handle { return s.units[s.active.Get()] }

// Unit returns the texture bound to unit i.
func (s *TextureSlot) Unit(i int) Handle { return s.units[i] }

// Set binds t to the active unit unless it is already bound there.
func (s *TextureSlot) Set(t Handle) bool {
	return s.write(t, false)
}

// SetCached records t as bound to the active unit without a device call.
func (s *TextureSlot) SetCached(t Handle) {
	s.write(t, true)
}

func (s *TextureSlot) write(t Handle, cacheOnly bool) bool {
	unit := s.active.Get()
	if s.units[unit] == t {
		s.counter.suppressed++
		return false
	}
	s.units[unit] = t
	if cacheOnly {
		return false
	}
	s.bind(t)
	s.counter.issued++
	return true
}

// forget drops t from every unit it is cached on.
func (s *TextureSlot) forget(t Handle) {
	for i, h := range s.units {
		if h == t {
			s.units[i] = 0
		}
	}
}

// StateCache shadows the bindable and toggleable state of one Device and
// suppresses writes that would not change it. Every resource wrapper binds
// through the cache; changing device state behind its back leaves the cache
// stale.
//
// A StateCache is not safe for concurrent use. It belongs to the goroutine
// that owns its device.
type StateCache struct {
	dev     Device
	counter writeCounter
	stack   []Snapshot

	ActiveTexture *Slot[int]
	Texture       *TextureSlot

	ClearColor *Slot[[4]float32]
	BlendColor *Slot[[4]float32]
	ColorMask  *Slot[[4]bool]
	Viewport   *Slot[[4]int32]

	BlendEquationRGB   *Slot[BlendEquation]
	BlendEquationAlpha *Slot[BlendEquation]
	BlendFunc          *Slot[BlendFunc]
	CullFaceMode       *Slot[CullMode]
	DepthFunc          *Slot[DepthMode]
	ClearDepth         *Slot[float32]
	ClearStencil       *Slot[int32]

	Blending              *Slot[bool]
	FaceCulling           *Slot[bool]
	DepthTest             *Slot[bool]
	PolygonOffsetFill     *Slot[bool]
	SampleAlphaToCoverage *Slot[bool]
	SampleCoverage        *Slot[bool]
	ScissorTest           *Slot[bool]
	StencilTest           *Slot[bool]

	Framebuffer  *Slot[Handle]
	VertexBuffer *Slot[Handle]
	IndexBuffer  *Slot[Handle]
	Renderbuffer *Slot[Handle]
	Program      *Slot[Handle]
}

// NewStateCache reads the current device state once and returns a cache
// seeded with it. The seed becomes the base entry of the snapshot stack.
func NewStateCache(dev Device) *StateCache {
	snap := dev.Snapshot().Clone()
	maxUnits := dev.Limits().MaxTextureUnits
	if maxUnits < 1 {
		maxUnits = 1
	}
	for len(snap.Textures) < maxUnits {
		snap.Textures = append(snap.Textures, 0)
	}
	snap.Textures = snap.Textures[:maxUnits]

	s := &StateCache{dev: dev}
	c := &s.counter

	s.ActiveTexture = newSlot(snap.ActiveTexture, func(unit int) {
		if unit < 0 || unit >= maxUnits {
			panic(fmt.Sprintf("tgl: cannot activate texture unit %d: device supports %d units", unit, maxUnits))
		}
		dev.ActiveTexture(unit)
	}, c)
	s.Texture = &TextureSlot{
		units:   append([]Handle(nil), snap.Textures...),
		active:  s.ActiveTexture,
		bind:    dev.BindTexture,
		counter: c,
	}

	s.ClearColor = newSlot(snap.ClearColor, func(v [4]float32) { dev.ClearColor(v[0], v[1], v[2], v[3]) }, c)
	s.BlendColor = newSlot(snap.BlendColor, func(v [4]float32) { dev.BlendColor(v[0], v[1], v[2], v[3]) }, c)
	s.ColorMask = newSlot(snap.ColorMask, func(v [4]bool) { dev.ColorMask(v[0], v[1], v[2], v[3]) }, c)
	s.Viewport = newSlot(snap.Viewport, func(v [4]int32) { dev.Viewport(v[0], v[1], v[2], v[3]) }, c)

	s.BlendEquationRGB = newSlot(snap.BlendEquationRGB, func(v BlendEquation) {
		dev.BlendEquationSeparate(v, s.BlendEquationAlpha.Get())
	}, c)
	s.BlendEquationAlpha = newSlot(snap.BlendEquationAlpha, func(v BlendEquation) {
		dev.BlendEquationSeparate(s.BlendEquationRGB.Get(), v)
	}, c)
	s.BlendFunc = newSlot(snap.BlendFunc, func(v BlendFunc) {
		dev.BlendFuncSeparate(v.SrcRGB, v.DstRGB, v.SrcAlpha, v.DstAlpha)
	}, c)
	s.CullFaceMode = newSlot(snap.CullFaceMode, dev.CullFace, c)
	s.DepthFunc = newSlot(snap.DepthFunc, dev.DepthFunc, c)
	s.ClearDepth = newSlot(snap.ClearDepth, dev.ClearDepth, c)
	s.ClearStencil = newSlot(snap.ClearStencil, dev.ClearStencil, c)

	toggle := func(initial bool, f Feature) *Slot[bool] {
		return newSlot(initial, func(on bool) { dev.SetEnabled(f, on) }, c)
	}
	s.Blending = toggle(snap.Blending, FeatureBlend)
	s.FaceCulling = toggle(snap.FaceCulling, FeatureCullFace)
	s.DepthTest = toggle(snap.DepthTest, FeatureDepthTest)
	s.PolygonOffsetFill = toggle(snap.PolygonOffsetFill, FeaturePolygonOffsetFill)
	s.SampleAlphaToCoverage = toggle(snap.SampleAlphaToCoverage, FeatureSampleAlphaToCoverage)
	s.SampleCoverage = toggle(snap.SampleCoverage, FeatureSampleCoverage)
	s.ScissorTest = toggle(snap.ScissorTest, FeatureScissorTest)
	s.StencilTest = toggle(snap.StencilTest, FeatureStencilTest)

	s.Framebuffer = newSlot(snap.Framebuffer, dev.BindFramebuffer, c)
	s.VertexBuffer = newSlot(snap.VertexBuffer, func(b Handle) { dev.BindBuffer(ArrayBuffer, b) }, c)
	s.IndexBuffer = newSlot(snap.IndexBuffer, func(b Handle) { dev.BindBuffer(ElementArrayBuffer, b) }, c)
	s.Renderbuffer = newSlot(snap.Renderbuffer, dev.BindRenderbuffer, c)
	s.Program = newSlot(snap.Program, dev.UseProgram, c)

	s.stack = []Snapshot{snap}
	return s
}

// MaxTextureUnits returns the number of texture units the cache tracks.
func (s *StateCache) MaxTextureUnits() int { return len(s.Texture.units) }

// Snapshot returns the cached value of every slot.
func (s *StateCache) Snapshot() Snapshot {
	return Snapshot{
		ActiveTexture:         s.ActiveTexture.Get(),
		Textures:              append([]Handle(nil), s.Texture.units...),
		ClearColor:            s.ClearColor.Get(),
		BlendColor:            s.BlendColor.Get(),
		ColorMask:             s.ColorMask.Get(),
		Viewport:              s.Viewport.Get(),
		BlendEquationRGB:      s.BlendEquationRGB.Get(),
		BlendEquationAlpha:    s.BlendEquationAlpha.Get(),
		BlendFunc:             s.BlendFunc.Get(),
		CullFaceMode:          s.CullFaceMode.Get(),
		DepthFunc:             s.DepthFunc.Get(),
		ClearDepth:            s.ClearDepth.Get(),
		ClearStencil:          s.ClearStencil.Get(),
		Blending:              s.Blending.Get(),
		FaceCulling:           s.FaceCulling.Get(),
		DepthTest:             s.DepthTest.Get(),
		PolygonOffsetFill:     s.PolygonOffsetFill.Get(),
		SampleAlphaToCoverage: s.SampleAlphaToCoverage.Get(),
		SampleCoverage:        s.SampleCoverage.Get(),
		ScissorTest:           s.ScissorTest.Get(),
		StencilTest:           s.StencilTest.Get(),
		Framebuffer:           s.Framebuffer.Get(),
		VertexBuffer:          s.VertexBuffer.Get(),
		IndexBuffer:           s.IndexBuffer.Get(),
		Renderbuffer:          s.Renderbuffer.Get(),
		Program:               s.Program.Get(),
	}
}

// State returns a printable dump of the cached state.
func (s *StateCache) State() string { return s.Snapshot().String() }

// Push saves the current state on the snapshot stack.
func (s *StateCache) Push() {
	s.stack = append(s.stack, s.Snapshot())
}

// Pop restores the state saved by the matching Push. With no Push
// outstanding it restores the base state captured at construction.
// Only slots whose value differs from the restored one reach the device.
func (s *StateCache) Pop() {
	top := s.stack[len(s.stack)-1]
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.Restore(top)
}

// Depth returns the number of outstanding Push calls.
func (s *StateCache) Depth() int { return len(s.stack) - 1 }

// Reset restores the base state and drops every pushed entry.
func (s *StateCache) Reset() {
	s.stack = s.stack[:1]
	s.Restore(s.stack[0])
}

// Restore writes every slot of snap through the cache.
func (s *StateCache) Restore(snap Snapshot) {
	for unit, t := range snap.Textures {
		if unit >= len(s.Texture.units) || s.Texture.units[unit] == t {
			continue
		}
		s.ActiveTexture.Set(unit)
		s.Texture.Set(t)
	}
	s.ActiveTexture.Set(snap.ActiveTexture)

	s.ClearColor.Set(snap.ClearColor)
	s.BlendColor.Set(snap.BlendColor)
	s.ColorMask.Set(snap.ColorMask)
	s.Viewport.Set(snap.Viewport)
	s.BlendEquationRGB.Set(snap.BlendEquationRGB)
	s.BlendEquationAlpha.Set(snap.BlendEquationAlpha)
	s.BlendFunc.Set(snap.BlendFunc)
	s.CullFaceMode.Set(snap.CullFaceMode)
	s.DepthFunc.Set(snap.DepthFunc)
	s.ClearDepth.Set(snap.ClearDepth)
	s.ClearStencil.Set(snap.ClearStencil)

	s.Blending.Set(snap.Blending)
	s.FaceCulling.Set(snap.FaceCulling)
	s.DepthTest.Set(snap.DepthTest)
	s.PolygonOffsetFill.Set(snap.PolygonOffsetFill)
	s.SampleAlphaToCoverage.Set(snap.SampleAlphaToCoverage)
	s.SampleCoverage.Set(snap.SampleCoverage)
	s.ScissorTest.Set(snap.ScissorTest)
	s.StencilTest.Set(snap.StencilTest)

	s.Framebuffer.Set(snap.Framebuffer)
	s.VertexBuffer.Set(snap.VertexBuffer)
	s.IndexBuffer.Set(snap.IndexBuffer)
	s.Renderbuffer.Set(snap.Renderbuffer)
	s.Program.Set(snap.Program)
}

// The forget helpers keep the cache valid after a resource is deleted: the
// device unbinds a deleted object, so the cached binding becomes 0.

func (s *StateCache) forgetProgram(p Handle) {
	if s.Program.Get() == p {
		s.Program.SetCached(0)
	}
}

func (s *StateCache) forgetBuffer(b Handle) {
	if s.VertexBuffer.Get() == b {
		s.VertexBuffer.SetCached(0)
	}
	if s.IndexBuffer.Get() == b {
		s.IndexBuffer.SetCached(0)
	}
}

func (s *StateCache) forgetTexture(t Handle) { s.Texture.forget(t) }

func (s *StateCache) forgetRenderbuffer(r Handle) {
	if s.Renderbuffer.Get() == r {
		s.Renderbuffer.SetCached(0)
	}
}

func (s *StateCache) forgetFramebuffer(f Handle) {
	if s.Framebuffer.Get() == f {
		s.Framebuffer.SetCached(0)
	}
}
