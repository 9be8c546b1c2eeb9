package tgl

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Context ties a Device to the StateCache that shadows it. Every resource is
// created from a Context and binds through its cache.
//
// A Context is not safe for concurrent use.
type Context struct {
	dev   Device
	state *StateCache
	log   *slog.Logger

	screenshotDir string
	drawCalls     int
}

// NewContext creates a Context for dev. The device state is read once to seed
// the cache.
func NewContext(dev Device, opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	c := &Context{
		dev:           dev,
		state:         NewStateCache(dev),
		log:           o.logger,
		screenshotDir: o.screenshotDir,
	}
	if o.viewport != nil {
		c.state.Viewport.Set(*o.viewport)
	}
	c.log.Debug("tgl: context created",
		"maxTextureUnits", c.state.MaxTextureUnits(),
		"viewport", c.state.Viewport.Get())
	return c
}

// Device returns the underlying device.
func (c *Context) Device() Device { return c.dev }

// State returns the state cache of the context.
func (c *Context) State() *StateCache { return c.state }

// Log returns the logger the context was configured with.
func (c *Context) Log() *slog.Logger { return c.log }

// Clear clears the buffers selected by flags of the bound framebuffer.
func (c *Context) Clear(flags ClearFlags) {
	c.dev.Clear(flags)
}

// SetClearColor sets the color used by Clear.
func (c *Context) SetClearColor(col Color) {
	c.state.ClearColor.Set(col.array())
}

// Resize sets the viewport to cover width x height pixels.
func (c *Context) Resize(width, height int) {
	c.state.Viewport.Set([4]int32{0, 0, int32(width), int32(height)})
}

// Size returns the width and height of the viewport.
func (c *Context) Size() (int, int) {
	v := c.state.Viewport.Get()
	return int(v[2]), int(v[3])
}

// CheckErrors drains the device error flags and returns them as one error,
// or nil if none were raised.
func (c *Context) CheckErrors() error {
	var errs []error
	for i := 0; i < 16; i++ {
		code := c.dev.GetError()
		if code == NoError {
			break
		}
		errs = append(errs, fmt.Errorf("tgl: %w: %s", ErrDevice, code))
	}
	return errors.Join(errs...)
}

// Stats returns the draw and state write counters accumulated since the
// context was created or since the last ResetStats.
func (c *Context) Stats() Stats {
	return Stats{
		DrawCalls:        c.drawCalls,
		StateWrites:      c.state.counter.issued,
		SuppressedWrites: c.state.counter.suppressed,
	}
}

// ResetStats zeroes the counters reported by Stats.
func (c *Context) ResetStats() {
	c.drawCalls = 0
	c.state.counter = writeCounter{}
}

// ReadPixels reads the given rectangle of the bound framebuffer. The device
// stores rows bottom-up; the returned image has its first row at the top.
func (c *Context) ReadPixels(r image.Rectangle) *image.NRGBA {
	w, h := r.Dx(), r.Dy()
	pixels := make([]byte, 4*w*h)
	c.dev.ReadPixels(r.Min.X, r.Min.Y, w, h, pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	stride := 4 * w
	for y := 0; y < h; y++ {
		src := pixels[(h-1-y)*stride : (h-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img
}

// Screenshot reads the whole viewport of the bound framebuffer and writes it
// as a PNG named after label into the screenshot directory. It returns the
// path written.
func (c *Context) Screenshot(label string) (path string, err error) {
	v := c.state.Viewport.Get()
	img := c.ReadPixels(image.Rect(int(v[0]), int(v[1]), int(v[0]+v[2]), int(v[1]+v[3])))

	if err := os.MkdirAll(c.screenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("tgl: screenshot: %w", err)
	}
	name := time.Now().Format("20060102_150405") + "_" + shotName(label) + ".png"
	path = filepath.Join(c.screenshotDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("tgl: screenshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			path, err = "", fmt.Errorf("tgl: screenshot: %w", cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("tgl: screenshot: encode %s: %w", path, err)
	}
	c.log.Debug("tgl: screenshot written", "path", path)
	return path, nil
}

// shotName maps label onto the file name alphabet [A-Za-z0-9.-], turning any
// other rune into '_'. A blank label becomes "unlabeled".
func shotName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.') {
			return r
		}
		return '_'
	}, label)
}
