package tgl

import "log/slog"

// Option configures a Context during creation.
//
// Example:
//
//	ctx := tgl.NewContext(dev, tgl.WithLogger(logger), tgl.WithScreenshotDir("shots"))
type Option func(*contextOptions)

type contextOptions struct {
	logger        *slog.Logger
	screenshotDir string
	viewport      *[4]int32
}

func defaultOptions() contextOptions {
	return contextOptions{
		screenshotDir: "screenshots",
	}
}

// WithLogger sets the logger used by the Context and every resource created
// from it. By default the package logger from Logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *contextOptions) {
		o.logger = l
	}
}

// WithScreenshotDir sets the directory Screenshot writes PNG files to.
func WithScreenshotDir(dir string) Option {
	return func(o *contextOptions) {
		o.screenshotDir = dir
	}
}

// WithViewport sets the viewport to width x height at creation.
func WithViewport(width, height int) Option {
	return func(o *contextOptions) {
		o.viewport = &[4]int32{0, 0, int32(width), int32(height)}
	}
}
