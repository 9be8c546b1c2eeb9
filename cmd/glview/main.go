//go:build !js

// Glview draws the animated sprite batch through OpenGL 3.3 in a GLFW
// window. Custom shaders from the configuration are reloaded when their
// files change.
//
// Keys: Escape quits, F12 saves a screenshot.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/mode777/tgl"
	"github.com/mode777/tgl/gldevice"
	"github.com/mode777/tgl/internal/config"
	"github.com/mode777/tgl/internal/demo"
	"github.com/mode777/tgl/internal/hotreload"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfgPath := flag.String("config", "", "TOML configuration file")
	shotDir := flag.String("screenshots", "screenshots", "directory F12 screenshots are written to")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	logger := cfg.Logger(os.Stderr)
	tgl.SetLogger(logger)

	if err := run(cfg, *shotDir, logger); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config, shotDir string, logger *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return err
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	dev, err := gldevice.New()
	if err != nil {
		return err
	}
	defer dev.Close()

	fbw, fbh := win.GetFramebufferSize()
	ctx := tgl.NewContext(dev,
		tgl.WithLogger(logger),
		tgl.WithViewport(fbw, fbh),
		tgl.WithScreenshotDir(shotDir),
	)

	scene, err := demo.New(ctx, cfg.Sprites)
	if err != nil {
		return err
	}
	defer scene.Delete()

	shaders := cfg.Shaders
	if shaders.Vertex != "" {
		p, err := tgl.LoadProgramFiles(ctx, shaders.Vertex, shaders.Fragment, nil)
		if err != nil {
			return err
		}
		if err := scene.SetProgram(p); err != nil {
			p.Delete()
			return err
		}
	}

	var watcher *hotreload.Watcher
	if shaders.HotReload {
		if watcher, err = hotreload.New(shaders.Vertex, shaders.Fragment); err != nil {
			return err
		}
		defer watcher.Close()
	}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		ctx.Resize(w, h)
	})
	screenshot := false
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyF12:
			screenshot = true
		}
	})

	last := glfw.GetTime()
	for !win.ShouldClose() {
		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		if watcher != nil {
			if changed := watcher.Drain(); len(changed) > 0 {
				reload(ctx, scene, shaders, changed, logger)
			}
		}

		if err := scene.Update(dt); err != nil {
			return err
		}
		if err := scene.Draw(); err != nil {
			return err
		}
		if err := ctx.CheckErrors(); err != nil {
			logger.Error("frame", "err", err)
		}
		if screenshot {
			screenshot = false
			if path, err := ctx.Screenshot("glview"); err != nil {
				logger.Error("screenshot", "err", err)
			} else {
				logger.Info("screenshot saved", "path", path)
			}
		}

		win.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// reload rebuilds the custom program. A program that fails to compile is
// logged and the previous one stays in use.
func reload(ctx *tgl.Context, scene *demo.Scene, shaders config.Shaders, changed []string, logger *slog.Logger) {
	p, err := tgl.LoadProgramFiles(ctx, shaders.Vertex, shaders.Fragment, nil)
	if err != nil {
		logger.Warn("shader reload failed", "files", changed, "err", err)
		return
	}
	if err := scene.SetProgram(p); err != nil {
		p.Delete()
		logger.Warn("shader reload failed", "files", changed, "err", err)
		return
	}
	logger.Info("shaders reloaded", "files", changed)
}
