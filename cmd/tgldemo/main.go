// Tgldemo renders the animated sprite batch with the software device and
// shows the result in an ebiten window. No GPU context is involved, so the
// frames match what the tests render.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mode777/tgl"
	"github.com/mode777/tgl/internal/config"
	"github.com/mode777/tgl/internal/demo"
	"github.com/mode777/tgl/internal/present"
	"github.com/mode777/tgl/softdevice"
	"github.com/mode777/tgl/sprite"
)

const statsEvery = 300

func main() {
	cfgPath := flag.String("config", "", "TOML configuration file")
	scale := flag.Int("scale", 1, "window scale factor")
	shot := flag.String("screenshot", "", "render one frame, save a screenshot with this label and exit")
	scriptPath := flag.String("script", "", "JSON frame script to run; the window closes when it finishes")
	stats := flag.Bool("stats", false, "show an FPS and draw statistics overlay")
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

	dev := softdevice.New(cfg.Window.Width, cfg.Window.Height)
	sprite.RegisterSoft(dev)
	ctx := tgl.NewContext(dev, tgl.WithLogger(logger))

	scene, err := demo.New(ctx, cfg.Sprites)
	if err != nil {
		log.Fatal(err)
	}
	defer scene.Delete()

	if *shot != "" {
		if err := scene.Update(0); err != nil {
			log.Fatal(err)
		}
		if err := scene.Draw(); err != nil {
			log.Fatal(err)
		}
		path, err := ctx.Screenshot(*shot)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(path)
		return
	}

	var script *demo.Script
	if *scriptPath != "" {
		if script, err = demo.LoadScriptFile(*scriptPath); err != nil {
			log.Fatal(err)
		}
	}

	frames := 0
	var last tgl.Stats
	game := present.New(dev, func(dt float32) error {
		ctx.ResetStats()
		if err := scene.Update(dt); err != nil {
			return err
		}
		if err := scene.Draw(); err != nil {
			return err
		}
		last = ctx.Stats()
		if frames++; frames%statsEvery == 0 {
			ctx.LogStats()
		}
		if err := ctx.CheckErrors(); err != nil {
			return err
		}
		if script != nil {
			if err := script.Step(scene); err != nil {
				return err
			}
			if script.Done() {
				for _, path := range script.Screenshots() {
					fmt.Println(path)
				}
				return ebiten.Termination
			}
		}
		return nil
	})
	if *stats {
		game.ShowStats(func() string {
			return fmt.Sprintf("draws: %d\nwrites: %d (%d cached)",
				last.DrawCalls, last.StateWrites, last.SuppressedWrites)
		})
	}

	ebiten.SetVsyncEnabled(cfg.Window.VSync)
	if err := present.Run(cfg.Window.Title, *scale, game); err != nil {
		log.Fatal(err)
	}
}
