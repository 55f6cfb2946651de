// Command hazardview renders the published threat layers in the terminal while the clock ticks
// a sandbox battlefield
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/threatfield/cli"
	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/engine"
	"github.com/lixenwraith/threatfield/sandbox"
	"github.com/lixenwraith/threatfield/status"
	"github.com/lixenwraith/threatfield/workers"
)

var (
	configFlag  = flag.String("config", "", "engine config YAML (defaults when empty)")
	catalogFlag = flag.String("catalog", "", "unit catalog YAML (builtin when empty)")
	seedFlag    = flag.Uint64("seed", 1, "sandbox seed")
	debugFlag   = flag.Bool("debug", false, "write logs to logs/threatfield.log")
)

// simTicker steps the world then the engine, on the clock goroutine
type simTicker struct {
	world *sandbox.World
	eng   *engine.Engine
}

func (s simTicker) Tick(frame int) {
	s.world.Step(s.eng.Post)
	s.eng.Tick(frame)
}

func main() {
	flag.Parse()

	if logFile := cli.SetupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, cat, err := cli.LoadInputs(*configFlag, *catalogFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hazardview: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	// Worker and clock goroutines restore the terminal before dying
	core.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\nHAZARDVIEW CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
		os.Exit(1)
	})

	opts := sandbox.DefaultOptions()
	opts.Seed = *seedFlag
	world := sandbox.NewWorld(cfg.Grid, cat, opts)

	reg := status.NewRegistry()
	eng, err := engine.New(cfg, engine.Deps{
		Pool:       workers.NewPool(),
		Catalog:    cat,
		Source:     world,
		Visibility: world,
		Terrain:    world,
		Registry:   reg,
	})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "hazardview: %v\n", err)
		os.Exit(1)
	}

	clock, ticked := engine.NewClock(simTicker{world: world, eng: eng}, cfg.Engine.TickInterval(), reg)
	v := newViewer(screen, eng, world, clock, reg)

	clock.Start()
	v.run(ticked)

	clock.Stop()
	eng.Close()
	screen.Fini()
}
