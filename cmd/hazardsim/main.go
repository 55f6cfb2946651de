// Command hazardsim runs the threat engine headless over a sandbox battlefield and
// prints per-layer statistics
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/threatfield/cli"
	"github.com/lixenwraith/threatfield/engine"
	"github.com/lixenwraith/threatfield/sandbox"
	"github.com/lixenwraith/threatfield/status"
	"github.com/lixenwraith/threatfield/workers"
)

var (
	configFlag  = flag.String("config", "", "engine config YAML (defaults when empty)")
	catalogFlag = flag.String("catalog", "", "unit catalog YAML (builtin when empty)")
	framesFlag  = flag.Int("frames", 300, "frames to simulate")
	seedFlag    = flag.Uint64("seed", 1, "sandbox seed")
	debugFlag   = flag.Bool("debug", false, "write logs to logs/threatfield.log")
)

func main() {
	flag.Parse()

	if logFile := cli.SetupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hazardsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cat, err := cli.LoadInputs(*configFlag, *catalogFlag)
	if err != nil {
		return err
	}

	opts := sandbox.DefaultOptions()
	opts.Seed = *seedFlag
	world := sandbox.NewWorld(cfg.Grid, cat, opts)

	reg := status.NewRegistry()
	pool := workers.NewPool()
	eng, err := engine.New(cfg, engine.Deps{
		Pool:       pool,
		Catalog:    cat,
		Source:     world,
		Visibility: world,
		Terrain:    world,
		Registry:   reg,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	start := time.Now()
	for frame := 1; frame <= *framesFlag; frame++ {
		world.Step(eng.Post)
		eng.Tick(frame)
	}
	// Let the last in-flight cycle publish
	drain(eng, *framesFlag)
	elapsed := time.Since(start)

	report(os.Stdout, eng, world, cat, elapsed)
	return nil
}

// drain keeps ticking for up to a second until no cycle is in flight
func drain(eng *engine.Engine, frame int) {
	deadline := time.Now().Add(time.Second)
	for eng.Field().IsUpdating() && time.Now().Before(deadline) {
		frame++
		eng.Tick(frame)
		time.Sleep(time.Millisecond)
	}
}
