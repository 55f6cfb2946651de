package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/threatfield/cli"
	"github.com/lixenwraith/threatfield/engine"
	"github.com/lixenwraith/threatfield/sandbox"
	"github.com/lixenwraith/threatfield/workers"
)

func TestReportAfterShortRun(t *testing.T) {
	cli.SetupLogging(false)

	cfg, cat, _ := cli.LoadInputs("", "")
	cfg.Engine.RefreshFrames = 5
	world := sandbox.NewWorld(cfg.Grid, cat, sandbox.DefaultOptions())
	eng, err := engine.New(cfg, engine.Deps{
		Pool: workers.NewPool(), Catalog: cat, Source: world, Visibility: world, Terrain: world,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	defer eng.Close()

	for frame := 1; frame <= 60; frame++ {
		world.Step(eng.Post)
		eng.Tick(frame)
	}
	drain(eng, 60)

	var buf bytes.Buffer
	report(&buf, eng, world, cat, time.Second)
	out := buf.String()
	for _, want := range []string{"surface", "amphibious", "stealth", "ledger: tracked=", "field.cycles="} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if eng.Field().Generation() == 0 {
		t.Error("no cycle published over 60 frames")
	}
}
