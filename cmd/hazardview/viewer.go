package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/threatfield/core"
	"github.com/lixenwraith/threatfield/engine"
	"github.com/lixenwraith/threatfield/field"
	"github.com/lixenwraith/threatfield/sandbox"
	"github.com/lixenwraith/threatfield/status"
	"github.com/lixenwraith/threatfield/vmath"
)

const panelWidth = 34

// Viewer draws one layer of the published field plus the metrics panel
type Viewer struct {
	screen        tcell.Screen
	width, height int

	eng   *engine.Engine
	field *field.Field
	world *sandbox.World
	clock *engine.Clock
	reg   *status.Registry

	layer     core.Layer
	showUnits bool
}

func newViewer(screen tcell.Screen, eng *engine.Engine, world *sandbox.World, clock *engine.Clock, reg *status.Registry) *Viewer {
	v := &Viewer{
		screen:    screen,
		eng:       eng,
		field:     eng.Field(),
		world:     world,
		clock:     clock,
		reg:       reg,
		layer:     core.LayerSurface,
		showUnits: true,
	}
	v.width, v.height = screen.Size()
	return v
}

// heatStyle maps a hazard value in [0, peak] to a black-red-yellow ramp
func heatStyle(val, peak float64) tcell.Style {
	if val <= 0 || peak <= 0 {
		return tcell.StyleDefault.Background(tcell.NewRGBColor(8, 8, 16))
	}
	t := min(val/peak, 1)
	r := int32(60 + 195*t)
	g := int32(0)
	if t > 0.5 {
		g = int32(200 * (t - 0.5) * 2)
	}
	return tcell.StyleDefault.Background(tcell.NewRGBColor(r, g, 0))
}

func (v *Viewer) draw() {
	v.screen.Clear()

	view := v.field.View()
	peak := view.Summary(v.layer).Max
	mapW := min(v.field.Width(), v.width-panelWidth)
	mapH := min(v.field.Height(), v.height)
	for cy := 0; cy < mapH; cy++ {
		for cx := 0; cx < mapW; cx++ {
			v.screen.SetContent(cx, cy, ' ', nil, heatStyle(view.Cell(v.layer, cx, cy), peak))
		}
	}
	gen := view.Generation()
	view.Release()

	if v.showUnits {
		cell := v.field.CellSize()
		for _, o := range v.world.Observers() {
			cx, cy := vmath.CellOf(o.Pos, cell)
			v.plot(cx, cy, mapW, mapH, 'O', tcell.ColorLightCyan)
		}
		for _, u := range v.world.Units() {
			cx, cy := vmath.CellOf(u.Pos, cell)
			ch := 'x'
			if u.DefID == sandbox.UnresolvedDefID {
				ch = '?'
			}
			v.plot(cx, cy, mapW, mapH, ch, tcell.ColorWhite)
		}
	}

	v.drawPanel(mapW+1, gen)
	v.screen.Show()
}

func (v *Viewer) plot(cx, cy, mapW, mapH int, ch rune, color tcell.Color) {
	if cx < 0 || cy < 0 || cx >= mapW || cy >= mapH {
		return
	}
	v.screen.SetContent(cx, cy, ch, nil, tcell.StyleDefault.Foreground(color).Background(tcell.ColorReset))
}

func (v *Viewer) drawPanel(x0 int, gen uint64) {
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	head := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	state := "running"
	if v.clock.IsPaused() {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("layer %s  gen %d", v.layer, gen),
		fmt.Sprintf("frame %d  %s", v.clock.Frame(), state),
		"1-4 layer  u units  space pause",
		"esc/q quit",
		"",
	}
	y := 0
	for i, line := range lines {
		s := style
		if i == 0 {
			s = head
		}
		v.text(x0, y, line, s)
		y++
	}
	for _, line := range v.reg.Lines() {
		if y >= v.height {
			break
		}
		v.text(x0, y, line, style)
		y++
	}
}

func (v *Viewer) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		if x+i >= v.width {
			return
		}
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// handleInput returns false when the viewer should exit
func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())

	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q':
		return false
	case '1', '2', '3', '4':
		v.layer = core.Layer(r - '1')
	case 'u':
		v.showUnits = !v.showUnits
	case ' ':
		if v.clock.IsPaused() {
			v.clock.Resume()
		} else {
			v.clock.Pause()
		}
	}
	return true
}

// run redraws after every clock tick until the user quits
func (v *Viewer) run(ticked <-chan struct{}) {
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			eventChan <- ev
		}
	}()

	v.draw()
	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
			v.draw()

		case <-ticked:
			v.draw()
		}
	}
}
