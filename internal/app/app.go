//go:build ebiten

package app

import (
	"time"

	"mad-kmc/internal/core"
	"mad-kmc/internal/render"
	"mad-kmc/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.Pacer

	scale      int
	panelWidth int
	paused     bool
	tickOnce   bool
	showLabels bool
	seed       int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, opts Options) *Game {
	opts.Normalize()
	size := sim.Size()
	_, labelled := sim.(core.LabelledSim)
	return &Game{
		sim:        sim,
		painter:    render.NewGridPainter(size.W, size.H),
		overlay:    ui.NewOverlay(sim, opts.Scale),
		hud:        ui.NewHUD(sim, opts.PanelWidth),
		pacer:      core.NewPacer(opts.StepsPerSec, 4),
		scale:      opts.Scale,
		panelWidth: opts.PanelWidth,
		showLabels: labelled,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.showLabels = !g.showLabels
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.pacer.SetRate(g.pacer.Rate() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && g.pacer.Rate() > 1 {
		g.pacer.SetRate(g.pacer.Rate() / 2)
	}

	g.overlay.Update()
	g.hud.Update(g.simWidth())

	due := g.pacer.Due()
	switch {
	case g.tickOnce:
		g.sim.Step()
		g.tickOnce = false
	case !g.paused:
		for i := 0; i < due; i++ {
			g.sim.Step()
		}
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	if ls, ok := g.sim.(core.LabelledSim); ok && g.showLabels {
		g.painter.BlitLabels(screen, ls.Labels(), g.scale)
	} else {
		g.painter.BlitStates(screen, g.sim.Cells(), g.scale)
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.simWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.simWidth() + g.panelWidth, g.sim.Size().H * g.scale
}

func (g *Game) simWidth() int { return g.sim.Size().W * g.scale }
