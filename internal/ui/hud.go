//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"mad-kmc/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonColor = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	mutedColor  = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD renders the run panel to the right of the lattice: integer controls
// with -/+ buttons, the engine status and the read-only parameters.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	status     []string
	title      string

	controls     []control
	setter       core.IntParameterSetter
	panelOffsetX int

	pixel *ebiten.Image
}

type control struct {
	spec     core.ParameterControl
	value    int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width, title: sim.Name()}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.setter = setter
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			if ctrl.Type == core.ParamTypeInt {
				h.controls = append(h.controls, control{spec: ctrl})
			}
		}
		h.layoutControls()
	}
	return h
}

// Update refreshes the cached snapshot and status and handles clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.status = h.status[:0]
	if sp, ok := h.sim.(core.StatusProvider); ok {
		h.status = append(h.status, sp.Status()...)
	}
	h.snapshot = core.ParameterSnapshot{}
	if provider, ok := h.sim.(parameterProvider); ok {
		h.snapshot = provider.Parameters()
	}
	for i := range h.controls {
		c := &h.controls[i]
		c.hasValue = false
		if p, ok := h.snapshot.Lookup(c.spec.Key); ok {
			if v, err := strconv.Atoi(p.Value); err == nil {
				c.value, c.hasValue = v, true
			}
		}
	}
	h.handleInput()
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	for i := range h.controls {
		h.drawControl(&h.controls[i])
	}
	h.drawStatus(height)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) handleInput() {
	if h.setter == nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.panelOffsetX
	if px < 0 {
		return
	}
	for i := range h.controls {
		c := &h.controls[i]
		dir := 0
		switch {
		case pointInRect(px, my, c.minusRect):
			dir = -1
		case pointInRect(px, my, c.plusRect):
			dir = 1
		default:
			continue
		}
		if target, ok := c.target(dir); ok && h.setter.SetIntParameter(c.spec.Key, target) {
			c.value = target
		}
		return
	}
}

// target returns the value one step in direction dir, clamped to the
// control's range. ok is false when the value would not change.
func (c *control) target(dir int) (int, bool) {
	if !c.hasValue {
		return 0, false
	}
	step := int(math.Round(c.spec.Step))
	if step <= 0 {
		step = 1
	}
	v := c.value + dir*step
	if c.spec.HasMin {
		v = max(v, int(math.Round(c.spec.Min)))
	}
	if c.spec.HasMax {
		v = min(v, int(math.Round(c.spec.Max)))
	}
	return v, v != c.value
}

func (h *HUD) drawControl(c *control) {
	face := basicfont.Face7x13
	y := c.top + labelBaseline
	text.Draw(h.panel, c.spec.Label, face, panelPadding, y, textColor)

	value, col := "--", dimColor
	if c.hasValue {
		value, col = strconv.Itoa(c.value), textColor
	}
	w := text.BoundString(face, value).Dx()
	text.Draw(h.panel, value, face, c.minusRect.Min.X-buttonGap-w, y, col)

	_, canDown := c.target(-1)
	_, canUp := c.target(1)
	h.drawButton(c.minusRect, "-", h.setter != nil && canDown)
	h.drawButton(c.plusRect, "+", h.setter != nil && canUp)
}

func (h *HUD) drawStatus(height int) {
	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*lineHeight + statusLine
	line := func(s string, col color.Color) bool {
		if y > height-panelPadding {
			return false
		}
		text.Draw(h.panel, s, face, panelPadding, y, col)
		y += statusLine
		return true
	}
	for _, s := range h.status {
		if !line(s, textColor) {
			return
		}
	}
	y += statusLine
	for _, group := range h.snapshot.Groups {
		if !line(group.Name, titleColor) {
			return
		}
		for _, p := range group.Params {
			if !line(fmt.Sprintf("  %s: %s", p.Label, p.Value), dimColor) {
				return
			}
		}
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, textColor
	if !enabled {
		bg, fg = mutedColor, color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(bg.R)/255.0, float64(bg.G)/255.0, float64(bg.B)/255.0, float64(bg.A)/255.0)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minus
		h.controls[i].plusRect = plus
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	statusLine     = 16
	controlsTop    = panelPadding + headerBaseline + 14
)
