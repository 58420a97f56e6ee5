//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"mad-kmc/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type activeMaskProvider interface {
	ActiveMask() []float32
}

type progressProvider interface {
	Progress() float64
}

// Overlay draws optional debugging visuals on top of the lattice.
type Overlay struct {
	sim          core.Sim
	scale        int
	showActive   bool
	showProgress bool
	maskImg      *ebiten.Image
	maskBuf      []byte
	pixel        *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showProgress: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: 1 shows the active set, 2 the clock bar.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showActive = !o.showActive
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showProgress = !o.showProgress
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	total := size.W * size.H
	if total == 0 {
		return
	}
	if o.showActive {
		if provider, ok := o.sim.(activeMaskProvider); ok {
			if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
				o.maskImg = ebiten.NewImage(size.W, size.H)
				o.maskBuf = make([]byte, 4*total)
			}
			o.drawMask(screen, provider.ActiveMask(), color.RGBA{R: 64, G: 223, B: 140, A: 0})
		}
	}
	if o.showProgress {
		if provider, ok := o.sim.(progressProvider); ok {
			o.drawProgress(screen, provider.Progress(), size)
		}
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint color.RGBA) {
	if len(mask) != len(o.maskBuf)/4 {
		return
	}
	const (
		maxAlpha      = 160.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)
	for i, v := range mask {
		base := i * 4
		intensity := clamp01(float64(v))
		if intensity == 0 {
			o.maskBuf[base+0] = 0
			o.maskBuf[base+1] = 0
			o.maskBuf[base+2] = 0
			o.maskBuf[base+3] = 0
			continue
		}
		alpha := uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
		glow := glowBase + glowRange*math.Sqrt(intensity)
		o.maskBuf[base+0] = scaleColorComponent(tint.R, glow)
		o.maskBuf[base+1] = scaleColorComponent(tint.G, glow)
		o.maskBuf[base+2] = scaleColorComponent(tint.B, glow)
		o.maskBuf[base+3] = alpha
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.cellScale()), float64(o.cellScale()))
	screen.DrawImage(o.maskImg, op)
}

// drawProgress paints a thin bar along the bottom edge, filled to the
// fraction of the horizon already simulated.
func (o *Overlay) drawProgress(screen *ebiten.Image, frac float64, size core.Size) {
	const barHeight = 3
	width := float64(size.W * o.cellScale())
	y := float64(size.H*o.cellScale() - barHeight)
	o.drawRect(screen, 0, y, width, barHeight, color.RGBA{R: 40, G: 40, B: 48, A: 200})
	if f := clamp01(frac); f > 0 {
		o.drawRect(screen, 0, y, width*f, barHeight, color.RGBA{R: 230, G: 120, B: 40, A: 230})
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) cellScale() int {
	if o.scale <= 0 {
		return 1
	}
	return o.scale
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
