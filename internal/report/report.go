// Package report turns clone histograms into the line-per-clone text output
// and a cluster-size distribution chart.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"mad-kmc/internal/kmc"
)

// ErrNoData reports a chart request without any trial.
var ErrNoData = errors.New("report: no trials to plot")

// WriteClones writes one clone size per line, in the order given.
func WriteClones(w io.Writer, clones []kmc.Clone) error {
	bw := bufio.NewWriter(w)
	for _, c := range clones {
		fmt.Fprintf(bw, "%d\n", c.Size)
	}
	return bw.Flush()
}

// Distribution counts clones by size across trials.
type Distribution struct {
	Trials int
	Clones int
	Counts map[int]int
	Max    int
	Total  int
}

// NewDistribution returns an empty distribution.
func NewDistribution() *Distribution {
	return &Distribution{Counts: map[int]int{}}
}

// Add folds one trial's clones in.
func (d *Distribution) Add(clones []kmc.Clone) {
	d.Trials++
	for _, c := range clones {
		d.Counts[c.Size]++
		d.Clones++
		d.Total += c.Size
		if c.Size > d.Max {
			d.Max = c.Size
		}
	}
}

// Mean returns the average clone size, or 0 without clones.
func (d *Distribution) Mean() float64 {
	if d.Clones == 0 {
		return 0
	}
	return float64(d.Total) / float64(d.Clones)
}

// Frequencies returns sizes 0..max (at least 0..1) and the fraction of clones
// of each size.
func (d *Distribution) Frequencies() (sizes, freq []float64) {
	top := d.Max
	if top < 1 {
		top = 1
	}
	for s := 0; s <= top; s++ {
		sizes = append(sizes, float64(s))
		f := 0.0
		if d.Clones > 0 {
			f = float64(d.Counts[s]) / float64(d.Clones)
		}
		freq = append(freq, f)
	}
	return sizes, freq
}

func generateTicks(xMax, interval float64) []chart.Tick {
	var ticks []chart.Tick
	for value := 0.0; value <= xMax; value += interval {
		ticks = append(ticks, chart.Tick{Value: value, Label: fmt.Sprintf("%.0f", value)})
	}
	return ticks
}

// RenderChart draws the clone-size frequency distribution as a PNG.
func RenderChart(w io.Writer, d *Distribution, title string) error {
	if d == nil || d.Trials == 0 {
		return ErrNoData
	}
	sizes, freq := d.Frequencies()
	xMax := sizes[len(sizes)-1]
	yMax := 0.0
	for _, f := range freq {
		yMax = math.Max(yMax, f)
	}
	if yMax == 0 {
		yMax = 1
	}
	interval := math.Max(1, math.Ceil(xMax/10))

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "clone size",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
			Ticks: generateTicks(xMax, interval),
		},
		YAxis: chart.YAxis{
			Name:  "fraction of clones",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("%d trials, mean %.2f", d.Trials, d.Mean()),
				XValues: sizes,
				YValues: freq,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 230, G: 120, B: 40, A: 255},
					StrokeWidth: 2.0,
				},
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
