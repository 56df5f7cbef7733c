// Package report turns generation summaries into something a person can look
// at: a fitness plot on disk and a live feed over HTTP.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/baldhumanity/neuroevo/evo"
)

// DefaultRanks are the ranked positions a Plotter follows: the best agent and
// the fifth best.
var DefaultRanks = []int{0, 4}

var lineColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

// Plotter records the fitness of fixed rank positions per generation and
// renders them as lines.
type Plotter struct {
	Title string
	Ranks []int

	mu     sync.Mutex
	series map[int]plotter.XYs
}

// NewPlotter returns a Plotter following DefaultRanks.
func NewPlotter(title string) *Plotter {
	return &Plotter{Title: title, Ranks: DefaultRanks}
}

// OnGeneration implements evo.Observer. Ranks beyond the population size are
// skipped.
func (p *Plotter) OnGeneration(s evo.Summary) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.series == nil {
		p.series = make(map[int]plotter.XYs)
	}
	for _, r := range p.Ranks {
		if r < 0 || r >= len(s.Ranked) {
			continue
		}
		p.series[r] = append(p.series[r], plotter.XY{X: float64(s.Generation), Y: s.Ranked[r]})
	}
	return nil
}

// Points returns a copy of the recorded series for rank r.
func (p *Plotter) Points(r int) plotter.XYs {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append(plotter.XYs(nil), p.series[r]...)
}

// Save writes the plot to path; the format follows the file extension.
func (p *Plotter) Save(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.series) == 0 {
		return errors.New("nothing to plot yet")
	}

	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = "Generation"
	pl.Y.Label.Text = "Fitness"

	for i, r := range p.Ranks {
		pts := p.series[r]
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = lineColors[i%len(lineColors)]
		pl.Add(line)
		pl.Legend.Add(fmt.Sprintf("rank %d", r+1), line)
	}
	pl.Legend.Top = true
	pl.Legend.Left = true

	return pl.Save(8*vg.Inch, 4*vg.Inch, path)
}
