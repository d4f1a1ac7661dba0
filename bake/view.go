package bake

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// View renders samples onto a top-down image of the scene footprint.
type View struct {
	Bounds Bounds
	XSize  int
	YSize  int

	scale      float64
	xTranslate float64
	yTranslate float64
}

func (v *View) computeScaleAndTranslation() {
	v.xTranslate = -v.Bounds.Mins.X
	v.yTranslate = -v.Bounds.Mins.Y
	xScale := float64(v.XSize) / (v.Bounds.Maxs.X - v.Bounds.Mins.X)
	yScale := float64(v.YSize) / (v.Bounds.Maxs.Y - v.Bounds.Mins.Y)
	v.scale = math.Min(xScale, yScale)
}

func (v *View) getScale() float64 {
	if v.scale == 0 {
		v.computeScaleAndTranslation()
	}
	return v.scale
}

func (v *View) project(x, y float64) (float64, float64) {
	s := v.getScale()
	return (x + v.xTranslate) * s, (y + v.yTranslate) * s
}

// RenderTopDown draws one filled circle per sample. Brightness falls with
// dirt; sun-lit samples keep their accumulated tint, shadowed samples go
// flat gray. Point lights are drawn as rings.
func (v *View) RenderTopDown(samples []Sample, lights []Light) image.Image {
	c := gg.NewContext(v.XSize, v.YSize)
	c.SetRGB(0.08, 0.08, 0.1)
	c.Clear()

	var radius float64
	if len(samples) > 1 {
		// half the lattice pitch keeps neighboring samples tangent
		radius = samples[1].Pos.Sub(samples[0].Pos).Length() * v.getScale() / 2
	}
	if radius < 1 {
		radius = 1
	}

	for _, s := range samples {
		open := 1 - s.Dirt
		if s.SunVisible {
			c.SetRGB(open*s.SunTint.R, open*s.SunTint.G, open*s.SunTint.B)
		} else {
			c.SetRGB(0.35*open, 0.35*open, 0.35*open)
		}
		x, y := v.project(s.Pos.X, s.Pos.Y)
		c.DrawCircle(x, y, radius)
		c.Fill()
	}

	c.SetRGB(1, 0.85, 0.3)
	c.SetLineWidth(2)
	for _, l := range lights {
		x, y := v.project(l.Pos.X, l.Pos.Y)
		c.DrawCircle(x, y, radius*0.75)
		c.Stroke()
	}

	return c.Image()
}

// histogram buckets dirt values for the bar chart.
type histogram struct {
	counts []float64
}

func newHistogram(samples []Sample, buckets int) histogram {
	h := histogram{counts: make([]float64, buckets)}
	for _, s := range samples {
		i := int(s.Dirt * float64(buckets))
		if i >= buckets {
			i = buckets - 1
		}
		h.counts[i]++
	}
	return h
}

func (h histogram) Len() int { return len(h.counts) }

func (h histogram) Value(i int) float64 { return h.counts[i] }

// SaveOcclusionChart writes a bar chart of the dirt distribution.
func SaveOcclusionChart(samples []Sample, path string, xSize, ySize int) error {
	p := plot.New()
	p.Title.Text = "Occlusion"
	p.X.Label.Text = "Dirt bucket"
	p.Y.Label.Text = "Samples"

	bars, err := plotter.NewBarChart(newHistogram(samples, 20), vg.Points(12))
	if err != nil {
		return fmt.Errorf("building occlusion chart: %w", err)
	}
	p.Add(bars)

	if err := p.Save(font.Length(xSize), font.Length(ySize), path); err != nil {
		return fmt.Errorf("saving occlusion chart: %w", err)
	}
	return nil
}
