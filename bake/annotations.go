package bake

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fogleman/pt/pt"
)

// JSON schema types

type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type ColorJSON struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

type SunJSON struct {
	Visible bool      `json:"visible"`
	Style   int       `json:"style,omitempty"`
	Tint    ColorJSON `json:"tint"`
}

type LightJSON struct {
	Name    string `json:"name,omitempty"`
	Visible bool   `json:"visible"`
	Style   int    `json:"style,omitempty"`
}

type SampleJSON struct {
	Pos    PointJSON   `json:"pos"`
	Sun    SunJSON     `json:"sun"`
	Lights []LightJSON `json:"lights,omitempty"`
	Dirt   float64     `json:"dirt"`
}

type SummaryJSON struct {
	Count         int        `json:"count"`
	SunFraction   float64    `json:"sunFraction"`
	DirtMean      float64    `json:"dirtMean"`
	DirtStdDev    float64    `json:"dirtStdDev"`
	DirtQuartiles [3]float64 `json:"dirtQuartiles"`
}

func vectorToJSON(v pt.Vector) PointJSON {
	return PointJSON{X: v.X, Y: v.Y, Z: v.Z}
}

func sampleToJSON(s Sample) SampleJSON {
	out := SampleJSON{
		Pos: vectorToJSON(s.Pos),
		Sun: SunJSON{
			Visible: s.SunVisible,
			Style:   s.SunStyle,
			Tint:    ColorJSON{R: s.SunTint.R, G: s.SunTint.G, B: s.SunTint.B},
		},
		Dirt: s.Dirt,
	}
	for _, l := range s.Lights {
		out.Lights = append(out.Lights, LightJSON{Name: l.Name, Visible: l.Visible, Style: l.Style})
	}
	return out
}

// WriteSamplesJSON saves the sampled field and its summary for downstream
// viewers.
func WriteSamplesJSON(path string, samples []Sample, summary Summary) error {
	container := struct {
		Summary SummaryJSON  `json:"summary"`
		Samples []SampleJSON `json:"samples"`
	}{
		Summary: SummaryJSON{
			Count:         summary.Count,
			SunFraction:   summary.SunFraction,
			DirtMean:      summary.DirtMean,
			DirtStdDev:    summary.DirtStdDev,
			DirtQuartiles: summary.DirtQuartiles,
		},
		Samples: make([]SampleJSON, 0, len(samples)),
	}
	for _, s := range samples {
		container.Samples = append(container.Samples, sampleToJSON(s))
	}

	data, err := json.MarshalIndent(container, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling samples: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
