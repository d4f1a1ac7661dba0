// Package bake samples a committed scene over a grid: sun visibility, point
// light visibility and an ambient dirt term per sample point. It is the demo
// consumer of the trace query surface, not a light integrator.
package bake

import (
	"math"
	"sort"

	"github.com/fogleman/pt/pt"
	lin "github.com/sgreben/piecewiselinear"
	"gonum.org/v1/gonum/stat"

	"github.com/jdginn/go-bsp-light/trace"
)

// Bounds is the interior volume the sample lattice covers.
type Bounds struct {
	Mins pt.Vector
	Maxs pt.Vector
}

// Light is one point light to test visibility against.
type Light struct {
	Name string
	Pos  pt.Vector
}

// DirtParams configures the ambient occlusion cone traced per sample point.
type DirtParams struct {
	Rays    int
	MaxDist float64
	// AngleDeg is the cone half-angle off vertical, in degrees.
	AngleDeg float64
	// Weights maps ray angle off vertical to a weight.
	Weights lin.Function
}

// Params configures one sampling pass.
type Params struct {
	Bounds Bounds
	// Height raises the lattice above the interior floor.
	Height float64
	Step   float64
	Margin float64
	// Sun points from the scene toward the sun.
	Sun    pt.Vector
	Lights []Light
	Dirt   DirtParams
}

// LightSample is one point light's visibility from one sample point.
type LightSample struct {
	Name    string
	Visible bool
	Style   int
}

// Sample is everything measured at one lattice point.
type Sample struct {
	Pos        pt.Vector
	SunVisible bool
	SunStyle   int
	SunTint    pt.Color
	Lights     []LightSample
	// Dirt is 0 for a fully open point and approaches 1 as the cone rays
	// strike nearby geometry.
	Dirt float64
}

// WeightPoint is one knot of the dirt angle weighting curve.
type WeightPoint struct {
	Angle  float64
	Weight float64
}

// AngleWeights builds the piecewise linear curve weighting dirt rays by
// their angle off vertical, in degrees. No points means uniform weighting.
func AngleWeights(points []WeightPoint) lin.Function {
	if len(points) == 0 {
		return lin.Function{X: []float64{0, 90}, Y: []float64{1, 1}}
	}
	sorted := make([]WeightPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Angle < sorted[j].Angle })

	f := lin.Function{
		X: make([]float64, len(sorted)),
		Y: make([]float64, len(sorted)),
	}
	for i, p := range sorted {
		f.X[i] = p.Angle
		f.Y[i] = p.Weight
	}
	return f
}

// GridPoints lays out the sample lattice: a horizontal grid Height above the
// interior floor, inset by Margin.
func GridPoints(p Params) []pt.Vector {
	var points []pt.Vector
	z := p.Bounds.Mins.Z + p.Height
	for y := p.Bounds.Mins.Y + p.Margin; y <= p.Bounds.Maxs.Y-p.Margin; y += p.Step {
		for x := p.Bounds.Mins.X + p.Margin; x <= p.Bounds.Maxs.X-p.Margin; x += p.Step {
			points = append(points, pt.Vector{X: x, Y: y, Z: z})
		}
	}
	return points
}

// SampleField measures every lattice point against the scene. Sun rays for
// all points go through one stream as a single batch; each point then gets a
// TestLight per light and a cone of dirt rays through a reused stream.
func SampleField(scene *trace.Scene, p Params) []Sample {
	points := GridPoints(p)
	samples := make([]Sample, len(points))
	for i, pos := range points {
		samples[i].Pos = pos
	}
	if len(points) == 0 {
		return samples
	}

	// sample points sit in open world space
	world := scene.Models()[0]

	sunDir := p.Sun.Normalize()
	white := pt.White
	sun := scene.NewStream(len(points))
	for i, pos := range points {
		sun.Push(i, pos, sunDir, trace.MaxSkyDist, &white, nil)
	}
	sun.TraceIntersection(world)
	for i := 0; i < sun.Count(); i++ {
		s := &samples[sun.PointIndex(i)]
		s.SunVisible = sun.HitType(i) == trace.HitSky
		s.SunStyle = sun.DynamicStyle(i)
		s.SunTint = sun.Color(i)
	}

	dirtDirs := coneDirs(p.Dirt.Rays, p.Dirt.AngleDeg)
	dirt := scene.NewStream(len(dirtDirs))

	for i := range samples {
		s := &samples[i]

		for _, light := range p.Lights {
			res := scene.TestLight(s.Pos, light.Pos, world)
			s.Lights = append(s.Lights, LightSample{
				Name:    light.Name,
				Visible: res.Visible,
				Style:   res.DynamicStyle,
			})
		}

		if len(dirtDirs) > 0 {
			dirt.Clear()
			for j, dir := range dirtDirs {
				dirt.Push(j, s.Pos, dir, p.Dirt.MaxDist, nil, nil)
			}
			dirt.TraceIntersection(world)

			var sum, weightSum float64
			for j := 0; j < dirt.Count(); j++ {
				angle := angleOffVertical(dirt.Dir(j))
				w := p.Dirt.Weights.At(angle)
				occ := 1 - dirt.HitDist(j)/dirt.Dist(j)
				sum += w * occ
				weightSum += w
			}
			if weightSum > 0 {
				s.Dirt = sum / weightSum
			}
		}
	}
	return samples
}

// coneDirs distributes rays over a cone around +Z: azimuth steps around
// elevation rings, the ring count and step count split near-evenly.
func coneDirs(rays int, halfAngleDeg float64) []pt.Vector {
	if rays <= 0 {
		return nil
	}
	azSteps := int(math.Floor(math.Sqrt(float64(rays))))
	elevSteps := rays / azSteps

	dirs := make([]pt.Vector, 0, azSteps*elevSteps)
	for e := 0; e < elevSteps; e++ {
		elev := halfAngleDeg * (float64(e) + 0.5) / float64(elevSteps)
		elevRads := elev / 180 * math.Pi
		for a := 0; a < azSteps; a++ {
			azRads := 2 * math.Pi * float64(a) / float64(azSteps)
			dirs = append(dirs, pt.Vector{
				X: math.Sin(elevRads) * math.Cos(azRads),
				Y: math.Sin(elevRads) * math.Sin(azRads),
				Z: math.Cos(elevRads),
			})
		}
	}
	return dirs
}

func angleOffVertical(dir pt.Vector) float64 {
	return math.Acos(dir.Z/dir.Length()) * 180 / math.Pi
}

// Summary aggregates a sampling pass.
type Summary struct {
	Count       int
	SunFraction float64
	DirtMean    float64
	DirtStdDev  float64
	// DirtQuartiles holds the 25th, 50th and 75th percentile dirt values.
	DirtQuartiles [3]float64
}

// Summarize reduces the samples with gonum's estimators.
func Summarize(samples []Sample) Summary {
	s := Summary{Count: len(samples)}
	if len(samples) == 0 {
		return s
	}

	dirt := make([]float64, len(samples))
	sunVisible := 0
	for i, sample := range samples {
		dirt[i] = sample.Dirt
		if sample.SunVisible {
			sunVisible++
		}
	}
	s.SunFraction = float64(sunVisible) / float64(len(samples))
	s.DirtMean = stat.Mean(dirt, nil)
	s.DirtStdDev = stat.StdDev(dirt, nil)

	sort.Float64s(dirt)
	for i, q := range []float64{0.25, 0.5, 0.75} {
		s.DirtQuartiles[i] = stat.Quantile(q, stat.Empirical, dirt, nil)
	}
	return s
}
