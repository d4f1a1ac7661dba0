package winding

import (
	"math"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
)

func v(x, y, z float64) pt.Vector {
	return pt.Vector{X: x, Y: y, Z: z}
}

// square returns a unit winding on z=0 wound front-up.
func square(side float64) Winding {
	h := side / 2
	return Winding{v(-h, h, 0), v(h, h, 0), v(h, -h, 0), v(-h, -h, 0)}
}

func TestBaseForPlane(t *testing.T) {
	assert := assert.New(t)

	onPlane := func(normal pt.Vector, dist float64) {
		w := BaseForPlane(normal, dist)
		assert.Len(w, 4)
		for _, p := range w {
			assert.InDelta(dist, p.Dot(normal), 1e-6)
		}
		n, d := w.Plane()
		assert.InDelta(1, n.Dot(normal), 1e-6)
		assert.InDelta(dist, d, 1e-6)
	}

	onPlane(v(0, 0, 1), 64)
	onPlane(v(0, 0, -1), -64)
	onPlane(v(1, 0, 0), 128)
	onPlane(v(0, 1, 0), 32)
	d := 1 / math.Sqrt(3)
	onPlane(v(d, d, d), 100)

	assert.Panics(func() { BaseForPlane(pt.Vector{}, 0) })
}

func TestClipSplit(t *testing.T) {
	assert := assert.New(t)

	w := square(2)
	front, back := w.Clip(v(1, 0, 0), 0, 1e-6)

	assert.NotNil(front)
	assert.NotNil(back)
	assert.InDelta(2, front.Area(), 1e-9)
	assert.InDelta(2, back.Area(), 1e-9)
	assert.InDelta(w.Area(), front.Area()+back.Area(), 1e-9)

	for _, p := range front {
		assert.GreaterOrEqual(p.X, 0.0)
	}
	for _, p := range back {
		assert.LessOrEqual(p.X, 0.0)
	}

	// split preserves orientation on both fragments
	fn, _ := front.Plane()
	bn, _ := back.Plane()
	assert.InDelta(1, fn.Z, 1e-9)
	assert.InDelta(1, bn.Z, 1e-9)
}

func TestClipWholeSide(t *testing.T) {
	assert := assert.New(t)
	w := square(2)

	front, back := w.Clip(v(1, 0, 0), -5, 1e-6)
	assert.Equal(w, front)
	assert.Nil(back)

	front, back = w.Clip(v(1, 0, 0), 5, 1e-6)
	assert.Nil(front)
	assert.Equal(w, back)

	// coplanar winding lands on neither side
	front, back = w.Clip(v(0, 0, 1), 0, 1e-6)
	assert.Nil(front)
	assert.Nil(back)
}

func TestClipEpsilon(t *testing.T) {
	assert := assert.New(t)

	// vertices within epsilon of the plane count as on it, so slivers
	// thinner than epsilon do not split
	w := square(2)
	front, back := w.Clip(v(1, 0, 0), 1-0.05, OnEpsilon)
	assert.Nil(front)
	assert.Equal(w, back)
}

func TestClipAway(t *testing.T) {
	assert := assert.New(t)

	// repeated clips shrink the base winding down to a box face
	w := BaseForPlane(v(0, 0, 1), 32)
	for _, clip := range []struct {
		n pt.Vector
		d float64
	}{
		{v(-1, 0, 0), -16}, // x <= 16
		{v(1, 0, 0), -16},  // x >= -16
		{v(0, -1, 0), -16},
		{v(0, 1, 0), -16},
	} {
		w, _ = w.Clip(clip.n, clip.d, OnEpsilon)
		assert.NotNil(w)
	}
	assert.InDelta(32*32, w.Area(), 1e-6)
	center := w.Center()
	assert.InDelta(0, center.X, 1e-6)
	assert.InDelta(0, center.Y, 1e-6)
	assert.InDelta(32, center.Z, 1e-6)

	// clipping entirely behind a far plane leaves nothing in front
	front, _ := w.Clip(v(1, 0, 0), 1000, OnEpsilon)
	assert.Nil(front)
}

func TestPlaneConvention(t *testing.T) {
	assert := assert.New(t)

	// clockwise seen from +z fronts +z
	n, d := square(2).Plane()
	assert.InDelta(1, n.Z, 1e-9)
	assert.InDelta(0, d, 1e-9)

	// reversed order fronts -z
	w := square(2)
	rev := Winding{w[3], w[2], w[1], w[0]}
	n, _ = rev.Plane()
	assert.InDelta(-1, n.Z, 1e-9)
}
