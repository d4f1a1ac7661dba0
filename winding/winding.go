// Package winding implements the convex polygon primitives used when
// reconstructing faces for brush models that were compiled without any.
//
// Windings follow the Quake tool convention: vertices are ordered clockwise
// when viewed from the front side, so the plane normal of a winding
// {p0, p1, p2, ...} is cross(p2-p0, p1-p0).
package winding

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// OnEpsilon is the plane-side tolerance used when clipping.
const OnEpsilon = 0.1

// baseExtent bounds the seed quad produced by BaseForPlane. It only needs to
// exceed the coordinate range of any map.
const baseExtent = 1 << 17

type Winding []pt.Vector

// BaseForPlane returns a large quad lying on the plane, wound so that the
// winding's front side faces along normal. normal must be unit length.
func BaseForPlane(normal pt.Vector, dist float64) Winding {
	// pick the major axis
	max := 0.0
	axis := -1
	for i, v := range []float64{normal.X, normal.Y, normal.Z} {
		if a := math.Abs(v); a > max {
			max = a
			axis = i
		}
	}
	if axis == -1 {
		panic("winding: degenerate plane normal")
	}

	up := pt.Vector{}
	if axis == 2 {
		up.X = 1
	} else {
		up.Z = 1
	}
	up = up.Sub(normal.MulScalar(up.Dot(normal))).Normalize()
	right := up.Cross(normal)

	up = up.MulScalar(baseExtent)
	right = right.MulScalar(baseExtent)
	org := normal.MulScalar(dist)

	return Winding{
		org.Sub(right).Add(up),
		org.Add(right).Add(up),
		org.Add(right).Sub(up),
		org.Sub(right).Sub(up),
	}
}

const (
	sideFront = iota
	sideBack
	sideOn
)

// Clip splits the winding by the plane, returning the parts in front of and
// behind it. A nil result means that side is empty; a winding lying entirely
// on the plane yields nil for both sides. Fragments reduced below three
// vertices are discarded.
func (w Winding) Clip(normal pt.Vector, dist, epsilon float64) (front, back Winding) {
	dists := make([]float64, len(w)+1)
	sides := make([]int, len(w)+1)
	var counts [3]int

	for i, p := range w {
		d := p.Dot(normal) - dist
		dists[i] = d
		switch {
		case d > epsilon:
			sides[i] = sideFront
		case d < -epsilon:
			sides[i] = sideBack
		default:
			sides[i] = sideOn
		}
		counts[sides[i]]++
	}
	dists[len(w)] = dists[0]
	sides[len(w)] = sides[0]

	if counts[sideFront] == 0 && counts[sideBack] == 0 {
		return nil, nil
	}
	if counts[sideFront] == 0 {
		return nil, w
	}
	if counts[sideBack] == 0 {
		return w, nil
	}

	for i, p := range w {
		switch sides[i] {
		case sideOn:
			front = append(front, p)
			back = append(back, p)
			continue
		case sideFront:
			front = append(front, p)
		case sideBack:
			back = append(back, p)
		}
		if sides[i+1] == sideOn || sides[i+1] == sides[i] {
			continue
		}

		next := w[(i+1)%len(w)]
		t := dists[i] / (dists[i] - dists[i+1])
		mid := p.Add(next.Sub(p).MulScalar(t))
		front = append(front, mid)
		back = append(back, mid)
	}

	if len(front) < 3 {
		front = nil
	}
	if len(back) < 3 {
		back = nil
	}
	return front, back
}

// Plane returns the winding's front plane.
func (w Winding) Plane() (normal pt.Vector, dist float64) {
	v1 := w[1].Sub(w[0])
	v2 := w[2].Sub(w[0])
	normal = v2.Cross(v1).Normalize()
	dist = normal.Dot(w[0])
	return normal, dist
}

// Area returns the winding's surface area.
func (w Winding) Area() float64 {
	total := 0.0
	for i := 2; i < len(w); i++ {
		e1 := w[i-1].Sub(w[0])
		e2 := w[i].Sub(w[0])
		total += e1.Cross(e2).Length() / 2
	}
	return total
}

// Center returns the average of the winding's vertices.
func (w Winding) Center() pt.Vector {
	var sum pt.Vector
	for _, p := range w {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(w)))
}
