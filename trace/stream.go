package trace

import (
	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-bsp-light/bsp"
)

// Stream is a reusable fixed-capacity batch of shadow rays. Pushing past
// capacity panics. Per-ray payloads ride along with each ray: a sample point
// index, an accumulated color that glass hits tint, a normal-weighted
// contribution vector, and a dynamic shadow style.
//
// A stream belongs to one goroutine at a time.
type Stream struct {
	scene *Scene
	rays  []shadowRay
	n     int

	pointIndexes   []int
	colors         []pt.Color
	normalContribs []pt.Vector
	styles         []int
}

// NewStream returns an empty stream with room for maxRays rays.
func (s *Scene) NewStream(maxRays int) *Stream {
	return &Stream{
		scene:          s,
		rays:           make([]shadowRay, maxRays),
		pointIndexes:   make([]int, maxRays),
		colors:         make([]pt.Color, maxRays),
		normalContribs: make([]pt.Vector, maxRays),
		styles:         make([]int, maxRays),
	}
}

// Push adds a ray. dir must be unit length; dist is the ray's reach in map
// units. color and normalContrib are optional payloads, copied when non-nil.
func (st *Stream) Push(pointIndex int, origin, dir pt.Vector, dist float64, color *pt.Color, normalContrib *pt.Vector) {
	if st.n >= len(st.rays) {
		panic("trace: stream capacity exceeded")
	}
	i := st.n
	st.rays[i] = newShadowRay(i, origin, dir, dist)
	st.pointIndexes[i] = pointIndex
	st.colors[i] = pt.Color{}
	if color != nil {
		st.colors[i] = *color
	}
	st.normalContribs[i] = pt.Vector{}
	if normalContrib != nil {
		st.normalContribs[i] = *normalContrib
	}
	st.styles[i] = 0
	st.n++
}

// Count returns the number of pushed rays.
func (st *Stream) Count() int { return st.n }

// Clear forgets the pushed rays and keeps the buffers for reuse.
func (st *Stream) Clear() { st.n = 0 }

// TraceOcclusion resolves every pushed ray as a boolean occlusion test. self
// names the model the rays were cast from, nil for none.
func (st *Stream) TraceOcclusion(self *ModelInfo) {
	if st.n == 0 {
		return
	}
	src := &raySourceInfo{stream: st, self: self}
	st.scene.accel.traceRays(st.rays[:st.n], src, true)
}

// TraceIntersection resolves every pushed ray to its nearest accepted hit.
func (st *Stream) TraceIntersection(self *ModelInfo) {
	if st.n == 0 {
		return
	}
	src := &raySourceInfo{stream: st, self: self}
	st.scene.accel.traceRays(st.rays[:st.n], src, false)
}

// Occluded reports whether ray i hit anything. Only meaningful after
// TraceOcclusion.
func (st *Stream) Occluded(i int) bool {
	return st.rays[i].geomID != invalidGeom
}

// HitType classifies ray i's hit. Only meaningful after TraceIntersection.
func (st *Stream) HitType(i int) HitType {
	return st.scene.hitType(st.rays[i].geomID)
}

// HitDist returns the distance to ray i's accepted hit, or the pushed
// distance if nothing was hit. Only meaningful after TraceIntersection.
func (st *Stream) HitDist(i int) float64 {
	return st.rays[i].tfar
}

// HitFace returns the BSP face ray i struck, nil for a miss or for
// reconstructed skip geometry.
func (st *Stream) HitFace(i int) *bsp.Face {
	r := &st.rays[i]
	if r.geomID == invalidGeom {
		return nil
	}
	return st.scene.lookupFace(r.geomID, r.primID)
}

// HitNormal returns the unit geometric normal of ray i's accepted hit.
// Only meaningful after TraceIntersection on a ray that hit.
func (st *Stream) HitNormal(i int) pt.Vector {
	return st.rays[i].ng.Normalize()
}

// Origin returns ray i's origin as pushed.
func (st *Stream) Origin(i int) pt.Vector { return st.rays[i].org }

// Dir returns ray i's direction as pushed.
func (st *Stream) Dir(i int) pt.Vector { return st.rays[i].dir }

// Dist returns ray i's reach as pushed.
func (st *Stream) Dist(i int) float64 { return st.rays[i].maxDist }

// PointIndex returns the sample point index pushed with ray i.
func (st *Stream) PointIndex(i int) int { return st.pointIndexes[i] }

// Color returns ray i's accumulated color, including any glass tint the
// trace folded in.
func (st *Stream) Color(i int) pt.Color { return st.colors[i] }

// NormalContrib returns the contribution vector pushed with ray i.
func (st *Stream) NormalContrib(i int) pt.Vector { return st.normalContribs[i] }

// DynamicStyle returns the switchable shadow style recorded for ray i, 0
// for none.
func (st *Stream) DynamicStyle(i int) int { return st.styles[i] }
