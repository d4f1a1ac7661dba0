package trace

import (
	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-bsp-light/bsp"
)

// HitType classifies what a ray struck.
type HitType int

const (
	HitNone HitType = iota
	HitSky
	HitSolid
)

func (t HitType) String() string {
	switch t {
	case HitSky:
		return "sky"
	case HitSolid:
		return "solid"
	default:
		return "none"
	}
}

// MaxSkyDist bounds sky rays; it is far beyond any map's extents.
const MaxSkyDist = 1e6

// HitResult reports a visibility test. When the sightline crossed a
// switchable shadow caster, DynamicStyle holds the caster's style so the
// light can be stored as switchable shading.
type HitResult struct {
	Visible      bool
	DynamicStyle int
}

// ProbeResult describes the nearest occluding surface along a ray.
type ProbeResult struct {
	Type HitType
	// Dist is the distance to the hit in map units.
	Dist float64
	// Plane is the plane of the surface struck, with a unit normal. Only
	// valid when Type is not HitNone.
	Plane bsp.Plane
	// Face is the BSP face struck; nil for reconstructed skip geometry or
	// when nothing was hit.
	Face *bsp.Face
}

// TestLight reports whether stop is visible from start. self names the model
// the start point belongs to, nil for none. A sightline blocked only by
// switchable shadow casters counts as visible and carries their style.
func (s *Scene) TestLight(start, stop pt.Vector, self *ModelInfo) HitResult {
	dir := stop.Sub(start)
	dist := dir.Length()
	if dist == 0 {
		return HitResult{Visible: true}
	}
	rays := []shadowRay{newShadowRay(0, start, dir.DivScalar(dist), dist)}
	src := &raySourceInfo{self: self}
	s.accel.traceRays(rays, src, true)
	if rays[0].geomID != invalidGeom {
		return HitResult{}
	}
	return HitResult{Visible: true, DynamicStyle: src.singleRayShadowStyle}
}

// TestSky reports whether the sky is visible from start along dir, and if so
// which sky face was struck. dir need not be unit length.
func (s *Scene) TestSky(start, dir pt.Vector, self *ModelInfo) (HitResult, *bsp.Face) {
	rays := []shadowRay{newShadowRay(0, start, dir.Normalize(), MaxSkyDist)}
	src := &raySourceInfo{self: self}
	s.accel.traceRays(rays, src, false)

	r := &rays[0]
	if r.geomID != s.sky {
		return HitResult{DynamicStyle: src.singleRayShadowStyle}, nil
	}
	return HitResult{Visible: true, DynamicStyle: src.singleRayShadowStyle},
		s.lookupFace(r.geomID, r.primID)
}

// Probe casts a ray from start along dir, unit length, and returns the
// nearest occluding surface within maxDist.
func (s *Scene) Probe(start, dir pt.Vector, maxDist float64, self *ModelInfo) ProbeResult {
	rays := []shadowRay{newShadowRay(0, start, dir, maxDist)}
	src := &raySourceInfo{self: self}
	s.accel.traceRays(rays, src, false)

	r := &rays[0]
	if r.geomID == invalidGeom {
		return ProbeResult{Type: HitNone}
	}
	normal := r.ng.Normalize()
	return ProbeResult{
		Type: s.hitType(r.geomID),
		Dist: r.tfar,
		Plane: bsp.Plane{
			Normal: normal,
			Dist:   normal.Dot(r.endpoint(r.tfar)),
		},
		Face: s.lookupFace(r.geomID, r.primID),
	}
}
