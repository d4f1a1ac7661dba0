package trace

import (
	"fmt"

	"github.com/fogleman/pt/pt"
)

// invalidGeom marks a ray that hit nothing.
const invalidGeom = ^uint32(0)

// marchEpsilon is how far a ray advances past a rejected hit before it is
// recast. Map geometry is far coarser than this.
const marchEpsilon = 1e-3

// shadowRay carries one ray through the acceleration structure and receives
// its hit. dir must be unit length so that distances come out in map units.
type shadowRay struct {
	org     pt.Vector
	dir     pt.Vector
	maxDist float64
	// tfar is the accepted hit distance. Occlusion traces leave it at
	// maxDist and report the hit through geomID alone.
	tfar   float64
	geomID uint32
	primID uint32
	ng     pt.Vector
	// index is the ray's slot in the owning stream, 0 for single rays.
	index int
}

func newShadowRay(index int, org, dir pt.Vector, dist float64) shadowRay {
	return shadowRay{
		org:     org,
		dir:     dir,
		maxDist: dist,
		tfar:    dist,
		geomID:  invalidGeom,
		primID:  invalidGeom,
		index:   index,
	}
}

func (r *shadowRay) endpoint(t float64) pt.Vector {
	return r.org.Add(r.dir.MulScalar(t))
}

// hitCandidate is a provisional hit on a filtered group, offered to the
// group's filter before it is allowed to stand.
type hitCandidate struct {
	ray    *shadowRay
	geomID uint32
	primID uint32
	t      float64
	ng     pt.Vector
}

// hitFilter inspects a batch of candidate hits, one per ray at most, and
// clears valid[i] for every candidate that should not occlude. Rejected
// candidates are skipped over and their rays keep marching.
type hitFilter func(valid []bool, cands []hitCandidate, src *raySourceInfo)

// accel is a set of triangle groups, each compiled into its own bounding
// hierarchy. Groups are identified by their creation order.
type accel struct {
	groups    []*accelGroup
	committed bool
}

type accelGroup struct {
	id     uint32
	tris   []*pt.Triangle
	prims  map[*pt.Triangle]uint32
	mesh   *pt.Mesh
	filter hitFilter
}

// addGeometry copies the given triangles into a new group and returns its
// id. Triangle entries index into verts.
func (a *accel) addGeometry(verts []pt.Vector, tris [][3]int32) uint32 {
	if a.committed {
		panic("trace: addGeometry after commit")
	}
	g := &accelGroup{
		id:    uint32(len(a.groups)),
		prims: make(map[*pt.Triangle]uint32, len(tris)),
	}
	mat := &pt.Material{}
	for i, t := range tris {
		tri := &pt.Triangle{Material: mat}
		tri.V1 = verts[t[0]]
		tri.V2 = verts[t[1]]
		tri.V3 = verts[t[2]]
		tri.FixNormals()
		g.prims[tri] = uint32(i)
		g.tris = append(g.tris, tri)
	}
	a.groups = append(a.groups, g)
	return g.id
}

func (a *accel) setHitFilter(id uint32, f hitFilter) {
	if a.committed {
		panic("trace: setHitFilter after commit")
	}
	a.groups[id].filter = f
}

// commit freezes the groups and builds their trees. Queries before commit
// and geometry after it both panic.
func (a *accel) commit() {
	if a.committed {
		panic("trace: scene committed twice")
	}
	for _, g := range a.groups {
		if len(g.tris) == 0 {
			continue
		}
		g.mesh = pt.NewMesh(g.tris)
		g.mesh.Compile()
	}
	a.committed = true
}

// intersectFrom casts the ray against one group, starting offset units along
// the ray, and reports the nearest hit as an absolute distance.
func (g *accelGroup) intersectFrom(r *shadowRay, offset float64) (hitCandidate, bool) {
	if g.mesh == nil {
		return hitCandidate{}, false
	}
	hit := g.mesh.Intersect(pt.Ray{Origin: r.endpoint(offset), Direction: r.dir})
	if !hit.Ok() {
		return hitCandidate{}, false
	}
	tri := hit.Shape.(*pt.Triangle)
	return hitCandidate{
		ray:    r,
		geomID: g.id,
		primID: g.prims[tri],
		t:      offset + hit.T,
		ng:     tri.Normal(),
	}, true
}

// nearestUnconditional finds the closest hit among groups with no filter.
// Ties go to the earliest-created group.
func (a *accel) nearestUnconditional(r *shadowRay) (hitCandidate, bool) {
	var best hitCandidate
	found := false
	for _, g := range a.groups {
		if g.filter != nil {
			continue
		}
		cand, ok := g.intersectFrom(r, 0)
		if !ok || cand.t > r.maxDist {
			continue
		}
		if !found || cand.t < best.t {
			best = cand
			found = true
		}
	}
	return best, found
}

// nearestFiltered finds the closest filtered-group candidate at or beyond
// offset, ignoring anything past bound.
func (a *accel) nearestFiltered(r *shadowRay, offset, bound float64) (hitCandidate, bool) {
	var best hitCandidate
	found := false
	for _, g := range a.groups {
		if g.filter == nil {
			continue
		}
		cand, ok := g.intersectFrom(r, offset)
		if !ok || cand.t > bound {
			continue
		}
		if !found || cand.t < best.t {
			best = cand
			found = true
		}
	}
	return best, found
}

// rayState tracks one ray's progress through a trace: its best
// unconditional hit, its march position through the filtered groups, and
// the filtered hit it has accepted, if any.
type rayState struct {
	r      *shadowRay
	uncond hitCandidate
	uOk    bool
	bound  float64
	offset float64
	accept hitCandidate
	aOk    bool
	done   bool
}

// traceRays resolves a batch of rays against the committed groups.
//
// Unconditional groups are resolved first. Filtered groups are then marched
// in rounds: each round collects every still-active ray's nearest untried
// candidate and hands them to the group filter as one batch, so a stream's
// rays share filter invocations the way they share traversal.
//
// In occlusion mode a ray stops at the first hit that stands, recording only
// the group in geomID. Otherwise the nearest accepted hit is written back in
// full: geomID, primID, tfar and the geometric normal.
func (a *accel) traceRays(rays []shadowRay, src *raySourceInfo, occlusion bool) {
	if !a.committed {
		panic("trace: query before commit")
	}

	states := make([]rayState, len(rays))
	for i := range rays {
		st := &states[i]
		st.r = &rays[i]
		st.uncond, st.uOk = a.nearestUnconditional(st.r)
		st.bound = st.r.maxDist
		if occlusion && st.uOk {
			st.r.geomID = st.uncond.geomID
			st.done = true
			continue
		}
		if st.uOk {
			st.bound = st.uncond.t
		}
	}

	var cands []hitCandidate
	var owners []*rayState
	for {
		cands = cands[:0]
		owners = owners[:0]
		for i := range states {
			st := &states[i]
			if st.done {
				continue
			}
			cand, ok := a.nearestFiltered(st.r, st.offset, st.bound)
			if !ok {
				st.done = true
				continue
			}
			cands = append(cands, cand)
			owners = append(owners, st)
		}
		if len(cands) == 0 {
			break
		}

		valid := make([]bool, len(cands))
		for i := range valid {
			valid[i] = true
		}
		a.runFilters(valid, cands, src)

		for i, st := range owners {
			if valid[i] {
				st.accept = cands[i]
				st.aOk = true
				st.done = true
			} else {
				st.offset = cands[i].t + marchEpsilon
			}
		}
	}

	for i := range states {
		st := &states[i]
		switch {
		case occlusion:
			if st.aOk {
				st.r.geomID = st.accept.geomID
			}
		case st.aOk && (!st.uOk || st.accept.t < st.uncond.t):
			writeHit(st.r, st.accept)
		case st.uOk:
			writeHit(st.r, st.uncond)
		}
	}
}

// runFilters dispatches each candidate to the filter of the group that
// produced it, batched per group.
func (a *accel) runFilters(valid []bool, cands []hitCandidate, src *raySourceInfo) {
	for _, g := range a.groups {
		if g.filter == nil {
			continue
		}
		same := true
		for _, c := range cands {
			if c.geomID != g.id {
				same = false
				break
			}
		}
		if same {
			g.filter(valid, cands, src)
			continue
		}
		var sub []hitCandidate
		var idx []int
		for i, c := range cands {
			if c.geomID == g.id {
				sub = append(sub, c)
				idx = append(idx, i)
			}
		}
		if len(sub) == 0 {
			continue
		}
		subValid := make([]bool, len(sub))
		for i := range subValid {
			subValid[i] = true
		}
		g.filter(subValid, sub, src)
		for i, ok := range subValid {
			valid[idx[i]] = ok
		}
	}
}

func writeHit(r *shadowRay, cand hitCandidate) {
	r.geomID = cand.geomID
	r.primID = cand.primID
	r.tfar = cand.t
	r.ng = cand.ng
}

func (a *accel) group(id uint32) *accelGroup {
	if int(id) >= len(a.groups) {
		panic(fmt.Sprintf("trace: unknown geometry group %d", id))
	}
	return a.groups[id]
}
