package trace

import (
	"fmt"

	"github.com/fogleman/pt/pt"
	"go.uber.org/zap"

	"github.com/jdginn/go-bsp-light/bsp"
	"github.com/jdginn/go-bsp-light/texture"
	"github.com/jdginn/go-bsp-light/winding"
)

// Scene is a committed, immutable view of one map's shadow-casting geometry.
// Build one with Init. Queries are safe to run concurrently as long as each
// goroutine uses its own Stream.
type Scene struct {
	m       *bsp.Map
	models  []*ModelInfo
	sampler texture.Sampler
	accel   accel

	// per-primitive owners, indexed by group then primitive; the skip group
	// has no owners and yields nil lookups
	groups []*sceneGroup

	sky      uint32
	solid    uint32
	filtered uint32
	skip     uint32

	stats Stats
}

// Stats reports what the scene was built from.
type Stats struct {
	SkyFaces      int
	SolidFaces    int
	FilteredFaces int
	SkipWindings  int

	SkyTriangles      int
	SolidTriangles    int
	FilteredTriangles int
	SkipTriangles     int
}

type sceneGroup struct {
	id     uint32
	faces  []*bsp.Face
	models []*ModelInfo
}

// Options configures Init. The zero value is usable.
type Options struct {
	// Models supplies per-model shadow policies. Nil derives them from the
	// map's entity text with BuildModelInfos.
	Models []*ModelInfo
	// Sampler resolves texels for fence and glass surfaces. Nil treats
	// every texel as opaque white.
	Sampler texture.Sampler
	// Logger reports geometry counts once the scene is committed.
	Logger *zap.Logger
}

// Init classifies every shadow-casting face in the map, builds the four
// geometry groups and commits them. The returned scene is ready to query.
func Init(m *bsp.Map, opts Options) (*Scene, error) {
	models := opts.Models
	if models == nil {
		var err error
		models, err = BuildModelInfos(m)
		if err != nil {
			return nil, err
		}
	}
	if len(models) != len(m.Models) {
		return nil, fmt.Errorf("trace: %d model policies for %d models", len(models), len(m.Models))
	}
	sampler := opts.Sampler
	if sampler == nil {
		sampler = texture.Opaque{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scene{m: m, models: models, sampler: sampler}

	buckets := classifyFaces(m, models)
	s.sky = s.addFaceGroup(buckets.sky)
	s.solid = s.addFaceGroup(buckets.solid)
	s.filtered = s.addFaceGroup(buckets.filter)

	// models compiled with no faces still occlude through their node trees
	var skips []winding.Winding
	for _, mi := range models {
		if mi.castsShadow() && mi.Model.NumFaces == 0 {
			skips = append(skips, skipWindings(m, mi.Model)...)
		}
	}
	s.skip = s.addWindingGroup(skips)

	s.accel.setHitFilter(s.filtered, s.filterHits)
	s.accel.commit()

	s.stats = Stats{
		SkyFaces:          len(buckets.sky),
		SolidFaces:        len(buckets.solid),
		FilteredFaces:     len(buckets.filter),
		SkipWindings:      len(skips),
		SkyTriangles:      len(s.accel.group(s.sky).tris),
		SolidTriangles:    len(s.accel.group(s.solid).tris),
		FilteredTriangles: len(s.accel.group(s.filtered).tris),
		SkipTriangles:     len(s.accel.group(s.skip).tris),
	}

	logger.Info("shadow geometry committed",
		zap.Int("skyFaces", s.stats.SkyFaces),
		zap.Int("solidFaces", s.stats.SolidFaces),
		zap.Int("filteredFaces", s.stats.FilteredFaces),
		zap.Int("skipWindings", s.stats.SkipWindings))
	return s, nil
}

// Stats returns the scene's build counts.
func (s *Scene) Stats() Stats { return s.stats }

// addFaceGroup fans each face into triangles over the map's shared vertex
// buffer and records the owning face and model per triangle.
func (s *Scene) addFaceGroup(refs []faceRef) uint32 {
	g := &sceneGroup{}
	var tris [][3]int32
	for _, ref := range refs {
		face := ref.face
		for j := int32(2); j < face.NumEdges; j++ {
			tris = append(tris, [3]int32{
				s.m.FaceVertexIndex(face, j-1),
				s.m.FaceVertexIndex(face, j),
				s.m.FaceVertexIndex(face, 0),
			})
			g.faces = append(g.faces, face)
			g.models = append(g.models, ref.model)
		}
	}
	g.id = s.accel.addGeometry(s.m.Vertexes, tris)
	s.groups = append(s.groups, g)
	return g.id
}

// addWindingGroup fans reconstructed polygons into triangles with their own
// vertex buffer. The triangles have no owning face or model.
func (s *Scene) addWindingGroup(ws []winding.Winding) uint32 {
	var verts []pt.Vector
	var tris [][3]int32
	for _, w := range ws {
		base := int32(len(verts))
		verts = append(verts, w...)
		for j := 2; j < len(w); j++ {
			tris = append(tris, [3]int32{base + int32(j-1), base + int32(j), base})
		}
	}
	g := &sceneGroup{id: s.accel.addGeometry(verts, tris)}
	s.groups = append(s.groups, g)
	return g.id
}

func (s *Scene) group(geomID uint32) *sceneGroup {
	if int(geomID) >= len(s.groups) {
		panic(fmt.Sprintf("trace: unknown geometry group %d", geomID))
	}
	return s.groups[geomID]
}

// lookupFace returns the BSP face behind a hit, nil for reconstructed skip
// geometry.
func (s *Scene) lookupFace(geomID, primID uint32) *bsp.Face {
	g := s.group(geomID)
	if g.faces == nil {
		return nil
	}
	return g.faces[primID]
}

// lookupModel returns the model behind a hit, nil for reconstructed skip
// geometry.
func (s *Scene) lookupModel(geomID, primID uint32) *ModelInfo {
	g := s.group(geomID)
	if g.models == nil {
		return nil
	}
	return g.models[primID]
}

func (s *Scene) hitType(geomID uint32) HitType {
	switch geomID {
	case invalidGeom:
		return HitNone
	case s.sky:
		return HitSky
	default:
		return HitSolid
	}
}

// Map returns the map the scene was built from.
func (s *Scene) Map() *bsp.Map { return s.m }

// Models returns the per-model shadow policies the scene was built with.
func (s *Scene) Models() []*ModelInfo { return s.models }
