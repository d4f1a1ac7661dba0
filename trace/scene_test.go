package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"

	"github.com/jdginn/go-bsp-light/bsp"
)

func v(x, y, z float64) pt.Vector {
	return pt.Vector{X: x, Y: y, Z: z}
}

// pillarMap is a Quake 1 world: a floor slab, a pillar standing on it, and a
// sky ceiling high above.
func pillarMap() *bsp.Map {
	b := bsp.NewBuilder(bsp.Quake)
	b.StartModel()
	b.AddBox(v(-128, -128, -16), v(128, 128, 0), bsp.TexSpec{Name: "floor"})
	b.AddBox(v(-16, -16, 0), v(16, 16, 64), bsp.TexSpec{Name: "wall3"})
	b.AddBox(v(-128, -128, 128), v(128, 128, 144), bsp.TexSpec{Name: "sky1"})
	b.FinishModel()
	b.AddEntity(bsp.Entity{"classname": "worldspawn"})
	return b.Build()
}

// bmodelMap is a floor-only world plus one floating box bound to an entity
// with the given keys.
func bmodelMap(variant bsp.Variant, tex bsp.TexSpec, keys map[string]string) *bsp.Map {
	b := bsp.NewBuilder(variant)
	b.StartModel()
	b.AddBox(v(-128, -128, -16), v(128, 128, 0), bsp.TexSpec{Name: "floor"})
	b.FinishModel()
	b.StartModel()
	b.AddBox(v(-16, -16, 16), v(16, 16, 48), tex)
	b.FinishModel()
	b.AddEntity(bsp.Entity{"classname": "worldspawn"})
	ent := bsp.Entity{"classname": "func_wall", "model": "*1"}
	for k, val := range keys {
		ent[k] = val
	}
	b.AddEntity(ent)
	return b.Build()
}

func mustScene(t *testing.T, m *bsp.Map, opts Options) *Scene {
	t.Helper()
	s, err := Init(m, opts)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestInitStats(t *testing.T) {
	assert := assert.New(t)

	s := mustScene(t, pillarMap(), Options{})
	stats := s.Stats()

	assert.Equal(6, stats.SkyFaces)
	assert.Equal(12, stats.SolidFaces)
	assert.Equal(0, stats.FilteredFaces)
	assert.Equal(0, stats.SkipWindings)

	// every box face fans into two triangles
	assert.Equal(12, stats.SkyTriangles)
	assert.Equal(24, stats.SolidTriangles)
	assert.Equal(0, stats.FilteredTriangles)
	assert.Equal(0, stats.SkipTriangles)
}

func TestInitPentagonFan(t *testing.T) {
	assert := assert.New(t)

	// an n-gon fans into n-2 triangles that cover the whole polygon
	b := bsp.NewBuilder(bsp.Quake)
	b.StartModel()
	b.AddPolygon([]pt.Vector{
		v(0, 0, 0), v(0, 32, 0), v(16, 48, 0), v(32, 32, 0), v(32, 0, 0),
	}, bsp.TexSpec{Name: "wall1"})
	b.FinishModel()
	b.AddEntity(bsp.Entity{"classname": "worldspawn"})
	s := mustScene(t, b.Build(), Options{})

	stats := s.Stats()
	assert.Equal(1, stats.SolidFaces)
	assert.Equal(3, stats.SolidTriangles)

	// interior of the apex triangle is covered too
	res := s.Probe(v(16, 40, 32), v(0, 0, -1), 100, s.Models()[0])
	assert.Equal(HitSolid, res.Type)
	assert.InDelta(32, res.Dist, 1e-9)
}

func TestInitErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Init(&bsp.Map{}, Options{})
	assert.ErrorContains(err, "no models")

	_, err = Init(pillarMap(), Options{Models: []*ModelInfo{}})
	assert.ErrorContains(err, "model policies")

	b := bsp.NewBuilder(bsp.Quake)
	b.StartModel()
	b.AddBox(v(0, 0, 0), v(64, 64, 64), bsp.TexSpec{Name: "wall"})
	b.FinishModel()
	b.AddEntity(bsp.Entity{"classname": "func_wall", "model": "*5"})
	_, err = Init(b.Build(), Options{})
	assert.ErrorContains(err, "unknown model")
}

func TestSceneAccessors(t *testing.T) {
	assert := assert.New(t)

	m := pillarMap()
	s := mustScene(t, m, Options{})

	assert.Same(m, s.Map())
	assert.Len(s.Models(), 1)
	assert.True(s.Models()[0].IsWorld())
}

func TestNonCastingModelIsInert(t *testing.T) {
	assert := assert.New(t)

	// a bmodel with no shadow keys contributes no geometry at all
	m := bmodelMap(bsp.Quake, bsp.TexSpec{Name: "crate"}, nil)
	s := mustScene(t, m, Options{})

	assert.Equal(6, s.Stats().SolidFaces)
	res := s.TestLight(v(-64, 0, 32), v(64, 0, 32), s.Models()[0])
	assert.True(res.Visible)
}

func TestSkipModelOcclusion(t *testing.T) {
	assert := assert.New(t)

	b := bsp.NewBuilder(bsp.Quake)
	b.StartModel()
	b.AddBox(v(-128, -128, -16), v(128, 128, 0), bsp.TexSpec{Name: "floor"})
	b.FinishModel()
	b.StartModel()
	b.AddSkipBox(v(-16, -16, 16), v(16, 16, 48))
	b.FinishModel()
	b.AddEntity(bsp.Entity{"classname": "worldspawn"})
	b.AddEntity(bsp.Entity{"classname": "func_wall", "model": "*1", "_shadow": "1"})
	s := mustScene(t, b.Build(), Options{})

	assert.Equal(6, s.Stats().SkipWindings)
	assert.Equal(12, s.Stats().SkipTriangles)

	world := s.Models()[0]
	res := s.TestLight(v(-64, 0, 32), v(64, 0, 32), world)
	assert.False(res.Visible)
	res = s.TestLight(v(-64, 64, 32), v(64, 64, 32), world)
	assert.True(res.Visible)

	// reconstructed geometry has no face to report
	probe := s.Probe(v(-64, 0, 32), v(1, 0, 0), 200, world)
	assert.Equal(HitSolid, probe.Type)
	assert.InDelta(48, probe.Dist, 1e-6)
	assert.Nil(probe.Face)
}

func TestExport3MF(t *testing.T) {
	assert := assert.New(t)

	s := mustScene(t, pillarMap(), Options{})
	path := filepath.Join(t.TempDir(), "scene.3mf")
	assert.NoError(s.Export3MF(path))

	fi, err := os.Stat(path)
	assert.NoError(err)
	assert.Greater(fi.Size(), int64(0))

	assert.Panics(func() { (&Scene{}).Export3MF(path) })
}
