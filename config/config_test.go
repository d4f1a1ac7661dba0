package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"

	"github.com/jdginn/go-bsp-light/bsp"
)

func TestDefaultValidates(t *testing.T) {
	assert := assert.New(t)
	assert.Empty(Default().Validate())
}

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bake.yaml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadLayersOverDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(writeConfig(t, `
grid:
  step: 32
lights:
  - name: solo
    pos: [0, 0, 100]
logging:
  level: debug
`))
	assert.NoError(err)

	assert.Equal(32.0, cfg.Grid.Step)
	// untouched fields keep their defaults
	assert.Equal(24.0, cfg.Grid.Height)
	assert.Equal("quake2", cfg.Variant)
	assert.Equal("debug", cfg.Logging.Level)

	// sequences replace wholesale
	assert.Len(cfg.Lights, 1)
	assert.Equal("solo", cfg.Lights[0].Name)
	assert.Equal(Vec3{0, 0, 100}, cfg.Lights[0].Pos)
}

func TestLoadErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(err, "reading config file")

	_, err = Load(writeConfig(t, "variant: [not, a, string"))
	assert.ErrorContains(err, "parsing config file")

	_, err = Load(writeConfig(t, "variant: quake3"))
	assert.ErrorContains(err, "validation errors")
}

func TestValidate(t *testing.T) {
	fields := func(cfg *BakeConfig) []string {
		var out []string
		for _, e := range cfg.Validate() {
			out = append(out, e.Field)
		}
		return out
	}

	for _, tt := range []struct {
		name   string
		mutate func(*BakeConfig)
		field  string
	}{
		{"variant", func(c *BakeConfig) { c.Variant = "quake3" }, "variant"},
		{"world box", func(c *BakeConfig) { c.World.Maxs[2] = c.World.Mins[2] }, "world"},
		{"thickness", func(c *BakeConfig) { c.World.Thickness = 0 }, "world.thickness"},
		{"quake sky name", func(c *BakeConfig) { c.Variant = "quake" }, "world.sky_texture"},
		{"unknown flag", func(c *BakeConfig) { c.Brushes[0].Flags = []string{"bouncy"} }, "brushes[0].flags"},
		{"light alpha", func(c *BakeConfig) { c.Brushes[0].LightAlpha = 1.5 }, "brushes[0].light_alpha"},
		{"skip needs policy", func(c *BakeConfig) { c.Brushes[0].Skip = true }, "brushes[0]"},
		{"policy alpha", func(c *BakeConfig) { c.Brushes[3].Policy.Alpha = 2 }, "brushes[3].policy.alpha"},
		{"sun", func(c *BakeConfig) { c.Sun.Dir = Vec3{} }, "sun.dir"},
		{"grid step", func(c *BakeConfig) { c.Grid.Step = 0 }, "grid.step"},
		{"dirt rays", func(c *BakeConfig) { c.Dirt.Rays = 0 }, "dirt.rays"},
		{"dirt angle", func(c *BakeConfig) { c.Dirt.Angle = 95 }, "dirt.angle"},
		{"weight angle", func(c *BakeConfig) { c.Dirt.Weights[0].Angle = 91 }, "dirt.weights[0].angle"},
		{"weight sign", func(c *BakeConfig) { c.Dirt.Weights[0].Weight = -1 }, "dirt.weights[0].weight"},
		{"image size", func(c *BakeConfig) { c.Outputs.Image.Width = 0 }, "outputs.image.width"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Contains(t, fields(cfg), tt.field)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bake.yaml")
	assert.NoError(Save(Default(), path))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(Default(), cfg)
}

func TestBuildMap(t *testing.T) {
	assert := assert.New(t)

	m, err := Default().BuildMap()
	assert.NoError(err)

	// world, door, skip block
	assert.Len(m.Models, 3)
	assert.Equal(bsp.Quake2, m.Variant)

	// shell (6 boxes) plus pillar, glass and fence
	assert.Equal(int32(9*6), m.World().NumFaces)

	door := &m.Models[1]
	assert.Equal(int32(6), door.NumFaces)

	block := &m.Models[2]
	assert.Equal(int32(0), block.NumFaces)
	assert.GreaterOrEqual(block.HeadNode, int32(0))

	ents, err := bsp.ParseEntities(m.EntityData)
	assert.NoError(err)
	assert.Len(ents, 3)
	assert.Equal("worldspawn", ents[0]["classname"])
	assert.Equal("func_door", ents[1]["classname"])
	assert.Equal("*1", ents[1]["model"])
	assert.Equal("1", ents[1]["_switchableshadow"])
	assert.Equal("33", ents[1]["_switchshadstyle"])
	assert.Equal("func_wall", ents[2]["classname"])
	assert.Equal("*2", ents[2]["model"])
	assert.Equal("1", ents[2]["_shadow"])

	// the quake2 sky ceiling carries the arghrad sun flags
	var sky *bsp.TexInfo
	for i := range m.TexInfos {
		if m.TexInfos[i].Name == "e1u1/sky1" {
			sky = &m.TexInfos[i]
			break
		}
	}
	if assert.NotNil(sky) {
		assert.Equal(uint32(bsp.SurfSky|bsp.SurfLight), sky.Flags)
		assert.Equal(int32(100), sky.Value)
	}

	// glass brush flags resolve by name
	var glass *bsp.TexInfo
	for i := range m.TexInfos {
		if m.TexInfos[i].Name == "e1u1/window1_1" {
			glass = &m.TexInfos[i]
			break
		}
	}
	if assert.NotNil(glass) {
		assert.Equal(uint32(bsp.SurfTrans33), glass.Flags)
	}
}

func TestBuildMapBounds(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	m, err := cfg.BuildMap()
	assert.NoError(err)

	th := pt.Vector{X: cfg.World.Thickness, Y: cfg.World.Thickness, Z: cfg.World.Thickness}
	assert.Equal(cfg.World.Mins.Vector().Sub(th), m.World().Mins)
	assert.Equal(cfg.World.Maxs.Vector().Add(th), m.World().Maxs)
}

func TestBuildMapSkipNeedsPolicy(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	cfg.Brushes = append(cfg.Brushes, Brush{Name: "ghost", Mins: Vec3{0, 0, 0}, Maxs: Vec3{8, 8, 8}, Skip: true})
	_, err := cfg.BuildMap()
	assert.ErrorContains(err, `skip brush "ghost" needs a policy`)
}
