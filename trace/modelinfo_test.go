package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdginn/go-bsp-light/bsp"
)

func TestBuildModelInfos(t *testing.T) {
	assert := assert.New(t)

	b := bsp.NewBuilder(bsp.Quake2)
	for i := 0; i < 4; i++ {
		b.StartModel()
		lo := float64(i * 128)
		b.AddBox(v(lo, 0, 0), v(lo+64, 64, 64), bsp.TexSpec{Name: "wall"})
		b.FinishModel()
	}
	b.AddEntity(bsp.Entity{"classname": "worldspawn"})
	b.AddEntity(bsp.Entity{
		"classname":         "func_door",
		"model":             "*1",
		"_switchableshadow": "1",
		"_switchshadstyle":  "34",
		"_alpha":            "0.5",
	})
	// bare keys work too
	b.AddEntity(bsp.Entity{"classname": "func_wall", "model": "*2", "shadow": "1"})
	// entities without a model reference are ignored
	b.AddEntity(bsp.Entity{"classname": "light", "origin": "0 0 128"})
	b.AddEntity(bsp.Entity{"classname": "misc_model", "model": "models/torch.md2"})

	infos, err := BuildModelInfos(b.Build())
	assert.NoError(err)
	assert.Len(infos, 4)

	world := infos[0]
	assert.True(world.IsWorld())
	assert.True(world.castsShadow())
	assert.Equal(1.0, world.Alpha)

	door := infos[1]
	assert.Equal(1, door.Index)
	assert.True(door.SwitchableShadow)
	assert.Equal(34, door.SwitchShadStyle)
	assert.Equal(0.5, door.Alpha)
	assert.True(door.castsShadow())

	wall := infos[2]
	assert.True(wall.Shadow)
	assert.True(wall.castsShadow())

	// no entity claimed model 3
	unbound := infos[3]
	assert.False(unbound.castsShadow())
	assert.Equal(1.0, unbound.Alpha)
}

func TestBuildModelInfosPrefixWins(t *testing.T) {
	assert := assert.New(t)

	b := bsp.NewBuilder(bsp.Quake)
	for i := 0; i < 2; i++ {
		b.StartModel()
		lo := float64(i * 128)
		b.AddBox(v(lo, 0, 0), v(lo+64, 64, 64), bsp.TexSpec{Name: "wall"})
		b.FinishModel()
	}
	b.AddEntity(bsp.Entity{
		"classname": "func_wall",
		"model":     "*1",
		"_shadow":   "0",
		"shadow":    "1",
	})

	infos, err := BuildModelInfos(b.Build())
	assert.NoError(err)
	assert.False(infos[1].Shadow)
}

func TestBuildModelInfosErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := BuildModelInfos(&bsp.Map{})
	assert.ErrorContains(err, "no models")

	badRef := func(ref string) error {
		b := bsp.NewBuilder(bsp.Quake)
		b.StartModel()
		b.AddBox(v(0, 0, 0), v(64, 64, 64), bsp.TexSpec{Name: "wall"})
		b.FinishModel()
		b.AddEntity(bsp.Entity{"classname": "func_wall", "model": ref})
		_, err := BuildModelInfos(b.Build())
		return err
	}

	assert.ErrorContains(badRef("*0"), "unknown model")
	assert.ErrorContains(badRef("*9"), "unknown model")
	assert.ErrorContains(badRef("*x"), "unknown model")
}
