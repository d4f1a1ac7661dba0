package bsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEntities(t *testing.T) {
	assert := assert.New(t)

	ents, err := ParseEntities(`
{
"classname" "worldspawn"
"message" "the hall of tests"
}
{
	"classname"   "light"  "origin" "0 64 128"
"light" "300"
"light" "250"
}
`)
	assert.NoError(err)
	assert.Len(ents, 2)
	assert.Equal("worldspawn", ents[0]["classname"])
	assert.Equal("the hall of tests", ents[0]["message"])
	// later duplicates win
	assert.Equal("250", ents[1]["light"])
	assert.Equal("0 64 128", ents[1]["origin"])
}

func TestParseEntitiesEmpty(t *testing.T) {
	assert := assert.New(t)

	ents, err := ParseEntities("")
	assert.NoError(err)
	assert.Empty(ents)

	ents, err = ParseEntities("  \n\t\n")
	assert.NoError(err)
	assert.Empty(ents)
}

func TestParseEntitiesErrors(t *testing.T) {
	assert := assert.New(t)

	for _, tt := range []struct {
		name string
		data string
		want string
	}{
		{"no brace", `"classname" "worldspawn"`, "expected '{'"},
		{"unterminated entity", "{\n\"classname\" \"worldspawn\"\n", "unterminated entity"},
		{"bare key", "{\nclassname \"worldspawn\"\n}", "expected quoted string"},
		{"missing value", "{\n\"classname\"\n}", "expected quoted string"},
		{"unterminated string", "{\n\"classname\" \"worldspawn\n}", "unterminated string"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntities(tt.data)
			assert.ErrorContains(err, tt.want)
		})
	}
}

func TestParseEntitiesErrorLine(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseEntities("{\n\"classname\" \"light\"\n}\nnope")
	assert.ErrorContains(err, "line 4")
}

func TestEntityAccessors(t *testing.T) {
	assert := assert.New(t)

	ent := Entity{
		"light":      "300",
		"_alpha":     "0.66",
		"spawnflags": " 2 ",
		"style":      "bogus",
		"_shadow":    "1",
		"_off":       "0",
	}

	assert.Equal(300.0, ent.Float("light", 0))
	assert.Equal(0.66, ent.Float("_alpha", 1))
	assert.Equal(1.0, ent.Float("missing", 1))
	assert.Equal(7.0, ent.Float("style", 7))

	assert.Equal(2, ent.Int("spawnflags", 0))
	assert.Equal(-1, ent.Int("missing", -1))

	assert.True(ent.Bool("_shadow"))
	assert.False(ent.Bool("_off"))
	assert.False(ent.Bool("missing"))
}

func TestMarshalEntities(t *testing.T) {
	assert := assert.New(t)

	got := marshalEntities([]Entity{
		{"model": "*2", "classname": "func_door", "angle": "90"},
		{"origin": "0 0 0"},
	})

	// classname leads, remaining keys sorted
	assert.Equal(`{
"classname" "func_door"
"angle" "90"
"model" "*2"
}
{
"origin" "0 0 0"
}
`, got)

	ents, err := ParseEntities(got)
	assert.NoError(err)
	assert.Len(ents, 2)
	assert.Equal("func_door", ents[0]["classname"])
	assert.Equal("0 0 0", ents[1]["origin"])
}
