// Package config loads the YAML description of a bake: the demo scene to
// build, the sampling pass to run over it, and where the outputs go.
package config

import (
	"github.com/fogleman/pt/pt"
)

// BakeConfig is the complete configuration for one bake run.
type BakeConfig struct {
	Variant string  `yaml:"variant"`
	World   World   `yaml:"world"`
	Brushes []Brush `yaml:"brushes"`
	Sun     Sun     `yaml:"sun"`
	Lights  []Light `yaml:"lights"`
	Grid    Grid    `yaml:"grid"`
	Dirt    Dirt    `yaml:"dirt"`
	Outputs Outputs `yaml:"outputs"`
	Logging Logging `yaml:"logging"`
}

// Vec3 is a YAML-friendly point.
type Vec3 [3]float64

func (v Vec3) Vector() pt.Vector {
	return pt.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// World describes the room shell: six slabs enclosing the interior volume
// between Mins and Maxs. The ceiling slab is sky when SkyCeiling is set.
type World struct {
	Mins       Vec3    `yaml:"mins"`
	Maxs       Vec3    `yaml:"maxs"`
	Thickness  float64 `yaml:"thickness"`
	Texture    string  `yaml:"texture"`
	SkyCeiling bool    `yaml:"sky_ceiling"`
	SkyTexture string  `yaml:"sky_texture"`
}

// Brush is one axis-aligned box in the scene. A brush with a Policy becomes
// its own model bound to an entity; otherwise it joins the world.
type Brush struct {
	Name    string `yaml:"name"`
	Mins    Vec3   `yaml:"mins"`
	Maxs    Vec3   `yaml:"maxs"`
	Texture string `yaml:"texture"`

	// Flags names Quake 2 surface flags: light, slick, sky, warp, trans33,
	// trans66, flowing, nodraw.
	Flags []string `yaml:"flags,omitempty"`
	Value int32    `yaml:"value,omitempty"`

	NoShadow   bool    `yaml:"no_shadow,omitempty"`
	LightAlpha float64 `yaml:"light_alpha,omitempty"`

	// Skip compiles the brush with no faces, leaving only its solid node
	// tree, the shape skip-textured brushes take. Implies an entity model.
	Skip bool `yaml:"skip,omitempty"`

	Policy *Policy `yaml:"policy,omitempty"`
}

// Policy is the shadow policy written onto a brush entity.
type Policy struct {
	ClassName        string  `yaml:"classname,omitempty"`
	Shadow           bool    `yaml:"shadow,omitempty"`
	ShadowSelf       bool    `yaml:"shadow_self,omitempty"`
	ShadowWorldOnly  bool    `yaml:"shadow_world_only,omitempty"`
	SwitchableShadow bool    `yaml:"switchable_shadow,omitempty"`
	SwitchShadStyle  int     `yaml:"switch_shad_style,omitempty"`
	Alpha            float64 `yaml:"alpha,omitempty"`
}

// Sun is the directional light sampled through TestSky. Dir points from the
// scene toward the sun.
type Sun struct {
	Dir Vec3 `yaml:"dir"`
}

// Light is a point light sampled through TestLight.
type Light struct {
	Name string `yaml:"name,omitempty"`
	Pos  Vec3   `yaml:"pos"`
}

// Grid lays sample points on a horizontal lattice inside the world volume.
type Grid struct {
	Height float64 `yaml:"height"`
	Step   float64 `yaml:"step"`
	Margin float64 `yaml:"margin"`
}

// Dirt configures the ambient-occlusion cone traced at every sample point.
type Dirt struct {
	Rays    int     `yaml:"rays"`
	MaxDist float64 `yaml:"max_dist"`
	// Angle is the cone half-angle in degrees.
	Angle float64 `yaml:"angle"`
	// Weights maps ray angle off vertical, in degrees, to a weight. Rays
	// between the listed angles are weighted by linear interpolation.
	Weights []WeightPoint `yaml:"weights,omitempty"`
}

type WeightPoint struct {
	Angle  float64 `yaml:"angle"`
	Weight float64 `yaml:"weight"`
}

// Outputs selects what a bake writes into its run directory.
type Outputs struct {
	Dir         string `yaml:"dir"`
	Image       Image  `yaml:"image"`
	Chart       bool   `yaml:"chart"`
	Annotations bool   `yaml:"annotations"`
	Scene3MF    bool   `yaml:"scene_3mf"`
}

type Image struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
}

// Logging configures the CLI logger.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}
