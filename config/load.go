package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns a self-contained demo scene: a sky-roofed room holding one
// solid pillar, a glass pane, a fence, a switchable door and a skip block,
// with a sun, two point lights and a modest sample grid.
func Default() *BakeConfig {
	return &BakeConfig{
		Variant: "quake2",
		World: World{
			Mins:       Vec3{-512, -512, 0},
			Maxs:       Vec3{512, 512, 256},
			Thickness:  16,
			Texture:    "e1u1/floor1_1",
			SkyCeiling: true,
			SkyTexture: "e1u1/sky1",
		},
		Brushes: []Brush{
			{
				Name:    "pillar",
				Mins:    Vec3{-64, -64, 0},
				Maxs:    Vec3{64, 64, 192},
				Texture: "e1u1/brick1_1",
			},
			{
				Name:    "glass",
				Mins:    Vec3{192, -128, 0},
				Maxs:    Vec3{200, 128, 128},
				Texture: "e1u1/window1_1",
				Flags:   []string{"trans33"},
			},
			{
				Name:    "fence",
				Mins:    Vec3{-200, 128, 0},
				Maxs:    Vec3{-192, 384, 96},
				Texture: "e1u1/grate1_1",
				Flags:   []string{"trans33", "trans66"},
			},
			{
				Name:    "door",
				Mins:    Vec3{-384, -200, 0},
				Maxs:    Vec3{-128, -192, 128},
				Texture: "e1u1/door1_1",
				Policy: &Policy{
					ClassName:        "func_door",
					SwitchableShadow: true,
					SwitchShadStyle:  33,
				},
			},
			{
				Name: "block",
				Mins: Vec3{128, 256, 0},
				Maxs: Vec3{256, 384, 64},
				Skip: true,
				Policy: &Policy{
					ClassName: "func_wall",
					Shadow:    true,
				},
			},
		},
		Sun: Sun{Dir: Vec3{0.3, 0.2, 1}},
		Lights: []Light{
			{Name: "corner", Pos: Vec3{-400, 400, 128}},
			{Name: "center", Pos: Vec3{0, 0, 224}},
		},
		Grid: Grid{Height: 24, Step: 64, Margin: 32},
		Dirt: Dirt{
			Rays:    16,
			MaxDist: 256,
			Angle:   88,
			Weights: []WeightPoint{
				{Angle: 0, Weight: 1},
				{Angle: 60, Weight: 0.8},
				{Angle: 88, Weight: 0.25},
			},
		},
		Outputs: Outputs{
			Dir:         "bakes",
			Image:       Image{Enabled: true, Width: 512, Height: 512},
			Chart:       true,
			Annotations: true,
			Scene3MF:    false,
		},
		Logging: Logging{Level: "info"},
	}
}

// Load reads a YAML bake configuration, layered over Default and validated.
func Load(path string) (*BakeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation errors: %v", errs)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, handy for seeding a config file
// from the defaults.
func Save(cfg *BakeConfig, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
