package main

import (
	"log"

	"github.com/alecthomas/kong"
	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"github.com/jdginn/go-bsp-light/bake"
	"github.com/jdginn/go-bsp-light/config"
	"github.com/jdginn/go-bsp-light/logger"
	"github.com/jdginn/go-bsp-light/rundir"
	"github.com/jdginn/go-bsp-light/trace"
)

var CLI struct {
	Bake       BakeCmd       `cmd:"" help:"Build the configured scene and sample it"`
	Export     ExportCmd     `cmd:"" help:"Build the configured scene and export its shadow geometry as 3MF"`
	InitConfig InitConfigCmd `cmd:"" name:"init-config" help:"Write the default configuration to a file"`
}

type BakeCmd struct {
	Config string `arg:"" name:"config" help:"bake configuration YAML"`
}

func (c BakeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	zl := logger.New(cfg.Logging.Level, cfg.Logging.File)
	defer zl.Sync()

	m, err := cfg.BuildMap()
	if err != nil {
		return err
	}
	scene, err := trace.Init(m, trace.Options{Logger: zl})
	if err != nil {
		return err
	}

	dir, err := rundir.Create(cfg.Outputs.Dir)
	if err != nil {
		return err
	}
	zl.Info("run directory created", zap.String("path", dir.Path))
	if err := dir.CopyFile(c.Config); err != nil {
		return err
	}

	params := bakeParams(cfg)
	samples := bake.SampleField(scene, params)
	summary := bake.Summarize(samples)
	zl.Info("field sampled",
		zap.Int("samples", summary.Count),
		zap.Float64("sunFraction", summary.SunFraction),
		zap.Float64("dirtMean", summary.DirtMean))

	if cfg.Outputs.Image.Enabled {
		view := &bake.View{
			Bounds: params.Bounds,
			XSize:  cfg.Outputs.Image.Width,
			YSize:  cfg.Outputs.Image.Height,
		}
		img := view.RenderTopDown(samples, params.Lights)
		if err := gg.SavePNG(dir.FilePath("field.png"), img); err != nil {
			return err
		}
	}
	if cfg.Outputs.Chart {
		if err := bake.SaveOcclusionChart(samples, dir.FilePath("occlusion.png"), 512, 384); err != nil {
			return err
		}
	}
	if cfg.Outputs.Annotations {
		if err := bake.WriteSamplesJSON(dir.FilePath("samples.json"), samples, summary); err != nil {
			return err
		}
	}
	if cfg.Outputs.Scene3MF {
		if err := scene.Export3MF(dir.FilePath("scene.3mf")); err != nil {
			return err
		}
	}
	return nil
}

type ExportCmd struct {
	Config string `arg:"" name:"config" help:"bake configuration YAML"`
	Out    string `arg:"" name:"out" help:"output .3mf path"`
}

func (c ExportCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	zl := logger.New(cfg.Logging.Level, cfg.Logging.File)
	defer zl.Sync()

	m, err := cfg.BuildMap()
	if err != nil {
		return err
	}
	scene, err := trace.Init(m, trace.Options{Logger: zl})
	if err != nil {
		return err
	}
	return scene.Export3MF(c.Out)
}

type InitConfigCmd struct {
	Out string `arg:"" name:"out" help:"path to write" default:"bake.yaml"`
}

func (c InitConfigCmd) Run() error {
	return config.Save(config.Default(), c.Out)
}

func bakeParams(cfg *config.BakeConfig) bake.Params {
	params := bake.Params{
		Bounds: bake.Bounds{
			Mins: cfg.World.Mins.Vector(),
			Maxs: cfg.World.Maxs.Vector(),
		},
		Height: cfg.Grid.Height,
		Step:   cfg.Grid.Step,
		Margin: cfg.Grid.Margin,
		Sun:    cfg.Sun.Dir.Vector(),
		Dirt: bake.DirtParams{
			Rays:     cfg.Dirt.Rays,
			MaxDist:  cfg.Dirt.MaxDist,
			AngleDeg: cfg.Dirt.Angle,
		},
	}
	var weights []bake.WeightPoint
	for _, wp := range cfg.Dirt.Weights {
		weights = append(weights, bake.WeightPoint{Angle: wp.Angle, Weight: wp.Weight})
	}
	params.Dirt.Weights = bake.AngleWeights(weights)

	for _, l := range cfg.Lights {
		params.Lights = append(params.Lights, bake.Light{Name: l.Name, Pos: l.Pos.Vector()})
	}
	return params
}

func main() {
	ctx := kong.Parse(&CLI)
	err := ctx.Run()
	if err != nil {
		log.Fatal(err)
	}
}
