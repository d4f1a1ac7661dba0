// scenestat builds the scene described by a bake configuration and prints a
// JSON structural summary: models with their shadow policies, face
// classification counts and triangle counts per geometry group.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jdginn/go-bsp-light/config"
	"github.com/jdginn/go-bsp-light/trace"
)

type modelStat struct {
	Index            int     `json:"index"`
	Faces            int     `json:"faces"`
	World            bool    `json:"world,omitempty"`
	Shadow           bool    `json:"shadow,omitempty"`
	ShadowSelf       bool    `json:"shadowSelf,omitempty"`
	ShadowWorldOnly  bool    `json:"shadowWorldOnly,omitempty"`
	SwitchableShadow bool    `json:"switchableShadow,omitempty"`
	SwitchShadStyle  int     `json:"switchShadStyle,omitempty"`
	Alpha            float64 `json:"alpha"`
}

type classStat struct {
	SkyFaces      int `json:"skyFaces"`
	SolidFaces    int `json:"solidFaces"`
	FilteredFaces int `json:"filteredFaces"`
	SkipWindings  int `json:"skipWindings"`
}

type triStat struct {
	Sky      int `json:"sky"`
	Solid    int `json:"solid"`
	Filtered int `json:"filtered"`
	Skip     int `json:"skip"`
}

type sceneStat struct {
	Variant        string      `json:"variant"`
	Models         []modelStat `json:"models"`
	Classification classStat   `json:"classification"`
	Triangles      triStat     `json:"triangles"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: scenestat <config.yaml>")
		os.Exit(1)
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	m, err := cfg.BuildMap()
	if err != nil {
		log.Fatalf("building map: %v", err)
	}
	scene, err := trace.Init(m, trace.Options{})
	if err != nil {
		log.Fatalf("building scene: %v", err)
	}

	out := sceneStat{Variant: cfg.Variant}
	for _, mi := range scene.Models() {
		out.Models = append(out.Models, modelStat{
			Index:            mi.Index,
			Faces:            int(mi.Model.NumFaces),
			World:            mi.IsWorld(),
			Shadow:           mi.Shadow,
			ShadowSelf:       mi.ShadowSelf,
			ShadowWorldOnly:  mi.ShadowWorldOnly,
			SwitchableShadow: mi.SwitchableShadow,
			SwitchShadStyle:  mi.SwitchShadStyle,
			Alpha:            mi.Alpha,
		})
	}
	stats := scene.Stats()
	out.Classification = classStat{
		SkyFaces:      stats.SkyFaces,
		SolidFaces:    stats.SolidFaces,
		FilteredFaces: stats.FilteredFaces,
		SkipWindings:  stats.SkipWindings,
	}
	out.Triangles = triStat{
		Sky:      stats.SkyTriangles,
		Solid:    stats.SolidTriangles,
		Filtered: stats.FilteredTriangles,
		Skip:     stats.SkipTriangles,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("marshaling: %v", err)
	}
	fmt.Println(string(data))
}
