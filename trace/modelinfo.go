package trace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jdginn/go-bsp-light/bsp"
)

// ModelInfo carries one model's shadow-casting policy. Model 0 is the world;
// the flags on other models come from their entity's keys.
type ModelInfo struct {
	Model *bsp.Model
	Index int

	// Shadow makes the model cast shadows unconditionally.
	Shadow bool
	// ShadowSelf makes the model cast shadows only onto itself.
	ShadowSelf bool
	// ShadowWorldOnly makes the model cast shadows only onto the world.
	ShadowWorldOnly bool
	// SwitchableShadow records the model as a dynamic occluder: rays pass
	// through, tagged with SwitchShadStyle.
	SwitchableShadow bool
	SwitchShadStyle  int

	// Alpha is the model's opacity. Values below 1 make its faces glass.
	Alpha float64
}

func (mi *ModelInfo) IsWorld() bool {
	return mi.Index == 0
}

func (mi *ModelInfo) castsShadow() bool {
	return mi.IsWorld() || mi.Shadow || mi.ShadowSelf || mi.ShadowWorldOnly || mi.SwitchableShadow
}

// BuildModelInfos derives every model's shadow policy from the map's entity
// text. Entities bind to models through their "model" "*N" key.
func BuildModelInfos(m *bsp.Map) ([]*ModelInfo, error) {
	if len(m.Models) == 0 {
		return nil, fmt.Errorf("trace: map has no models")
	}

	infos := make([]*ModelInfo, len(m.Models))
	for i := range m.Models {
		infos[i] = &ModelInfo{Model: &m.Models[i], Index: i, Alpha: 1}
	}

	ents, err := bsp.ParseEntities(m.EntityData)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	for _, ent := range ents {
		ref, ok := ent["model"]
		if !ok || !strings.HasPrefix(ref, "*") {
			continue
		}
		idx, err := strconv.Atoi(ref[1:])
		if err != nil || idx <= 0 || idx >= len(infos) {
			return nil, fmt.Errorf("trace: entity %q references unknown model %q", ent["classname"], ref)
		}

		mi := infos[idx]
		mi.Shadow = entBool(ent, "shadow")
		mi.ShadowSelf = entBool(ent, "shadowself")
		mi.ShadowWorldOnly = entBool(ent, "shadowworldonly")
		mi.SwitchableShadow = entBool(ent, "switchableshadow")
		mi.SwitchShadStyle = entInt(ent, "switchshadstyle", 0)
		mi.Alpha = entFloat(ent, "alpha", 1)
	}
	return infos, nil
}

// Entity keys are accepted with or without the underscore prefix; the
// prefixed form wins.

func entBool(e bsp.Entity, name string) bool {
	if _, ok := e["_"+name]; ok {
		return e.Bool("_" + name)
	}
	return e.Bool(name)
}

func entInt(e bsp.Entity, name string, def int) int {
	if _, ok := e["_"+name]; ok {
		return e.Int("_"+name, def)
	}
	return e.Int(name, def)
}

func entFloat(e bsp.Entity, name string, def float64) float64 {
	if _, ok := e["_"+name]; ok {
		return e.Float("_"+name, def)
	}
	return e.Float(name, def)
}
