package config

import (
	"fmt"
	"strconv"

	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-bsp-light/bsp"
)

var surfFlagNames = map[string]uint32{
	"light":   bsp.SurfLight,
	"slick":   bsp.SurfSlick,
	"sky":     bsp.SurfSky,
	"warp":    bsp.SurfWarp,
	"trans33": bsp.SurfTrans33,
	"trans66": bsp.SurfTrans66,
	"flowing": bsp.SurfFlowing,
	"nodraw":  bsp.SurfNoDraw,
}

func (c *BakeConfig) variant() bsp.Variant {
	if c.Variant == "quake" {
		return bsp.Quake
	}
	return bsp.Quake2
}

// BuildMap constructs the configured scene: the world shell and world
// brushes as model 0, then one model per entity brush, with the shadow
// policies serialized into the map's entity text.
func (c *BakeConfig) BuildMap() (*bsp.Map, error) {
	variant := c.variant()
	b := bsp.NewBuilder(variant)

	b.StartModel()
	c.addShell(b, variant)
	for _, brush := range c.Brushes {
		if brush.Policy == nil && !brush.Skip {
			b.AddBox(brush.Mins.Vector(), brush.Maxs.Vector(), brush.texSpec())
		}
	}
	b.FinishModel()
	b.AddEntity(bsp.Entity{"classname": "worldspawn"})

	for _, brush := range c.Brushes {
		if brush.Policy == nil && !brush.Skip {
			continue
		}
		if brush.Policy == nil {
			return nil, fmt.Errorf("config: skip brush %q needs a policy", brush.Name)
		}
		b.StartModel()
		if brush.Skip {
			b.AddSkipBox(brush.Mins.Vector(), brush.Maxs.Vector())
		} else {
			b.AddBox(brush.Mins.Vector(), brush.Maxs.Vector(), brush.texSpec())
		}
		idx := b.FinishModel()
		b.AddEntity(brush.entity(idx))
	}

	return b.Build(), nil
}

// addShell surrounds the interior volume with six slabs. The floor and
// ceiling span the full outer footprint; the walls fill in between.
func (c *BakeConfig) addShell(b *bsp.Builder, variant bsp.Variant) {
	mins := c.World.Mins.Vector()
	maxs := c.World.Maxs.Vector()
	t := pt.Vector{X: c.World.Thickness, Y: c.World.Thickness, Z: c.World.Thickness}
	lo := mins.Sub(t)
	hi := maxs.Add(t)

	wall := bsp.TexSpec{Name: c.World.Texture}
	ceil := wall
	if c.World.SkyCeiling {
		ceil = bsp.TexSpec{Name: c.World.SkyTexture}
		if variant == bsp.Quake2 {
			ceil.Flags = bsp.SurfSky | bsp.SurfLight
			ceil.Value = 100
		}
	}

	b.AddBox(pt.Vector{X: lo.X, Y: lo.Y, Z: lo.Z}, pt.Vector{X: hi.X, Y: hi.Y, Z: mins.Z}, wall)
	b.AddBox(pt.Vector{X: lo.X, Y: lo.Y, Z: maxs.Z}, pt.Vector{X: hi.X, Y: hi.Y, Z: hi.Z}, ceil)
	b.AddBox(pt.Vector{X: lo.X, Y: lo.Y, Z: mins.Z}, pt.Vector{X: mins.X, Y: hi.Y, Z: maxs.Z}, wall)
	b.AddBox(pt.Vector{X: maxs.X, Y: lo.Y, Z: mins.Z}, pt.Vector{X: hi.X, Y: hi.Y, Z: maxs.Z}, wall)
	b.AddBox(pt.Vector{X: mins.X, Y: lo.Y, Z: mins.Z}, pt.Vector{X: maxs.X, Y: mins.Y, Z: maxs.Z}, wall)
	b.AddBox(pt.Vector{X: mins.X, Y: maxs.Y, Z: mins.Z}, pt.Vector{X: maxs.X, Y: hi.Y, Z: maxs.Z}, wall)
}

func (b *Brush) texSpec() bsp.TexSpec {
	spec := bsp.TexSpec{
		Name:       b.Texture,
		Value:      b.Value,
		NoShadow:   b.NoShadow,
		LightAlpha: b.LightAlpha,
	}
	for _, f := range b.Flags {
		spec.Flags |= surfFlagNames[f]
	}
	return spec
}

func (b *Brush) entity(model int) bsp.Entity {
	p := b.Policy
	class := p.ClassName
	if class == "" {
		class = "func_wall"
	}
	ent := bsp.Entity{
		"classname": class,
		"model":     "*" + strconv.Itoa(model),
	}
	if p.Shadow {
		ent["_shadow"] = "1"
	}
	if p.ShadowSelf {
		ent["_shadowself"] = "1"
	}
	if p.ShadowWorldOnly {
		ent["_shadowworldonly"] = "1"
	}
	if p.SwitchableShadow {
		ent["_switchableshadow"] = "1"
		ent["_switchshadstyle"] = strconv.Itoa(p.SwitchShadStyle)
	}
	if p.Alpha != 0 && p.Alpha != 1 {
		ent["_alpha"] = strconv.FormatFloat(p.Alpha, 'g', -1, 64)
	}
	return ent
}
