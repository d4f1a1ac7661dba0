package trace

import (
	"math"

	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-bsp-light/bsp"
)

// raySourceInfo travels with every query. It names the model the rays were
// cast from and gives transparency side effects somewhere to land.
type raySourceInfo struct {
	// stream receives per-ray tint and dynamic styles; nil for single rays.
	stream *Stream
	// self is the model the query's sample points belong to, nil for none.
	self *ModelInfo
	// singleRayShadowStyle catches the dynamic occluder style when there is
	// no stream to store it in.
	singleRayShadowStyle int
}

// addGlass folds one pane of tinted glass into a ray's accumulated color.
// opacity 0 leaves the color alone, 1 tints it fully.
func (src *raySourceInfo) addGlass(r *shadowRay, opacity float64, glass pt.Color) {
	if src.stream == nil {
		// single rays have nowhere to carry color
		return
	}
	opacity = math.Max(0, math.Min(1, opacity))
	c := src.stream.colors[r.index]
	src.stream.colors[r.index] = c.Mix(c.Mul(glass), opacity)
}

func (src *raySourceInfo) addDynamicOccluder(r *shadowRay, style int) {
	if src.stream != nil {
		src.stream.styles[r.index] = style
	} else {
		src.singleRayShadowStyle = style
	}
}

// filterHits is the hit filter bound to the filtered geometry group. For
// each candidate it applies, in order: the hit model's shadow policy,
// switchable shadow recording, and fence/glass transparency. A candidate
// that survives occludes; everything else is rejected and the ray marches
// on.
func (s *Scene) filterHits(valid []bool, cands []hitCandidate, src *raySourceInfo) {
	for i, cand := range cands {
		if !valid[i] {
			continue
		}
		hitModel := s.lookupModel(cand.geomID, cand.primID)
		if hitModel == nil {
			valid[i] = false
			continue
		}
		if hitModel.ShadowWorldOnly && (src.self == nil || !src.self.IsWorld()) {
			valid[i] = false
			continue
		}
		if hitModel.ShadowSelf && src.self != hitModel {
			valid[i] = false
			continue
		}
		if hitModel.SwitchableShadow {
			src.addDynamicOccluder(cand.ray, hitModel.SwitchShadStyle)
			valid[i] = false
			continue
		}

		face := s.lookupFace(cand.geomID, cand.primID)
		alpha := faceAlpha(s.m, hitModel, face)
		var isFence, isGlass bool
		if s.m.Variant == bsp.Quake2 {
			flags := s.m.SurfFlags(face)
			// both translucency bits together mean the texture's alpha
			// channel decides, the kmquake2 convention
			isFence = flags&bsp.SurfTranslucent == bsp.SurfTranslucent
			isGlass = !isFence && flags&bsp.SurfTranslucent != 0
			if isGlass {
				if flags&bsp.SurfTrans33 != 0 {
					alpha = 0.66
				} else {
					alpha = 0.33
				}
			}
		} else {
			isFence = bsp.IsFenceName(s.m.TextureName(face))
			isGlass = alpha < 1
		}

		if isFence || isGlass {
			texel := s.sampler.Sample(face, cand.ray.endpoint(cand.t))
			if isGlass {
				if texel.A < 255 {
					alpha = float64(texel.A) / 255
				}
				// tint only where the ray exits the pane, so a shadow ray
				// crossing a glass brush picks up one tint, not two
				if cand.ray.dir.Dot(cand.ng) < 0 {
					glass := pt.Color{
						R: float64(texel.R),
						G: float64(texel.G),
						B: float64(texel.B),
					}.DivScalar(255)
					src.addGlass(cand.ray, alpha, glass)
				}
				valid[i] = false
				continue
			}
			if texel.A < 255 {
				valid[i] = false
				continue
			}
		}
	}
}
