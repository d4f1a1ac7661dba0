package trace

import (
	"github.com/jdginn/go-bsp-light/bsp"
)

// occlusionClass decides which geometry group a face lands in.
type occlusionClass int

const (
	occludeNone occlusionClass = iota
	occludeSky
	occludeSolid
	// occludeFilter faces get the per-ray transparency and shadow-policy
	// filter instead of occluding outright.
	occludeFilter
)

type faceRef struct {
	face  *bsp.Face
	model *ModelInfo
}

type faceBuckets struct {
	sky    []faceRef
	solid  []faceRef
	filter []faceRef
}

// classifyFaces sorts every face of every shadow-casting model into buckets.
// Rule order matters: the first rule that matches a face decides it.
func classifyFaces(m *bsp.Map, models []*ModelInfo) faceBuckets {
	var b faceBuckets
	for _, mi := range models {
		if !mi.castsShadow() {
			continue
		}
		for i := int32(0); i < mi.Model.NumFaces; i++ {
			face := &m.Faces[mi.Model.FirstFace+i]
			ref := faceRef{face: face, model: mi}
			switch classifyFace(m, mi, face) {
			case occludeSky:
				b.sky = append(b.sky, ref)
			case occludeSolid:
				b.solid = append(b.solid, ref)
			case occludeFilter:
				b.filter = append(b.filter, ref)
			}
		}
	}
	return b
}

func classifyFace(m *bsp.Map, mi *ModelInfo, face *bsp.Face) occlusionClass {
	if m.FaceExtendedFlags(face)&bsp.TexNoShadow != 0 {
		return occludeNone
	}
	if mi.SwitchableShadow {
		return occludeFilter
	}

	flags := m.SurfFlags(face)
	if m.Variant == bsp.Quake2 && flags&bsp.SurfNoDraw != 0 && flags&bsp.SurfSky == 0 {
		return occludeNone
	}
	if faceAlpha(m, mi, face) < 1 || (m.Variant == bsp.Quake2 && flags&bsp.SurfTranslucent != 0) {
		return occludeFilter
	}

	name := m.TextureName(face)
	if bsp.IsFenceName(name) {
		return occludeFilter
	}

	if m.Variant == bsp.Quake2 {
		// sky faces emit sunlight only when both the sky and light flags are
		// set and the light value is nonzero, matching arghrad
		if flags&bsp.SurfSky != 0 && flags&bsp.SurfLight != 0 && m.FaceTexInfo(face).Value != 0 {
			return occludeSky
		}
	} else if bsp.IsSkyName(name) {
		return occludeSky
	}

	if m.IsLiquid(face) {
		if !mi.IsWorld() {
			// liquids in shadow-casting bmodels occlude; world liquids never do
			return occludeSolid
		}
		return occludeNone
	}

	if mi.IsWorld() || mi.Shadow {
		return occludeSolid
	}
	// shadowself and shadowworldonly models decide per ray
	return occludeFilter
}

// faceAlpha is the face's opacity: a per-face override from the extended
// flags when present, the owning model's alpha otherwise.
func faceAlpha(m *bsp.Map, mi *ModelInfo, face *bsp.Face) float64 {
	if alpha, ok := bsp.LightAlpha(m.FaceExtendedFlags(face)); ok {
		return alpha
	}
	return mi.Alpha
}
