// Package bsp holds the in-memory representation of a compiled BSP map as the
// tracing engine consumes it: models, faces, planes, the node/leaf tree, the
// edge indirection used to walk face vertices, texinfos, and the raw entity
// text. Loading .bsp files from disk is out of scope; maps are handed in
// already decoded, or built programmatically with Builder.
package bsp

import (
	"math"
	"strings"

	"github.com/fogleman/pt/pt"
)

// Variant selects between the two supported BSP rule sets.
type Variant int

const (
	Quake Variant = iota
	Quake2
)

// Quake 1 leaf contents.
const (
	ContentsEmpty = -1
	ContentsSolid = -2
	ContentsWater = -3
	ContentsSlime = -4
	ContentsLava  = -5
	ContentsSky   = -6
)

// Quake 2 leaf contents are bit flags.
const Q2ContentsSolid = 1

// Quake 2 texinfo surface flags.
const (
	SurfLight   = 1 << 0
	SurfSlick   = 1 << 1
	SurfSky     = 1 << 2
	SurfWarp    = 1 << 3
	SurfTrans33 = 1 << 4
	SurfTrans66 = 1 << 5
	SurfFlowing = 1 << 6
	SurfNoDraw  = 1 << 7

	SurfTranslucent = SurfTrans33 | SurfTrans66
)

// Extended texinfo flags. These live outside the BSP file proper (a sidecar
// emitted by the compiler) and are carried as a slice parallel to TexInfos.
const (
	// TexNoShadow marks faces that never cast shadows.
	TexNoShadow uint64 = 1 << 0

	texAlphaShift = 8
	texAlphaMask  = 127
)

// EncodeLightAlpha packs a fractional opacity into extended texinfo flags as
// a 7-bit value. Zero is reserved to mean "unset".
func EncodeLightAlpha(alpha float64) uint64 {
	alpha = math.Max(0, math.Min(1, alpha))
	return uint64(math.Round(alpha*texAlphaMask)) << texAlphaShift
}

// LightAlpha unpacks a per-texture opacity override. ok is false when the
// field is unset.
func LightAlpha(flags uint64) (alpha float64, ok bool) {
	a := (flags >> texAlphaShift) & texAlphaMask
	if a == 0 {
		return 0, false
	}
	return float64(a) / texAlphaMask, true
}

type Plane struct {
	Normal pt.Vector
	Dist   float64
}

// Flipped returns the plane facing the opposite way.
func (p Plane) Flipped() Plane {
	return Plane{p.Normal.Negate(), -p.Dist}
}

// Node is an internal split of the BSP tree. A negative child c refers to
// leaf index -c-1.
type Node struct {
	PlaneNum int32
	Children [2]int32
}

type Leaf struct {
	Contents int32
}

type Model struct {
	Mins, Maxs pt.Vector
	Origin     pt.Vector
	HeadNode   int32
	FirstFace  int32
	NumFaces   int32
}

// TexInfo carries the texture projection axes (s and t rows, each xyz +
// offset), the Quake 2 surface flags and light value, and the texture name.
// Quake 1 maps leave Flags and Value zero.
type TexInfo struct {
	Vecs  [2][4]float64
	Flags uint32
	Value int32
	Name  string
}

type Face struct {
	PlaneNum  int32
	Side      int32
	FirstEdge int32
	NumEdges  int32
	TexInfo   int32
}

type Map struct {
	Variant   Variant
	Models    []Model
	Planes    []Plane
	Nodes     []Node
	Leafs     []Leaf
	Vertexes  []pt.Vector
	Edges     [][2]int32
	SurfEdges []int32
	Faces     []Face

	TexInfos []TexInfo
	// ExtendedFlags parallels TexInfos; nil when the sidecar is absent.
	ExtendedFlags []uint64

	// EntityData is the raw entity lump text.
	EntityData string
}

func (m *Map) World() *Model {
	return &m.Models[0]
}

// FaceVertexIndex resolves vertex i of the face through the surfedge/edge
// indirection: a negative surfedge selects the second vertex of the reversed
// edge.
func (m *Map) FaceVertexIndex(f *Face, i int32) int32 {
	se := m.SurfEdges[f.FirstEdge+i]
	if se >= 0 {
		return m.Edges[se][0]
	}
	return m.Edges[-se][1]
}

func (m *Map) FaceVertex(f *Face, i int32) pt.Vector {
	return m.Vertexes[m.FaceVertexIndex(f, i)]
}

func (m *Map) FaceVertices(f *Face) []pt.Vector {
	verts := make([]pt.Vector, f.NumEdges)
	for i := int32(0); i < f.NumEdges; i++ {
		verts[i] = m.FaceVertex(f, i)
	}
	return verts
}

// FacePlane returns the face's front plane, flipped when the face is stored
// on the back side of its split plane.
func (m *Map) FacePlane(f *Face) Plane {
	plane := m.Planes[f.PlaneNum]
	if f.Side != 0 {
		plane = plane.Flipped()
	}
	return plane
}

func (m *Map) FaceTexInfo(f *Face) *TexInfo {
	return &m.TexInfos[f.TexInfo]
}

func (m *Map) TextureName(f *Face) string {
	return m.TexInfos[f.TexInfo].Name
}

// SurfFlags returns the face's Quake 2 surface flags; zero on Quake 1 maps.
func (m *Map) SurfFlags(f *Face) uint32 {
	return m.TexInfos[f.TexInfo].Flags
}

// FaceExtendedFlags returns the face's extended texinfo flags, or zero when
// no sidecar was provided.
func (m *Map) FaceExtendedFlags(f *Face) uint64 {
	if m.ExtendedFlags == nil {
		return 0
	}
	return m.ExtendedFlags[f.TexInfo]
}

// IsLiquid reports whether the face is a liquid surface: a `*`-prefixed
// texture name on Quake 1 maps, the WARP surface flag on Quake 2 maps.
func (m *Map) IsLiquid(f *Face) bool {
	if m.Variant == Quake2 {
		return m.SurfFlags(f)&SurfWarp != 0
	}
	return IsLiquidName(m.TextureName(f))
}

// IsSolidLeaf applies the variant's solidity test: exact CONTENTS_SOLID on
// Quake 1, the solid contents bit on Quake 2.
func (m *Map) IsSolidLeaf(leaf *Leaf) bool {
	if m.Variant == Quake2 {
		return leaf.Contents&Q2ContentsSolid != 0
	}
	return leaf.Contents == ContentsSolid
}

// IsSkyName matches the Quake 1 sky naming convention (first three letters
// "sky", case-insensitive).
func IsSkyName(name string) bool {
	return len(name) >= 3 && strings.EqualFold(name[:3], "sky")
}

// IsFenceName matches the `{`-prefix cutout texture convention.
func IsFenceName(name string) bool {
	return len(name) > 0 && name[0] == '{'
}

// IsLiquidName matches the `*`-prefix liquid texture convention.
func IsLiquidName(name string) bool {
	return len(name) > 0 && name[0] == '*'
}
