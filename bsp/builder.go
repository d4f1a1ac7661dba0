package bsp

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// TexSpec describes the texture applied to built faces.
type TexSpec struct {
	Name  string
	Flags uint32
	Value int32

	// NoShadow and LightAlpha populate the extended texinfo flags.
	// LightAlpha zero leaves the per-texture opacity override unset.
	NoShadow   bool
	LightAlpha float64
}

// Builder assembles a Map programmatically. Models are built one at a time
// between StartModel and FinishModel; the first finished model is the world.
// Faces are added as explicit polygons or axis-aligned boxes; AddSkipBox adds
// a solid node tree with no faces, the shape compiled "skip" brush models
// take. Build seals the map and serializes the collected entities.
type Builder struct {
	m    *Map
	ents []Entity

	verts  map[pt.Vector]int32
	planes map[Plane]int32
	texs   map[texKey]int32

	emptyLeaf int32
	solidLeaf int32
	haveEmpty bool
	haveSolid bool

	inModel   bool
	firstFace int32
	head      int32
	haveHead  bool
	mins      pt.Vector
	maxs      pt.Vector
	haveBound bool
}

type texKey struct {
	spec TexSpec
	s, t [4]float64
}

func NewBuilder(variant Variant) *Builder {
	m := &Map{Variant: variant}
	// edge 0 is reserved: surfedge 0 cannot be negated
	m.Edges = append(m.Edges, [2]int32{})
	return &Builder{
		m:      m,
		verts:  map[pt.Vector]int32{},
		planes: map[Plane]int32{},
		texs:   map[texKey]int32{},
	}
}

func (b *Builder) StartModel() {
	if b.inModel {
		panic("bsp: StartModel inside an open model")
	}
	b.inModel = true
	b.firstFace = int32(len(b.m.Faces))
	b.haveHead = false
	b.haveBound = false
}

// FinishModel seals the current model and returns its index.
func (b *Builder) FinishModel() int {
	if !b.inModel {
		panic("bsp: FinishModel without StartModel")
	}
	b.inModel = false

	head := b.head
	if !b.haveHead {
		// face-only models never walk their tree; point at an empty leaf
		head = -(b.leafEmpty() + 1)
	}
	b.m.Models = append(b.m.Models, Model{
		Mins:      b.mins,
		Maxs:      b.maxs,
		HeadNode:  head,
		FirstFace: b.firstFace,
		NumFaces:  int32(len(b.m.Faces)) - b.firstFace,
	})
	return len(b.m.Models) - 1
}

// AddPolygon adds one face to the open model. Vertices must be wound
// clockwise viewed from the front, the winding package convention.
func (b *Builder) AddPolygon(verts []pt.Vector, tex TexSpec) {
	if !b.inModel {
		panic("bsp: AddPolygon outside StartModel/FinishModel")
	}
	if len(verts) < 3 {
		panic("bsp: polygon needs at least 3 vertices")
	}

	v1 := verts[1].Sub(verts[0])
	v2 := verts[2].Sub(verts[0])
	normal := v2.Cross(v1).Normalize()
	plane := Plane{normal, normal.Dot(verts[0])}

	firstEdge := int32(len(b.m.SurfEdges))
	for i, v := range verts {
		a := b.vertex(v)
		c := b.vertex(verts[(i+1)%len(verts)])
		b.m.Edges = append(b.m.Edges, [2]int32{a, c})
		b.m.SurfEdges = append(b.m.SurfEdges, int32(len(b.m.Edges))-1)
		b.extendBound(v)
	}

	b.m.Faces = append(b.m.Faces, Face{
		PlaneNum:  b.plane(plane),
		FirstEdge: firstEdge,
		NumEdges:  int32(len(verts)),
		TexInfo:   b.texinfo(tex, normal),
	})
}

// AddBox adds the six outward faces of an axis-aligned box.
func (b *Builder) AddBox(min, max pt.Vector, tex TexSpec) {
	for _, quad := range boxQuads(min, max) {
		b.AddPolygon(quad[:], tex)
	}
}

// AddSkipBox gives the open model a solid node tree for an axis-aligned box
// without emitting any faces. A model can hold only one tree.
func (b *Builder) AddSkipBox(min, max pt.Vector) {
	if !b.inModel {
		panic("bsp: AddSkipBox outside StartModel/FinishModel")
	}
	if b.haveHead {
		panic("bsp: model already has a node tree")
	}

	outward := []Plane{
		{pt.Vector{X: 1}, max.X},
		{pt.Vector{X: -1}, -min.X},
		{pt.Vector{Y: 1}, max.Y},
		{pt.Vector{Y: -1}, -min.Y},
		{pt.Vector{Z: 1}, max.Z},
		{pt.Vector{Z: -1}, -min.Z},
	}

	empty := b.leafEmpty()
	solid := b.leafSolid()

	b.head = int32(len(b.m.Nodes))
	b.haveHead = true
	for i, plane := range outward {
		node := Node{PlaneNum: b.plane(plane)}
		node.Children[0] = -(empty + 1)
		if i == len(outward)-1 {
			node.Children[1] = -(solid + 1)
		} else {
			node.Children[1] = int32(len(b.m.Nodes)) + 1
		}
		b.m.Nodes = append(b.m.Nodes, node)
	}

	b.extendBound(min)
	b.extendBound(max)
}

// AddEntity queues an entity dictionary for the map's entity text.
func (b *Builder) AddEntity(ent Entity) {
	b.ents = append(b.ents, ent)
}

// Build finalizes the map. The builder must not be reused afterwards.
func (b *Builder) Build() *Map {
	if b.inModel {
		panic("bsp: Build with an open model")
	}
	b.m.EntityData = marshalEntities(b.ents)
	return b.m
}

func (b *Builder) vertex(v pt.Vector) int32 {
	if i, ok := b.verts[v]; ok {
		return i
	}
	i := int32(len(b.m.Vertexes))
	b.m.Vertexes = append(b.m.Vertexes, v)
	b.verts[v] = i
	return i
}

func (b *Builder) plane(p Plane) int32 {
	if i, ok := b.planes[p]; ok {
		return i
	}
	i := int32(len(b.m.Planes))
	b.m.Planes = append(b.m.Planes, p)
	b.planes[p] = i
	return i
}

func (b *Builder) texinfo(tex TexSpec, normal pt.Vector) int32 {
	s, t := textureAxisFromPlane(normal)
	key := texKey{tex, s, t}
	if i, ok := b.texs[key]; ok {
		return i
	}

	i := int32(len(b.m.TexInfos))
	b.m.TexInfos = append(b.m.TexInfos, TexInfo{
		Vecs:  [2][4]float64{s, t},
		Flags: tex.Flags,
		Value: tex.Value,
		Name:  tex.Name,
	})

	var ext uint64
	if tex.NoShadow {
		ext |= TexNoShadow
	}
	if tex.LightAlpha > 0 {
		ext |= EncodeLightAlpha(tex.LightAlpha)
	}
	b.m.ExtendedFlags = append(b.m.ExtendedFlags, ext)

	b.texs[key] = i
	return i
}

func (b *Builder) leafEmpty() int32 {
	if !b.haveEmpty {
		contents := int32(ContentsEmpty)
		if b.m.Variant == Quake2 {
			contents = 0
		}
		b.emptyLeaf = int32(len(b.m.Leafs))
		b.m.Leafs = append(b.m.Leafs, Leaf{Contents: contents})
		b.haveEmpty = true
	}
	return b.emptyLeaf
}

func (b *Builder) leafSolid() int32 {
	if !b.haveSolid {
		contents := int32(ContentsSolid)
		if b.m.Variant == Quake2 {
			contents = Q2ContentsSolid
		}
		b.solidLeaf = int32(len(b.m.Leafs))
		b.m.Leafs = append(b.m.Leafs, Leaf{Contents: contents})
		b.haveSolid = true
	}
	return b.solidLeaf
}

func (b *Builder) extendBound(v pt.Vector) {
	if !b.haveBound {
		b.mins, b.maxs = v, v
		b.haveBound = true
		return
	}
	b.mins = b.mins.Min(v)
	b.maxs = b.maxs.Max(v)
}

// boxQuads returns the six faces of an axis-aligned box, each wound clockwise
// viewed from outside.
func boxQuads(min, max pt.Vector) [6][4]pt.Vector {
	x0, y0, z0 := min.X, min.Y, min.Z
	x1, y1, z1 := max.X, max.Y, max.Z
	v := func(x, y, z float64) pt.Vector { return pt.Vector{X: x, Y: y, Z: z} }
	return [6][4]pt.Vector{
		{v(x1, y0, z0), v(x1, y0, z1), v(x1, y1, z1), v(x1, y1, z0)}, // +x
		{v(x0, y0, z0), v(x0, y1, z0), v(x0, y1, z1), v(x0, y0, z1)}, // -x
		{v(x0, y1, z0), v(x1, y1, z0), v(x1, y1, z1), v(x0, y1, z1)}, // +y
		{v(x0, y0, z0), v(x0, y0, z1), v(x1, y0, z1), v(x1, y0, z0)}, // -y
		{v(x0, y0, z1), v(x0, y1, z1), v(x1, y1, z1), v(x1, y0, z1)}, // +z
		{v(x0, y0, z0), v(x1, y0, z0), v(x1, y1, z0), v(x0, y1, z0)}, // -z
	}
}

var baseAxes = [6][3]pt.Vector{
	{{Z: 1}, {X: 1}, {Y: -1}},  // floor
	{{Z: -1}, {X: 1}, {Y: -1}}, // ceiling
	{{X: 1}, {Y: 1}, {Z: -1}},  // west wall
	{{X: -1}, {Y: 1}, {Z: -1}}, // east wall
	{{Y: 1}, {X: 1}, {Z: -1}},  // south wall
	{{Y: -1}, {X: 1}, {Z: -1}}, // north wall
}

// textureAxisFromPlane picks the canonical projection axes for a face normal,
// the same selection the map compiler makes.
func textureAxisFromPlane(normal pt.Vector) (s, t [4]float64) {
	best := -math.MaxFloat64
	bestAxis := 0
	for i, axes := range baseAxes {
		if dot := normal.Dot(axes[0]); dot > best {
			best = dot
			bestAxis = i
		}
	}
	sv := baseAxes[bestAxis][1]
	tv := baseAxes[bestAxis][2]
	return [4]float64{sv.X, sv.Y, sv.Z, 0}, [4]float64{tv.X, tv.Y, tv.Z, 0}
}
