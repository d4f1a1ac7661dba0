package trace

import (
	"github.com/jdginn/go-bsp-light/bsp"
	"github.com/jdginn/go-bsp-light/winding"
)

// skipWindings rebuilds the boundary polygons of a model whose faces were
// compiled away. It walks the model's node tree and emits one outward-facing
// polygon per bounding plane of every solid leaf.
func skipWindings(m *bsp.Map, model *bsp.Model) []winding.Winding {
	var planes []bsp.Plane
	var out []winding.Winding
	collectSkipFaces(m, model.HeadNode, &planes, &out)
	if len(planes) != 0 {
		panic("trace: unbalanced plane stack")
	}
	return out
}

func collectSkipFaces(m *bsp.Map, nodenum int32, planes *[]bsp.Plane, out *[]winding.Winding) {
	if nodenum < 0 {
		leaf := &m.Leafs[-nodenum-1]
		if m.IsSolidLeaf(leaf) {
			*out = append(*out, leafWindings(*planes)...)
		}
		return
	}
	node := &m.Nodes[nodenum]
	plane := m.Planes[node.PlaneNum]

	// front children see the node plane as-is, back children flipped, so the
	// stack always holds planes facing into the current subtree
	*planes = append(*planes, plane)
	collectSkipFaces(m, node.Children[0], planes, out)
	*planes = (*planes)[:len(*planes)-1]

	*planes = append(*planes, plane.Flipped())
	collectSkipFaces(m, node.Children[1], planes, out)
	*planes = (*planes)[:len(*planes)-1]
}

// leafWindings builds the boundary polygons of a solid leaf bounded by the
// given inward-facing planes. Planes that do not contribute a polygon (the
// leaf is unbounded on redundant planes) are dropped.
func leafWindings(planes []bsp.Plane) []winding.Winding {
	var result []winding.Winding
	for i := range planes {
		face := planes[i].Flipped()
		w := winding.BaseForPlane(face.Normal, face.Dist)
		for j := range planes {
			if j == i || w == nil {
				continue
			}
			w, _ = w.Clip(planes[j].Normal, planes[j].Dist, winding.OnEpsilon)
		}
		if w != nil {
			result = append(result, w)
		}
	}
	return result
}
