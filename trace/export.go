package trace

import (
	"fmt"

	"github.com/fogleman/pt/pt"
	"github.com/hpinc/go3mf"
)

// Export3MF writes the committed shadow geometry to path as a 3MF file, one
// mesh object per non-empty group, named after the group's occlusion class.
// Useful for inspecting what the tracer actually sees.
func (s *Scene) Export3MF(path string) error {
	if !s.accel.committed {
		panic("trace: export before commit")
	}
	names := map[uint32]string{
		s.sky:      "sky",
		s.solid:    "solid",
		s.filtered: "filtered",
		s.skip:     "skip",
	}

	var model go3mf.Model
	id := uint32(1)
	for _, g := range s.accel.groups {
		if len(g.tris) == 0 {
			continue
		}
		mesh := &go3mf.Mesh{}
		index := make(map[pt.Vector]uint32)
		for _, tri := range g.tris {
			var v [3]uint32
			for k, p := range [3]pt.Vector{tri.V1, tri.V2, tri.V3} {
				n, ok := index[p]
				if !ok {
					n = uint32(len(mesh.Vertices.Vertex))
					mesh.Vertices.Vertex = append(mesh.Vertices.Vertex,
						go3mf.Point3D{float32(p.X), float32(p.Y), float32(p.Z)})
					index[p] = n
				}
				v[k] = n
			}
			mesh.Triangles.Triangle = append(mesh.Triangles.Triangle,
				go3mf.Triangle{V1: v[0], V2: v[1], V3: v[2]})
		}
		model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
			ID:   id,
			Name: names[g.id],
			Mesh: mesh,
		})
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: id})
		id++
	}

	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := w.Encode(&model); err != nil {
		w.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return w.Close()
}
