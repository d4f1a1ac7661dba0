// Package texture supplies the texel lookups the shadow filter makes on
// fence and glass surfaces.
package texture

import (
	"image"
	"math"

	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-bsp-light/bsp"
)

type RGBA struct {
	R, G, B, A uint8
}

// Sampler reads the texel under a world-space point on a face. The alpha
// channel drives fence cutouts and glass opacity; the color channels tint
// rays passing through glass.
type Sampler interface {
	Sample(face *bsp.Face, point pt.Vector) RGBA
}

// Opaque is the sampler used when no texture data is available: every texel
// is solid white.
type Opaque struct{}

func (Opaque) Sample(*bsp.Face, pt.Vector) RGBA {
	return RGBA{255, 255, 255, 255}
}

// Store samples decoded texture images, projecting hit points through each
// face's texinfo axes. Textures are registered by name; faces whose texture
// is not registered sample opaque white.
type Store struct {
	m      *bsp.Map
	images map[string]image.Image
}

func NewStore(m *bsp.Map) *Store {
	return &Store{m: m, images: map[string]image.Image{}}
}

func (s *Store) Add(name string, img image.Image) {
	s.images[name] = img
}

func (s *Store) Sample(face *bsp.Face, point pt.Vector) RGBA {
	ti := s.m.FaceTexInfo(face)
	img, ok := s.images[ti.Name]
	if !ok {
		return RGBA{255, 255, 255, 255}
	}

	u := point.X*ti.Vecs[0][0] + point.Y*ti.Vecs[0][1] + point.Z*ti.Vecs[0][2] + ti.Vecs[0][3]
	v := point.X*ti.Vecs[1][0] + point.Y*ti.Vecs[1][1] + point.Z*ti.Vecs[1][2] + ti.Vecs[1][3]

	bounds := img.Bounds()
	x := wrap(int(math.Floor(u)), bounds.Dx())
	y := wrap(int(math.Floor(v)), bounds.Dy())

	r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	return RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
