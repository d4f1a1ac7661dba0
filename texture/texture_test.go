package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"

	"github.com/jdginn/go-bsp-light/bsp"
)

func TestOpaque(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(RGBA{255, 255, 255, 255}, Opaque{}.Sample(nil, pt.Vector{}))
}

// checker builds a 2x2 image: opaque red at even parity, transparent at odd.
func checker() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 1, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 0, 0, 0})
	img.Set(0, 1, color.NRGBA{0, 0, 0, 0})
	return img
}

// floorMap has one face projected straight onto the xy plane.
func floorMap(name string) (*bsp.Map, *bsp.Face) {
	m := &bsp.Map{
		TexInfos: []bsp.TexInfo{{
			Vecs: [2][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}},
			Name: name,
		}},
		Faces: []bsp.Face{{TexInfo: 0}},
	}
	return m, &m.Faces[0]
}

func TestStoreProjection(t *testing.T) {
	assert := assert.New(t)

	m, f := floorMap("{grate")
	s := NewStore(m)
	s.Add("{grate", checker())

	at := func(x, y float64) RGBA {
		return s.Sample(f, pt.Vector{X: x, Y: y, Z: 5})
	}

	assert.Equal(RGBA{255, 0, 0, 255}, at(0, 0))
	assert.Equal(RGBA{255, 0, 0, 255}, at(1.5, 1.5))
	assert.Equal(RGBA{0, 0, 0, 0}, at(1, 0))
	assert.Equal(RGBA{0, 0, 0, 0}, at(0.25, 1.75))
}

func TestStoreWrap(t *testing.T) {
	assert := assert.New(t)

	m, f := floorMap("{grate")
	s := NewStore(m)
	s.Add("{grate", checker())

	at := func(x, y float64) RGBA {
		return s.Sample(f, pt.Vector{X: x, Y: y})
	}

	// texture tiles in both directions, including negative coordinates
	assert.Equal(at(0, 0), at(2, 0))
	assert.Equal(at(0, 0), at(-2, 4))
	assert.Equal(at(1, 0), at(3, 2))
	assert.Equal(at(1, 0), at(-1, 0))
}

func TestStoreUnregistered(t *testing.T) {
	assert := assert.New(t)

	m, f := floorMap("wall3")
	s := NewStore(m)

	assert.Equal(RGBA{255, 255, 255, 255}, s.Sample(f, pt.Vector{X: 0.5, Y: 0.5}))
}
