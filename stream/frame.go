package stream

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledscene/mobject"
)

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a Frame of n pixels filled with background.
func NewFrame(n int, background colorful.Color) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, n)
	for i := range f.pixels {
		f.pixels[i] = background
	}
	return f
}

// Len returns the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns the colour of pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// index maps a position along the strip in [0, 1] to a pixel.
func (f *Frame) index(x float64) int {
	return int(math.Round(x * float64(len(f.pixels)-1)))
}

func (f *Frame) blend(i int, c colorful.Color, opacity float64) {
	if i < 0 || i >= len(f.pixels) {
		return
	}
	f.pixels[i] = f.pixels[i].BlendRgb(c, opacity)
}

// Draw composites the families of mobs over the frame in order. Consecutive
// points of a mobject light every pixel between them; a single point lights
// one pixel. Each pixel is blended at most once per mobject.
func (f *Frame) Draw(mobs []*mobject.Mobject) {
	if len(f.pixels) == 0 {
		return
	}
	for _, top := range mobs {
		for _, m := range top.Family() {
			opacity := math.Max(0, math.Min(1, m.Opacity))
			if opacity == 0 || len(m.Points) == 0 {
				continue
			}
			lit := make(map[int]bool)
			lit[f.index(m.Points[0].X)] = true
			for j := 1; j < len(m.Points); j++ {
				a, b := f.index(m.Points[j-1].X), f.index(m.Points[j].X)
				if a > b {
					a, b = b, a
				}
				if b < 0 || a >= len(f.pixels) {
					continue
				}
				a, b = max(a, 0), min(b, len(f.pixels)-1)
				for i := a; i <= b; i++ {
					lit[i] = true
				}
			}
			for i := range lit {
				f.blend(i, m.Color, opacity)
			}
		}
	}
}

// MarshalBinary converts a Frame into binary data.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
