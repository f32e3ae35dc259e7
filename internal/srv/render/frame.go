package render

import (
	"bytes"
	"image"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	Width  = 128
	Height = 64
)

// Frame is one rendered panel image, laid out in SSD1306 pages so it can be
// sent to the controller without conversion. A Frame is not modified once
// Render returned it.
type Frame struct {
	*image1bit.VerticalLSB
}

func NewFrame() *Frame {
	return &Frame{VerticalLSB: image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))}
}

// Equal reports whether both frames light exactly the same pixels.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Rect == other.Rect && bytes.Equal(f.Pix, other.Pix)
}

// LitCount returns the number of lit pixels.
func (f *Frame) LitCount() int {
	count := 0
	for _, b := range f.Pix {
		for ; b != 0; b &= b - 1 {
			count++
		}
	}
	return count
}

// ASCII renders the frame as text, one character per pixel.
func (f *Frame) ASCII() string {
	var buf bytes.Buffer
	r := f.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if f.BitAt(x, y) {
				buf.WriteByte('#')
			} else {
				buf.WriteByte('.')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
