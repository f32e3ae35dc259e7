package render

import (
	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"image"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

var uniformImage = image.NewUniform(image1bit.On)

// Faces used on the panel: a 6px wide bitmap font for labels, 7x13 for values.
var (
	LabelFace font.Face = bitmapfont.Face
	ValueFace font.Face = basicfont.Face7x13
)

func AddLabel(img draw.Image, face font.Face, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  uniformImage,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

func LabelWidth(face font.Face, label string) int {
	return font.MeasureString(face, label).Ceil()
}

func AddCenteredLabel(img draw.Image, face font.Face, y int, label string) {
	AddLabel(img, face, (img.Bounds().Dx()-LabelWidth(face, label))/2, y, label)
}

// AddRightLabel draws label so that it ends at x.
func AddRightLabel(img draw.Image, face font.Face, x, y int, label string) {
	AddLabel(img, face, x-LabelWidth(face, label), y, label)
}

func AddIcon(img draw.Image, position image.Point, icon image.Image) {
	draw.Draw(
		img,
		icon.Bounds().Sub(icon.Bounds().Min).Add(position),
		icon,
		icon.Bounds().Min,
		draw.Src)
}

func AddHorizontalLine(img draw.Image, y int) {
	draw.Draw(img, image.Rect(img.Bounds().Min.X, y, img.Bounds().Max.X, y+1), uniformImage, image.Point{}, draw.Src)
}
