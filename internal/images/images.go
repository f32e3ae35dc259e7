package images

import (
	"github.com/sirupsen/logrus"
	"image"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

var dropletPattern = []string{
	"...#....",
	"...#....",
	"..###...",
	".#####..",
	"###.###.",
	"##.####.",
	".#####..",
	"..###...",
}

var thermometerPattern = []string{
	"..##....",
	".#..#...",
	".#..#...",
	".#..#...",
	".####...",
	"######..",
	"######..",
	".####...",
}

var hourglassPattern = []string{
	"#######.",
	".#...#..",
	"..#.#...",
	"...#....",
	"..#.#...",
	".#.#.#..",
	"#######.",
	"........",
}

var warningPattern = []string{
	"...#....",
	"..#.#...",
	"..###...",
	".##.##..",
	".##.##..",
	"#######.",
	"###.###.",
	"#######.",
}

var linkPattern = []string{
	"........",
	"..#..#..",
	"..#..#..",
	".######.",
	".######.",
	"..####..",
	"...##...",
	"...##...",
}

var unlinkPattern = []string{
	"#.....#.",
	".#...#..",
	"..#.#...",
	"...#....",
	"..#.#...",
	".#...#..",
	"#.....#.",
	"........",
}

var DropletImage image.Image
var ThermometerImage image.Image
var HourglassImage image.Image
var WarningImage image.Image
var LinkImage image.Image
var UnlinkImage image.Image

func init() {
	// Load images
	DropletImage = decodePattern("droplet", dropletPattern)
	ThermometerImage = decodePattern("thermometer", thermometerPattern)
	HourglassImage = decodePattern("hourglass", hourglassPattern)
	WarningImage = decodePattern("warning", warningPattern)
	LinkImage = decodePattern("link", linkPattern)
	UnlinkImage = decodePattern("unlink", unlinkPattern)
}

// decodePattern turns rows of '#' (lit) and '.' (dark) into a 1-bit image.
func decodePattern(name string, rows []string) *image1bit.VerticalLSB {
	if len(rows) == 0 {
		logrus.Panicf("Can't load %s image: empty pattern", name)
	}
	width := len(rows[0])
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, width, len(rows)))
	for y, row := range rows {
		if len(row) != width {
			logrus.Panicf("Can't load %s image: row %d is %d pixels wide, expected %d", name, y, len(row), width)
		}
		for x, c := range row {
			switch c {
			case '#':
				img.SetBit(x, y, image1bit.On)
			case '.':
			default:
				logrus.Panicf("Can't load %s image: unexpected %q at %d,%d", name, c, x, y)
			}
		}
	}
	return img
}
