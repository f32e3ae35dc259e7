package device

import (
	"bytes"
	"github.com/jypelle/hygrodisplay/internal/srv/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
	"image"
	"image/png"
	"sync"
)

const simulationScale = 4

// SimulationDisplay stands in for the panel when running without hardware:
// every shown frame is written as a PNG snapshot and dumped as text at debug
// level.
type SimulationDisplay struct {
	lock sync.Mutex
	fs   afero.Fs
	path string

	on        bool
	lastFrame *render.Frame
	pushCount int
}

func NewSimulationDisplay(fs afero.Fs, path string) *SimulationDisplay {
	logrus.Infof("Open simulation display, snapshots in %s", path)
	return &SimulationDisplay{fs: fs, path: path, on: true}
}

func (d *SimulationDisplay) Push(frame *render.Frame) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.lastFrame = frame
	d.pushCount++
	if !d.on {
		return nil
	}
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("Frame #%d:\n%s", d.pushCount, frame.ASCII())
	}
	return d.save(frame)
}

func (d *SimulationDisplay) SetOn(on bool) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if on == d.on {
		return nil
	}
	d.on = on
	if !on {
		return d.save(render.NewFrame())
	}
	if d.lastFrame == nil {
		return nil
	}
	return d.save(d.lastFrame)
}

func (d *SimulationDisplay) Close() error {
	logrus.Infof("Close simulation display")
	return nil
}

func (d *SimulationDisplay) PushCount() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.pushCount
}

func (d *SimulationDisplay) save(frame *render.Frame) error {
	bounds := frame.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*simulationScale, bounds.Dy()*simulationScale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), frame, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return &Error{Kind: Nack, Op: "encode snapshot", Err: err}
	}
	if err := afero.WriteFile(d.fs, d.path, buf.Bytes(), 0660); err != nil {
		return &Error{Kind: NotPresent, Op: "write snapshot", Err: err}
	}
	return nil
}
