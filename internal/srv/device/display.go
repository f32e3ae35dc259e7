package device

import (
	"github.com/jypelle/hygrodisplay/internal/srv/render"
	"github.com/sirupsen/logrus"
	"image"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
	"sync"
)

const DefaultAddress = 0x3C

type Param struct {
	// Bus name as known by periph, "" selects the first available bus
	Bus      string
	Address  uint16
	Contrast byte
	Rotated  bool
	// HaltOnClose switches the panel off when the display is closed
	HaltOnClose bool
}

// Display drives a SSD1306 panel over I²C.
type Display struct {
	lock        sync.Mutex
	oledDisplay *ssd1306.Dev
	i2cBus      i2c.Bus
	closer      i2c.BusCloser

	param     Param
	on        bool
	lastFrame *render.Frame
}

// OpenDisplay initializes the host drivers, opens the bus named in param and
// wakes the panel up.
func OpenDisplay(param Param) (*Display, error) {
	logrus.Infof("Open display device on bus %q at %#x", param.Bus, param.Address)

	if _, err := host.Init(); err != nil {
		return nil, &Error{Kind: NotPresent, Op: "init host", Err: err}
	}

	bus, err := i2creg.Open(param.Bus)
	if err != nil {
		return nil, &Error{Kind: NotPresent, Op: "open bus", Err: err}
	}

	d, err := NewDisplay(bus, param)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.closer = bus
	return d, nil
}

// NewDisplay wakes up the panel found at param.Address on an already opened bus.
func NewDisplay(bus i2c.Bus, param Param) (*Display, error) {
	if param.Address == 0 {
		param.Address = DefaultAddress
	}

	opts := ssd1306.DefaultOpts
	opts.W = render.Width
	opts.H = render.Height
	opts.Rotated = param.Rotated

	oledDisplay, err := ssd1306.NewI2C(&addressedBus{Bus: bus, addr: param.Address}, &opts)
	if err != nil {
		return nil, Classify("init", err)
	}
	if err := oledDisplay.SetContrast(param.Contrast); err != nil {
		return nil, Classify("set contrast", err)
	}

	return &Display{
		oledDisplay: oledDisplay,
		i2cBus:      bus,
		param:       param,
		on:          true,
	}, nil
}

// Push sends frame to the panel. While the panel is off the frame is only
// kept to be shown once it is switched back on.
func (d *Display) Push(frame *render.Frame) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.lastFrame = frame
	if !d.on {
		return nil
	}
	return d.draw()
}

func (d *Display) draw() error {
	if d.lastFrame == nil {
		return nil
	}
	img := d.lastFrame.VerticalLSB
	return Classify("push", d.oledDisplay.Draw(d.oledDisplay.Bounds(), img, image.Point{}))
}

func (d *Display) SetOn(on bool) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if on == d.on {
		return nil
	}
	if !on {
		if err := d.oledDisplay.Halt(); err != nil {
			return Classify("halt", err)
		}
		d.on = false
		return nil
	}

	// Hack to force display on (calling Draw() is not enough)
	if err := d.oledDisplay.SetContrast(d.param.Contrast); err != nil {
		return Classify("set contrast", err)
	}
	d.on = true
	return d.draw()
}

func (d *Display) IsOn() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.on
}

func (d *Display) Close() error {
	logrus.Infof("Close display device")

	d.lock.Lock()
	defer d.lock.Unlock()

	var err error
	if d.param.HaltOnClose && d.on {
		err = Classify("halt", d.oledDisplay.Halt())
		d.on = false
	}
	if d.closer != nil {
		if closeErr := d.closer.Close(); closeErr != nil && err == nil {
			err = Classify("close bus", closeErr)
		}
		d.closer = nil
	}
	return err
}

// addressedBus sends every transaction to addr. The ssd1306 driver always
// talks to 0x3C, panels strapped to 0x3D need the rewrite.
type addressedBus struct {
	i2c.Bus
	addr uint16
}

func (b *addressedBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}
