package srv

import (
	"fmt"
	"github.com/jonboulle/clockwork"
	"github.com/jypelle/hygrodisplay/internal/srv/config"
	"github.com/jypelle/hygrodisplay/internal/srv/device"
	"github.com/jypelle/hygrodisplay/internal/srv/event"
	"github.com/jypelle/hygrodisplay/internal/srv/measure"
	"github.com/jypelle/hygrodisplay/internal/srv/render"
	"github.com/jypelle/hygrodisplay/internal/srv/state"
	"github.com/jypelle/hygrodisplay/internal/srv/sysinfo"
	"github.com/jypelle/hygrodisplay/internal/version"
	"github.com/sirupsen/logrus"
	"io"
	"sync"
	"time"
)

type Phase int64

const (
	STARTING_PHASE Phase = iota
	RUNNING_PHASE
	DRAINING_PHASE
	STOPPED_PHASE
)

func (p Phase) String() string {
	switch p {
	case STARTING_PHASE:
		return "starting"
	case RUNNING_PHASE:
		return "running"
	case DRAINING_PHASE:
		return "draining"
	case STOPPED_PHASE:
		return "stopped"
	default:
		return fmt.Sprintf("Phase(%d)", int64(p))
	}
}

// ScreenOpener opens the screen frames are pushed to.
type ScreenOpener func() (device.Screen, error)

// Switch emits the button events switching the screen on and off.
type Switch interface {
	Start()
	StopSendingEvent()
	EventChannel() chan event.ButtonEvent
}

type ServerApp struct {
	*config.ServerConfig

	clock       clockwork.Clock
	openScreen  ScreenOpener
	retryPolicy device.RetryPolicy
	renderer    *render.Renderer

	// owned by the event loop
	screen       device.Screen
	screenOn     bool
	displayState *state.DisplayState
	lastFrame    *render.Frame

	inputDevice   *device.Input
	clockDevice   *device.Clock
	monitorDevice *device.Monitor
	buttonDevice  Switch

	input   io.Reader
	sampler device.Sampler

	phaseLock sync.RWMutex
	phases    []Phase
}

type Option func(*ServerApp)

func WithClock(clock clockwork.Clock) Option {
	return func(s *ServerApp) {
		s.clock = clock
	}
}

func WithScreenOpener(openScreen ScreenOpener) Option {
	return func(s *ServerApp) {
		s.openScreen = openScreen
	}
}

func WithSampler(sampler device.Sampler) Option {
	return func(s *ServerApp) {
		s.sampler = sampler
	}
}

func WithButton(button Switch) Option {
	return func(s *ServerApp) {
		s.buttonDevice = button
	}
}

// NewServerApp prepares a server reading its measures from input.
func NewServerApp(serverConfig *config.ServerConfig, input io.Reader, options ...Option) *ServerApp {
	logrus.Debugf("Creation of hygrodisplay server %s ...", version.AppVersion.String())

	app := &ServerApp{
		ServerConfig: serverConfig,
		clock:        clockwork.NewRealClock(),
		retryPolicy: device.RetryPolicy{
			Retries: serverConfig.Retry.Count,
			Base:    serverConfig.Retry.Backoff,
		},
		renderer: render.NewRenderer(render.Param{
			Title:              serverConfig.Title,
			StalenessThreshold: serverConfig.Render.StaleAfter,
			ShowClock:          serverConfig.Render.ShowClock,
			ShowSystem:         serverConfig.System.Enabled,
			Location:           time.Local,
		}),
		displayState: state.NewDisplayState(),
		screenOn:     true,
		input:        input,
	}
	app.openScreen = app.openDefaultScreen

	for _, option := range options {
		option(app)
	}

	parser := measure.NewParser(measure.Limits{
		MinHumidity:    measure.DefaultLimits.MinHumidity,
		MaxHumidity:    measure.DefaultLimits.MaxHumidity,
		MinTemperature: serverConfig.Input.MinTemperature,
		MaxTemperature: serverConfig.Input.MaxTemperature,
	})
	app.inputDevice = device.NewInput(input, serverConfig.Input.MaxLineLength, parser, app.clock)
	app.clockDevice = device.NewClock(app.clock, serverConfig.Render.RefreshPeriod)

	if serverConfig.System.Enabled {
		if app.sampler == nil {
			app.sampler = sysinfo.NewSampler(serverConfig.Fs(), sysinfo.Param{
				ThermalZone: serverConfig.System.ThermalZone,
				Interface:   serverConfig.System.Interface,
				Process:     serverConfig.System.Process,
			})
		}
		app.monitorDevice = device.NewMonitor(app.sampler, app.clock, serverConfig.System.Period)
	}

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) openDefaultScreen() (device.Screen, error) {
	if s.SimulationMode {
		return device.NewSimulationDisplay(s.Fs(), s.GetCompleteSnapshotFilename()), nil
	}
	return device.OpenDisplay(device.Param{
		Bus:         s.Display.Bus,
		Address:     s.Display.Address,
		Contrast:    s.Display.Contrast,
		Rotated:     s.Display.Rotated,
		HaltOnClose: s.Display.HaltOnClose,
	})
}

func (s *ServerApp) setPhase(phase Phase) {
	s.phaseLock.Lock()
	defer s.phaseLock.Unlock()
	logrus.Infof("Server %s", phase)
	s.phases = append(s.phases, phase)
}

// Phase returns the current phase.
func (s *ServerApp) Phase() Phase {
	s.phaseLock.RLock()
	defer s.phaseLock.RUnlock()
	if len(s.phases) == 0 {
		return STARTING_PHASE
	}
	return s.phases[len(s.phases)-1]
}

// Phases returns every phase the server went through, in order.
func (s *ServerApp) Phases() []Phase {
	s.phaseLock.RLock()
	defer s.phaseLock.RUnlock()
	return append([]Phase(nil), s.phases...)
}

// DisplayState returns a copy of the display state. Only meaningful once Run returned.
func (s *ServerApp) DisplayState() state.DisplayState {
	return *s.displayState
}
