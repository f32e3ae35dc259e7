package config

import (
	_ "embed"
	"time"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	Title      string          `yaml:"title" validate:"max=20"`
	Display    DisplayParam    `yaml:"display"`
	Input      InputParam      `yaml:"input"`
	Render     RenderParam     `yaml:"render"`
	Retry      RetryParam      `yaml:"retry"`
	System     SystemParam     `yaml:"system"`
	Simulation SimulationParam `yaml:"simulation"`
}

type DisplayParam struct {
	Bus string `yaml:"bus"`
	// 7 bit address, 0x3C or 0x3D for most panels
	Address     uint16 `yaml:"address" validate:"gte=3,lte=119"`
	Contrast    uint8  `yaml:"contrast"`
	Rotated     bool   `yaml:"rotated"`
	HaltOnClose bool   `yaml:"halt_on_close"`
	TogglePin   string `yaml:"toggle_pin"`
}

type InputParam struct {
	MaxLineLength  int     `yaml:"max_line_length" validate:"gte=16,lte=1048576"`
	MinTemperature float64 `yaml:"min_temperature"`
	MaxTemperature float64 `yaml:"max_temperature" validate:"gtfield=MinTemperature"`
}

type RenderParam struct {
	StaleAfter    time.Duration `yaml:"stale_after" validate:"gte=1s"`
	RefreshPeriod time.Duration `yaml:"refresh_period" validate:"gte=10ms,lte=1m"`
	ShowClock     bool          `yaml:"show_clock"`
}

type RetryParam struct {
	Count   int           `yaml:"count" validate:"gte=0,lte=10"`
	Backoff time.Duration `yaml:"backoff" validate:"gte=0s,lte=10s"`
}

type SystemParam struct {
	Enabled     bool          `yaml:"enabled"`
	Period      time.Duration `yaml:"period" validate:"gte=1s"`
	ThermalZone string        `yaml:"thermal_zone"`
	Interface   string        `yaml:"interface"`
	Process     string        `yaml:"process"`
}

type SimulationParam struct {
	// PNG snapshot of the simulated panel, relative to the config folder
	Snapshot string `yaml:"snapshot" validate:"required"`
}
