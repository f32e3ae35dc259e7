package measure

import (
	"fmt"
	"math"
	"periph.io/x/conn/v3/physic"
	"time"
)

// Reading is one validated humidity/temperature sample received on the input stream.
// A Reading is never mutated, the next successful parse supersedes it.
type Reading struct {
	Humidity    float64
	Temperature float64
	ObservedAt  time.Time
}

// Env converts the reading to periph physical units.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(math.Round(r.Temperature*float64(physic.Kelvin))),
		Humidity:    physic.RelativeHumidity(math.Round(r.Humidity * float64(physic.PercentRH))),
	}
}

func (r Reading) String() string {
	env := r.Env()
	return fmt.Sprintf("%s %s", env.Humidity, env.Temperature)
}

// Limits bounds the accepted instrument range, both ends inclusive.
type Limits struct {
	MinHumidity    float64
	MaxHumidity    float64
	MinTemperature float64
	MaxTemperature float64
}

var DefaultLimits = Limits{
	MinHumidity:    0,
	MaxHumidity:    100,
	MinTemperature: -40,
	MaxTemperature: 125,
}

func (l Limits) humidityInRange(h float64) bool {
	return h >= l.MinHumidity && h <= l.MaxHumidity
}

func (l Limits) temperatureInRange(t float64) bool {
	return t >= l.MinTemperature && t <= l.MaxTemperature
}
