// Package render maps the display state to panel frames. Rendering is a pure
// function of the state and the current time: the same inputs always produce
// the same pixels.
package render

import (
	"fmt"
	"github.com/jypelle/hygrodisplay/internal/images"
	"github.com/jypelle/hygrodisplay/internal/srv/state"
	"image"
	"time"
)

// layout, in pixels (baselines for text)
const (
	headerBaseline  = 10
	separatorY      = 12
	humidityTop     = 16
	humidityBase    = 25
	temperatureTop  = 29
	temperatureBase = 38
	valueX          = 12
	staleX          = Width - 9
	system1Base     = 51
	system2Base     = 63
	iconSize        = 8
)

type Param struct {
	Title              string
	StalenessThreshold time.Duration
	ShowClock          bool
	ShowSystem         bool
	Location           *time.Location
}

type Renderer struct {
	param Param
}

func NewRenderer(param Param) *Renderer {
	if param.Location == nil {
		param.Location = time.Local
	}
	return &Renderer{param: param}
}

func (r *Renderer) StalenessThreshold() time.Duration {
	return r.param.StalenessThreshold
}

// Render draws st as seen at now.
func (r *Renderer) Render(st state.DisplayState, now time.Time) *Frame {
	frame := NewFrame()

	r.renderHeader(frame, st, now)

	if st.LastReading == nil {
		r.renderPlaceholder(frame, st)
		return frame
	}

	r.renderReading(frame, st, now)
	if r.param.ShowSystem {
		r.renderSystem(frame, st)
	}
	return frame
}

func (r *Renderer) renderHeader(frame *Frame, st state.DisplayState, now time.Time) {
	if st.StreamConnected {
		AddIcon(frame, image.Pt(0, 1), images.LinkImage)
	} else {
		AddIcon(frame, image.Pt(0, 1), images.UnlinkImage)
	}
	AddLabel(frame, LabelFace, iconSize+2, headerBaseline, r.param.Title)

	right := ""
	if st.Ended() {
		right = "closed"
	} else if r.param.ShowClock {
		right = now.In(r.param.Location).Format("15:04")
	}
	rightX := Width
	if right != "" {
		AddRightLabel(frame, LabelFace, Width, headerBaseline, right)
		rightX -= LabelWidth(LabelFace, right) + 2
	}

	// unobtrusive hint that the last line was rejected while older values are shown
	if st.LastError != nil && st.LastReading != nil {
		AddIcon(frame, image.Pt(rightX-iconSize, 1), images.WarningImage)
	}

	AddHorizontalLine(frame, separatorY)
}

func (r *Renderer) renderPlaceholder(frame *Frame, st state.DisplayState) {
	switch {
	case st.LastError != nil:
		AddCenteredLabel(frame, LabelFace, 30, "Bad input:")
		AddCenteredLabel(frame, LabelFace, 44, st.LastError.Kind.String())
	case st.Ended():
		AddCenteredLabel(frame, LabelFace, 30, "Stream closed")
		AddCenteredLabel(frame, LabelFace, 44, "no data received")
	default:
		AddCenteredLabel(frame, LabelFace, 36, "Waiting for data")
	}
}

func (r *Renderer) renderReading(frame *Frame, st state.DisplayState, now time.Time) {
	reading := st.LastReading

	AddIcon(frame, image.Pt(0, humidityTop), images.DropletImage)
	AddLabel(frame, ValueFace, valueX, humidityBase, fmt.Sprintf("%5.1f%%", reading.Humidity))

	AddIcon(frame, image.Pt(0, temperatureTop), images.ThermometerImage)
	AddLabel(frame, ValueFace, valueX, temperatureBase, fmt.Sprintf("%5.1fC", reading.Temperature))

	if st.Stale(now, r.param.StalenessThreshold) {
		AddIcon(frame, image.Pt(staleX, humidityTop), images.HourglassImage)
		AddRightLabel(frame, LabelFace, staleX-2, humidityBase, "STALE")
		AddRightLabel(frame, LabelFace, Width, temperatureBase, FormatAge(now.Sub(st.LastUpdate)))
	}
}

func (r *Renderer) renderSystem(frame *Frame, st state.DisplayState) {
	info := st.System
	if info == nil {
		return
	}

	line := fmt.Sprintf("CPU %.0f%%", info.CPUPercent)
	if info.HasCPUTemp {
		line += fmt.Sprintf(" %.1fC", info.CPUTemp)
	}
	AddLabel(frame, LabelFace, 0, system1Base, line)
	AddRightLabel(frame, LabelFace, Width, system1Base, fmt.Sprintf("M%.0f%%", info.MemPercent))

	ip := info.IPv4
	if ip == "" {
		ip = "no ip"
	}
	AddLabel(frame, LabelFace, 0, system2Base, ip)
	if info.ProcessRunning {
		AddRightLabel(frame, LabelFace, Width, system2Base, "CV on")
	} else {
		AddRightLabel(frame, LabelFace, Width, system2Base, "CV --")
	}
}

// FormatAge prints a duration with a single, coarse unit: 45s, 12m, 3h, 2d.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
}
