package sysinfo

import (
	"context"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/net"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const thermalZone = "/sys/class/thermal/thermal_zone0/temp"

func TestReadThermalZone(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, thermalZone, []byte("48312\n"), 0o644))

	temp, err := ReadThermalZone(fs, thermalZone)
	require.NoError(t, err)
	assert.InDelta(t, 48.312, temp, 1e-9)
}

func TestReadThermalZoneErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	_, err := ReadThermalZone(fs, thermalZone)
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, thermalZone, []byte("hot"), 0o644))
	_, err = ReadThermalZone(fs, thermalZone)
	assert.Error(t, err)
}

func TestInterfaceIPv4(t *testing.T) {
	t.Parallel()

	interfaces := net.InterfaceStatList{
		{Name: "lo", Addrs: net.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
		{Name: "wlan0", Addrs: net.InterfaceAddrList{
			{Addr: "fe80::1c2d:3e4f:5a6b:7c8d/64"},
			{Addr: "192.168.1.42/24"},
		}},
		{Name: "eth0"},
	}

	assert.Equal(t, "192.168.1.42", InterfaceIPv4(interfaces, "wlan0"))
	assert.Equal(t, "127.0.0.1", InterfaceIPv4(interfaces, "lo"))
	assert.Equal(t, "", InterfaceIPv4(interfaces, "eth0"))
	assert.Equal(t, "", InterfaceIPv4(interfaces, "usb0"))
}

func TestMatchProcessName(t *testing.T) {
	t.Parallel()

	assert.True(t, MatchProcessName("bombuscv", "bombuscv"))
	assert.True(t, MatchProcessName("/usr/local/bin/bombuscv", "bombuscv"))
	assert.True(t, MatchProcessName("bombuscv.exe", "bombuscv"))
	assert.False(t, MatchProcessName("bombuscv-display", "bombuscv"))
}

func TestSampleUsesThermalZone(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, thermalZone, []byte("51000"), 0o644))
	now := time.Date(2024, 5, 4, 10, 30, 0, 0, time.UTC)

	info := NewSampler(fs, Param{ThermalZone: thermalZone}).Sample(context.Background(), now)
	assert.True(t, info.HasCPUTemp)
	assert.InDelta(t, 51.0, info.CPUTemp, 1e-9)
	assert.Equal(t, now, info.SampledAt)
	assert.Empty(t, info.IPv4)
	assert.False(t, info.ProcessRunning)
}
