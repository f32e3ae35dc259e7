package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configDir = "/etc/hygrodisplay"

func TestNewServerConfigCreatesDefault(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	sc, err := NewServerConfig(fs, configDir, false, true)
	require.NoError(t, err)

	exists, err := afero.Exists(fs, filepath.Join(configDir, paramFilename))
	require.NoError(t, err)
	assert.True(t, exists, "default param file written")

	assert.Equal(t, "bombuscv", sc.Title)
	assert.EqualValues(t, 0x3C, sc.Display.Address)
	assert.Equal(t, "", sc.Display.Bus)
	assert.Equal(t, 4096, sc.Input.MaxLineLength)
	assert.Equal(t, -40.0, sc.Input.MinTemperature)
	assert.Equal(t, 125.0, sc.Input.MaxTemperature)
	assert.Equal(t, 2*time.Minute, sc.Render.StaleAfter)
	assert.Equal(t, time.Second, sc.Render.RefreshPeriod)
	assert.Equal(t, 3, sc.Retry.Count)
	assert.Equal(t, 10*time.Millisecond, sc.Retry.Backoff)
	assert.Equal(t, 5*time.Second, sc.System.Period)
	assert.True(t, sc.SimulationMode)
	assert.Equal(t, filepath.Join(configDir, "snapshot.png"), sc.GetCompleteSnapshotFilename())
	assert.Same(t, fs, sc.Fs())

	// the written file loads back to the same values
	again, err := NewServerConfig(fs, configDir, false, true)
	require.NoError(t, err)
	assert.Equal(t, sc.ServerParam, again.ServerParam)
}

func TestNewServerConfigReadsPartialFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(configDir, paramFilename), []byte(`
display:
  address: 0x3D
render:
  stale_after: 30s
simulation:
  snapshot: /tmp/panel.png
`), 0660))

	sc, err := NewServerConfig(fs, configDir, true, false)
	require.NoError(t, err)
	assert.EqualValues(t, 0x3D, sc.Display.Address)
	assert.Equal(t, 30*time.Second, sc.Render.StaleAfter)
	assert.Equal(t, 4096, sc.Input.MaxLineLength, "defaults kept")
	assert.Equal(t, "/tmp/panel.png", sc.GetCompleteSnapshotFilename())
	assert.True(t, sc.DebugMode)
}

func TestNewServerConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"bad yaml", "display: [", "unable to interpret"},
		{"bad duration", "render:\n  stale_after: soon\n", "unable to interpret"},
		{"address", "display:\n  address: 0x200\n", "Address"},
		{"line length", "input:\n  max_line_length: 2\n", "MaxLineLength"},
		{"temperature range", "input:\n  min_temperature: 50\n  max_temperature: 10\n", "MaxTemperature"},
		{"staleness", "render:\n  stale_after: 10ms\n", "StaleAfter"},
		{"retries", "retry:\n  count: 50\n", "Count"},
		{"snapshot", "simulation:\n  snapshot: \"\"\n", "Snapshot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, filepath.Join(configDir, paramFilename), []byte(tt.content), 0660))

			_, err := NewServerConfig(fs, configDir, false, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNewServerConfigReadOnly(t *testing.T) {
	t.Parallel()

	_, err := NewServerConfig(afero.NewReadOnlyFs(afero.NewMemMapFs()), configDir, false, false)
	assert.Error(t, err)
}

func TestOverride(t *testing.T) {
	t.Parallel()

	sc, err := NewServerConfig(afero.NewMemMapFs(), configDir, false, false)
	require.NoError(t, err)

	bus := "1"
	address := uint(0x3D)
	stale := 45 * time.Second
	maxLine := 128
	retries := 5
	backoff := 50 * time.Millisecond
	thermal := "/sys/class/thermal/thermal_zone1/temp"
	iface := "eth0"
	require.NoError(t, sc.Override(Overrides{
		ThermalZone:   &thermal,
		Interface:     &iface,
		Bus:           &bus,
		Address:       &address,
		StaleAfter:    &stale,
		MaxLineLength: &maxLine,
		Retries:       &retries,
		Backoff:       &backoff,
	}))

	assert.Equal(t, "1", sc.Display.Bus)
	assert.EqualValues(t, 0x3D, sc.Display.Address)
	assert.Equal(t, stale, sc.Render.StaleAfter)
	assert.Equal(t, 128, sc.Input.MaxLineLength)
	assert.Equal(t, 5, sc.Retry.Count)
	assert.Equal(t, backoff, sc.Retry.Backoff)
	assert.Equal(t, thermal, sc.System.ThermalZone)
	assert.Equal(t, "eth0", sc.System.Interface)

	require.NoError(t, sc.Override(Overrides{}), "nothing to override")

	tooFar := uint(0x1FF)
	assert.Error(t, sc.Override(Overrides{Address: &tooFar}))

	negative := -1
	assert.Error(t, sc.Override(Overrides{Retries: &negative}))
}
