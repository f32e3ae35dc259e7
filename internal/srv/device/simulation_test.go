package device

import (
	"image/png"
	"testing"

	"github.com/jypelle/hygrodisplay/internal/srv/render"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotPath = "/tmp/hygrodisplay.png"

func readSnapshot(t *testing.T, fs afero.Fs) (width, height int, litAt20 bool) {
	t.Helper()

	f, err := fs.Open(snapshotPath)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	r, _, _, _ := img.At(5*simulationScale, 20*simulationScale).RGBA()
	return img.Bounds().Dx(), img.Bounds().Dy(), r > 0
}

func TestSimulationDisplayWritesSnapshot(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	d := NewSimulationDisplay(fs, snapshotPath)

	require.NoError(t, d.Push(litFrame()))
	assert.Equal(t, 1, d.PushCount())

	width, height, lit := readSnapshot(t, fs)
	assert.Equal(t, render.Width*simulationScale, width)
	assert.Equal(t, render.Height*simulationScale, height)
	assert.True(t, lit)
}

func TestSimulationDisplayOnOff(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	d := NewSimulationDisplay(fs, snapshotPath)
	require.NoError(t, d.Push(litFrame()))

	require.NoError(t, d.SetOn(false))
	_, _, lit := readSnapshot(t, fs)
	assert.False(t, lit, "blank while off")

	require.NoError(t, d.Push(litFrame()))
	_, _, lit = readSnapshot(t, fs)
	assert.False(t, lit)

	require.NoError(t, d.SetOn(true))
	_, _, lit = readSnapshot(t, fs)
	assert.True(t, lit, "latest frame restored")

	assert.Equal(t, 2, d.PushCount())
	assert.NoError(t, d.Close())
}

func TestSimulationDisplayWriteFailure(t *testing.T) {
	t.Parallel()

	d := NewSimulationDisplay(afero.NewReadOnlyFs(afero.NewMemMapFs()), snapshotPath)
	err := d.Push(litFrame())

	var deviceErr *Error
	require.ErrorAs(t, err, &deviceErr)
	assert.Equal(t, NotPresent, deviceErr.Kind)
}
