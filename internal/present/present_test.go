package present

import (
	"errors"
	"testing"

	"github.com/mode777/tgl/softdevice"
	"github.com/stretchr/testify/assert"
)

func TestPremultiply(t *testing.T) {
	pix := []byte{
		200, 100, 50, 255,
		255, 128, 0, 128,
		90, 90, 90, 0,
	}
	premultiply(pix)
	assert.Equal(t, []byte{
		200, 100, 50, 255,
		128, 64, 0, 128,
		0, 0, 0, 0,
	}, pix)
}

func TestGameLayoutFollowsSource(t *testing.T) {
	dev := softdevice.New(32, 16)
	g := New(dev, nil)

	w, h := g.Layout(640, 480)
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)

	dev.Resize(8, 8)
	w, h = g.Layout(640, 480)
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
}

func TestGameUpdateRunsStep(t *testing.T) {
	var got []float32
	stop := errors.New("stop")
	g := New(softdevice.New(4, 4), func(dt float32) error {
		got = append(got, dt)
		if len(got) == 2 {
			return stop
		}
		return nil
	})

	assert.NoError(t, g.Update())
	assert.ErrorIs(t, g.Update(), stop)
	assert.InDelta(t, 1.0/60, got[0], 1e-6)
	assert.NoError(t, New(softdevice.New(1, 1), nil).Update())
}

func TestGameStatsText(t *testing.T) {
	g := New(softdevice.New(4, 4), nil)
	g.ShowStats(nil)
	assert.Contains(t, g.statsText(), "FPS: ")
	assert.NotContains(t, g.statsText(), "drawCalls")

	g.ShowStats(func() string { return "drawCalls=3" })
	assert.Contains(t, g.statsText(), "\ndrawCalls=3")
}
