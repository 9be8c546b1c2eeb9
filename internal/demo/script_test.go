package demo

import (
	"path/filepath"
	"testing"

	"github.com/mode777/tgl"
	"github.com/mode777/tgl/internal/config"
	"github.com/mode777/tgl/softdevice"
	"github.com/mode777/tgl/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScript(t *testing.T) {
	r, err := LoadScript([]byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "flip", "index": 1, "flip": "hv"},
			{"action": "wait", "frames": 3},
			{"action": "delete", "index": 0}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, r.steps, 4)
	assert.Equal(t, "initial", r.steps[0].Label)
	assert.Equal(t, 3, r.steps[2].Frames)
	assert.False(t, r.Done())
}

func TestLoadScriptInvalid(t *testing.T) {
	for name, src := range map[string]string{
		"not json":  `not json`,
		"empty":     `{"steps": []}`,
		"action":    `{"steps": [{"action": "click"}]}`,
		"flip":      `{"steps": [{"action": "flip", "flip": "x"}]}`,
		"flip none": `{"steps": [{"action": "flip"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadScript([]byte(src))
			assert.Error(t, err)
		})
	}
	_, err := LoadScriptFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestScriptRunsAgainstScene(t *testing.T) {
	dev := softdevice.New(64, 48)
	sprite.RegisterSoft(dev)
	ctx := tgl.NewContext(dev, tgl.WithScreenshotDir(t.TempDir()))
	s, err := New(ctx, config.Sprites{BatchSize: 4})
	require.NoError(t, err)
	defer s.Delete()

	r, err := LoadScript([]byte(`{"steps": [
		{"action": "flip", "index": 0, "flip": "v"},
		{"action": "wait", "frames": 2},
		{"action": "delete", "index": 3},
		{"action": "screenshot", "label": "end"}
	]}`))
	require.NoError(t, err)

	frames := 0
	for !r.Done() {
		require.NoError(t, s.Update(1.0/60))
		require.NoError(t, s.Draw())
		require.NoError(t, r.Step(s))
		frames++
		require.Less(t, frames, 10, "script never finished")
	}
	// flip, two wait frames, delete, screenshot
	assert.Equal(t, 5, frames)
	assert.Equal(t, sprite.FlipV, s.Batch().Sprite(0).Flipped())
	assert.False(t, s.Batch().Sprite(3).Valid())
	require.Len(t, r.Screenshots(), 1)
	assert.FileExists(t, r.Screenshots()[0])

	// A finished script is a no-op.
	assert.NoError(t, r.Step(s))
}

func TestScriptIndexOutOfRange(t *testing.T) {
	_, _, s := newTestScene(t, config.Sprites{BatchSize: 2})
	r, err := LoadScript([]byte(`{"steps": [{"action": "delete", "index": 5}]}`))
	require.NoError(t, err)
	assert.Error(t, r.Step(s))
}
