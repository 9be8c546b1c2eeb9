package sprite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hashAtlas = `{
  "frames": {
    "hero": {
      "frame": {"x": 0, "y": 0, "w": 32, "h": 48},
      "rotated": false,
      "spriteSourceSize": {"x": 2, "y": 1, "w": 32, "h": 48},
      "sourceSize": {"w": 36, "h": 50}
    },
    "coin": {
      "frame": {"x": 32, "y": 0, "w": 16, "h": 16},
      "rotated": true,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 16, "h": 16},
      "sourceSize": {"w": 16, "h": 16}
    }
  },
  "meta": {"image": "sheet.png"}
}`

const arrayAtlas = `{
  "textures": [
    {"image": "page0.png", "frames": {"a": {"frame": {"x": 1, "y": 2, "w": 3, "h": 4}}}},
    {"image": "page1.png", "frames": {"b": {"frame": {"x": 5, "y": 6, "w": 7, "h": 8}}}}
  ]
}`

func TestLoadAtlasHash(t *testing.T) {
	a, err := LoadAtlas([]byte(hashAtlas))
	require.NoError(t, err)
	assert.Equal(t, []string{"sheet.png"}, a.Pages)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []string{"coin", "hero"}, a.Names())

	r, ok := a.Region("hero")
	require.True(t, ok)
	assert.Equal(t, Region{
		Frame:   Frame{W: 32, H: 48},
		SourceW: 36, SourceH: 50,
		OffsetX: 2, OffsetY: 1,
	}, r)

	r, ok = a.Region("coin")
	require.True(t, ok)
	assert.True(t, r.Rotated)

	f, err := a.Frame("coin")
	require.NoError(t, err)
	assert.Equal(t, Frame{X: 32, W: 16, H: 16}, f)

	_, err = a.Frame("missing")
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestLoadAtlasPages(t *testing.T) {
	a, err := LoadAtlas([]byte(arrayAtlas))
	require.NoError(t, err)
	assert.Equal(t, []string{"page0.png", "page1.png"}, a.Pages)

	r, ok := a.Region("b")
	require.True(t, ok)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, Frame{5, 6, 7, 8}, r.Frame)
}

func TestLoadAtlasErrors(t *testing.T) {
	_, err := LoadAtlas([]byte(`{`))
	assert.Error(t, err)
	_, err = LoadAtlas([]byte(`{"meta": {}}`))
	assert.ErrorContains(t, err, "neither")
	_, err = LoadAtlasFile(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}

func TestLoadAtlasFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.json")
	require.NoError(t, os.WriteFile(path, []byte(hashAtlas), 0o644))
	a, err := LoadAtlasFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
}
