package sprite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tanema/gween/ease"
)

func TestTweenPosition(t *testing.T) {
	tr := NewTransform(TransformOptions{X: 0, Y: 10})
	g := TweenPosition(tr, 100, 30, 1, ease.Linear)

	g.Update(0.5)
	assert.InDelta(t, 50, tr.X(), 0.01)
	assert.InDelta(t, 20, tr.Y(), 0.01)
	assert.False(t, g.Done)

	g.Update(0.6)
	assert.InDelta(t, 100, tr.X(), 0.01)
	assert.InDelta(t, 30, tr.Y(), 0.01)
	assert.True(t, g.Done)

	// A finished group no longer writes.
	tr.SetX(5)
	g.Update(1)
	assert.Equal(t, float32(5), tr.X())
}

func TestTweenMarksTransformChanged(t *testing.T) {
	tr := Identity()
	gen := tr.Generation()
	TweenScale(tr, 2, 3, 1, ease.Linear).Update(1)
	assert.Greater(t, tr.Generation(), gen)
	assert.InDelta(t, 2, tr.ScaleX(), 0.01)
	assert.InDelta(t, 3, tr.ScaleY(), 0.01)
}

func TestTweenOriginAndRotation(t *testing.T) {
	tr := Identity()
	o := TweenOrigin(tr, 8, 16, 2, ease.Linear)
	r := TweenRotation(tr, 2, 2, ease.Linear)
	o.Update(1)
	r.Update(1)
	assert.InDelta(t, 4, tr.OriginX(), 0.01)
	assert.InDelta(t, 8, tr.OriginY(), 0.01)
	assert.InDelta(t, 1, tr.Rotation(), 0.01)

	r.Reset()
	assert.False(t, r.Done)
	r.Update(2)
	assert.InDelta(t, 2, tr.Rotation(), 0.01)
	assert.True(t, r.Done)
}
