package sprite

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to two values of a Transform2d simultaneously.
// Create one with TweenPosition, TweenScale, TweenOrigin or TweenRotation
// and call Update(dt) each frame. Values are written through the transform
// setters, so batches pick them up on their next Update.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	set    func(a, b float32)
	count  int
	Done   bool
}

// Update advances the tweens by dt seconds and writes the values to the
// transform.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	var vals [2]float32
	done := true
	for i := 0; i < g.count; i++ {
		v, finished := g.tweens[i].Update(dt)
		vals[i] = v
		if !finished {
			done = false
		}
	}
	g.set(vals[0], vals[1])
	g.Done = done
}

// Reset rewinds the group to its start values.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenPosition animates the position of t to x, y over duration seconds.
func TweenPosition(t *Transform2d, x, y, duration float32, fn ease.TweenFunc) *TweenGroup {
	return &TweenGroup{
		count:  2,
		tweens: [2]*gween.Tween{gween.New(t.X(), x, duration, fn), gween.New(t.Y(), y, duration, fn)},
		set:    t.SetPosition,
	}
}

// TweenScale animates the scale of t to x, y over duration seconds.
func TweenScale(t *Transform2d, x, y, duration float32, fn ease.TweenFunc) *TweenGroup {
	return &TweenGroup{
		count:  2,
		tweens: [2]*gween.Tween{gween.New(t.ScaleX(), x, duration, fn), gween.New(t.ScaleY(), y, duration, fn)},
		set:    t.SetScale,
	}
}

// TweenOrigin animates the origin of t to x, y over duration seconds.
func TweenOrigin(t *Transform2d, x, y, duration float32, fn ease.TweenFunc) *TweenGroup {
	return &TweenGroup{
		count:  2,
		tweens: [2]*gween.Tween{gween.New(t.OriginX(), x, duration, fn), gween.New(t.OriginY(), y, duration, fn)},
		set:    t.SetOrigin,
	}
}

// TweenRotation animates the rotation of t to r radians over duration
// seconds.
func TweenRotation(t *Transform2d, r, duration float32, fn ease.TweenFunc) *TweenGroup {
	return &TweenGroup{
		count:  1,
		tweens: [2]*gween.Tween{gween.New(t.Rotation(), r, duration, fn)},
		set:    func(v, _ float32) { t.SetRotation(v) },
	}
}
