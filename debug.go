package tgl

import "fmt"

// Stats holds draw-call and state-write counters of a Context.
type Stats struct {
	// DrawCalls counts DrawArrays and DrawElements calls issued by Drawables.
	DrawCalls int
	// StateWrites counts slot writes that reached the device.
	StateWrites int
	// SuppressedWrites counts slot writes dropped because the value was cached.
	SuppressedWrites int
}

// String formats the counters on one line.
func (s Stats) String() string {
	return fmt.Sprintf("draw calls: %d | state writes: %d | suppressed: %d",
		s.DrawCalls, s.StateWrites, s.SuppressedWrites)
}

// LogStats writes the current counters at debug level.
func (c *Context) LogStats() {
	s := c.Stats()
	c.log.Debug("tgl: stats",
		"drawCalls", s.DrawCalls,
		"stateWrites", s.StateWrites,
		"suppressedWrites", s.SuppressedWrites)
}

func (c *Context) countDraw() { c.drawCalls++ }
