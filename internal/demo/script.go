package demo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mode777/tgl/sprite"
)

// scriptStep is a single action of a frame script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Index  int    `json:"index,omitempty"`
	Flip   string `json:"flip,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// Script runs actions against a scene one frame at a time, for unattended
// visual checks of the demo. Actions are "screenshot" (label), "wait"
// (frames), "flip" (index, flip of h, v and d letters) and "delete" (index).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	shots     []string
}

// LoadScript parses a JSON frame script.
func LoadScript(data []byte) (*Script, error) {
	var sc script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "screenshot", "wait", "delete":
		case "flip":
			if _, err := parseFlip(st.Flip); err != nil {
				return nil, fmt.Errorf("parse script: step %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: sc.Steps}, nil
}

// LoadScriptFile reads a frame script from disk.
func LoadScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return LoadScript(data)
}

// Done reports whether every step has run.
func (r *Script) Done() bool { return r.done }

// Screenshots returns the paths of the screenshots taken so far.
func (r *Script) Screenshots() []string { return r.shots }

// Step runs the next action against s. Call it once per frame after Draw so
// screenshots see the finished frame.
func (r *Script) Step(s *Scene) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		path, err := s.ctx.Screenshot(st.Label)
		if err != nil {
			return err
		}
		r.shots = append(r.shots, path)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "flip":
		p, err := r.sprite(s, st)
		if err != nil {
			return err
		}
		flags, _ := parseFlip(st.Flip)
		p.Flip(flags)
	case "delete":
		if _, err := r.sprite(s, st); err != nil {
			return err
		}
		s.batch.Delete(st.Index)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}

func (r *Script) sprite(s *Scene, st scriptStep) (sprite.Proxy, error) {
	if st.Index < 0 || st.Index >= s.batch.Size() {
		return sprite.Proxy{}, fmt.Errorf("script: %s: sprite %d out of range", st.Action, st.Index)
	}
	return s.batch.Sprite(st.Index), nil
}

func parseFlip(s string) (sprite.FlipFlags, error) {
	var f sprite.FlipFlags
	for _, c := range strings.ToLower(s) {
		switch c {
		case 'h':
			f |= sprite.FlipH
		case 'v':
			f |= sprite.FlipV
		case 'd':
			f |= sprite.FlipD
		default:
			return 0, fmt.Errorf("unknown flip %q", c)
		}
	}
	if f == 0 {
		return 0, fmt.Errorf("empty flip")
	}
	return f, nil
}
