package sprite

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrUnknownFrame is returned when an atlas has no frame of a given name.
var ErrUnknownFrame = errors.New("unknown atlas frame")

// Region is a named frame of a TexturePacker atlas.
type Region struct {
	Frame Frame
	// Page is the index of the atlas page image the frame is on.
	Page int
	// Rotated is set when the packer stored the frame rotated 90 degrees
	// clockwise.
	Rotated bool
	// SourceW and SourceH are the untrimmed sprite size.
	SourceW, SourceH int
	// OffsetX and OffsetY locate the trimmed frame inside the source size.
	OffsetX, OffsetY int
}

// Atlas holds the named regions of a TexturePacker JSON export.
type Atlas struct {
	// Pages lists the page image file names in page order.
	Pages   []string
	regions map[string]Region
}

// LoadAtlas parses TexturePacker JSON. Both the hash format (a single
// "frames" object) and the multi-page array format ("textures") are read.
func LoadAtlas(data []byte) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("sprite: parse atlas: %w", err)
	}

	a := &Atlas{regions: make(map[string]Region)}
	switch {
	case probe.Textures != nil:
		var pages []struct {
			Image  string               `json:"image"`
			Frames map[string]jsonFrame `json:"frames"`
		}
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, fmt.Errorf("sprite: parse atlas textures: %w", err)
		}
		for i, p := range pages {
			a.Pages = append(a.Pages, p.Image)
			for name, f := range p.Frames {
				a.regions[name] = f.region(i)
			}
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("sprite: parse atlas frames: %w", err)
		}
		a.Pages = []string{probe.Meta.Image}
		for name, f := range frames {
			a.regions[name] = f.region(0)
		}
	default:
		return nil, errors.New("sprite: parse atlas: neither \"frames\" nor \"textures\" present")
	}
	return a, nil
}

// LoadAtlasFile reads and parses a TexturePacker JSON file.
func LoadAtlasFile(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sprite: load atlas: %w", err)
	}
	return LoadAtlas(data)
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceSize"`
}

func (f jsonFrame) region(page int) Region {
	return Region{
		Frame:   Frame{X: f.Frame.X, Y: f.Frame.Y, W: f.Frame.W, H: f.Frame.H},
		Page:    page,
		Rotated: f.Rotated,
		SourceW: f.SourceSize.W,
		SourceH: f.SourceSize.H,
		OffsetX: f.SpriteSourceSize.X,
		OffsetY: f.SpriteSourceSize.Y,
	}
}

// Region returns the named region.
func (a *Atlas) Region(name string) (Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Frame returns the frame of the named region.
func (a *Atlas) Frame(name string) (Frame, error) {
	r, ok := a.regions[name]
	if !ok {
		return Frame{}, fmt.Errorf("sprite: %w: %q", ErrUnknownFrame, name)
	}
	return r.Frame, nil
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for n := range a.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }
