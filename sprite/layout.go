package sprite

import (
	"bytes"
	"fmt"
	"os"

	"github.com/mode777/tgl"
	"gopkg.in/yaml.v3"
)

// Layout is a batch layout read from YAML:
//
//	size: 4
//	sprites:
//	  - index: 0
//	    frame: [0, 0, 32, 32]
//	    transform: {x: 50, y: 50, rotation: 1}
//	  - index: 1
//	    name: hero        # frame looked up in an atlas
//	    flip: [h]
type Layout struct {
	Size    int         `yaml:"size"`
	Sprites []SpriteDef `yaml:"sprites"`
}

// LoadLayout parses a YAML layout. Unknown keys are errors.
func LoadLayout(data []byte) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("sprite: parse layout: %w", err)
	}
	if l.Size <= 0 {
		l.Size = len(l.Sprites)
	}
	for _, s := range l.Sprites {
		if s.Index < 0 || s.Index >= l.Size {
			return nil, fmt.Errorf("sprite: parse layout: %w: sprite index %d outside size %d",
				tgl.ErrInvalidData, s.Index, l.Size)
		}
	}
	return &l, nil
}

// LoadLayoutFile reads and parses a YAML layout file.
func LoadLayoutFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sprite: load layout: %w", err)
	}
	return LoadLayout(data)
}

// Resolve fills in the frames of sprites given by name from a. It may be
// called with a nil atlas when no sprite is named.
func (l *Layout) Resolve(a *Atlas) error {
	for i := range l.Sprites {
		s := &l.Sprites[i]
		if s.Name == "" {
			continue
		}
		if a == nil {
			return fmt.Errorf("sprite: resolve layout: %w: %q without an atlas", ErrUnknownFrame, s.Name)
		}
		f, err := a.Frame(s.Name)
		if err != nil {
			return err
		}
		s.Frame = f
	}
	return nil
}

// BatchOptions returns options for a batch of the layout drawing from tex.
func (l *Layout) BatchOptions(tex *tgl.Texture) BatchOptions {
	return BatchOptions{Size: l.Size, Texture: tex, Sprites: l.Sprites}
}
