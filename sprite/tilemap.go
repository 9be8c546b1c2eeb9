package sprite

import (
	"errors"
	"fmt"

	"github.com/mode777/tgl"
)

// Tile id flag bits, as in the Tiled TMX format.
const (
	TileFlipH    uint32 = 1 << 31
	TileFlipV    uint32 = 1 << 30
	TileFlipD    uint32 = 1 << 29
	TileFlagMask        = TileFlipH | TileFlipV | TileFlipD
)

var (
	// ErrDataSize is returned when tile data does not match the map size.
	ErrDataSize = errors.New("tile data does not match map size")
	// ErrTileID is returned for tile ids the tileset does not have.
	ErrTileID = errors.New("unknown tile id")
)

// TileFlags splits a tile id into the plain id and its flip flags.
func TileFlags(gid uint32) (id int, flip FlipFlags) {
	if gid&TileFlipH != 0 {
		flip |= FlipH
	}
	if gid&TileFlipV != 0 {
		flip |= FlipV
	}
	if gid&TileFlipD != 0 {
		flip |= FlipD
	}
	return int(gid &^ TileFlagMask), flip
}

// TilemapOptions describes a tilemap.
type TilemapOptions struct {
	Tileset *Tileset
	Width   int
	Height  int
	// Data holds Width*Height tile ids, row by row. It may be nil.
	Data []uint32
}

// Tilemap draws a grid of tiles with one batch. Each tile has a translation
// only transform placing it on the grid.
type Tilemap struct {
	tileset *Tileset
	width   int
	height  int
	batch   *Batch
	data    []uint32
}

// NewTilemap creates a width x height map. When opts.Data is given it is
// applied and uploaded.
func NewTilemap(c2d *Context2d, opts TilemapOptions) (*Tilemap, error) {
	if opts.Tileset == nil {
		return nil, fmt.Errorf("sprite: new tilemap: %w: no tileset", tgl.ErrInvalidData)
	}
	n := opts.Width * opts.Height
	if opts.Data != nil && len(opts.Data) != n {
		return nil, fmt.Errorf("sprite: new tilemap: %w: got %d ids for %dx%d",
			ErrDataSize, len(opts.Data), opts.Width, opts.Height)
	}
	b, err := NewBatch(c2d, BatchOptions{Size: n, Texture: opts.Tileset.Texture()})
	if err != nil {
		return nil, fmt.Errorf("sprite: new tilemap: %w", err)
	}
	m := &Tilemap{
		tileset: opts.Tileset,
		width:   opts.Width,
		height:  opts.Height,
		batch:   b,
		data:    make([]uint32, n),
	}
	tw, th := float32(opts.Tileset.TileWidth()), float32(opts.Tileset.TileHeight())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			t := NewTransform(TransformOptions{
				X:          float32(x) * tw,
				Y:          float32(y) * th,
				Components: Translation,
			})
			b.Set(y*m.width+x, Frame{}, t)
		}
	}
	if opts.Data != nil {
		if err := m.SetData(opts.Data); err != nil {
			b.Dispose()
			return nil, err
		}
		if err := m.Update(); err != nil {
			b.Dispose()
			return nil, err
		}
	}
	return m, nil
}

func (m *Tilemap) Width() int        { return m.width }
func (m *Tilemap) Height() int       { return m.height }
func (m *Tilemap) Tileset() *Tileset { return m.tileset }

// Batch returns the batch holding the tiles.
func (m *Tilemap) Batch() *Batch { return m.batch }

// Tile returns the id at x, y including its flip flags.
func (m *Tilemap) Tile(x, y int) uint32 { return m.data[y*m.width+x] }

// SetTile sets the tile at x, y. Flip flags in gid flip the tile.
func (m *Tilemap) SetTile(x, y int, gid uint32) error {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return fmt.Errorf("sprite: set tile: %w: %d,%d outside %dx%d", ErrDataSize, x, y, m.width, m.height)
	}
	return m.setTile(y*m.width+x, gid)
}

// SetData replaces every tile. The map is left unchanged when data has the
// wrong length or holds an id the tileset does not know.
func (m *Tilemap) SetData(data []uint32) error {
	if len(data) != len(m.data) {
		return fmt.Errorf("sprite: set tile data: %w: got %d ids for %dx%d",
			ErrDataSize, len(data), m.width, m.height)
	}
	for i, gid := range data {
		id, _ := TileFlags(gid)
		if _, ok := m.tileset.Frame(id); !ok {
			return fmt.Errorf("sprite: set tile data: %w: %d at index %d", ErrTileID, id, i)
		}
	}
	for i, gid := range data {
		if err := m.setTile(i, gid); err != nil {
			return err
		}
	}
	return nil
}

func (m *Tilemap) setTile(i int, gid uint32) error {
	id, flip := TileFlags(gid)
	f, ok := m.tileset.Frame(id)
	if !ok {
		return fmt.Errorf("sprite: set tile: %w: %d", ErrTileID, id)
	}
	p := m.batch.Sprite(i)
	p.SetFrame(f).FlipTo(flip)
	m.data[i] = gid
	return nil
}

// Update uploads changed tiles.
func (m *Tilemap) Update() error { return m.batch.Update() }

// Draw draws every tile with one draw call.
func (m *Tilemap) Draw() error { return m.batch.Draw() }

// Dispose releases the batch buffers.
func (m *Tilemap) Dispose() { m.batch.Dispose() }
