package sprite

import (
	"fmt"

	"github.com/mode777/tgl"
)

// TilesetOptions describes a tileset cut from a texture.
type TilesetOptions struct {
	Texture    *tgl.Texture
	TileWidth  int
	TileHeight int
}

// Tileset cuts a texture into equally sized tiles. Tile ids start at 1, left
// to right then top to bottom; id 0 is the empty tile.
type Tileset struct {
	texture    *tgl.Texture
	tileWidth  int
	tileHeight int
	columns    int
	rows       int
	frames     []Frame
}

// NewTileset returns the tileset of opts. Partial tiles at the right and
// bottom edges of the texture are ignored.
func NewTileset(opts TilesetOptions) (*Tileset, error) {
	if opts.Texture == nil {
		return nil, fmt.Errorf("sprite: new tileset: %w: no texture", tgl.ErrInvalidData)
	}
	if opts.TileWidth <= 0 || opts.TileHeight <= 0 {
		return nil, fmt.Errorf("sprite: new tileset: %w: tile size %dx%d",
			tgl.ErrInvalidData, opts.TileWidth, opts.TileHeight)
	}
	ts := &Tileset{
		texture:    opts.Texture,
		tileWidth:  opts.TileWidth,
		tileHeight: opts.TileHeight,
		columns:    opts.Texture.Width() / opts.TileWidth,
		rows:       opts.Texture.Height() / opts.TileHeight,
	}
	ts.frames = make([]Frame, ts.columns*ts.rows)
	for y := 0; y < ts.rows; y++ {
		for x := 0; x < ts.columns; x++ {
			ts.frames[y*ts.columns+x] = Frame{
				X: x * ts.tileWidth,
				Y: y * ts.tileHeight,
				W: ts.tileWidth,
				H: ts.tileHeight,
			}
		}
	}
	return ts, nil
}

func (ts *Tileset) Texture() *tgl.Texture { return ts.texture }
func (ts *Tileset) TileWidth() int        { return ts.tileWidth }
func (ts *Tileset) TileHeight() int       { return ts.tileHeight }

// Columns returns the number of tiles per row.
func (ts *Tileset) Columns() int { return ts.columns }

// Rows returns the number of tile rows.
func (ts *Tileset) Rows() int { return ts.rows }

// Len returns the number of tiles, not counting the empty tile.
func (ts *Tileset) Len() int { return len(ts.frames) }

// Frame returns the frame of tile id. Id 0 is the empty frame; ok is false
// for ids past the last tile.
func (ts *Tileset) Frame(id int) (f Frame, ok bool) {
	if id == 0 {
		return Frame{}, true
	}
	if id < 0 || id > len(ts.frames) {
		return Frame{}, false
	}
	return ts.frames[id-1], true
}
