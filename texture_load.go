package tgl

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tgl: load image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tgl: decode %s: %w", path, err)
	}
	return img, nil
}

// LoadTexture decodes the image at path and creates a texture from it.
// Sampling options are taken from opts; its source fields are ignored.
func LoadTexture(ctx *Context, path string, opts TextureOptions) (*Texture, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	opts.Image = img
	opts.Pixels = nil
	return NewTexture(ctx, opts)
}
