// Package imaging reads image headers without decoding pixel data.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

var ErrInvalidImage = errors.New("invalid image")

// Info is what the composer needs to know about an image.
type Info struct {
	Width  int
	Height int
	Format string // "png" or "jpeg"
}

// Decoder reads image dimensions and format from a stream.
type Decoder interface {
	Decode(r io.Reader) (Info, error)
}

type configDecoder struct{}

// NewDecoder returns a Decoder for PNG and JPEG images.
func NewDecoder() Decoder { return configDecoder{} }

func (configDecoder) Decode(r io.Reader) (Info, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: empty %s image", ErrInvalidImage, format)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
