package pdf

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// normalizePNG re-encodes PNGs gofpdf cannot embed (16-bit samples or Adam7 interlacing)
// as 8-bit non-interlaced NRGBA. Other PNGs are returned untouched.
func normalizePNG(data []byte) ([]byte, error) {
	if !needsNormalize(data) {
		return data, nil
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// needsNormalize reads bit depth and interlace method from the IHDR chunk,
// which always directly follows the signature.
func needsNormalize(data []byte) bool {
	if len(data) < 29 || !bytes.HasPrefix(data, pngSignature) || string(data[12:16]) != "IHDR" {
		return false
	}
	bitDepth, interlace := data[24], data[28]
	return bitDepth > 8 || interlace != 0
}
