// Package pdf renders portfolio pages on an A4 millimetre canvas.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"portfolioapi/internal/model"
)

// TextStyle selects the font used by PlaceText.
type TextStyle struct {
	Family string
	Style  string
	Size   float64
	R, G, B int
}

// TitleStyle is the banner font: bold 16pt, near-black.
var TitleStyle = TextStyle{Family: "Arial", Style: "B", Size: 16, R: 30, G: 30, B: 30}

// Writer builds a multi-page document one page at a time.
type Writer interface {
	// RegisterImage loads an image under name. Format is "png" or "jpeg".
	RegisterImage(name, format string, r io.Reader) error
	NewPage() error
	PlaceImage(name string, rect model.Rect) error
	PlaceText(rect model.Rect, text string, style TextStyle) error
	Serialize() ([]byte, error)
}

// GoFPDF implements Writer on top of gofpdf.
type GoFPDF struct {
	f  *gofpdf.Fpdf
	tr func(string) string
}

// NewWriter returns an empty A4 portrait document.
func NewWriter() Writer {
	f := gofpdf.New("P", "mm", "A4", "")
	f.SetAutoPageBreak(false, 0)
	return &GoFPDF{f: f, tr: f.UnicodeTranslatorFromDescriptor("")}
}

func (w *GoFPDF) RegisterImage(name, format string, r io.Reader) error {
	var typ string
	switch strings.ToLower(format) {
	case "png":
		typ = "PNG"
	case "jpeg", "jpg":
		typ = "JPG"
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	if typ == "PNG" {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("register image: %w", err)
		}
		if data, err = normalizePNG(data); err != nil {
			return fmt.Errorf("register image: %w", err)
		}
		r = bytes.NewReader(data)
	}
	w.f.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: typ}, r)
	return w.takeErr("register image")
}

func (w *GoFPDF) NewPage() error {
	w.f.AddPage()
	return w.takeErr("add page")
}

func (w *GoFPDF) PlaceImage(name string, rect model.Rect) error {
	w.f.ImageOptions(name, rect.X, rect.Y, rect.Width, rect.Height, false, gofpdf.ImageOptions{}, 0, "")
	return w.takeErr("place image")
}

func (w *GoFPDF) PlaceText(rect model.Rect, text string, style TextStyle) error {
	w.f.SetFont(style.Family, style.Style, style.Size)
	w.f.SetTextColor(style.R, style.G, style.B)
	w.f.SetXY(rect.X, rect.Y)
	if n := w.unmappable(text); n > 0 {
		log.Warn().Str("text", text).Int("replaced_runes", n).Msg("text has characters outside the core font, printed as dots")
	}
	w.f.CellFormat(rect.Width, rect.Height, w.tr(text), "", 0, "CM", false, 0, "")
	return w.takeErr("place text")
}

// Serialize closes the document. A document without pages gets a single blank one.
func (w *GoFPDF) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// unmappable counts runes the cp1252 translator cannot represent; gofpdf prints them as '.'.
func (w *GoFPDF) unmappable(text string) int {
	n := 0
	for _, r := range text {
		if r != '.' && w.tr(string(r)) == "." {
			n++
		}
	}
	return n
}

// gofpdf latches the first error and ignores later calls, so it is cleared after being reported.
func (w *GoFPDF) takeErr(op string) error {
	if !w.f.Err() {
		return nil
	}
	err := w.f.Error()
	w.f.ClearError()
	return fmt.Errorf("%s: %w", op, err)
}
