// Package layout computes where an image lands on a page.
package layout

import (
	"errors"
	"math"

	"portfolioapi/internal/model"
)

var (
	ErrInvalidImage = errors.New("invalid image dimensions")
	ErrInvalidPage  = errors.New("invalid page dimensions")
)

const (
	// FillRatio is the share of the constraining page dimension the image occupies.
	FillRatio = 0.9

	TitleMargin = 10.0
	TitleHeight = 12.0
	TitleGap    = 3.0
)

// A4 portrait in millimetres.
var A4 = model.Size{Width: 210, Height: 297}

// Fit scales an image of w×h to the page and centers it horizontally.
// Landscape images take FillRatio of the page width, portrait and square images
// FillRatio of the page height. Without a title the image is also centered vertically;
// with one, a band is reserved at the top and the image starts just below it.
// Very wide images print short and tall titled images may run past the bottom edge.
func Fit(w, h, pageW, pageH float64, reserveTitle bool) (model.PlacementPlan, error) {
	if !positive(w) || !positive(h) {
		return model.PlacementPlan{}, ErrInvalidImage
	}
	if !positive(pageW) || !positive(pageH) {
		return model.PlacementPlan{}, ErrInvalidPage
	}

	ratio := w / h
	var iw, ih float64
	if ratio > 1 {
		iw = FillRatio * pageW
		ih = iw / ratio
	} else {
		ih = FillRatio * pageH
		iw = ih * ratio
	}

	plan := model.PlacementPlan{
		Page:  model.Size{Width: pageW, Height: pageH},
		Image: model.Rect{X: (pageW - iw) / 2, Width: iw, Height: ih},
	}
	if reserveTitle {
		band := model.Rect{X: TitleMargin, Y: TitleMargin, Width: pageW - 2*TitleMargin, Height: TitleHeight}
		plan.Title = &band
		plan.Image.Y = band.Y + band.Height + TitleGap
	} else {
		plan.Image.Y = (pageH - ih) / 2
	}
	return plan, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
