package model

import "time"

// UploadSession is a single upload-to-composition workflow.
// It owns its staged images exclusively; nothing is shared across sessions.
type UploadSession struct {
	ID        string         `json:"id"`
	Images    []LogicalImage `json:"images"`
	CreatedAt time.Time      `json:"created_at"`
}

// Has reports whether the session owns an image with the given logical name.
func (s *UploadSession) Has(name string) bool {
	for _, img := range s.Images {
		if img.Name == name {
			return true
		}
	}
	return false
}

// LogicalImage is the user-facing name of an upload paired with its staged file.
type LogicalImage struct {
	Name  string        `json:"name"`
	Asset PhysicalAsset `json:"asset"`
}

// PhysicalAsset is a staged object in the flat staging area, keyed "{session_id}_{name}".
type PhysicalAsset struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	ModTime     time.Time `json:"mod_time"`
}

// UploadFile is a raw upload as delivered by the transport layer.
type UploadFile struct {
	Name string
	Data []byte
}

// Selection picks a staged image for composition. An empty Title means no title band.
type Selection struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Size is a width/height pair in page units (millimetres).
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// PlacementPlan describes where an image, and optionally its title, land on a page.
type PlacementPlan struct {
	Page  Size  `json:"page" yaml:"page"`
	Image Rect  `json:"image" yaml:"image"`
	Title *Rect `json:"title,omitempty" yaml:"title,omitempty"`
}

// Suggestion is advisory text produced by the annotation assistant.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RenderedPage records an image that made it into the document.
type RenderedPage struct {
	Name string        `json:"name" yaml:"name"`
	Page int           `json:"page" yaml:"page"`
	Plan PlacementPlan `json:"plan" yaml:"plan"`
}

// SkippedItem records a selection that was left out and why.
type SkippedItem struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// ComposeReport is the per-selection outcome of a composition.
type ComposeReport struct {
	Rendered []RenderedPage `json:"rendered" yaml:"rendered"`
	Skipped  []SkippedItem  `json:"skipped" yaml:"skipped"`
	Purged   bool           `json:"purged" yaml:"purged"`
}

// Document is a composed portfolio ready to be sent to the caller.
type Document struct {
	Filename    string        `json:"filename"`
	ContentType string        `json:"content_type"`
	Bytes       []byte        `json:"-"`
	Pages       int           `json:"pages"`
	Report      ComposeReport `json:"report"`
}
