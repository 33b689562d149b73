package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount parses a serialized document and returns its number of pages.
func PageCount(b []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(b), nil)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}
