// Package render formats scan results for output.
package render

import (
	"fmt"

	"ddscan/internal/scan"
)

// Renderer formats scan results into bytes for output.
type Renderer interface {
	Render(results []scan.Result) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "text" (default), "json".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return &textRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are text, json", format)
	}
}
