package raster

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Info describes a paged document without rendering it.
type Info struct {
	Pages        int
	HasTextLayer bool
}

// minTextChars is the threshold of extractable characters across a
// document below which the text layer is considered absent. Scanner
// artifacts sometimes leave a few stray glyphs on otherwise image-only
// pages.
const minTextChars = 64

// Inspect probes a PDF for its page count and whether it carries an
// extractable text layer. Hosts can use this to skip vision transcription
// for born-digital documents. Much cheaper than rendering: only the text
// objects are parsed.
func Inspect(path string) (*Info, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("inspecting document %s: %w", path, err)
	}
	defer f.Close()

	info := &Info{Pages: reader.NumPage()}

	chars := 0
	for i := 1; i <= info.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		chars += len(strings.TrimSpace(text))
		if chars >= minTextChars {
			info.HasTextLayer = true
			break
		}
	}
	return info, nil
}
