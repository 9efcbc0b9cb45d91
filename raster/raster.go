// Package raster renders paged documents into raster images and encodes
// them for embedding in model request payloads.
package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// Document is an opened paged document ready for rasterization. Rendering
// is not safe for concurrent calls on one Document; callers serialize
// access or open one Document per goroutine.
type Document struct {
	doc    *fitz.Document
	dpi    float64
	closed bool
}

// Open parses the file at path as a paged document. The returned Document
// must be closed by the caller on every exit path.
func Open(path string, dpi float64) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	return &Document{doc: doc, dpi: dpi}, nil
}

// PageCount returns the total number of pages.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.doc.NumPage()
}

// RenderPage rasterizes the page at the given 0-based index at the
// document's DPI. The returned image is not retained by the Document.
func (d *Document) RenderPage(index int) (image.Image, error) {
	if d.closed {
		return nil, fmt.Errorf("document is closed")
	}
	img, err := d.doc.ImageDPI(index, d.dpi)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", index+1, err)
	}
	return img, nil
}

// Close releases the underlying document handle. Safe to call more than
// once; only the first call releases.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}

// EncodePNG serializes an in-memory raster image as PNG and returns its
// base64 text encoding. The input image is not retained.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding image as PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
