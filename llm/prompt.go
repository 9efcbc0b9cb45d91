package llm

import "fmt"

// ImageRef identifies the image attached to a prompt: either a remote URL
// or inline base64 data tagged with a MIME type. Exactly one variant is
// set, enforced by the ImageFromURL / ImageFromData constructors; the zero
// value means "no image".
type ImageRef struct {
	remoteURL string
	data      string
	mimeType  string
}

// ImageFromURL references an image hosted at a remote URL.
func ImageFromURL(url string) ImageRef {
	return ImageRef{remoteURL: url}
}

// ImageFromData references an inline image as base64 data plus MIME type,
// e.g. "image/png".
func ImageFromData(data, mimeType string) ImageRef {
	return ImageRef{data: data, mimeType: mimeType}
}

// IsZero reports whether the reference carries no image.
func (r ImageRef) IsZero() bool {
	return r.remoteURL == "" && r.data == ""
}

// Inline reports whether the reference carries inline base64 data rather
// than a remote URL.
func (r ImageRef) Inline() bool {
	return r.data != ""
}

// URL returns the wire form of the reference: the remote URL as-is, or a
// data: URL for inline content.
func (r ImageRef) URL() string {
	if r.data != "" {
		return fmt.Sprintf("data:%s;base64,%s", r.mimeType, r.data)
	}
	return r.remoteURL
}

// String returns a loggable description that never embeds the full base64
// payload.
func (r ImageRef) String() string {
	if r.data != "" {
		return fmt.Sprintf("inline %s image (%d bytes base64)", r.mimeType, len(r.data))
	}
	return r.remoteURL
}

// UserMessage builds a multimodal user message pairing an instruction with
// an image reference.
func UserMessage(instruction string, image ImageRef) Message {
	return Message{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: instruction},
			{Type: "image_url", ImageURL: &ImageURL{URL: image.URL()}},
		},
	}
}

// TextMessage builds a text-only user message.
func TextMessage(text string) Message {
	return Message{
		Role:    "user",
		Content: []ContentPart{{Type: "text", Text: text}},
	}
}
