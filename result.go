package docuvision

import (
	"encoding/json"
	"fmt"
)

// JSON renders the result as the canonical host-facing payload.
func (r *ImageResult) JSON() (string, error) { return marshalResult(r) }

// JSON renders the result as the canonical host-facing payload.
func (r *GenerationResult) JSON() (string, error) { return marshalResult(r) }

// JSON renders the result as the canonical host-facing payload. A document
// with zero pages serializes with an empty pages array, never null.
func (r *DocumentResult) JSON() (string, error) { return marshalResult(r) }

// JSON renders the document description as the canonical payload.
func (r *DocumentInfo) JSON() (string, error) { return marshalResult(r) }

func marshalResult(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	return string(out), nil
}
