package docuvision

import "errors"

var (
	// ErrFileHandling is returned when a document path cannot be read or
	// parsed as a valid paged document.
	ErrFileHandling = errors.New("docuvision: document file handling failed")

	// ErrImageProcessing is returned when re-encoding an in-memory image fails.
	ErrImageProcessing = errors.New("docuvision: image processing failed")

	// ErrImageAnalysis is returned when a chat-model call fails, for either
	// a single image or any page of a scanned document.
	ErrImageAnalysis = errors.New("docuvision: image analysis failed")

	// ErrImageGeneration is returned when a text-to-image call fails.
	ErrImageGeneration = errors.New("docuvision: image generation failed")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("docuvision: invalid configuration")
)
