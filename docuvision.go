// Package docuvision bridges a workflow host to multimodal LLM providers
// for image understanding, image generation, and scanned-document
// transcription.
package docuvision

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/brunobiangulo/docuvision/llm"
	"github.com/brunobiangulo/docuvision/raster"
)

// Connector is the host-facing operation set.
type Connector interface {
	// ReadImage analyzes a single image (remote URL or inline data) with
	// the given instruction.
	ReadImage(ctx context.Context, instruction string, image llm.ImageRef) (*ImageResult, error)

	// GenerateImage produces an image from a text prompt and returns its
	// hosted URL.
	GenerateImage(ctx context.Context, prompt string) (*GenerationResult, error)

	// ReadScannedDocument rasterizes every page of the document at
	// filePath and analyzes each page with the instruction, strictly in
	// page order. Any failure aborts the whole batch: no partial result
	// is returned.
	ReadScannedDocument(ctx context.Context, instruction, filePath string) (*DocumentResult, error)

	// InspectDocument probes a document for its page count and whether it
	// carries an extractable text layer, without rendering or model calls.
	InspectDocument(ctx context.Context, filePath string) (*DocumentInfo, error)
}

// TokenUsage records the token consumption reported by the provider for a
// single model call. Counts are zero when the provider omits them.
type TokenUsage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// ImageResult is the outcome of a single-image read.
type ImageResult struct {
	Response   string     `json:"response"`
	TokenUsage TokenUsage `json:"tokenUsage"`
}

// GenerationResult is the outcome of an image generation: the hosted URL.
type GenerationResult struct {
	Response string `json:"response"`
}

// PageResult is one page's model response plus its token accounting.
type PageResult struct {
	Page       int        `json:"page"` // 1-indexed
	Response   string     `json:"response"`
	TokenUsage TokenUsage `json:"tokenUsage"`
}

// DocumentResult is the ordered set of page results for a document.
type DocumentResult struct {
	TotalPages int          `json:"totalPages"`
	Pages      []PageResult `json:"pages"`
}

// DocumentInfo describes a document without transcribing it.
type DocumentInfo struct {
	TotalPages   int  `json:"totalPages"`
	HasTextLayer bool `json:"hasTextLayer"`
}

// connector is the concrete implementation of Connector.
type connector struct {
	cfg   Config
	chat  llm.Provider
	image llm.ImageProvider

	// open is the page source; a seam so tests can stand in for MuPDF.
	open func(path string, dpi float64) (pageSource, error)
}

// pageSource abstracts an open paged document.
type pageSource interface {
	PageCount() int
	RenderPage(index int) (image.Image, error)
	Close() error
}

// New creates a connector from the given configuration.
func New(cfg Config) (Connector, error) {
	chat, err := llm.NewProvider(llm.Config{
		Provider: cfg.Chat.Provider,
		Model:    cfg.Chat.Model,
		BaseURL:  cfg.Chat.BaseURL,
		APIKey:   cfg.Chat.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chat model: %v", ErrInvalidConfig, err)
	}

	image, err := llm.NewImageProvider(llm.Config{
		Provider: cfg.Image.Provider,
		Model:    cfg.Image.Model,
		BaseURL:  cfg.Image.BaseURL,
		APIKey:   cfg.Image.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: image model: %v", ErrInvalidConfig, err)
	}

	return &connector{
		cfg:   cfg,
		chat:  chat,
		image: image,
		open:  openDocument,
	}, nil
}

// ReadImage analyzes a single image with the instruction text.
func (c *connector) ReadImage(ctx context.Context, instruction string, image llm.ImageRef) (*ImageResult, error) {
	resp, err := c.generate(ctx, llm.UserMessage(instruction, image))
	if err != nil {
		return nil, fmt.Errorf("%w: analyzing image %s with instruction %q: %v",
			ErrImageAnalysis, image, instruction, err)
	}

	return &ImageResult{
		Response:   resp.Content,
		TokenUsage: usageFrom(resp.Usage),
	}, nil
}

// GenerateImage produces an image from the prompt text.
func (c *connector) GenerateImage(ctx context.Context, prompt string) (*GenerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.requestTimeout())
	defer cancel()

	url, err := c.image.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: generating image for prompt %q: %v",
			ErrImageGeneration, prompt, err)
	}

	slog.Info("image generated", "url", url)
	return &GenerationResult{Response: url}, nil
}

// generate runs a single chat-model call bounded by the per-call timeout,
// the only blocking external call in the pipeline.
func (c *connector) generate(ctx context.Context, msg llm.Message) (*llm.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.requestTimeout())
	defer cancel()

	return c.chat.GenerateText(ctx, llm.Request{
		Messages:  []llm.Message{msg},
		MaxTokens: c.cfg.MaxTokens,
	})
}

func usageFrom(u llm.Usage) TokenUsage {
	return TokenUsage{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		TotalTokens:  u.TotalTokens,
	}
}

// rasterDocument adapts raster.Document to the pageSource seam.
type rasterDocument struct {
	doc *raster.Document
}

func openDocument(path string, dpi float64) (pageSource, error) {
	doc, err := raster.Open(path, dpi)
	if err != nil {
		return nil, err
	}
	return &rasterDocument{doc: doc}, nil
}

func (r *rasterDocument) PageCount() int { return r.doc.PageCount() }

func (r *rasterDocument) RenderPage(index int) (image.Image, error) {
	return r.doc.RenderPage(index)
}

func (r *rasterDocument) Close() error { return r.doc.Close() }
