package docuvision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brunobiangulo/docuvision/llm"
	"github.com/brunobiangulo/docuvision/raster"
)

// ReadScannedDocument rasterizes the document at filePath page by page and
// sends each page to the chat model with the instruction. Pages are
// processed strictly in order; the first failure of any kind aborts the
// batch and discards results for pages already processed.
func (c *connector) ReadScannedDocument(ctx context.Context, instruction, filePath string) (*DocumentResult, error) {
	doc, err := c.open(filePath, c.cfg.renderDPI())
	if err != nil {
		return nil, fmt.Errorf("%w: opening document %s: %v", ErrFileHandling, filePath, err)
	}
	defer doc.Close()

	total := doc.PageCount()
	result := &DocumentResult{
		TotalPages: total,
		Pages:      make([]PageResult, 0, total),
	}

	for i := 0; i < total; i++ {
		page := i + 1

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: reading document %s: %v", ErrImageAnalysis, filePath, err)
		}

		img, err := doc.RenderPage(i)
		if err != nil {
			return nil, fmt.Errorf("%w: rendering page %d of %s: %v", ErrFileHandling, page, filePath, err)
		}

		if c.cfg.EnhancePages {
			img = raster.Enhance(img, raster.DefaultEnhanceOptions())
		}

		encoded, err := raster.EncodePNG(img)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding page %d of %s: %v", ErrImageProcessing, page, filePath, err)
		}

		msg := llm.UserMessage(instruction, llm.ImageFromData(encoded, "image/png"))
		resp, err := c.generate(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("%w: analyzing page %d of %s with instruction %q: %v",
				ErrImageAnalysis, page, filePath, instruction, err)
		}

		slog.Debug("page analyzed", "file", filePath, "page", page, "totalPages", total,
			"totalTokens", resp.Usage.TotalTokens)

		result.Pages = append(result.Pages, PageResult{
			Page:       page,
			Response:   resp.Content,
			TokenUsage: usageFrom(resp.Usage),
		})
	}

	return result, nil
}

// InspectDocument reports the page count and whether the document carries
// an extractable text layer. No pages are rendered and no model calls are
// made.
func (c *connector) InspectDocument(ctx context.Context, filePath string) (*DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: inspecting document %s: %v", ErrFileHandling, filePath, err)
	}

	info, err := raster.Inspect(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: inspecting document %s: %v", ErrFileHandling, filePath, err)
	}

	return &DocumentInfo{
		TotalPages:   info.Pages,
		HasTextLayer: info.HasTextLayer,
	}, nil
}
