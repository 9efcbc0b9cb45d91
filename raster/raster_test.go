package raster

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestPDF assembles a minimal valid PDF with one text page per entry
// in pageTexts. Object offsets for the xref table are tracked as the file
// is built, so the result is well-formed by construction.
func writeTestPDF(t *testing.T, pageTexts []string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := []int{0} // object 0 is the free head

	addObj := func(body string) {
		offsets = append(offsets, b.Len())
		b.WriteString(body)
	}

	n := len(pageTexts)

	// 1: catalog, 2: page tree, then per page: page object + content stream,
	// last: shared font.
	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i*2)
	}
	fontRef := 3 + n*2

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), n))

	for i, text := range pageTexts {
		pageNum := 3 + i*2
		contentNum := pageNum + 1

		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>\nendobj\n",
			pageNum, contentNum, fontRef))

		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		addObj(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			contentNum, len(stream), stream))
	}

	addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fontRef))

	xrefStart := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(offsets))
	b.WriteString("0000000000 65535 f \r\n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&b, "%010d 00000 n \r\n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets), xrefStart)

	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("writing test pdf: %v", err)
	}
	return path
}

func TestOpen_PageCount(t *testing.T) {
	path := writeTestPDF(t, []string{"page one", "page two", "page three"})

	doc, err := Open(path, 72)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if got := doc.PageCount(); got != 3 {
		t.Errorf("expected 3 pages, got %d", got)
	}
}

func TestOpen_NonexistentFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"), 72)
	if err == nil {
		t.Fatal("expected error opening nonexistent file")
	}
	if !strings.Contains(err.Error(), "missing.pdf") {
		t.Errorf("error should name the file, got: %v", err)
	}
}

func TestRenderPage_Dimensions(t *testing.T) {
	path := writeTestPDF(t, []string{"hello"})

	doc, err := Open(path, 72)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	img, err := doc.RenderPage(0)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	// Letter page at 72 DPI is 612x792 points.
	bounds := img.Bounds()
	if bounds.Dx() != 612 || bounds.Dy() != 792 {
		t.Errorf("expected 612x792 at 72 DPI, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderPage_OutOfRange(t *testing.T) {
	path := writeTestPDF(t, []string{"only page"})

	doc, err := Open(path, 72)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if _, err := doc.RenderPage(5); err == nil {
		t.Error("expected error rendering out-of-range page")
	}
}

func TestClose_Idempotent(t *testing.T) {
	path := writeTestPDF(t, []string{"x"})

	doc, err := Open(path, 72)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := doc.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got: %v", err)
	}
	if got := doc.PageCount(); got != 0 {
		t.Errorf("PageCount after Close should be 0, got %d", got)
	}
	if _, err := doc.RenderPage(0); err == nil {
		t.Error("RenderPage after Close should fail")
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 25))
	for y := 0; y < 25; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 10), B: 128, A: 255})
		}
	}

	encoded, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("output is not valid base64: %v", err)
	}

	decoded, err := png.Decode(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}

	// The encoded image keeps the source dimensions untouched.
	if decoded.Bounds() != src.Bounds() {
		t.Errorf("expected bounds %v, got %v", src.Bounds(), decoded.Bounds())
	}
}

func TestEnhance_CapsLongerSide(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4000, 3000))

	out := Enhance(src, EnhanceOptions{MaxDimension: 1000})

	bounds := out.Bounds()
	if bounds.Dx() != 1000 {
		t.Errorf("expected width capped at 1000, got %d", bounds.Dx())
	}
	if bounds.Dy() != 750 {
		t.Errorf("expected height scaled to 750, got %d", bounds.Dy())
	}
}

func TestEnhance_SmallImageUntouchedByResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))

	out := Enhance(src, EnhanceOptions{MaxDimension: 1000})

	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Errorf("image below cap should keep its size, got %v", out.Bounds())
	}
}

func TestEnhance_DoesNotModifyInput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.Set(5, 5, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	before := src.RGBAAt(5, 5)

	Enhance(src, DefaultEnhanceOptions())

	if src.RGBAAt(5, 5) != before {
		t.Error("Enhance modified its input image")
	}
}
