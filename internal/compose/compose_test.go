package compose

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plaintextdaily/postbot/internal/brand"
)

var (
	testPrimary = color.RGBA{R: 0x2F, G: 0x34, B: 0x35, A: 0xFF}
	testCream   = color.RGBA{R: 0xF4, G: 0xEF, B: 0xE2, A: 0xFF}
)

// newBase builds a solid cream square of the given size.
func newBase(size int) *image.RGBA {
	base := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			base.SetRGBA(x, y, testCream)
		}
	}
	return base
}

func testCompositor(logoURL string) *Compositor {
	return New(brand.New(brand.DefaultPrimaryHex, brand.DefaultCreamHex, logoURL))
}

func TestFallbackMarkGeometry1024(t *testing.T) {
	marked := testCompositor("").ApplyMark(context.Background(), newBase(1024))

	// radius = round(0.12 * 1024) = 123, center = (1024-123-40, 1024-123-40).
	const r, cx, cy = 123, 861, 861

	// Inside the disc but away from the glyph: brand primary.
	if got := marked.RGBAAt(cx, cy-r/2); got != testPrimary {
		t.Errorf("pixel inside disc = %v, want primary %v", got, testPrimary)
	}
	if got := marked.RGBAAt(cx-r+2, cy); got != testPrimary {
		t.Errorf("left edge of disc = %v, want primary %v", got, testPrimary)
	}
	// Just outside the disc: untouched base.
	if got := marked.RGBAAt(cx, cy-r-2); got != testCream {
		t.Errorf("pixel above disc = %v, want cream %v", got, testCream)
	}
	if got := marked.RGBAAt(cx+r+2, cy); got != testCream {
		t.Errorf("pixel right of disc = %v, want cream %v", got, testCream)
	}
}

func TestFallbackMarkScalesLinearly(t *testing.T) {
	marked := testCompositor("").ApplyMark(context.Background(), newBase(512))

	// radius = round(0.12 * 512) = 61, center = (512-61-40, 512-61-40) = (411, 411).
	const r, cx, cy = 61, 411, 411

	if got := marked.RGBAAt(cx, cy-r/2); got != testPrimary {
		t.Errorf("pixel inside disc = %v, want primary %v", got, testPrimary)
	}
	if got := marked.RGBAAt(cx, cy-r-2); got != testCream {
		t.Errorf("pixel above disc = %v, want cream %v", got, testCream)
	}
}

func TestFallbackMarkDrawsGlyph(t *testing.T) {
	marked := testCompositor("").ApplyMark(context.Background(), newBase(1024))

	// The "pd" glyph is drawn in cream somewhere inside the disc.
	found := false
	for y := 861 - 20; y <= 861+20 && !found; y++ {
		for x := 861 - 20; x <= 861+20; x++ {
			if marked.RGBAAt(x, y) == testCream {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no cream glyph pixels found inside the disc")
	}
}

func TestUnreachableLogoDegradesToDrawnMark(t *testing.T) {
	// Closed port: the fetch fails immediately.
	marked := testCompositor("http://127.0.0.1:1/logo.png").ApplyMark(context.Background(), newBase(1024))
	if got := marked.RGBAAt(861, 861-60); got != testPrimary {
		t.Errorf("expected drawn mark after fetch failure, got pixel %v", got)
	}
}

func TestUndecodableLogoDegradesToDrawnMark(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer server.Close()

	marked := testCompositor(server.URL).ApplyMark(context.Background(), newBase(1024))
	if got := marked.RGBAAt(861, 861-60); got != testPrimary {
		t.Errorf("expected drawn mark after decode failure, got pixel %v", got)
	}
}

func TestLogoFetchErrorStatusDegradesToDrawnMark(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	marked := testCompositor(server.URL).ApplyMark(context.Background(), newBase(1024))
	if got := marked.RGBAAt(861, 861-60); got != testPrimary {
		t.Errorf("expected drawn mark after 404, got pixel %v", got)
	}
}

func TestLogoCompositedAtSixteenPercent(t *testing.T) {
	logoFill := color.RGBA{R: 10, G: 20, B: 200, A: 255}
	logo := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			logo.SetRGBA(x, y, logoFill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, logo); err != nil {
		t.Fatalf("failed to encode logo: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	marked := testCompositor(server.URL).ApplyMark(context.Background(), newBase(1024))

	// Scaled logo is round(0.16*1024) = 164 wide and, for a square logo,
	// 164 tall, anchored at (1024-164-40, 1024-164-40) = (820, 820).
	const w, x0, y0 = 164, 820, 820

	if got := marked.RGBAAt(x0+w/2, y0+w/2); got != logoFill {
		t.Errorf("logo center pixel = %v, want %v", got, logoFill)
	}
	if got := marked.RGBAAt(x0+2, y0+2); got != logoFill {
		t.Errorf("logo corner pixel = %v, want %v", got, logoFill)
	}
	// Left of the logo region: untouched cream, so the composited width is
	// exactly the computed share of the base.
	if got := marked.RGBAAt(x0-3, y0+w/2); got != testCream {
		t.Errorf("pixel left of logo = %v, want cream %v", got, testCream)
	}
	if got := marked.RGBAAt(x0+w/2, y0-3); got != testCream {
		t.Errorf("pixel above logo = %v, want cream %v", got, testCream)
	}
	// The drawn mark must not also be applied on the logo path.
	if got := marked.RGBAAt(861, 861); got == testPrimary {
		t.Error("drawn mark applied on top of successfully composited logo")
	}
}

func TestApplyMarkAlwaysReturnsRGBA(t *testing.T) {
	// Non-RGBA input (grayscale) is converted, and the result carries the mark.
	gray := image.NewGray(image.Rect(0, 0, 256, 256))
	marked := testCompositor("").ApplyMark(context.Background(), gray)
	if marked == nil {
		t.Fatal("ApplyMark returned nil")
	}
	if marked.Bounds().Dx() != 256 || marked.Bounds().Dy() != 256 {
		t.Errorf("unexpected bounds: %v", marked.Bounds())
	}
	// radius = round(0.12*256) = 31, center (256-31-40, 256-31-40) = (185, 185).
	if got := marked.RGBAAt(185, 185-15); got != testPrimary {
		t.Errorf("mark missing on converted image: %v", got)
	}
}
