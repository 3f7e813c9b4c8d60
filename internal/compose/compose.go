// Package compose stamps the brand mark onto generated images.
//
// The mark is either the configured logo, fetched and scaled onto the
// bottom-right corner, or a drawn "pd" roundel when no logo is configured or
// the fetch fails. ApplyMark never fails: the logo source is an optional
// collaborator and every problem with it degrades to the drawn mark.
package compose

import (
	"context"
	"fmt"
	"image"
	"math"
	"net/http"
	"time"

	// Logo sources commonly serve PNG or JPEG.
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/plaintextdaily/postbot/internal/brand"
)

const (
	// logoWidthRatio sizes a fetched logo relative to the base image width.
	logoWidthRatio = 0.16

	// markRadiusRatio sizes the drawn fallback disc relative to the base width.
	markRadiusRatio = 0.12

	// edgeInset is the fixed margin from the bottom and right edges.
	edgeInset = 40

	// markGlyph is drawn inside the fallback disc.
	markGlyph = "pd"

	// logoFetchTimeout bounds the optional logo fetch.
	logoFetchTimeout = 10 * time.Second
)

// Compositor applies the brand mark to images.
type Compositor struct {
	brand      *brand.Brand
	httpClient *http.Client
}

// New creates a Compositor for the given brand.
func New(b *brand.Brand) *Compositor {
	return &Compositor{
		brand: b,
		httpClient: &http.Client{
			Timeout: logoFetchTimeout,
		},
	}
}

// ApplyMark overlays the brand mark bottom-right and returns the marked image.
// The input raster is mutated in place after conversion to RGBA; the result is
// always RGBA regardless of input format or which mark path was taken.
func (c *Compositor) ApplyMark(ctx context.Context, img image.Image) *image.RGBA {
	base := toRGBA(img)
	if c.brand.LogoURL != "" {
		if c.compositeLogo(ctx, base) {
			return base
		}
	}
	c.drawFallbackMark(base)
	return base
}

// compositeLogo fetches, scales, and alpha-blends the configured logo onto the
// base image. Returns false on any failure so the caller degrades to the
// drawn mark; this failure branch is expected, not exceptional.
func (c *Compositor) compositeLogo(ctx context.Context, base *image.RGBA) bool {
	logo, err := c.fetchLogo(ctx)
	if err != nil {
		log.Warn().
			Err(err).
			Str("logo_url", c.brand.LogoURL).
			Msg("Logo unavailable, using drawn mark")
		return false
	}

	baseW := base.Bounds().Dx()
	baseH := base.Bounds().Dy()
	logoW := logo.Bounds().Dx()
	logoH := logo.Bounds().Dy()
	if logoW <= 0 || logoH <= 0 {
		log.Warn().Str("logo_url", c.brand.LogoURL).Msg("Logo has no pixels, using drawn mark")
		return false
	}

	// Scale proportionally so the logo width is a fixed share of the base.
	w := int(math.Round(float64(baseW) * logoWidthRatio))
	h := int(math.Round(float64(logoH) * float64(w) / float64(logoW)))
	if w <= 0 || h <= 0 || h > baseH {
		log.Warn().
			Int("scaled_width", w).
			Int("scaled_height", h).
			Msg("Scaled logo does not fit, using drawn mark")
		return false
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), logo, logo.Bounds(), draw.Over, nil)

	x := baseW - w - edgeInset
	y := baseH - h - edgeInset
	draw.Draw(base, image.Rect(x, y, x+w, y+h), scaled, image.Point{}, draw.Over)

	log.Debug().
		Int("width", w).
		Int("height", h).
		Int("x", x).
		Int("y", y).
		Msg("Logo composited")

	return true
}

// fetchLogo retrieves and decodes the configured logo image.
func (c *Compositor) fetchLogo(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.brand.LogoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logo fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo fetch returned status %d", resp.StatusCode)
	}

	logo, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo: %w", err)
	}
	return logo, nil
}

// drawFallbackMark fills the brand disc bottom-right and centers the glyph
// inside it.
func (c *Compositor) drawFallbackMark(base *image.RGBA) {
	baseW := base.Bounds().Dx()
	baseH := base.Bounds().Dy()

	r := int(math.Round(float64(baseW) * markRadiusRatio))
	cx := baseW - r - edgeInset
	cy := baseH - r - edgeInset

	for y := cy - r; y <= cy+r; y++ {
		if y < 0 || y >= baseH {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < 0 || x >= baseW {
				continue
			}
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= r*r {
				base.SetRGBA(x, y, c.brand.Primary)
			}
		}
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  base,
		Src:  image.NewUniform(c.brand.Cream),
		Face: face,
	}
	adv := d.MeasureString(markGlyph)
	d.Dot = fixed.Point26_6{
		X: fixed.I(cx) - adv/2,
		Y: fixed.I(cy + (face.Ascent-face.Descent)/2),
	}
	d.DrawString(markGlyph)

	log.Debug().
		Int("radius", r).
		Int("cx", cx).
		Int("cy", cy).
		Msg("Drawn mark applied")
}

// toRGBA converts an image to RGBA, reusing the buffer when it already is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Copy(rgba, image.Point{}, img, img.Bounds(), draw.Src, nil)
	return rgba
}
