// Package brand holds the plaintext.daily brand system: voice, tagline,
// hashtags, colors, and the visual style used for generated images.
//
// A Brand is built once at startup from configuration and treated as
// read-only by every component that receives it.
package brand

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Built-in brand defaults. Colors can be overridden via configuration;
// the voice, tagline, and hashtag block are fixed brand assets.
const (
	// Voice is the system voice prefix for every text prompt.
	Voice = "You are the voice of 'plaintext.daily' — internet field notes, practical > perfect. " +
		"Tone: minimal, direct, calm, anti-hype. One idea per post. Keep 12–18 words if possible."

	// Tagline closes every caption.
	Tagline = "practical > perfect"

	// Hashtags is the constant hashtag block appended verbatim to captions.
	// It is never regenerated per call.
	Hashtags = "#plaintextdaily #internetfieldnotes #practicaloverperfect #makerhabits #shipdaily #minimaldesign"

	// DefaultPrimaryHex is the charcoal used for the drawn mark and text.
	DefaultPrimaryHex = "#2F3435"

	// DefaultCreamHex is the warm cream background color.
	DefaultCreamHex = "#F4EFE2"
)

// Default topics used when a command is invoked without one.
const (
	DefaultIdeaTopic    = "today"
	DefaultCaptionTopic = "a tiny workflow habit that compounds"
	DefaultPostTopic    = "one simple framework to ship daily"
)

// Brand is the immutable brand configuration shared by all pipeline components.
type Brand struct {
	PrimaryHex string
	CreamHex   string
	Primary    color.RGBA
	Cream      color.RGBA

	// LogoURL is the optional logo to composite onto generated images.
	// Empty means the drawn "pd" mark is used instead.
	LogoURL string
}

// New builds a Brand from hex color strings and an optional logo URL.
// Unparseable colors fall back to the built-in defaults rather than failing:
// a bad color override should not keep the bot from starting.
func New(primaryHex, creamHex, logoURL string) *Brand {
	primary, err := ParseHex(primaryHex)
	if err != nil {
		primaryHex = DefaultPrimaryHex
		primary, _ = ParseHex(DefaultPrimaryHex)
	}
	cream, err := ParseHex(creamHex)
	if err != nil {
		creamHex = DefaultCreamHex
		cream, _ = ParseHex(DefaultCreamHex)
	}
	return &Brand{
		PrimaryHex: primaryHex,
		CreamHex:   creamHex,
		Primary:    primary,
		Cream:      cream,
		LogoURL:    logoURL,
	}
}

// Style returns the image style prompt fragment with the brand colors inlined.
func (b *Brand) Style() string {
	return fmt.Sprintf(
		"Minimal, type-forward square card. Warm cream background (%s), charcoal text (%s). "+
			"Use whitespace, subtle grain, tiny geometric accent (dot or line). "+
			"Optional small 'pd' roundel bottom-right. No photos, no gradients.",
		b.CreamHex, b.PrimaryHex,
	)
}

// QuickSpec renders the human-readable brand summary shown by the style command.
func (b *Brand) QuickSpec() string {
	var sb strings.Builder
	sb.WriteString("Brand quick-specs\n")
	fmt.Fprintf(&sb, "Primary: %s\n", b.PrimaryHex)
	fmt.Fprintf(&sb, "Cream: %s\n", b.CreamHex)
	sb.WriteString("Type vibe: monospaced, generous tracking, lowercase\n")
	sb.WriteString("Imagery: minimal cards, whitespace, subtle grain, small 'pd' roundel\n")
	fmt.Fprintf(&sb, "Hashtags: %s", Hashtags)
	return sb.String()
}

// ParseHex parses a "#RRGGBB" color string into an opaque RGBA color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}
