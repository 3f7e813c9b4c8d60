package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/plaintextdaily/postbot/internal/brand"
	"github.com/plaintextdaily/postbot/internal/compose"
	"github.com/plaintextdaily/postbot/internal/openai"
	"github.com/plaintextdaily/postbot/internal/prompt"
)

// fakeText returns a canned completion and records the prompt it was given.
type fakeText struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeText) Generate(_ context.Context, p string) (string, error) {
	f.prompt = p
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeImage returns a canned raster and records the prompt and size.
type fakeImage struct {
	img    *image.RGBA
	err    error
	prompt string
	size   string
}

func (f *fakeImage) Generate(_ context.Context, p, size string) (*image.RGBA, error) {
	f.prompt = p
	f.size = size
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func solidRGBA(size int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	return img
}

func newTestOrchestrator(text TextGenerator, img ImageGenerator) *Orchestrator {
	b := brand.New(brand.DefaultPrimaryHex, brand.DefaultCreamHex, "")
	return New(b, text, img, compose.New(b))
}

func TestRunCaptionAppendsHashtagsOnce(t *testing.T) {
	text := &fakeText{reply: "Ship something small today. practical > perfect."}
	o := newTestOrchestrator(text, &fakeImage{})

	result, err := o.Run(context.Background(), prompt.Request{Topic: "plaintext.daily", Kind: prompt.KindCaption})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Ship something small today. practical > perfect.\n\n" +
		"#plaintextdaily #internetfieldnotes #practicaloverperfect #makerhabits #shipdaily #minimaldesign"
	if result.Text != want {
		t.Errorf("caption result = %q, want %q", result.Text, want)
	}
	if strings.Count(result.Text, brand.Hashtags) != 1 {
		t.Error("hashtag block must be appended exactly once")
	}
	if result.Post != nil {
		t.Error("caption run must not produce an artifact")
	}
	if !strings.Contains(text.prompt, "plaintext.daily") {
		t.Errorf("caption prompt missing topic: %s", text.prompt)
	}
}

func TestRunIdeaReturnsRawText(t *testing.T) {
	text := &fakeText{reply: "- Hook: one\n- Hook: two\n- Hook: three"}
	o := newTestOrchestrator(text, &fakeImage{})

	result, err := o.Run(context.Background(), prompt.Request{Kind: prompt.KindIdea})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != text.reply {
		t.Errorf("idea result = %q, want raw completion", result.Text)
	}
	if strings.Contains(result.Text, brand.Hashtags) {
		t.Error("idea run must not append hashtags")
	}
}

func TestRunPostAssemblesArtifact(t *testing.T) {
	text := &fakeText{reply: "Pick one thing. Ship it. practical > perfect."}
	img := &fakeImage{img: solidRGBA(1024, color.RGBA{R: 0xF4, G: 0xEF, B: 0xE2, A: 0xFF})}
	o := newTestOrchestrator(text, img)

	result, err := o.Run(context.Background(), prompt.Request{Topic: "shipping daily", Kind: prompt.KindPost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Post == nil {
		t.Fatal("post run returned no artifact")
	}
	art := result.Post

	if art.Caption == "" {
		t.Error("artifact caption is empty")
	}
	if !strings.HasSuffix(art.Caption, brand.Hashtags) {
		t.Errorf("artifact caption missing hashtags: %q", art.Caption)
	}
	if strings.Count(art.Caption, brand.Hashtags) != 1 {
		t.Error("hashtag block must appear exactly once in the caption")
	}
	if art.Hashtags != brand.Hashtags {
		t.Errorf("artifact hashtags = %q, want constant block", art.Hashtags)
	}
	if art.Image == nil {
		t.Fatal("artifact image is nil")
	}
	if art.Image.Bounds().Dx() != 1024 || art.Image.Bounds().Dy() != 1024 {
		t.Errorf("unexpected artifact dimensions: %v", art.Image.Bounds())
	}
	if img.size != openai.Size1024 {
		t.Errorf("image generated at %q, want %s", img.size, openai.Size1024)
	}

	// The compositor ran: the drawn mark is present bottom-right.
	primary := color.RGBA{R: 0x2F, G: 0x34, B: 0x35, A: 0xFF}
	if got := art.Image.RGBAAt(861, 861-60); got != primary {
		t.Errorf("artifact missing brand mark, pixel = %v", got)
	}
}

func TestRunPostUsesTwoIndependentPrompts(t *testing.T) {
	text := &fakeText{reply: "caption"}
	img := &fakeImage{img: solidRGBA(1024, color.RGBA{A: 0xFF})}
	o := newTestOrchestrator(text, img)

	if _, err := o.Run(context.Background(), prompt.Request{Kind: prompt.KindPost}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.prompt == img.prompt {
		t.Error("caption and image prompts must be independent")
	}
	if !strings.Contains(text.prompt, brand.DefaultPostTopic) {
		t.Errorf("caption prompt missing default topic: %s", text.prompt)
	}
	if !strings.Contains(img.prompt, brand.DefaultPostTopic) {
		t.Errorf("image prompt missing default topic: %s", img.prompt)
	}
}

func TestRunPostImageFailureYieldsNoPartialResult(t *testing.T) {
	text := &fakeText{reply: "a caption that must not be delivered"}
	img := &fakeImage{err: &openai.Error{Kind: openai.ErrTimeout, Op: "image", Err: context.DeadlineExceeded}}
	o := newTestOrchestrator(text, img)

	result, err := o.Run(context.Background(), prompt.Request{Topic: "x", Kind: prompt.KindPost})
	if result != nil {
		t.Error("failed post run must not return a partial result")
	}
	var genErr *openai.Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *openai.Error, got %v", err)
	}
	if genErr.Kind != openai.ErrTimeout {
		t.Errorf("expected timeout, got %s", genErr.Kind)
	}
}

func TestRunPostTextFailureYieldsNoPartialResult(t *testing.T) {
	text := &fakeText{err: &openai.Error{Kind: openai.ErrUpstream, Op: "chat", Status: 500}}
	img := &fakeImage{img: solidRGBA(1024, color.RGBA{A: 0xFF})}
	o := newTestOrchestrator(text, img)

	result, err := o.Run(context.Background(), prompt.Request{Topic: "x", Kind: prompt.KindPost})
	if result != nil {
		t.Error("failed post run must not return a partial result")
	}
	var genErr *openai.Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *openai.Error, got %v", err)
	}
	if genErr.Kind != openai.ErrUpstream {
		t.Errorf("expected upstream_error, got %s", genErr.Kind)
	}
}

func TestRunCaptionFailurePropagatesUnchanged(t *testing.T) {
	cause := &openai.Error{Kind: openai.ErrNetwork, Op: "chat", Err: errors.New("connection refused")}
	o := newTestOrchestrator(&fakeText{err: cause}, &fakeImage{})

	_, err := o.Run(context.Background(), prompt.Request{Kind: prompt.KindCaption})
	var genErr *openai.Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *openai.Error, got %v", err)
	}
	if genErr != cause {
		t.Error("generation failure must propagate unchanged")
	}
}

func TestArtifactEncodePNGRoundTrip(t *testing.T) {
	art := &Artifact{
		Caption:  "caption",
		Hashtags: brand.Hashtags,
		Image:    solidRGBA(1024, color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}),
	}
	data, err := art.EncodePNG()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode artifact PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 1024 || decoded.Bounds().Dy() != 1024 {
		t.Errorf("round-trip dimensions = %v, want 1024x1024", decoded.Bounds())
	}
	if _, ok := decoded.ColorModel().(color.Palette); ok {
		t.Error("round-trip image lost its true-color format")
	}
	r, g, b, a := decoded.At(512, 512).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 || a>>8 != 0xFF {
		t.Errorf("round-trip pixel mismatch: %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}
