// Package pipeline sequences prompt building, the two generation clients, and
// mark compositing into one run.
//
// Each run is stateless: the only shared input is the immutable brand, so
// concurrent runs for different requests are safe. The post flow issues its
// text and image calls in parallel and joins before compositing; a failure on
// either side aborts the run with no partial result.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/plaintextdaily/postbot/internal/brand"
	"github.com/plaintextdaily/postbot/internal/openai"
	"github.com/plaintextdaily/postbot/internal/prompt"
)

// TextGenerator produces completion text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator synthesizes an image for a prompt at the given size.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, size string) (*image.RGBA, error)
}

// Marker applies the brand mark to a generated image. It cannot fail.
type Marker interface {
	ApplyMark(ctx context.Context, img image.Image) *image.RGBA
}

// Result is the output of one run: Text for idea and caption requests, Post
// for post requests. Exactly one field is set.
type Result struct {
	Text string
	Post *Artifact
}

// Artifact is a finished post: caption with hashtags appended, the constant
// hashtag block on its own, and the marked image.
type Artifact struct {
	Caption  string
	Hashtags string
	Image    *image.RGBA
}

// EncodePNG renders the artifact image as a PNG for delivery.
func (a *Artifact) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, a.Image); err != nil {
		return nil, fmt.Errorf("failed to encode artifact image: %w", err)
	}
	return buf.Bytes(), nil
}

// Orchestrator runs generation requests end to end.
type Orchestrator struct {
	brand   *brand.Brand
	prompts *prompt.Builder
	text    TextGenerator
	image   ImageGenerator
	marker  Marker
}

// New creates an Orchestrator from its collaborators.
func New(b *brand.Brand, text TextGenerator, img ImageGenerator, marker Marker) *Orchestrator {
	return &Orchestrator{
		brand:   b,
		prompts: prompt.NewBuilder(b),
		text:    text,
		image:   img,
		marker:  marker,
	}
}

// Run executes one request. Generation failures from either client propagate
// unchanged; there is no retry and never a partially populated result.
func (o *Orchestrator) Run(ctx context.Context, req prompt.Request) (*Result, error) {
	runID := uuid.NewString()
	logger := log.With().
		Str("run_id", runID).
		Str("kind", req.Kind.String()).
		Str("topic", prompt.EffectiveTopic(req)).
		Logger()
	logger.Info().Msg("Pipeline run started")

	var (
		result *Result
		err    error
	)
	switch req.Kind {
	case prompt.KindIdea:
		result, err = o.runIdea(ctx, req.Topic)
	case prompt.KindCaption:
		result, err = o.runCaption(ctx, req.Topic)
	case prompt.KindPost:
		result, err = o.runPost(ctx, req.Topic)
	default:
		return nil, fmt.Errorf("unknown request kind %d", req.Kind)
	}

	if err != nil {
		logger.Error().Err(err).Msg("Pipeline run failed")
		return nil, err
	}
	logger.Info().Msg("Pipeline run complete")
	return result, nil
}

// runIdea returns the raw 3-idea list. No hashtags, no image.
func (o *Orchestrator) runIdea(ctx context.Context, topic string) (*Result, error) {
	text, err := o.text.Generate(ctx, o.prompts.Idea(topic))
	if err != nil {
		return nil, err
	}
	return &Result{Text: text}, nil
}

// runCaption returns the caption with the hashtag block appended exactly once.
func (o *Orchestrator) runCaption(ctx context.Context, topic string) (*Result, error) {
	text, err := o.text.Generate(ctx, o.prompts.Caption(topic))
	if err != nil {
		return nil, err
	}
	return &Result{Text: withHashtags(text)}, nil
}

// runPost generates caption and image in parallel, joins, then composites the
// mark and assembles the artifact. The two calls have no data dependency; the
// group context cancels the surviving call's transport when the other fails,
// and a failure on either side means no artifact at all.
func (o *Orchestrator) runPost(ctx context.Context, topic string) (*Result, error) {
	captionPrompt := o.prompts.PostCaption(topic)
	imagePrompt := o.prompts.ImageStyle(topic)

	var (
		caption string
		raw     *image.RGBA
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := o.text.Generate(gctx, captionPrompt)
		if err != nil {
			return err
		}
		caption = text
		return nil
	})
	g.Go(func() error {
		img, err := o.image.Generate(gctx, imagePrompt, openai.Size1024)
		if err != nil {
			return err
		}
		raw = img
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	marked := o.marker.ApplyMark(ctx, raw)

	return &Result{Post: &Artifact{
		Caption:  withHashtags(caption),
		Hashtags: brand.Hashtags,
		Image:    marked,
	}}, nil
}

// withHashtags appends the constant hashtag block to a caption.
func withHashtags(caption string) string {
	return caption + "\n\n" + brand.Hashtags
}
