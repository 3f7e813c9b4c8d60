// Package prompt renders the brand-voice templates into concrete generation
// prompts. Templates are stored as text files under prompts/ and embedded at
// compile time.
//
// Rendering is pure: no I/O, no failure modes. A missing topic falls back to
// a per-kind built-in default so prompts are never empty.
package prompt

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/plaintextdaily/postbot/internal/brand"
)

// Kind selects which prompt(s) a request produces.
type Kind int

const (
	// KindIdea asks for 3 hook/angle post ideas. Text-only.
	KindIdea Kind = iota
	// KindCaption asks for a single caption ending in the brand tagline. Text-only.
	KindCaption
	// KindPost produces a caption prompt and an image-style prompt.
	KindPost
)

// String returns the command-style name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIdea:
		return "idea"
	case KindCaption:
		return "caption"
	case KindPost:
		return "post"
	default:
		return "unknown"
	}
}

// Request is one generation request: a topic and what to make from it.
type Request struct {
	Topic string
	Kind  Kind
}

//go:embed prompts/idea.txt
var ideaTemplate string

//go:embed prompts/caption.txt
var captionTemplate string

//go:embed prompts/post-caption.txt
var postCaptionTemplate string

//go:embed prompts/image.txt
var imageTemplate string

// Pre-parsed templates. template.Must catches malformed templates at program
// startup rather than at call time.
var (
	ideaTmpl        = template.Must(template.New("idea").Parse(ideaTemplate))
	captionTmpl     = template.Must(template.New("caption").Parse(captionTemplate))
	postCaptionTmpl = template.Must(template.New("post-caption").Parse(postCaptionTemplate))
	imageTmpl       = template.Must(template.New("image").Parse(imageTemplate))
)

// templateData is the substitution context for every prompt template.
type templateData struct {
	Voice   string
	Tagline string
	Style   string
	Topic   string
}

// Builder renders prompts for a given brand.
type Builder struct {
	brand *brand.Brand
}

// NewBuilder returns a Builder bound to the given brand.
func NewBuilder(b *brand.Brand) *Builder {
	return &Builder{brand: b}
}

// Idea renders the 3-ideas prompt.
func (b *Builder) Idea(topic string) string {
	return b.render(ideaTmpl, topic, brand.DefaultIdeaTopic)
}

// Caption renders the caption-only prompt.
func (b *Builder) Caption(topic string) string {
	return b.render(captionTmpl, topic, brand.DefaultCaptionTopic)
}

// PostCaption renders the caption prompt used for the post flow.
func (b *Builder) PostCaption(topic string) string {
	return b.render(postCaptionTmpl, topic, brand.DefaultPostTopic)
}

// ImageStyle renders the image-synthesis prompt, embedding the topic as the
// content theme.
func (b *Builder) ImageStyle(topic string) string {
	return b.render(imageTmpl, topic, brand.DefaultPostTopic)
}

// EffectiveTopic returns the topic that will actually be substituted for the
// given request: the request topic if present, else the per-kind default.
func EffectiveTopic(req Request) string {
	topic := strings.TrimSpace(req.Topic)
	if topic != "" {
		return topic
	}
	switch req.Kind {
	case KindCaption:
		return brand.DefaultCaptionTopic
	case KindPost:
		return brand.DefaultPostTopic
	default:
		return brand.DefaultIdeaTopic
	}
}

func (b *Builder) render(tmpl *template.Template, topic, defaultTopic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = defaultTopic
	}
	var sb strings.Builder
	// Executing a pre-parsed template into a strings.Builder cannot fail for
	// this data shape, so the error is intentionally not surfaced.
	_ = tmpl.Execute(&sb, templateData{
		Voice:   brand.Voice,
		Tagline: brand.Tagline,
		Style:   b.brand.Style(),
		Topic:   topic,
	})
	return strings.TrimSpace(sb.String())
}
