package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"net/http"
	"time"

	// Generated payloads are PNG; JPEG is registered for resilience since the
	// endpoint does not commit to a format.
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
)

// DefaultImageModel is used when no image model is configured.
const DefaultImageModel = "gpt-image-1"

// Size1024 is the only supported output resolution.
const Size1024 = "1024x1024"

// imageTimeout bounds one synthesis call. Synthesis is slower than text
// completion, so the bound is longer.
const imageTimeout = 120 * time.Second

// ImageClient calls the image-generations endpoint and decodes the embedded
// payload to an in-memory RGBA raster.
type ImageClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewImageClient creates an image-synthesis client. An empty model selects
// DefaultImageModel.
func NewImageClient(apiKey, model string) *ImageClient {
	if model == "" {
		model = DefaultImageModel
	}
	return &ImageClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: imageTimeout,
		},
	}
}

// --- image-generations request/response types ---

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate synthesizes one image for the prompt at the given size and returns
// it decoded as an RGBA raster.
func (c *ImageClient) Generate(ctx context.Context, prompt, size string) (*image.RGBA, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}
	if size != Size1024 {
		return nil, fmt.Errorf("unsupported size %q: only %s is supported", size, Size1024)
	}

	log.Debug().
		Str("model", c.model).
		Str("size", size).
		Int("prompt_length", len(prompt)).
		Msg("Sending image generation request")
	startTime := time.Now()

	body, err := json.Marshal(imageRequest{
		Model:  c.model,
		Prompt: prompt,
		Size:   size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, genErr := postJSON(ctx, c.httpClient, "image", c.baseURL+"/images/generations", c.apiKey, body)
	if genErr != nil {
		return nil, genErr
	}

	var imgResp imageResponse
	if err := json.Unmarshal(respBody, &imgResp); err != nil {
		return nil, &Error{Kind: ErrMalformedResponse, Op: "image", Err: err}
	}
	if len(imgResp.Data) == 0 || imgResp.Data[0].B64JSON == "" {
		return nil, &Error{Kind: ErrMalformedResponse, Op: "image", Err: fmt.Errorf("response has no image data")}
	}

	raw, err := base64.StdEncoding.DecodeString(imgResp.Data[0].B64JSON)
	if err != nil {
		return nil, &Error{Kind: ErrDecode, Op: "image", Err: fmt.Errorf("invalid base64 payload: %w", err)}
	}

	decoded, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &Error{Kind: ErrDecode, Op: "image", Err: fmt.Errorf("undecodable image payload: %w", err)}
	}

	rgba := toRGBA(decoded)

	log.Debug().
		Str("format", format).
		Int("width", rgba.Bounds().Dx()).
		Int("height", rgba.Bounds().Dy()).
		Dur("duration", time.Since(startTime)).
		Msg("Image generation complete")

	return rgba, nil
}

// toRGBA converts a decoded image to RGBA, copying only when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
