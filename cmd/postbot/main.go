// Package main is the entry point for the postbot CLI: the plaintext.daily
// social-media assistant. Each subcommand is a thin dispatch layer over the
// generation pipeline; the pipeline itself lives under internal/.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plaintextdaily/postbot/internal/brand"
	"github.com/plaintextdaily/postbot/internal/compose"
	"github.com/plaintextdaily/postbot/internal/config"
	"github.com/plaintextdaily/postbot/internal/logging"
	"github.com/plaintextdaily/postbot/internal/openai"
	"github.com/plaintextdaily/postbot/internal/pipeline"
)

// cfgFileFlag is the optional path to a config file.
var cfgFileFlag string

// rootCmd is the base command for the postbot CLI.
var rootCmd = &cobra.Command{
	Use:   "postbot",
	Short: "plaintext.daily marketing assistant",
	Long: `postbot generates on-brand social media content for plaintext.daily:
post ideas, captions in the brand voice, and square post images with the
brand mark composited bottom-right.

Subcommands map to the bot commands: idea, caption, post, and style. The bot
subcommand runs the Telegram long-polling loop and serves the same commands
in chat.

Examples:
  postbot idea
  postbot caption "a tiny workflow habit that compounds"
  postbot post "one simple framework to ship daily" --out today.png
  postbot style
  postbot bot`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFileFlag, "config", "", "config file (default: ./postbot.yaml or ~/.config/postbot/postbot.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline loads configuration and wires the orchestrator with the real
// generation clients and compositor.
func buildPipeline() (*pipeline.Orchestrator, *config.Config, error) {
	cfg, err := config.Load(cfgFileFlag)
	if err != nil {
		return nil, nil, err
	}
	if cfg.OpenAI.APIKey == "" {
		return nil, nil, fmt.Errorf("OpenAI API key is required: set OPENAI_API_KEY or openai.apiKey in the config file")
	}

	b := cfg.Brand()
	logging.Startup("postbot",
		map[string]string{
			"primaryColor": b.PrimaryHex,
			"creamColor":   b.CreamHex,
			"textModel":    cfg.OpenAI.TextModel,
			"imageModel":   cfg.OpenAI.ImageModel,
		},
		map[string]bool{
			"logo":     b.LogoURL != "",
			"telegram": cfg.Telegram.Token != "",
		})

	orch := pipeline.New(b,
		openai.NewTextClient(cfg.OpenAI.APIKey, cfg.OpenAI.TextModel),
		openai.NewImageClient(cfg.OpenAI.APIKey, cfg.OpenAI.ImageModel),
		compose.New(b),
	)
	return orch, cfg, nil
}

// userFacingError translates a pipeline failure into the message shown to the
// end user: transient service trouble reads differently from a bad response.
func userFacingError(err error) string {
	var genErr *openai.Error
	if errors.As(err, &genErr) && genErr.Kind.Retryable() {
		return "generation service unavailable, try again in a moment"
	}
	if errors.As(err, &genErr) {
		return "the generation service sent an unexpected response"
	}
	return err.Error()
}

// loadBrand builds the brand without requiring generation credentials, for
// commands that only read brand constants.
func loadBrand() (*brand.Brand, error) {
	cfg, err := config.Load(cfgFileFlag)
	if err != nil {
		return nil, err
	}
	return cfg.Brand(), nil
}
