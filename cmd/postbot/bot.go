package main

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/plaintextdaily/postbot/internal/brand"
	"github.com/plaintextdaily/postbot/internal/pipeline"
	"github.com/plaintextdaily/postbot/internal/prompt"
)

// pollTimeout is the Telegram long-poll window in seconds.
const pollTimeout = 30

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram long-polling bot",
	Long: `Bot starts the Telegram long-polling loop and serves the brand commands in
chat: /idea, /caption <topic>, /post <topic>, and /style. Each command runs
one pipeline invocation; concurrent commands run independently.`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	orch, cfg, err := buildPipeline()
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required: set TELEGRAM_BOT_TOKEN or telegram.token in the config file")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	log.Info().Str("username", bot.Self.UserName).Msg("Bot running, Ctrl+C to stop")

	b := cfg.Brand()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		msg := update.Message
		// Pipeline runs are stateless, so each command is served in its own
		// goroutine and slow image generation does not block other chats.
		go handleCommand(cmd.Context(), bot, orch, b, msg)
	}
	return nil
}

// handleCommand dispatches one chat command to the pipeline and delivers the
// result. Generation failures become a user-visible message here; the
// pipeline itself never retries or rewords them.
func handleCommand(ctx context.Context, bot *tgbotapi.BotAPI, orch *pipeline.Orchestrator, b *brand.Brand, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	topic := strings.TrimSpace(msg.CommandArguments())

	logger := log.With().
		Str("command", msg.Command()).
		Int64("chat_id", chatID).
		Logger()

	switch msg.Command() {
	case "start":
		reply(bot, chatID, "plaintext.daily assistant online. Try /idea, /caption, or /post")

	case "style":
		reply(bot, chatID, b.QuickSpec())

	case "idea":
		result, err := orch.Run(ctx, prompt.Request{Topic: topic, Kind: prompt.KindIdea})
		if err != nil {
			reply(bot, chatID, userFacingError(err))
			return
		}
		reply(bot, chatID, result.Text)

	case "caption":
		result, err := orch.Run(ctx, prompt.Request{Topic: topic, Kind: prompt.KindCaption})
		if err != nil {
			reply(bot, chatID, userFacingError(err))
			return
		}
		reply(bot, chatID, result.Text)

	case "post":
		result, err := orch.Run(ctx, prompt.Request{Topic: topic, Kind: prompt.KindPost})
		if err != nil {
			reply(bot, chatID, userFacingError(err))
			return
		}
		data, err := result.Post.EncodePNG()
		if err != nil {
			logger.Error().Err(err).Msg("Failed to encode post image")
			reply(bot, chatID, "could not encode the generated image")
			return
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "post.png", Bytes: data})
		photo.Caption = result.Post.Caption
		if _, err := bot.Send(photo); err != nil {
			logger.Error().Err(err).Msg("Failed to send photo")
		}

	default:
		reply(bot, chatID, "unknown command. Try /idea, /caption, /post, or /style")
	}
}

// reply sends a plain text message, logging delivery failures.
func reply(bot *tgbotapi.BotAPI, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
