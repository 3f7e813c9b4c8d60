package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/plaintextdaily/postbot/internal/prompt"
)

var postOutFlag string

var postCmd = &cobra.Command{
	Use:   "post [topic]",
	Short: "Generate an on-brand post image plus caption",
	Long: `Post generates a caption and a 1024x1024 post image in one run, composites
the brand mark bottom-right, and writes the image as a PNG next to the
printed caption. Caption and image are generated in parallel; if either
fails, nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, _, err := buildPipeline()
		if err != nil {
			return err
		}

		result, err := orch.Run(cmd.Context(), prompt.Request{
			Topic: strings.Join(args, " "),
			Kind:  prompt.KindPost,
		})
		if err != nil {
			return fmt.Errorf("%s", userFacingError(err))
		}

		data, err := result.Post.EncodePNG()
		if err != nil {
			return err
		}

		out := postOutFlag
		if out == "" {
			out = fmt.Sprintf("postbot-%s.png", time.Now().Format("20060102-150405"))
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}

		log.Info().Str("file", out).Int("bytes", len(data)).Msg("Post image written")
		fmt.Println(result.Post.Caption)
		return nil
	},
}

func init() {
	postCmd.Flags().StringVarP(&postOutFlag, "out", "o", "", "output PNG path (default: postbot-<timestamp>.png)")
	rootCmd.AddCommand(postCmd)
}
