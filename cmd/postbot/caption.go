package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plaintextdaily/postbot/internal/prompt"
)

var captionCmd = &cobra.Command{
	Use:   "caption [topic]",
	Short: "Generate a caption with the hashtag block appended",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, _, err := buildPipeline()
		if err != nil {
			return err
		}

		result, err := orch.Run(cmd.Context(), prompt.Request{
			Topic: strings.Join(args, " "),
			Kind:  prompt.KindCaption,
		})
		if err != nil {
			return fmt.Errorf("%s", userFacingError(err))
		}

		fmt.Println(result.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(captionCmd)
}
