package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plaintextdaily/postbot/internal/prompt"
)

var ideaCmd = &cobra.Command{
	Use:   "idea [topic]",
	Short: "Generate 3 post ideas in the brand voice",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, _, err := buildPipeline()
		if err != nil {
			return err
		}

		result, err := orch.Run(cmd.Context(), prompt.Request{
			Topic: strings.Join(args, " "),
			Kind:  prompt.KindIdea,
		})
		if err != nil {
			return fmt.Errorf("%s", userFacingError(err))
		}

		fmt.Println(result.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ideaCmd)
}
