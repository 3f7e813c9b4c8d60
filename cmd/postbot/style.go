package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Print the brand quick-specs (colors, type vibe, hashtags)",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBrand()
		if err != nil {
			return err
		}
		fmt.Println(b.QuickSpec())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(styleCmd)
}
