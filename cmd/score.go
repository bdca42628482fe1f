// Package cmd — score command.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/converter"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file.html>",
	Short: "Print the fidelity score (0-100) of an HTML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), converter.ScoreFidelity(string(data)))
		return err
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
