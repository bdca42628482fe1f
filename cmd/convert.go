// Package cmd — convert command.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/converter"
)

// Flag variables.
var (
	flagMarkdown bool
	flagStyleMap []string
	flagOut      string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.docx>",
	Short: "Convert a DOCX file to styled HTML or Markdown",
	Long: `Convert runs the styled DOCX → HTML pipeline. When the result scores below
the fidelity threshold and LibreOffice is installed, the LibreOffice
conversion is tried and the better-scoring result is kept.

Examples:
  docxhtml convert report.docx
  docxhtml convert report.docx --out report.html
  docxhtml convert report.docx --markdown
  docxhtml convert report.docx --style-map "p[style-name='Quote'] => blockquote"`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown instead of HTML")
	convertCmd.Flags().StringArrayVar(&flagStyleMap, "style-map", nil, "Style mapping rule (repeatable), e.g. \"p.Quote => blockquote\"")
	convertCmd.Flags().StringVar(&flagOut, "out", "", "Output file (default: stdout)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	conv := converter.NewConverter(cfg, logger.Named("converter"))
	ctx := cmd.Context()

	var out string
	if flagMarkdown {
		md, err := conv.ConvertFileMarkdown(ctx, args[0], flagStyleMap)
		if err != nil {
			return err
		}
		out = md
	} else {
		res, err := conv.ConvertFile(ctx, args[0], flagStyleMap)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			logger.Warn("conversion warning", zap.String("type", w.Type), zap.String("message", w.Message))
		}
		logger.Info("converted",
			zap.String("file", args[0]),
			zap.String("strategy", string(res.Strategy)),
			zap.Int("score", res.Score))
		out = res.HTML
	}

	return writeOutput(cmd.OutOrStdout(), flagOut, out)
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
