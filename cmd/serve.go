// Package cmd — serve command: an MCP server over stdio.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/converter"
)

// Server identity constants.
const (
	serverName    = "docxhtml"
	serverVersion = "0.1.0"
)

// MCP tool parameter key constants — shared between schema definitions and
// argument extraction so a typo in one place is caught by the other.
const (
	argPath     = "path"
	argStyleMap = "style_map"
	argHTML     = "html"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion tools over MCP stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.NewMCPServer(serverName, serverVersion)
		registerTools(s, converter.NewConverter(cfg, logger.Named("converter")))

		logger.Info("serving MCP over stdio", zap.String("version", serverVersion))
		if err := server.ServeStdio(s); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// registerTools binds MCP tool definitions to their handlers.
// It accepts the FileConverter interface so tests can inject a mock.
func registerTools(s *server.MCPServer, conv converter.FileConverter) {
	styleMapOption := mcp.WithString(argStyleMap,
		mcp.Description("Optional style mapping rules, one per line, e.g. p[style-name='Quote'] => blockquote"),
	)

	// convert_docx_to_html — styled HTML
	s.AddTool(
		mcp.NewTool("convert_docx_to_html",
			mcp.WithDescription("Convert a .docx file to HTML with inline styles reproducing indentation, "+
				"spacing, alignment, line height, fonts and page margins. "+
				"Falls back to LibreOffice when the styled result scores below the fidelity threshold."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Absolute path of the .docx file to convert"),
			),
			styleMapOption,
		),
		convertHTMLHandler(conv),
	)

	// convert_docx_to_markdown — Markdown rendition of the styled HTML
	s.AddTool(
		mcp.NewTool("convert_docx_to_markdown",
			mcp.WithDescription("Convert a .docx file to Markdown (headings, lists, tables, links)."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Absolute path of the .docx file to convert"),
			),
			styleMapOption,
		),
		convertMarkdownHandler(conv),
	)

	// score_html_fidelity — heuristic 0-100 score
	s.AddTool(
		mcp.NewTool("score_html_fidelity",
			mcp.WithDescription("Estimate, from 0 to 100, how much Word formatting an HTML rendition preserved."),
			mcp.WithString(argHTML,
				mcp.Required(),
				mcp.Description("HTML to score"),
			),
		),
		scoreHandler(conv),
	)

	// get_conversion_info — strategies and configuration
	s.AddTool(
		mcp.NewTool("get_conversion_info",
			mcp.WithDescription("Return the conversion strategies and active configuration."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(conv.GetConversionInfo(ctx)), nil
		},
	)
}

func convertHTMLHandler(conv converter.FileConverter) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, ok := req.Params.Arguments[argPath].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError(argPath + " is required"), nil
		}
		res, err := conv.ConvertFile(ctx, path, styleMapArg(req))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(res.HTML), nil
	}
}

func convertMarkdownHandler(conv converter.FileConverter) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, ok := req.Params.Arguments[argPath].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError(argPath + " is required"), nil
		}
		out, err := conv.ConvertFileMarkdown(ctx, path, styleMapArg(req))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func scoreHandler(conv converter.FileConverter) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		html, ok := req.Params.Arguments[argHTML].(string)
		if !ok {
			return mcp.NewToolResultError(argHTML + " is required"), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d", conv.ScoreFidelity(html))), nil
	}
}

// styleMapArg splits the optional style_map argument into rules.
func styleMapArg(req mcp.CallToolRequest) []string {
	raw, _ := req.Params.Arguments[argStyleMap].(string)
	var rules []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			rules = append(rules, line)
		}
	}
	return rules
}
