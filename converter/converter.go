package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/basehtml"
	"github.com/Cortexa-LLC/mcp/src/docxhtml/config"
)

// Strategy names the path that produced a Conversion.
type Strategy string

const (
	StrategyStyled      Strategy = "styled"
	StrategyLibreOffice Strategy = "libreoffice"
)

// Conversion is the outcome of converting one file.
type Conversion struct {
	HTML     string
	Warnings []basehtml.Warning
	Score    int
	Strategy Strategy
}

// FileConverter is the surface the CLI and the MCP server depend on.
type FileConverter interface {
	ConvertFile(ctx context.Context, filePath string, styleMap []string) (*Conversion, error)
	ConvertFileMarkdown(ctx context.Context, filePath string, styleMap []string) (string, error)
	ScoreFidelity(html string) int
	GetConversionInfo(ctx context.Context) string
}

// Converter converts DOCX files, preferring the styled pipeline and falling
// back to LibreOffice when the styled result fails or scores below the
// configured threshold.
type Converter struct {
	cfg     *config.Config
	log     *zap.Logger
	policy  Policy
	soffice *libreOffice
}

// NewConverter creates a Converter. A nil logger discards logs.
func NewConverter(cfg *config.Config, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{
		cfg:     cfg,
		log:     log,
		policy:  DefaultPolicy,
		soffice: &libreOffice{binary: cfg.Soffice, log: log.Named("soffice")},
	}
}

// ConvertFile converts a local .docx file to styled HTML.
func (c *Converter) ConvertFile(ctx context.Context, filePath string, styleMap []string) (*Conversion, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}
	if info.Size() > c.cfg.MaxFileSizeBytes {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), c.cfg.MaxFileSizeBytes)
	}
	if ext := strings.ToLower(filepath.Ext(filePath)); ext != ".docx" {
		return nil, fmt.Errorf("unsupported format: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	log := c.log.With(zap.String("file", filePath))
	res, styledErr := Convert(ctx, data, Options{
		StyleMap: styleMap,
		Timeout:  c.cfg.Timeout,
		Logger:   log,
	})

	var styled *Conversion
	if styledErr == nil {
		styled = &Conversion{
			HTML:     res.HTML,
			Warnings: res.Warnings,
			Score:    c.policy.Score(res.HTML),
			Strategy: StrategyStyled,
		}
		if styled.Score >= c.cfg.FidelityThreshold {
			return styled, nil
		}
		log.Info("styled conversion scored below threshold",
			zap.Int("score", styled.Score), zap.Int("threshold", c.cfg.FidelityThreshold))
	} else {
		if errors.Is(styledErr, context.Canceled) || errors.Is(styledErr, context.DeadlineExceeded) {
			return nil, styledErr
		}
		log.Warn("styled conversion failed", zap.Error(styledErr))
	}

	if !c.soffice.available() {
		if styledErr != nil {
			return nil, styledErr
		}
		return styled, nil
	}

	html, err := c.soffice.convert(ctx, filePath)
	if err != nil {
		log.Warn("libreoffice conversion failed", zap.Error(err))
		if styledErr != nil {
			return nil, fmt.Errorf("%w (libreoffice fallback: %v)", styledErr, err)
		}
		return styled, nil
	}

	fallback := &Conversion{
		HTML:     html,
		Score:    c.policy.Score(html),
		Strategy: StrategyLibreOffice,
	}
	if styled != nil && styled.Score >= fallback.Score {
		return styled, nil
	}
	return fallback, nil
}

// ConvertFileMarkdown converts a local .docx file and renders the HTML as Markdown.
func (c *Converter) ConvertFileMarkdown(ctx context.Context, filePath string, styleMap []string) (string, error) {
	conv, err := c.ConvertFile(ctx, filePath, styleMap)
	if err != nil {
		return "", err
	}
	out, err := ToMarkdown(conv.HTML)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// ScoreFidelity rates html with the converter's policy.
func (c *Converter) ScoreFidelity(html string) int {
	return c.policy.Score(html)
}

// GetConversionInfo returns a Markdown summary of the conversion strategies
// and configuration.
func (c *Converter) GetConversionInfo(_ context.Context) string {
	soffice := "not found"
	if c.soffice.available() {
		soffice = "available"
	}

	return fmt.Sprintf(`# DOCX → HTML Conversion Info

## Strategies
- styled (native Go): inline CSS for indentation, spacing, alignment, line height, fonts and page margins
- libreoffice (fallback): %s (%s)

## Configuration
- Max file size: %d MB
- Timeout: %s
- Fidelity threshold: %d`,
		c.cfg.Soffice, soffice,
		c.cfg.MaxFileSizeMB(),
		c.cfg.Timeout,
		c.cfg.FidelityThreshold,
	)
}
