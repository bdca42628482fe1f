package converter

// DOCX → styled HTML.
//
// The pipeline runs in two phases that never overlap: the paragraph transform
// registers markers while the base converter walks the document, then the
// finished HTML string has its markers substituted and is enhanced. The whole
// call runs under a wall-clock budget.

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/basehtml"
	"github.com/Cortexa-LLC/mcp/src/docxhtml/ooxml"
)

// DefaultTimeout bounds a conversion when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Options configure Convert.
type Options struct {
	// ImageHandler produces the src of each embedded image. Nil embeds images
	// as base64 data URIs.
	ImageHandler func(basehtml.Image) (basehtml.ImageAttributes, error)

	// StyleMap rules are passed to the base converter ahead of its defaults.
	StyleMap []string

	// Timeout is the wall-clock budget; zero means DefaultTimeout.
	Timeout time.Duration

	Logger *zap.Logger
}

// Result is the converted HTML and the base converter's warnings.
type Result struct {
	HTML     string
	Warnings []basehtml.Warning
}

// convertFn is the synchronous pipeline. Tests replace it to simulate a
// conversion that never returns.
var convertFn = convertStyled

// Convert turns a DOCX package into HTML carrying inline styles for paragraph
// and run formatting. It fails with a *TimeoutError when the budget runs out,
// with ctx.Err() when ctx is done first, and with a wrapped zip error when
// input is not a zip archive.
func Convert(ctx context.Context, input []byte, opts Options) (*Result, error) {
	budget := opts.Timeout
	if budget <= 0 {
		budget = DefaultTimeout
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	fn := convertFn
	go func() {
		res, err := fn(input, opts)
		done <- outcome{res, err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case o := <-done:
		return o.res, o.err
	case <-timer.C:
		return nil, &TimeoutError{Budget: budget}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func convertStyled(input []byte, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	zr, err := zip.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	styles := ooxml.LoadContext(zr, log)
	in := newInjector(styles, log.Named("inject"))

	base, err := basehtml.Convert(zr, basehtml.Options{
		StyleMap:           opts.StyleMap,
		TransformParagraph: in.transformParagraph,
		ImageHandler:       opts.ImageHandler,
	})
	if err != nil {
		return nil, fmt.Errorf("convert docx: %w", err)
	}

	html := in.substitute(base.HTML)
	html = Enhance(html, styles.Margins)

	log.Debug("converted docx",
		zap.Int("paragraph_styles", len(in.paragraphs)),
		zap.Int("run_styles", len(in.runs)),
		zap.Int("warnings", len(base.Warnings)))
	return &Result{HTML: html, Warnings: base.Warnings}, nil
}
