package converter

// soffice.go — LibreOffice headless conversion, the alternate strategy.
//
// available() probes for the binary at call time using exec.LookPath, so the
// converter degrades to the styled path alone when LibreOffice is absent.

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// lookPath is the exec.LookPath implementation used by available.
// Tests may replace it to simulate a missing LibreOffice binary.
var lookPath = exec.LookPath

type libreOffice struct {
	binary string
	log    *zap.Logger
}

// available returns true when the LibreOffice binary is on PATH.
func (l *libreOffice) available() bool {
	_, err := lookPath(l.binary)
	return err == nil
}

// convert runs LibreOffice on filePath and returns the body of the HTML it
// writes. The process is killed when ctx is done.
func (l *libreOffice) convert(ctx context.Context, filePath string) (string, error) {
	if !l.available() {
		return "", fmt.Errorf("%s is not installed or not on PATH; cannot convert %s", l.binary, filepath.Base(filePath))
	}

	outDir, err := os.MkdirTemp("", "docxhtml-soffice-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir for libreoffice: %w", err)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	cmd := exec.CommandContext(ctx, l.binary, "--headless", "--convert-to", "html", "--outdir", outDir, filePath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("libreoffice: %w", ctx.Err())
		}
		return "", fmt.Errorf("libreoffice: %w: %s", err, strings.TrimSpace(string(out)))
	}

	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)) + ".html"
	data, err := os.ReadFile(filepath.Join(outDir, name))
	if err != nil {
		return "", fmt.Errorf("read libreoffice output: %w", err)
	}
	l.log.Debug("libreoffice conversion finished", zap.String("file", filePath), zap.Int("bytes", len(data)))
	return htmlBody(string(data))
}

// htmlBody returns the inner HTML of the document's body.
func htmlBody(document string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("parse libreoffice output: %w", err)
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render libreoffice body: %w", err)
	}
	return strings.TrimSpace(body), nil
}
