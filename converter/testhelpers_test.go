package converter

// Shared test helpers for the converter package.

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const nsDecl = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// ---- assertion helpers -----------------------------------------------------

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertErr(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain %q\ngot: %s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("expected output not to contain %q\ngot: %s", unwanted, got)
	}
}

func assertNotEmpty(t *testing.T, got string) {
	t.Helper()
	if strings.TrimSpace(got) == "" {
		t.Error("expected non-empty output, got empty string")
	}
}

// parseHTML loads an HTML fragment for structural assertions.
func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// styleOf returns the style attribute of the first element matching selector.
func styleOf(t *testing.T, html, selector string) string {
	t.Helper()
	sel := parseHTML(t, html).Find(selector).First()
	if sel.Length() == 0 {
		t.Fatalf("no element matches %q in %s", selector, html)
	}
	return sel.AttrOr("style", "")
}

// ---- file factories --------------------------------------------------------

// writeTempFile writes content to a temp file with the given name and returns
// its path. The file is cleaned up automatically when the test ends.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writeTempFile: %v", err)
	}
	return path
}

func stylesXML(styles string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><w:styles ` + nsDecl + `>` + styles + `</w:styles>`
}

// docxBytes zips a DOCX package whose body is bodyXML. An empty stylesPart
// omits word/styles.xml.
func docxBytes(t *testing.T, bodyXML, stylesPart string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("docxBytes zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("docxBytes write %s: %v", name, err)
		}
	}

	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8"?>`+
		`<w:document `+nsDecl+`><w:body>`+bodyXML+`</w:body></w:document>`)
	if stylesPart != "" {
		write("word/styles.xml", stylesPart)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("docxBytes close: %v", err)
	}
	return buf.Bytes()
}

// makeDocx builds a minimal .docx file containing the given OOXML body
// fragment and returns its path.
func makeDocx(t *testing.T, bodyXML string) string {
	t.Helper()
	return makeStyledDocx(t, bodyXML, "")
}

// makeStyledDocx is makeDocx with a word/styles.xml part.
func makeStyledDocx(t *testing.T, bodyXML, stylesPart string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")
	if err := os.WriteFile(path, docxBytes(t, bodyXML, stylesPart), 0o600); err != nil {
		t.Fatalf("makeDocx: %v", err)
	}
	return path
}
