package basehtml

// Shared test helpers for the basehtml package.

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

const nsDecl = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`

// ---- assertion helpers -----------------------------------------------------

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
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

// ---- package factories -----------------------------------------------------

// docxParts builds an in-memory DOCX archive whose document body is bodyXML.
// extra maps additional part names to their content.
func docxParts(t *testing.T, bodyXML string, extra map[string]string) *zip.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}

	if bodyXML != "-" {
		write(documentPart, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<w:document `+nsDecl+`><w:body>`+bodyXML+`</w:body></w:document>`)
	}
	for name, content := range extra {
		write(name, content)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip reader: %v", err)
	}
	return zr
}

func convertBody(t *testing.T, bodyXML string, opts Options) *Result {
	t.Helper()
	res, err := Convert(docxParts(t, bodyXML, nil), opts)
	assertNoErr(t, err)
	return res
}

func stylesPartXML(styles string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><w:styles ` + nsDecl + `>` + styles + `</w:styles>`
}

func relsXML(rels string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + rels + `</Relationships>`
}

func hasWarning(res *Result, substr string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}
