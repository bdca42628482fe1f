package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/converter"
)

// mockConverter records calls and returns canned results.
type mockConverter struct {
	html      string
	markdown  string
	score     int
	err       error
	gotPath   string
	gotRules  []string
	gotScored string
}

func (m *mockConverter) ConvertFile(_ context.Context, path string, rules []string) (*converter.Conversion, error) {
	m.gotPath, m.gotRules = path, rules
	if m.err != nil {
		return nil, m.err
	}
	return &converter.Conversion{HTML: m.html, Strategy: converter.StrategyStyled}, nil
}

func (m *mockConverter) ConvertFileMarkdown(_ context.Context, path string, rules []string) (string, error) {
	m.gotPath, m.gotRules = path, rules
	return m.markdown, m.err
}

func (m *mockConverter) ScoreFidelity(html string) int {
	m.gotScored = html
	return m.score
}

func (m *mockConverter) GetConversionInfo(context.Context) string { return "info" }

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("content items = %d, want 1", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestConvertHTMLHandler(t *testing.T) {
	m := &mockConverter{html: `<p style="text-indent: 18pt">x</p>`}
	out, isErr := callTool(t, convertHTMLHandler(m), map[string]interface{}{
		argPath:     "/docs/a.docx",
		argStyleMap: "p.Quote => blockquote\n\n  r.Code => code  \n",
	})
	if isErr {
		t.Fatalf("unexpected tool error: %s", out)
	}
	if out != m.html {
		t.Errorf("out = %q", out)
	}
	if m.gotPath != "/docs/a.docx" {
		t.Errorf("path = %q", m.gotPath)
	}
	if strings.Join(m.gotRules, "|") != "p.Quote => blockquote|r.Code => code" {
		t.Errorf("rules = %q", m.gotRules)
	}
}

func TestConvertHTMLHandler_MissingPath(t *testing.T) {
	out, isErr := callTool(t, convertHTMLHandler(&mockConverter{}), map[string]interface{}{})
	if !isErr || !strings.Contains(out, argPath) {
		t.Errorf("got (%q, %v), want a tool error naming %s", out, isErr, argPath)
	}
}

func TestConvertHTMLHandler_ConversionError(t *testing.T) {
	m := &mockConverter{err: errors.New("file not found: /x.docx")}
	out, isErr := callTool(t, convertHTMLHandler(m), map[string]interface{}{argPath: "/x.docx"})
	if !isErr || !strings.Contains(out, "file not found") {
		t.Errorf("got (%q, %v)", out, isErr)
	}
}

func TestConvertMarkdownHandler(t *testing.T) {
	m := &mockConverter{markdown: "# Title"}
	out, isErr := callTool(t, convertMarkdownHandler(m), map[string]interface{}{argPath: "/docs/a.docx"})
	if isErr || out != "# Title" {
		t.Errorf("got (%q, %v)", out, isErr)
	}
	if m.gotRules != nil {
		t.Errorf("rules = %q, want none", m.gotRules)
	}
}

func TestScoreHandler(t *testing.T) {
	m := &mockConverter{score: 60}
	out, isErr := callTool(t, scoreHandler(m), map[string]interface{}{argHTML: "<p>x</p>"})
	if isErr || out != "60" {
		t.Errorf("got (%q, %v)", out, isErr)
	}
	if m.gotScored != "<p>x</p>" {
		t.Errorf("scored %q", m.gotScored)
	}

	out, isErr = callTool(t, scoreHandler(m), map[string]interface{}{})
	if !isErr {
		t.Errorf("missing html should be a tool error, got %q", out)
	}
}
