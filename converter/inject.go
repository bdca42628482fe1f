package converter

// inject.go — style injection through the base converter.
//
// The base converter owns escaping and structure, so styles travel through it
// as marker text. During the paragraph transform every styled paragraph gets a
// marker as its first child and every styled run is bracketed by a start/end
// marker pair. Once HTML exists, paragraph markers become a style attribute on
// the enclosing opening tag and run marker pairs become <span style="…">.
// Markers carry a per-conversion nonce so document text can never collide
// with them.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/basehtml"
	"github.com/Cortexa-LLC/mcp/src/docxhtml/ooxml"
)

// Font sizes outside this range are clamped.
const (
	minFontSizePt = 6
	maxFontSizePt = 72
)

var styleAttrInTagRE = regexp.MustCompile(`\sstyle="([^"]*)"`)

type injector struct {
	styles *ooxml.Context
	log    *zap.Logger

	prefix     string
	paragraphs []string // marker number → CSS
	runs       []string

	paragraphRE *regexp.Regexp
	runRE       *regexp.Regexp
	strayRE     *regexp.Regexp // any marker of this conversion
}

func newInjector(styles *ooxml.Context, log *zap.Logger) *injector {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	prefix := "__DOCX_" + nonce + "_"
	return &injector{
		styles:      styles,
		log:         log,
		prefix:      prefix,
		paragraphRE: regexp.MustCompile(prefix + `PARAGRAPH_(\d+)__`),
		runRE:       regexp.MustCompile(`(?s)` + prefix + `RUN_(\d+)_START__(.*?)` + prefix + `RUN_(\d+)_END__`),
		strayRE:     regexp.MustCompile(prefix + `(?:PARAGRAPH_\d+|RUN_\d+_(?:START|END))__`),
	}
}

func (in *injector) paragraphMarker(css string) string {
	in.paragraphs = append(in.paragraphs, css)
	return fmt.Sprintf("%sPARAGRAPH_%d__", in.prefix, len(in.paragraphs)-1)
}

func (in *injector) runMarkers(css string) (start, end string) {
	in.runs = append(in.runs, css)
	n := len(in.runs) - 1
	return fmt.Sprintf("%sRUN_%d_START__", in.prefix, n), fmt.Sprintf("%sRUN_%d_END__", in.prefix, n)
}

// transformParagraph is the base converter's paragraph hook.
func (in *injector) transformParagraph(p *basehtml.Paragraph) *basehtml.Paragraph {
	resolved := in.styles.ResolveParagraphStyle(p.StyleID)

	indent := resolved.Indent.Merge(ooxml.IndentFromAttrs(
		p.Indent.Start, p.Indent.End, p.Indent.FirstLine, p.Indent.Hanging))
	spacing := resolved.Spacing.Merge(ooxml.SpacingFromAttrs(
		p.Spacing.Before, p.Spacing.After, p.Spacing.Line, p.Spacing.LineRule))
	alignment := p.Alignment
	if alignment == "" {
		alignment = resolved.Alignment
	}

	runs := p.Runs()
	if css := paragraphCSS(indent, spacing, alignment); css != "" {
		marker := &basehtml.Run{Children: []basehtml.Node{&basehtml.Text{Value: in.paragraphMarker(css)}}}
		p.Children = append([]basehtml.Node{marker}, p.Children...)
	}
	for _, r := range runs {
		in.styleRun(r, resolved.Run)
	}
	return p
}

// styleRun brackets r with run markers when its effective formatting yields CSS.
func (in *injector) styleRun(r *basehtml.Run, paragraphRun ooxml.RunFormatting) {
	if len(r.Children) == 0 {
		return
	}
	css := runCSS(in.runFormatting(r, paragraphRun))
	if css == "" {
		return
	}
	start, end := in.runMarkers(css)
	children := make([]basehtml.Node, 0, len(r.Children)+2)
	children = append(children, &basehtml.Text{Value: start})
	children = append(children, r.Children...)
	children = append(children, &basehtml.Text{Value: end})
	r.Children = children
}

// runFormatting merges, lowest priority first: the default character style,
// the paragraph style's run formatting, the run's character style chain and
// the run's direct formatting.
func (in *injector) runFormatting(r *basehtml.Run, paragraphRun ooxml.RunFormatting) ooxml.RunFormatting {
	f := in.styles.ResolveCharacterStyle("")
	f = f.Merge(paragraphRun)
	if r.StyleID != "" {
		f = f.Merge(in.styles.ResolveCharacterStyle(r.StyleID))
	}
	return f.Merge(ooxml.RunFormattingFromAttrs(r.FontSize, r.Font))
}

// ---------------------------------------------------------------------------
// CSS construction
// ---------------------------------------------------------------------------

func paragraphCSS(indent ooxml.Indent, spacing ooxml.Spacing, alignment string) string {
	var decls []string
	addPt := func(prop string, v *float64) {
		if set(v) {
			decls = append(decls, prop+": "+ooxml.FormatPt(*v))
		}
	}

	addPt("margin-left", indent.Start)
	addPt("margin-right", indent.End)
	switch {
	case set(indent.Hanging):
		decls = append(decls,
			"text-indent: "+ooxml.FormatPt(-*indent.Hanging),
			"padding-left: "+ooxml.FormatPt(*indent.Hanging))
	case set(indent.FirstLine):
		addPt("text-indent", indent.FirstLine)
	}
	addPt("margin-top", spacing.Before)
	addPt("margin-bottom", spacing.After)
	if spacing.Line != nil {
		if lh, ok := ooxml.LineHeight(*spacing.Line, spacing.LineRule); ok {
			decls = append(decls, "line-height: "+lh)
		}
	}
	if alignment != "" {
		decls = append(decls, "text-align: "+ooxml.MapAlignment(alignment))
	}
	return strings.Join(decls, "; ")
}

func runCSS(f ooxml.RunFormatting) string {
	var decls []string
	if f.FontSize != nil && *f.FontSize > 0 {
		size := *f.FontSize
		if size < minFontSizePt {
			size = minFontSizePt
		} else if size > maxFontSizePt {
			size = maxFontSizePt
		}
		decls = append(decls, "font-size: "+ooxml.FormatPt(size))
	}
	if family := fontFamilyCSS(f.FontFamily); family != "" {
		decls = append(decls, "font-family: "+family)
	}
	return strings.Join(decls, "; ")
}

var fontNameReplacer = strings.NewReplacer(`"`, "", "'", "", "<", "", ">", "", ";", "", "&", "")

// fontFamilyCSS quotes each font of a comma-separated list that contains a space.
func fontFamilyCSS(fonts string) string {
	var names []string
	for _, name := range strings.Split(fonts, ",") {
		name = strings.TrimSpace(fontNameReplacer.Replace(name))
		if name == "" {
			continue
		}
		if strings.Contains(name, " ") {
			name = "'" + name + "'"
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// set reports whether v carries a declaration; zero is "not specified".
func set(v *float64) bool {
	return v != nil && ooxml.FormatPt(*v) != "0pt"
}

// ---------------------------------------------------------------------------
// Substitution
// ---------------------------------------------------------------------------

// substitute resolves every marker of this conversion in html and strips any
// survivor.
func (in *injector) substitute(html string) string {
	html = in.resolveParagraphs(html)
	html = in.resolveRuns(html)

	if n := len(in.strayRE.FindAllStringIndex(html, -1)); n > 0 {
		in.log.Debug("stripping unresolved markers", zap.Int("count", n))
		html = in.strayRE.ReplaceAllString(html, "")
	}
	return html
}

// resolveParagraphs moves each paragraph marker's CSS onto the nearest
// preceding opening tag and removes the marker.
func (in *injector) resolveParagraphs(html string) string {
	matches := in.paragraphRE.FindAllStringSubmatchIndex(html, -1)
	if len(matches) == 0 {
		return html
	}

	var b strings.Builder
	b.Grow(len(html) + len(matches)*32)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		css, ok := in.css(in.paragraphs, html[m[2]:m[3]])

		lt := strings.LastIndexByte(html[:start], '<')
		gt := -1
		if lt >= last {
			gt = strings.IndexByte(html[lt:start], '>')
		}
		if !ok || gt < 0 || !isOpeningTag(html[lt:lt+gt+1]) {
			b.WriteString(html[last:start])
			last = end
			continue
		}
		gt += lt

		b.WriteString(html[last:lt])
		b.WriteString(withStyle(html[lt:gt+1], css))
		b.WriteString(html[gt+1 : start])
		last = end
	}
	b.WriteString(html[last:])
	return b.String()
}

// resolveRuns replaces each start…end pair with a styled span around the
// original content.
func (in *injector) resolveRuns(html string) string {
	return in.runRE.ReplaceAllStringFunc(html, func(match string) string {
		sub := in.runRE.FindStringSubmatch(match)
		css, ok := in.css(in.runs, sub[1])
		if !ok || sub[1] != sub[3] {
			return sub[2]
		}
		return `<span style="` + css + `">` + sub[2] + "</span>"
	})
}

func (in *injector) css(table []string, number string) (string, bool) {
	n, err := strconv.Atoi(number)
	if err != nil || n < 0 || n >= len(table) {
		return "", false
	}
	return table[n], true
}

func isOpeningTag(tag string) bool {
	return len(tag) > 2 &&
		!strings.HasPrefix(tag, "</") &&
		!strings.HasPrefix(tag, "<!") &&
		!strings.HasSuffix(tag, "/>")
}

// withStyle adds css to an opening tag, appending to an existing style attribute.
func withStyle(tag, css string) string {
	if loc := styleAttrInTagRE.FindStringSubmatchIndex(tag); loc != nil {
		existing := strings.TrimRight(strings.TrimSpace(tag[loc[2]:loc[3]]), ";")
		merged := css
		if existing != "" {
			merged = existing + "; " + css
		}
		return tag[:loc[2]] + merged + tag[loc[3]:]
	}
	return tag[:len(tag)-1] + ` style="` + css + `">`
}
