package converter

// enhance.go — final normalization of converted HTML.
//
// Enhance re-formats the numeric declarations of every style attribute, drops
// degenerate ones, gives unstyled block elements baseline styling and wraps
// the body in the page-margin section. Running it on its own output changes
// nothing.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/ooxml"
)

// sectionClass marks the page-margin wrapper.
const sectionClass = "docx-section"

var (
	styleAttrRE    = regexp.MustCompile(`(\s)style="([^"]*)"`)
	blockTagRE     = regexp.MustCompile(`(?i)<(h[1-6]|p|ul|ol|li|table|td|th)((?:\s[^>]*)?)>`)
	hasStyleAttrRE = regexp.MustCompile(`(?i)\sstyle\s*=`)
	ptValueRE      = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*pt$`)
	unitlessRE     = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// defaultStyles apply to block elements that carry no style attribute.
var defaultStyles = map[string]string{
	"h1":    "font-size: 24pt; font-weight: bold; margin: 12pt 0 6pt 0",
	"h2":    "font-size: 18pt; font-weight: bold; margin: 10pt 0 5pt 0",
	"h3":    "font-size: 14pt; font-weight: bold; margin: 8pt 0 4pt 0",
	"h4":    "font-size: 12pt; font-weight: bold; margin: 6pt 0 3pt 0",
	"h5":    "font-size: 11pt; font-weight: bold; margin: 6pt 0 3pt 0",
	"h6":    "font-size: 10pt; font-weight: bold; margin: 6pt 0 3pt 0",
	"p":     "margin: 0 0 6pt 0; line-height: 1.15",
	"ul":    "margin: 0 0 6pt 0; padding-left: 24pt",
	"ol":    "margin: 0 0 6pt 0; padding-left: 24pt",
	"li":    "margin: 0 0 3pt 0",
	"table": "border-collapse: collapse; margin: 0 0 6pt 0",
	"td":    "border: 1px solid #000; padding: 4pt",
	"th":    "border: 1px solid #000; padding: 4pt; font-weight: bold; background-color: #f2f2f2",
}

// Enhance normalizes html and, when margins is non-nil, wraps it in a
// section div padded by the page margins.
func Enhance(html string, margins *ooxml.SectionMargins) string {
	html = styleAttrRE.ReplaceAllStringFunc(html, func(attr string) string {
		sub := styleAttrRE.FindStringSubmatch(attr)
		css := normalizeCSS(sub[2])
		if css == "" {
			return ""
		}
		return sub[1] + `style="` + css + `"`
	})

	html = blockTagRE.ReplaceAllStringFunc(html, func(tag string) string {
		sub := blockTagRE.FindStringSubmatch(tag)
		if hasStyleAttrRE.MatchString(sub[2]) {
			return tag
		}
		return "<" + sub[1] + sub[2] + ` style="` + defaultStyles[strings.ToLower(sub[1])] + `">`
	})

	return wrapSection(html, margins)
}

// normalizeCSS re-formats point lengths and line heights and drops empty and
// zero font-size declarations.
func normalizeCSS(css string) string {
	var out []string
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if !ok || prop == "" || value == "" {
			continue
		}

		switch prop {
		case "font-size":
			if v, ok := parsePt(value); ok {
				value = ooxml.FormatPt(v)
				if value == "0pt" {
					continue
				}
			}
		case "margin-left", "margin-right", "text-indent":
			if v, ok := parsePt(value); ok {
				value = ooxml.FormatPt(v)
			}
		case "line-height":
			if unitlessRE.MatchString(value) {
				if v, err := strconv.ParseFloat(value, 64); err == nil {
					value = fmt.Sprintf("%.2f", v)
				}
			}
		}
		out = append(out, prop+": "+value)
	}
	return strings.Join(out, "; ")
}

func parsePt(value string) (float64, bool) {
	m := ptValueRE.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func wrapSection(html string, margins *ooxml.SectionMargins) string {
	if margins == nil || strings.HasPrefix(html, `<div class="`+sectionClass+`"`) {
		return html
	}
	return fmt.Sprintf(`<div class="%s" style="padding-top: %s; padding-bottom: %s; padding-left: %s; padding-right: %s">%s</div>`,
		sectionClass,
		ooxml.FormatPt(margins.Top), ooxml.FormatPt(margins.Bottom),
		ooxml.FormatPt(margins.Left), ooxml.FormatPt(margins.Right),
		html)
}
