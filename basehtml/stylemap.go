package basehtml

// stylemap.go — rules mapping paragraph and run styles onto HTML tags.
//
// A rule reads "<selector> => <tag>", for example
//
//	p[style-name='Heading 1'] => h1
//	p.Quote => blockquote
//	r[style-name='Strong'] => strong
//
// Style names compare case-insensitively. Rules are tried in order; the first
// match wins. A trailing ":fresh" on the tag is accepted and ignored.

import (
	"regexp"
	"strings"
)

var styleRuleRE = regexp.MustCompile(
	`^\s*(p|r)(?:\.([A-Za-z0-9_-]+))?(?:\[\s*style-name\s*=\s*'([^']*)'\s*\])?\s*=>\s*([a-z][a-z0-9]*)(?::fresh)?\s*$`)

// DefaultStyleMap is applied after any caller-supplied rules.
var DefaultStyleMap = []string{
	"p[style-name='heading 1'] => h1",
	"p[style-name='heading 2'] => h2",
	"p[style-name='heading 3'] => h3",
	"p[style-name='heading 4'] => h4",
	"p[style-name='heading 5'] => h5",
	"p[style-name='heading 6'] => h6",
	"p[style-name='Title'] => h1",
	"p[style-name='Subtitle'] => h2",
	"r[style-name='Strong'] => strong",
}

type styleRule struct {
	element   string // "p" or "r"
	styleID   string
	styleName string
	tag       string
}

// matches reports whether the rule selects an element with the given style.
// A selector with neither id nor name matches every element of its kind.
func (r styleRule) matches(styleID, styleName string) bool {
	if r.styleID != "" && r.styleID != styleID {
		return false
	}
	if r.styleName != "" && !strings.EqualFold(r.styleName, styleName) {
		return false
	}
	return true
}

func (r styleRule) isCatchAll() bool {
	return r.styleID == "" && r.styleName == ""
}

type styleMap struct {
	rules []styleRule
}

func parseStyleMap(overrides []string, w *warnings) *styleMap {
	m := &styleMap{}
	for _, line := range append(append([]string{}, overrides...), DefaultStyleMap...) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		sub := styleRuleRE.FindStringSubmatch(line)
		if sub == nil {
			w.add("Did not understand this style mapping, so ignored it: " + line)
			continue
		}
		m.rules = append(m.rules, styleRule{
			element:   sub[1],
			styleID:   sub[2],
			styleName: sub[3],
			tag:       sub[4],
		})
	}
	return m
}

// lookup returns the tag for an element and whether a style-specific rule
// selected it. Catch-all rules return a tag but explicit=false.
func (m *styleMap) lookup(element, styleID, styleName string) (tag string, explicit bool) {
	for _, r := range m.rules {
		if r.element != element || !r.matches(styleID, styleName) {
			continue
		}
		return r.tag, !r.isCatchAll()
	}
	return "", false
}
