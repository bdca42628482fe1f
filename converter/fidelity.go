package converter

// fidelity.go — heuristic score of how much Word formatting an HTML rendition
// kept. Each signal present adds its points once; the total is capped at 100.

import "regexp"

// Policy assigns points to each fidelity signal.
type Policy struct {
	TextIndent    int
	MarginLeft    int
	MarginRight   int
	FontSize      int
	LineHeight    int
	InlineStyle   int // any non-empty style attribute
	PointFontSize int // font-size given in pt
	WordClass     int // class name carrying a Word marker
}

// DefaultPolicy holds the stock point values.
var DefaultPolicy = Policy{
	TextIndent:    15,
	MarginLeft:    15,
	MarginRight:   10,
	FontSize:      20,
	LineHeight:    10,
	InlineStyle:   15,
	PointFontSize: 10,
	WordClass:     5,
}

const maxScore = 100

var (
	textIndentRE    = regexp.MustCompile(`(?i)text-indent\s*:`)
	marginLeftRE    = regexp.MustCompile(`(?i)margin-left\s*:`)
	marginRightRE   = regexp.MustCompile(`(?i)margin-right\s*:`)
	fontSizeRE      = regexp.MustCompile(`(?i)font-size\s*:`)
	lineHeightRE    = regexp.MustCompile(`(?i)line-height\s*:`)
	inlineStyleRE   = regexp.MustCompile(`(?i)style\s*=\s*"[^"]+"`)
	pointFontSizeRE = regexp.MustCompile(`(?i)font-size\s*:\s*-?[\d.]+\s*pt`)
	wordClassRE     = regexp.MustCompile(`class\s*=\s*"[^"]*(?:Mso|Word)[^"]*"`)
)

// Score rates html in [0, 100].
func (p Policy) Score(html string) int {
	signals := []struct {
		re     *regexp.Regexp
		points int
	}{
		{textIndentRE, p.TextIndent},
		{marginLeftRE, p.MarginLeft},
		{marginRightRE, p.MarginRight},
		{fontSizeRE, p.FontSize},
		{lineHeightRE, p.LineHeight},
		{inlineStyleRE, p.InlineStyle},
		{pointFontSizeRE, p.PointFontSize},
		{wordClassRE, p.WordClass},
	}

	score := 0
	for _, s := range signals {
		if s.points > 0 && s.re.MatchString(html) {
			score += s.points
		}
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

// ScoreFidelity rates html with DefaultPolicy.
func ScoreFidelity(html string) int {
	return DefaultPolicy.Score(html)
}
