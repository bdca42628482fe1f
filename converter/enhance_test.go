package converter

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/Cortexa-LLC/mcp/src/docxhtml/ooxml"
)

func TestEnhance_NormalizesNumbers(t *testing.T) {
	in := `<p style="font-size: 12.000pt; margin-left:36.50pt; text-indent: -18.0pt; line-height: 1.5; margin-right: 9.999pt">x</p>`
	want := `<p style="font-size: 12pt; margin-left: 36.5pt; text-indent: -18pt; line-height: 1.50; margin-right: 10pt">x</p>`
	if got := Enhance(in, nil); got != want {
		t.Errorf("Enhance =\n%s\nwant\n%s", got, want)
	}
}

func TestEnhance_LeavesOtherDeclarationsAlone(t *testing.T) {
	in := `<p style="line-height: 18pt; color: #333; font-family: 'Times New Roman', Arial">x</p>`
	if got := Enhance(in, nil); got != in {
		t.Errorf("Enhance = %s", got)
	}
}

func TestEnhance_DropsZeroFontSize(t *testing.T) {
	got := Enhance(`<span style="font-size: 0pt; font-family: Arial">x</span>`, nil)
	if got != `<span style="font-family: Arial">x</span>` {
		t.Errorf("Enhance = %s", got)
	}
}

func TestEnhance_EmptyStyleRemoved(t *testing.T) {
	cases := []struct{ in, want string }{
		{`<span style="">x</span>`, `<span>x</span>`},
		{`<span style="; ">x</span>`, `<span>x</span>`},
		{`<span style="font-size: 0pt">x</span>`, `<span>x</span>`},
		// an emptied block element picks up its baseline
		{`<p style="">x</p>`, `<p style="` + defaultStyles["p"] + `">x</p>`},
	}
	for _, tc := range cases {
		if got := Enhance(tc.in, nil); got != tc.want {
			t.Errorf("Enhance(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestEnhance_Defaults(t *testing.T) {
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "ol", "li", "table", "td", "th"} {
		got := Enhance("<"+tag+">x</"+tag+">", nil)
		want := "<" + tag + ` style="` + defaultStyles[tag] + `">x</` + tag + ">"
		if got != want {
			t.Errorf("Enhance(<%s>) = %s, want %s", tag, got, want)
		}
	}
}

func TestEnhance_HeadingSizesDescend(t *testing.T) {
	sizeRE := regexp.MustCompile(`font-size: ([\d.]+)pt`)
	prev := 1000.0
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		style := styleOf(t, Enhance("<"+tag+">x</"+tag+">", nil), tag)
		m := sizeRE.FindStringSubmatch(style)
		if m == nil {
			t.Fatalf("%s has no pt font-size: %q", tag, style)
		}
		size, err := strconv.ParseFloat(m[1], 64)
		assertNoErr(t, err)
		if size >= prev {
			t.Errorf("%s font-size %v not below %v", tag, size, prev)
		}
		prev = size
	}
}

func TestEnhance_DoesNotOverrideExistingStyle(t *testing.T) {
	in := `<h1 style="margin-left: 36pt">T</h1><td class="x" style="text-align: center">c</td>`
	if got := Enhance(in, nil); got != in {
		t.Errorf("Enhance = %s", got)
	}
}

func TestEnhance_KeepsOtherAttributes(t *testing.T) {
	got := Enhance(`<td colspan="2">c</td><pre>code</pre><path d="M0"/>`, nil)
	want := `<td colspan="2" style="` + defaultStyles["td"] + `">c</td><pre>code</pre><path d="M0"/>`
	if got != want {
		t.Errorf("Enhance = %s\nwant %s", got, want)
	}
}

func TestEnhance_SectionWrapper(t *testing.T) {
	margins := &ooxml.SectionMargins{Top: 72, Bottom: 72, Left: 90, Right: 90.5}
	got := Enhance(`<p>x</p>`, margins)
	want := `<div class="docx-section" style="padding-top: 72pt; padding-bottom: 72pt; padding-left: 90pt; padding-right: 90.5pt">` +
		`<p style="` + defaultStyles["p"] + `">x</p></div>`
	if got != want {
		t.Errorf("Enhance =\n%s\nwant\n%s", got, want)
	}
}

func TestEnhance_NoMarginsNoWrapper(t *testing.T) {
	got := Enhance(`<p>x</p>`, nil)
	assertNotContains(t, got, "docx-section")
}

func TestEnhance_Idempotent(t *testing.T) {
	margins := &ooxml.SectionMargins{Top: 72, Bottom: 36, Left: 54, Right: 54}
	inputs := []string{
		``,
		`<p>plain</p>`,
		`<h1>Title</h1><h3>Sub</h3><ul><li>a</li><li>b</li></ul><ol><li>c</li></ol>`,
		`<table><tr><th>h</th></tr><tr><td>c</td></tr></table>`,
		`<p style="font-size: 12.50pt; line-height: 1.333; text-indent: -12pt; padding-left: 12pt">x</p>`,
		`<p style="font-size: 0pt"><span style="font-size: 0pt;">x</span></p>`,
		`<p style="; ">y</p><span style="">z</span>`,
		`<p style="font-size: 0.001pt; text-indent: 0.004pt">x</p>`,
		`<p style="font-size: -0.004pt"><span style="font-size: 0.004pt; margin-left: -0.001pt">x</span></p>`,
	}
	for _, in := range inputs {
		for _, m := range []*ooxml.SectionMargins{nil, margins} {
			once := Enhance(in, m)
			twice := Enhance(once, m)
			if once != twice {
				t.Errorf("not idempotent for %q\nonce:  %s\ntwice: %s", in, once, twice)
			}
		}
	}
}

func TestEnhance_DropsFontSizeThatRoundsToZero(t *testing.T) {
	got := Enhance(`<p style="font-size: 0.001pt; text-indent: 0.004pt">x</p>`, nil)
	want := `<p style="text-indent: 0pt">x</p>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
