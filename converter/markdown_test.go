package converter

import "testing"

func TestToMarkdown(t *testing.T) {
	out, err := ToMarkdown(`<h1 style="font-size: 24pt">Title</h1>` +
		`<p style="text-indent: 18pt"><span style="font-size: 14pt">Body</span> <strong>bold</strong> <s>gone</s></p>` +
		`<ul><li>one</li><li>two</li></ul>`)
	assertNoErr(t, err)
	assertContains(t, out, "# Title")
	assertContains(t, out, "Body **bold** ~~gone~~")
	assertContains(t, out, "- one")
	assertNotContains(t, out, "font-size")
}

func TestToMarkdown_Table(t *testing.T) {
	out, err := ToMarkdown(`<table><tr><th>Name</th><th>Value</th></tr><tr><td>a</td><td>1</td></tr></table>`)
	assertNoErr(t, err)
	assertContains(t, out, "| Name")
	assertContains(t, out, "| a")
}

func TestToMarkdown_Images(t *testing.T) {
	out, err := ToMarkdown(`<p><img src="data:image/png;base64,AAAA" alt="chart" /> ` +
		`<img src="data:image/png;base64,BBBB" /> <img src="https://example.com/a.png" alt="remote" /></p>`)
	assertNoErr(t, err)
	assertContains(t, out, "![chart]()")
	assertContains(t, out, "![image]()")
	assertContains(t, out, "![remote](https://example.com/a.png)")
	assertNotContains(t, out, "base64")
}
