package basehtml

// writer.go — Document → HTML.
//
// Output is a body fragment with no whitespace between elements. Numbered
// paragraphs are grouped into nested <ul>/<ol> lists by level; every other
// paragraph takes the tag chosen by the style map.

import (
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type listFrame struct {
	ordered bool
	level   int
}

type writer struct {
	buf      strings.Builder
	styles   *styleMap
	images   func(Image) (ImageAttributes, error)
	warnings *warnings
}

func newWriter(sm *styleMap, images func(Image) (ImageAttributes, error), w *warnings) *writer {
	if images == nil {
		images = dataURI
	}
	return &writer{styles: sm, images: images, warnings: w}
}

func (w *writer) String() string { return w.buf.String() }

// blocks writes a sequence of block nodes (document body or table cell).
func (w *writer) blocks(nodes []Node) {
	var lists []listFrame
	for _, n := range nodes {
		switch n := n.(type) {
		case *Paragraph:
			tag, explicit := w.paragraphTag(n)
			if n.Numbering != nil && !explicit {
				w.listItem(&lists, n)
				continue
			}
			w.closeLists(&lists)
			w.buf.WriteString("<" + tag + ">")
			w.inline(n.Children)
			w.buf.WriteString("</" + tag + ">")
		case *Table:
			w.closeLists(&lists)
			w.table(n)
		}
	}
	w.closeLists(&lists)
}

func (w *writer) paragraphTag(p *Paragraph) (string, bool) {
	tag, explicit := w.styles.lookup("p", p.StyleID, p.StyleName)
	if p.StyleID != "" && !explicit && p.Numbering == nil {
		w.warnings.add("Unrecognised paragraph style: '" + p.StyleName + "' (Style ID: " + p.StyleID + ")")
	}
	if tag == "" {
		tag = "p"
	}
	return tag, explicit
}

func (w *writer) listItem(lists *[]listFrame, p *Paragraph) {
	level, ordered := p.Numbering.Level, p.Numbering.Ordered

	for len(*lists) > 0 && (*lists)[len(*lists)-1].level > level {
		w.popList(lists)
	}
	if n := len(*lists); n > 0 && (*lists)[n-1].level == level && (*lists)[n-1].ordered != ordered {
		w.popList(lists)
	}

	if n := len(*lists); n > 0 && (*lists)[n-1].level == level {
		w.buf.WriteString("</li><li>")
	} else {
		*lists = append(*lists, listFrame{ordered: ordered, level: level})
		w.buf.WriteString("<" + listTag(ordered) + "><li>")
	}
	w.inline(p.Children)
}

func (w *writer) popList(lists *[]listFrame) {
	top := (*lists)[len(*lists)-1]
	*lists = (*lists)[:len(*lists)-1]
	w.buf.WriteString("</li></" + listTag(top.ordered) + ">")
}

func (w *writer) closeLists(lists *[]listFrame) {
	for len(*lists) > 0 {
		w.popList(lists)
	}
}

func listTag(ordered bool) string {
	if ordered {
		return "ol"
	}
	return "ul"
}

func (w *writer) table(t *Table) {
	w.buf.WriteString("<table>")
	for _, row := range t.Rows {
		cellTag := "td"
		if row.Header {
			cellTag = "th"
		}
		w.buf.WriteString("<tr>")
		for _, cell := range row.Cells {
			if cell.ColSpan > 1 {
				w.buf.WriteString("<" + cellTag + ` colspan="` + strconv.Itoa(cell.ColSpan) + `">`)
			} else {
				w.buf.WriteString("<" + cellTag + ">")
			}
			w.blocks(cell.Children)
			w.buf.WriteString("</" + cellTag + ">")
		}
		w.buf.WriteString("</tr>")
	}
	w.buf.WriteString("</table>")
}

func (w *writer) inline(nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Run:
			w.run(n)
		case *Hyperlink:
			if n.Href == "" {
				w.inline(n.Children)
				continue
			}
			w.buf.WriteString(`<a href="` + html.EscapeString(n.Href) + `">`)
			w.inline(n.Children)
			w.buf.WriteString("</a>")
		case *Text:
			w.buf.WriteString(html.EscapeString(n.Value))
		case *Tab:
			w.buf.WriteString("\t")
		case *Break:
			if n.Type == "" || n.Type == "textWrapping" {
				w.buf.WriteString("<br />")
			}
		case *Image:
			w.image(n)
		}
	}
}

func (w *writer) run(r *Run) {
	var tags []string
	if tag, explicit := w.styles.lookup("r", r.StyleID, r.StyleName); explicit {
		tags = append(tags, tag)
	} else if r.StyleID != "" {
		w.warnings.add("Unrecognised run style: '" + r.StyleName + "' (Style ID: " + r.StyleID + ")")
	}
	if r.Bold {
		tags = append(tags, "strong")
	}
	if r.Italic {
		tags = append(tags, "em")
	}
	if r.Strike {
		tags = append(tags, "s")
	}
	switch r.VerticalAlign {
	case "superscript":
		tags = append(tags, "sup")
	case "subscript":
		tags = append(tags, "sub")
	}

	for _, t := range tags {
		w.buf.WriteString("<" + t + ">")
	}
	w.inline(r.Children)
	for i := len(tags) - 1; i >= 0; i-- {
		w.buf.WriteString("</" + tags[i] + ">")
	}
}

func (w *writer) image(img *Image) {
	attrs, err := w.images(*img)
	if err != nil {
		w.warnings.add("image handler failed: " + err.Error())
		return
	}
	w.buf.WriteString(`<img src="` + html.EscapeString(attrs.Src) + `"`)
	if img.AltText != "" {
		w.buf.WriteString(` alt="` + html.EscapeString(img.AltText) + `"`)
	}
	w.buf.WriteString(" />")
}

func dataURI(img Image) (ImageAttributes, error) {
	return ImageAttributes{
		Src: "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
	}, nil
}
