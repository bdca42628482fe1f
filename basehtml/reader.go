package basehtml

// reader.go — word/document.xml → Document.
//
// The body is stream-parsed with a state machine over an element-name stack.
// Open container nodes (paragraph, hyperlink, run, table cell) sit on a
// separate frame stack; every new node is appended to the innermost frame
// that accepts it. Elements are matched on their local name, so the w:
// prefix never matters.

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// frame is an open container node.
type frame struct {
	node     Node
	children *[]Node
}

type docReader struct {
	pkg *pkg

	// element name stack for context queries
	stack []string

	// container frames; frames[0] is the document body
	frames []frame

	// table state (tables nest through cells)
	tables []*Table
	rows   []*TableRow

	// drawing state
	inDrawing bool
	imageRel  string
	imageAlt  string

	// subtrees not rendered (AlternateContent fallbacks, deleted text, text boxes)
	skipDepth int
}

func readDocument(r io.Reader, p *pkg) (*Document, error) {
	doc := &Document{}
	dr := &docReader{
		pkg:    p,
		frames: []frame{{children: &doc.Children}},
	}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			dr.push(t.Name.Local)
			if dr.skipDepth > 0 {
				dr.skipDepth++
				continue
			}
			dr.handleStart(t)
		case xml.EndElement:
			if dr.skipDepth > 0 {
				dr.skipDepth--
				dr.pop()
				continue
			}
			dr.handleEnd(t.Name.Local)
			dr.pop()
		case xml.CharData:
			if dr.skipDepth == 0 {
				dr.handleText(string(t))
			}
		}
	}
	return doc, nil
}

func (d *docReader) push(name string) { d.stack = append(d.stack, name) }
func (d *docReader) pop() {
	if len(d.stack) > 0 {
		d.stack = d.stack[:len(d.stack)-1]
	}
}

// parent returns the name of the element enclosing the current one.
func (d *docReader) parent() string {
	if len(d.stack) < 2 {
		return ""
	}
	return d.stack[len(d.stack)-2]
}

func (d *docReader) grandparent() string {
	if len(d.stack) < 3 {
		return ""
	}
	return d.stack[len(d.stack)-3]
}

func (d *docReader) top() frame { return d.frames[len(d.frames)-1] }

func (d *docReader) open(n Node, children *[]Node) {
	d.add(n)
	d.frames = append(d.frames, frame{node: n, children: children})
}

func (d *docReader) closeFrame() {
	if len(d.frames) > 1 {
		d.frames = d.frames[:len(d.frames)-1]
	}
}

func (d *docReader) add(n Node) {
	f := d.top()
	*f.children = append(*f.children, n)
}

func (d *docReader) paragraph() *Paragraph {
	for i := len(d.frames) - 1; i >= 0; i-- {
		if p, ok := d.frames[i].node.(*Paragraph); ok {
			return p
		}
	}
	return nil
}

func (d *docReader) run() *Run {
	if r, ok := d.top().node.(*Run); ok {
		return r
	}
	return nil
}

func (d *docReader) handleStart(t xml.StartElement) {
	switch t.Name.Local {

	// --- skipped subtrees ---
	case "Fallback", "del", "txbxContent", "sectPr", "pPrChange", "rPrChange":
		d.skipDepth = 1

	// --- table ---
	case "tbl":
		tbl := &Table{}
		d.add(tbl)
		d.tables = append(d.tables, tbl)
	case "tr":
		if len(d.tables) > 0 {
			row := &TableRow{}
			tbl := d.tables[len(d.tables)-1]
			tbl.Rows = append(tbl.Rows, row)
			d.rows = append(d.rows, row)
		}
	case "tblHeader":
		if d.parent() == "trPr" && len(d.rows) > 0 {
			d.rows[len(d.rows)-1].Header = isOn(attrVal(t, "val"), true)
		}
	case "tc":
		if len(d.rows) > 0 {
			cell := &TableCell{ColSpan: 1}
			row := d.rows[len(d.rows)-1]
			row.Cells = append(row.Cells, cell)
			d.frames = append(d.frames, frame{node: cell, children: &cell.Children})
		}
	case "gridSpan":
		if d.parent() == "tcPr" {
			if cell, ok := d.top().node.(*TableCell); ok {
				if n, err := strconv.Atoi(attrVal(t, "val")); err == nil && n > 1 {
					cell.ColSpan = n
				}
			}
		}

	// --- paragraph ---
	case "p":
		p := &Paragraph{}
		d.open(p, &p.Children)
	case "pStyle", "jc", "ind", "spacing", "numPr", "ilvl", "numId":
		d.handleParagraphProperty(t)

	// --- hyperlink ---
	case "hyperlink":
		if d.paragraph() != nil {
			h := &Hyperlink{Href: d.hyperlinkTarget(t)}
			d.open(h, &h.Children)
		}

	// --- run ---
	case "r":
		if d.paragraph() != nil {
			r := &Run{}
			d.open(r, &r.Children)
		}
	case "rStyle", "b", "i", "u", "strike", "dstrike", "vertAlign", "sz", "rFonts":
		d.handleRunProperty(t)
	case "tab":
		if d.parent() == "r" && d.run() != nil {
			d.add(&Tab{})
		}
	case "br", "cr":
		if d.parent() == "r" && d.run() != nil {
			d.add(&Break{Type: attrVal(t, "type")})
		}

	// --- images ---
	case "drawing", "pict":
		if d.run() != nil {
			d.inDrawing = true
			d.imageRel = ""
			d.imageAlt = ""
		}
	case "docPr":
		if d.inDrawing {
			d.imageAlt = attrVal(t, "descr")
		}
	case "blip":
		if d.inDrawing {
			d.imageRel = attrVal(t, "embed")
		}
	case "imagedata":
		if d.inDrawing {
			d.imageRel = attrVal(t, "id")
			if d.imageAlt == "" {
				d.imageAlt = attrVal(t, "title")
			}
		}
	}
}

func (d *docReader) handleParagraphProperty(t xml.StartElement) {
	p := d.paragraph()
	if p == nil {
		return
	}
	switch t.Name.Local {
	case "pStyle":
		if d.parent() == "pPr" {
			p.StyleID = attrVal(t, "val")
			p.StyleName = d.pkg.styleName(p.StyleID)
		}
	case "jc":
		if d.parent() == "pPr" {
			p.Alignment = attrVal(t, "val")
		}
	case "ind":
		if d.parent() == "pPr" {
			p.Indent = Indent{
				Start:     firstAttr(t, "start", "left"),
				End:       firstAttr(t, "end", "right"),
				FirstLine: attrVal(t, "firstLine"),
				Hanging:   attrVal(t, "hanging"),
			}
		}
	case "spacing":
		if d.parent() == "pPr" {
			p.Spacing = Spacing{
				Before:   attrVal(t, "before"),
				After:    attrVal(t, "after"),
				Line:     attrVal(t, "line"),
				LineRule: attrVal(t, "lineRule"),
			}
		}
	case "numPr":
		if d.parent() == "pPr" && p.Numbering == nil {
			p.Numbering = &Numbering{}
		}
	case "ilvl":
		if d.parent() == "numPr" && p.Numbering != nil {
			p.Numbering.Level, _ = strconv.Atoi(attrVal(t, "val"))
		}
	case "numId":
		if d.parent() == "numPr" && p.Numbering != nil {
			p.Numbering.NumID = attrVal(t, "val")
		}
	}
}

func (d *docReader) handleRunProperty(t xml.StartElement) {
	if d.parent() != "rPr" || d.grandparent() != "r" {
		return
	}
	r := d.run()
	if r == nil {
		return
	}
	val := attrVal(t, "val")
	switch t.Name.Local {
	case "rStyle":
		r.StyleID = val
		r.StyleName = d.pkg.styleName(val)
	case "b":
		r.Bold = isOn(val, true)
	case "i":
		r.Italic = isOn(val, true)
	case "u":
		r.Underline = val != "" && val != "none"
	case "strike", "dstrike":
		r.Strike = isOn(val, true)
	case "vertAlign":
		if val == "superscript" || val == "subscript" {
			r.VerticalAlign = val
		}
	case "sz":
		r.FontSize = val
	case "rFonts":
		r.Font = firstAttr(t, "ascii", "hAnsi", "cs")
	}
}

func (d *docReader) handleEnd(local string) {
	switch local {
	case "p":
		if p, ok := d.top().node.(*Paragraph); ok {
			d.closeFrame()
			if p.Numbering != nil {
				if p.Numbering.NumID == "" || p.Numbering.NumID == "0" {
					p.Numbering = nil
				} else {
					d.pkg.resolveNumbering(p.Numbering)
				}
			}
		}
	case "r":
		if d.run() != nil {
			d.closeFrame()
		}
	case "hyperlink":
		if _, ok := d.top().node.(*Hyperlink); ok {
			d.closeFrame()
		}
	case "tc":
		if _, ok := d.top().node.(*TableCell); ok {
			d.closeFrame()
		}
	case "tr":
		if len(d.rows) > 0 {
			d.rows = d.rows[:len(d.rows)-1]
		}
	case "tbl":
		if len(d.tables) > 0 {
			d.tables = d.tables[:len(d.tables)-1]
		}
	case "drawing", "pict":
		if d.inDrawing {
			d.inDrawing = false
			if img := d.pkg.image(d.imageRel, d.imageAlt); img != nil {
				d.add(img)
			}
		}
	}
}

func (d *docReader) handleText(text string) {
	if len(d.stack) == 0 || d.stack[len(d.stack)-1] != "t" {
		return
	}
	if d.run() != nil {
		d.add(&Text{Value: text})
	}
}

func (d *docReader) hyperlinkTarget(t xml.StartElement) string {
	href := ""
	if id := attrVal(t, "id"); id != "" {
		href = d.pkg.hyperlink(id)
	}
	if anchor := attrVal(t, "anchor"); anchor != "" {
		href += "#" + anchor
	}
	return href
}

// ---------------------------------------------------------------------------
// Attribute helpers
// ---------------------------------------------------------------------------

func attrVal(t xml.StartElement, localName string) string {
	for _, a := range t.Attr {
		if a.Name.Local == localName {
			return a.Value
		}
	}
	return ""
}

func firstAttr(t xml.StartElement, names ...string) string {
	for _, n := range names {
		if v := attrVal(t, n); v != "" {
			return v
		}
	}
	return ""
}

// isOn interprets an OOXML on/off value; an absent value means dflt.
func isOn(val string, dflt bool) bool {
	switch val {
	case "":
		return dflt
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}
