// Package basehtml is a structural DOCX → HTML transformer. It reads
// word/document.xml into a paragraph/run tree, lets callers rewrite every
// paragraph and run through transform hooks, and writes plain semantic HTML:
// headings, paragraphs, lists, tables, links and images. It carries no inline
// styling of its own; attribute values are kept exactly as they appear in the
// package so callers can interpret them.
package basehtml

// Node is any element of the document tree.
type Node interface {
	isNode()
}

// Document is the root of the tree: a sequence of block nodes.
type Document struct {
	Children []Node
}

// Indent holds raw w:ind attribute values (twips).
type Indent struct {
	Start     string
	End       string
	FirstLine string
	Hanging   string
}

// Spacing holds raw w:spacing attribute values.
type Spacing struct {
	Before   string
	After    string
	Line     string
	LineRule string
}

// Numbering places a paragraph in a list.
type Numbering struct {
	NumID   string
	Level   int
	Ordered bool
}

// Paragraph is a w:p element.
type Paragraph struct {
	StyleID   string
	StyleName string
	Alignment string // raw w:jc value
	Indent    Indent
	Spacing   Spacing
	Numbering *Numbering
	Children  []Node
}

// Run is a w:r element. FontSize is the raw w:sz value in half-points and
// Font the first of rFonts ascii/hAnsi/cs.
type Run struct {
	StyleID       string
	StyleName     string
	Bold          bool
	Italic        bool
	Underline     bool
	Strike        bool
	VerticalAlign string // superscript, subscript or ""
	FontSize      string
	Font          string
	Children      []Node
}

// Text is literal run text.
type Text struct {
	Value string
}

// Tab is a w:tab inside a run.
type Tab struct{}

// Break is a w:br; Type is "", "textWrapping", "page" or "column".
type Break struct {
	Type string
}

// Image is an embedded picture.
type Image struct {
	ContentType string
	AltText     string
	Data        []byte
}

// Hyperlink wraps runs that link to Href.
type Hyperlink struct {
	Href     string
	Children []Node
}

// Table is a w:tbl element.
type Table struct {
	Rows []*TableRow
}

// TableRow is a w:tr element.
type TableRow struct {
	Header bool
	Cells  []*TableCell
}

// TableCell is a w:tc element holding block nodes.
type TableCell struct {
	ColSpan  int
	Children []Node
}

func (*Paragraph) isNode() {}
func (*Run) isNode()       {}
func (*Text) isNode()      {}
func (*Tab) isNode()       {}
func (*Break) isNode()     {}
func (*Image) isNode()     {}
func (*Hyperlink) isNode() {}
func (*Table) isNode()     {}
func (*TableRow) isNode()  {}
func (*TableCell) isNode() {}

// Runs returns the runs of the paragraph, including those inside hyperlinks,
// in document order.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case *Run:
				out = append(out, n)
			case *Hyperlink:
				walk(n.Children)
			}
		}
	}
	walk(p.Children)
	return out
}

// hasContent reports whether the nodes render anything visible.
func hasContent(nodes []Node) bool {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			if n.Value != "" {
				return true
			}
		case *Tab, *Image:
			return true
		case *Break:
			if n.Type == "" || n.Type == "textWrapping" {
				return true
			}
		case *Run:
			if hasContent(n.Children) {
				return true
			}
		case *Hyperlink:
			if hasContent(n.Children) {
				return true
			}
		}
	}
	return false
}
