package basehtml

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Warning is a diagnostic produced during conversion. Conversion continues
// past every warning.
type Warning struct {
	Type    string
	Message string
}

// ImageAttributes are the attributes written on an <img> tag.
type ImageAttributes struct {
	Src string
}

// Options configure a conversion.
type Options struct {
	// StyleMap rules are tried before DefaultStyleMap.
	StyleMap []string

	// TransformParagraph is called once per non-empty paragraph, including
	// paragraphs in table cells. Returning nil drops the paragraph.
	TransformParagraph func(*Paragraph) *Paragraph

	// TransformRun is called once per run after TransformParagraph.
	// Returning nil drops the run.
	TransformRun func(*Run) *Run

	// ImageHandler produces the src of each image. The default embeds the
	// image as a base64 data URI.
	ImageHandler func(Image) (ImageAttributes, error)
}

// Result is the HTML body fragment and the warnings raised producing it.
type Result struct {
	HTML     string
	Warnings []Warning
}

// Convert reads the main document part of zr and renders it as HTML.
func Convert(zr *zip.Reader, opts Options) (*Result, error) {
	w := &warnings{}
	p := openPackage(zr, w)

	data, err := p.part(documentPart)
	if err != nil {
		return nil, fmt.Errorf("read main document: %w", err)
	}
	doc, err := readDocument(bytes.NewReader(data), p)
	if err != nil {
		return nil, err
	}

	doc.Children = transformBlocks(doc.Children, opts)

	out := newWriter(parseStyleMap(opts.StyleMap, w), opts.ImageHandler, w)
	out.blocks(doc.Children)
	return &Result{HTML: out.String(), Warnings: w.list()}, nil
}

func transformBlocks(nodes []Node, opts Options) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *Paragraph:
			if !hasContent(n.Children) {
				continue
			}
			p := n
			if opts.TransformParagraph != nil {
				if p = opts.TransformParagraph(p); p == nil {
					continue
				}
			}
			if opts.TransformRun != nil {
				p.Children = transformRuns(p.Children, opts.TransformRun)
			}
			out = append(out, p)
		case *Table:
			for _, row := range n.Rows {
				for _, cell := range row.Cells {
					cell.Children = transformBlocks(cell.Children, opts)
				}
			}
			out = append(out, n)
		default:
			out = append(out, n)
		}
	}
	return out
}

func transformRuns(nodes []Node, fn func(*Run) *Run) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *Run:
			if r := fn(n); r != nil {
				out = append(out, r)
			}
		case *Hyperlink:
			n.Children = transformRuns(n.Children, fn)
			out = append(out, n)
		default:
			out = append(out, n)
		}
	}
	return out
}

// warnings collects messages once each, in the order first raised.
type warnings struct {
	seen  map[string]bool
	items []Warning
}

func (w *warnings) add(msg string) {
	if w.seen == nil {
		w.seen = make(map[string]bool)
	}
	if w.seen[msg] {
		return
	}
	w.seen[msg] = true
	w.items = append(w.items, Warning{Type: "warning", Message: msg})
}

func (w *warnings) list() []Warning {
	return w.items
}
