// Package ooxml builds the style context of a DOCX package: the declared
// paragraph and character styles of word/styles.xml, the page margins of the
// first section, and the inheritance resolution over w:basedOn chains.
package ooxml

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Package part names read by LoadContext.
const (
	StylesPart   = "word/styles.xml"
	DocumentPart = "word/document.xml"
)

// Indent holds paragraph indentation in points. A nil field is "inherit".
type Indent struct {
	Start     *float64
	End       *float64
	FirstLine *float64
	Hanging   *float64
}

// Spacing holds paragraph spacing. Before and After are points; Line is the
// raw w:line value whose unit depends on LineRule (see LineHeight).
type Spacing struct {
	Before   *float64
	After    *float64
	Line     *float64
	LineRule string
}

// RunFormatting is the character formatting the converter reproduces.
type RunFormatting struct {
	FontSize   *float64 // points
	FontFamily string
}

// ParagraphStyle is one w:style of type "paragraph".
type ParagraphStyle struct {
	ID        string
	BasedOn   string
	Indent    Indent
	Spacing   Spacing
	Alignment string // raw w:jc value
	Run       RunFormatting
}

// CharacterStyle is one w:style of type "character".
type CharacterStyle struct {
	ID      string
	BasedOn string
	Run     RunFormatting
}

// SectionMargins are the page margins of the first section, in points.
type SectionMargins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Context is the style table of one document. It is built once per
// conversion; resolution results are cached lazily and never invalidated.
type Context struct {
	paragraphs       map[string]*ParagraphStyle
	characters       map[string]*CharacterStyle
	defaultParagraph string
	defaultCharacter string

	resolvedParagraphs map[string]ResolvedParagraphStyle
	resolvedCharacters map[string]RunFormatting

	// Margins is nil when the document declares no w:pgMar.
	Margins *SectionMargins
}

// NewContext returns an empty context: no styles, no margins.
func NewContext() *Context {
	return &Context{
		paragraphs:         make(map[string]*ParagraphStyle),
		characters:         make(map[string]*CharacterStyle),
		resolvedParagraphs: make(map[string]ResolvedParagraphStyle),
		resolvedCharacters: make(map[string]RunFormatting),
	}
}

// DefaultParagraphStyle returns the id of the w:default="1" paragraph style.
func (c *Context) DefaultParagraphStyle() string { return c.defaultParagraph }

// DefaultCharacterStyle returns the id of the w:default="1" character style.
func (c *Context) DefaultCharacterStyle() string { return c.defaultCharacter }

// ParagraphStyle returns the declared paragraph style with the given id.
func (c *Context) ParagraphStyle(id string) (*ParagraphStyle, bool) {
	s, ok := c.paragraphs[id]
	return s, ok
}

// CharacterStyle returns the declared character style with the given id.
func (c *Context) CharacterStyle(id string) (*CharacterStyle, bool) {
	s, ok := c.characters[id]
	return s, ok
}

// LoadContext reads the style context out of a DOCX archive. A missing part
// or unparseable XML is logged and yields an empty context; conversion then
// proceeds with direct formatting only.
func LoadContext(zr *zip.Reader, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("styles")

	stylesXML, err := ReadPart(zr, StylesPart)
	if err != nil {
		log.Warn("style context unavailable, using direct formatting only", zap.Error(err))
		return NewContext()
	}
	documentXML, err := ReadPart(zr, DocumentPart)
	if err != nil {
		log.Warn("style context unavailable, using direct formatting only", zap.Error(err))
		return NewContext()
	}

	ctx, err := ParseContext(stylesXML, documentXML)
	if err != nil {
		log.Warn("style context unavailable, using direct formatting only", zap.Error(err))
		return NewContext()
	}
	log.Debug("style context loaded",
		zap.Int("paragraph_styles", len(ctx.paragraphs)),
		zap.Int("character_styles", len(ctx.characters)),
		zap.Bool("section_margins", ctx.Margins != nil))
	return ctx
}

// ReadPart returns the decompressed bytes of the named archive entry.
func ReadPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found in package", name)
}

// ParseContext builds a context from the raw styles.xml and document.xml parts.
// documentXML may be nil, in which case no section margins are captured.
func ParseContext(stylesXML, documentXML []byte) (*Context, error) {
	ctx := NewContext()

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(stylesXML); err != nil {
		return nil, fmt.Errorf("parse %s: %w", StylesPart, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse %s: no root element", StylesPart)
	}

	for _, el := range root.SelectElements("style") {
		ctx.addStyle(el)
	}

	if documentXML != nil {
		margins, err := parseSectionMargins(documentXML)
		if err != nil {
			return nil, err
		}
		ctx.Margins = margins
	}
	return ctx, nil
}

func (c *Context) addStyle(el *etree.Element) {
	kind := el.SelectAttrValue("type", "")
	id := el.SelectAttrValue("styleId", "")
	if kind == "" || id == "" {
		return
	}
	basedOn := childVal(el, "basedOn")
	isDefault := isOn(el.SelectAttrValue("default", ""))

	switch kind {
	case "paragraph":
		s := &ParagraphStyle{ID: id, BasedOn: basedOn}
		if ppr := el.SelectElement("pPr"); ppr != nil {
			s.Indent = indentFromElement(ppr.SelectElement("ind"))
			s.Spacing = spacingFromElement(ppr.SelectElement("spacing"))
			s.Alignment = childVal(ppr, "jc")
		}
		s.Run = runFormattingFromElement(el.SelectElement("rPr"))
		c.paragraphs[id] = s
		if isDefault {
			c.defaultParagraph = id
		}
	case "character":
		s := &CharacterStyle{ID: id, BasedOn: basedOn}
		s.Run = runFormattingFromElement(el.SelectElement("rPr"))
		c.characters[id] = s
		if isDefault {
			c.defaultCharacter = id
		}
	}
}

// parseSectionMargins reads w:pgMar of the first w:sectPr in document order.
func parseSectionMargins(documentXML []byte) (*SectionMargins, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(documentXML); err != nil {
		return nil, fmt.Errorf("parse %s: %w", DocumentPart, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	sectPr := firstDescendant(root, "sectPr")
	if sectPr == nil {
		return nil, nil
	}
	pgMar := sectPr.SelectElement("pgMar")
	if pgMar == nil {
		return nil, nil
	}

	var m SectionMargins
	var found bool
	for _, side := range []struct {
		attr string
		dst  *float64
	}{
		{"top", &m.Top},
		{"bottom", &m.Bottom},
		{"left", &m.Left},
		{"right", &m.Right},
	} {
		if v, ok := TwipsToPt(pgMar.SelectAttrValue(side.attr, "")); ok {
			*side.dst = v
			found = true
		}
	}
	if !found {
		return nil, nil
	}
	return &m, nil
}

// ---------------------------------------------------------------------------
// Attribute helpers (shared with direct formatting)
// ---------------------------------------------------------------------------

// IndentFromAttrs builds an Indent from raw w:ind attribute values in twips.
func IndentFromAttrs(start, end, firstLine, hanging string) Indent {
	return Indent{
		Start:     twipsPtr(start),
		End:       twipsPtr(end),
		FirstLine: twipsPtr(firstLine),
		Hanging:   twipsPtr(hanging),
	}
}

// SpacingFromAttrs builds a Spacing from raw w:spacing attribute values.
func SpacingFromAttrs(before, after, line, lineRule string) Spacing {
	s := Spacing{
		Before: twipsPtr(before),
		After:  twipsPtr(after),
	}
	if v, ok := parseNumber(line); ok {
		s.Line = &v
		s.LineRule = lineRule
	}
	return s
}

// RunFormattingFromAttrs builds RunFormatting from a raw w:sz value and a font name.
func RunFormattingFromAttrs(sz, font string) RunFormatting {
	var r RunFormatting
	if v, ok := HalfPointsToPt(sz); ok {
		r.FontSize = &v
	}
	r.FontFamily = font
	return r
}

func indentFromElement(el *etree.Element) Indent {
	if el == nil {
		return Indent{}
	}
	return IndentFromAttrs(
		firstAttr(el, "start", "left"),
		firstAttr(el, "end", "right"),
		el.SelectAttrValue("firstLine", ""),
		el.SelectAttrValue("hanging", ""),
	)
}

func spacingFromElement(el *etree.Element) Spacing {
	if el == nil {
		return Spacing{}
	}
	return SpacingFromAttrs(
		el.SelectAttrValue("before", ""),
		el.SelectAttrValue("after", ""),
		el.SelectAttrValue("line", ""),
		el.SelectAttrValue("lineRule", ""),
	)
}

func runFormattingFromElement(rpr *etree.Element) RunFormatting {
	if rpr == nil {
		return RunFormatting{}
	}
	var font string
	if fonts := rpr.SelectElement("rFonts"); fonts != nil {
		font = firstAttr(fonts, "ascii", "hAnsi", "cs")
	}
	return RunFormattingFromAttrs(childVal(rpr, "sz"), font)
}

func twipsPtr(s string) *float64 {
	v, ok := TwipsToPt(s)
	if !ok {
		return nil
	}
	return &v
}

// childVal returns the w:val attribute of the named child, or "".
func childVal(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return child.SelectAttrValue("val", "")
}

func firstAttr(el *etree.Element, keys ...string) string {
	for _, k := range keys {
		if v := el.SelectAttrValue(k, ""); v != "" {
			return v
		}
	}
	return ""
}

func firstDescendant(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := firstDescendant(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func isOn(v string) bool {
	return v == "1" || v == "true" || v == "on"
}
