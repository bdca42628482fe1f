package basehtml

// package.go — the parts of a DOCX package the reader consults besides the
// body: relationships (links, images), style names and list formats.

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	documentPart  = "word/document.xml"
	stylesPart    = "word/styles.xml"
	numberingPart = "word/numbering.xml"
	relsPart      = "word/_rels/document.xml.rels"
)

// relationshipsXML represents word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

type pkg struct {
	zr         *zip.Reader
	rels       map[string]relationshipXML
	styleNames map[string]string
	// numId → ilvl → ordered
	listFormats map[string]map[int]bool
	warnings    *warnings
}

func openPackage(zr *zip.Reader, w *warnings) *pkg {
	p := &pkg{
		zr:          zr,
		rels:        make(map[string]relationshipXML),
		styleNames:  make(map[string]string),
		listFormats: make(map[string]map[int]bool),
		warnings:    w,
	}
	p.loadRelationships()
	p.loadStyleNames()
	p.loadNumbering()
	return p
}

func (p *pkg) part(name string) ([]byte, error) {
	for _, f := range p.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", name)
}

func (p *pkg) has(name string) bool {
	for _, f := range p.zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (p *pkg) loadRelationships() {
	if !p.has(relsPart) {
		return
	}
	data, err := p.part(relsPart)
	if err != nil {
		p.warnings.add("could not read relationships: " + err.Error())
		return
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		p.warnings.add("could not parse relationships: " + err.Error())
		return
	}
	for _, r := range rels.Relationships {
		p.rels[r.ID] = r
	}
}

func (p *pkg) loadStyleNames() {
	if !p.has(stylesPart) {
		return
	}
	root := p.etreeRoot(stylesPart)
	if root == nil {
		return
	}
	for _, el := range root.SelectElements("style") {
		id := el.SelectAttrValue("styleId", "")
		if id == "" {
			continue
		}
		if name := el.SelectElement("name"); name != nil {
			p.styleNames[id] = name.SelectAttrValue("val", "")
		}
	}
}

func (p *pkg) loadNumbering() {
	if !p.has(numberingPart) {
		return
	}
	root := p.etreeRoot(numberingPart)
	if root == nil {
		return
	}

	abstract := make(map[string]map[int]bool)
	for _, an := range root.SelectElements("abstractNum") {
		levels := make(map[int]bool)
		for _, lvl := range an.SelectElements("lvl") {
			ilvl, err := strconv.Atoi(lvl.SelectAttrValue("ilvl", ""))
			if err != nil {
				continue
			}
			format := ""
			if nf := lvl.SelectElement("numFmt"); nf != nil {
				format = nf.SelectAttrValue("val", "")
			}
			levels[ilvl] = format != "" && format != "bullet" && format != "none"
		}
		abstract[an.SelectAttrValue("abstractNumId", "")] = levels
	}

	for _, num := range root.SelectElements("num") {
		ref := num.SelectElement("abstractNumId")
		if ref == nil {
			continue
		}
		if levels, ok := abstract[ref.SelectAttrValue("val", "")]; ok {
			p.listFormats[num.SelectAttrValue("numId", "")] = levels
		}
	}
}

func (p *pkg) etreeRoot(name string) *etree.Element {
	data, err := p.part(name)
	if err != nil {
		p.warnings.add("could not read " + name + ": " + err.Error())
		return nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		p.warnings.add("could not parse " + name + ": " + err.Error())
		return nil
	}
	return doc.Root()
}

func (p *pkg) styleName(id string) string {
	if name, ok := p.styleNames[id]; ok {
		return name
	}
	return id
}

func (p *pkg) resolveNumbering(n *Numbering) {
	if levels, ok := p.listFormats[n.NumID]; ok {
		n.Ordered = levels[n.Level]
	}
}

func (p *pkg) hyperlink(relID string) string {
	rel, ok := p.rels[relID]
	if !ok {
		p.warnings.add("could not find hyperlink relationship " + relID)
		return ""
	}
	return rel.Target
}

func (p *pkg) image(relID, alt string) *Image {
	if relID == "" {
		return nil
	}
	rel, ok := p.rels[relID]
	if !ok {
		p.warnings.add("could not find image relationship " + relID)
		return nil
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		p.warnings.add("external image " + rel.Target + " is not embedded")
		return nil
	}

	name := strings.TrimPrefix(rel.Target, "/")
	if !strings.HasPrefix(rel.Target, "/") {
		name = path.Join("word", rel.Target)
	}
	data, err := p.part(name)
	if err != nil {
		p.warnings.add("could not read image: " + err.Error())
		return nil
	}
	return &Image{
		ContentType: imageContentType(name),
		AltText:     alt,
		Data:        data,
	}
}

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
	".emf":  "image/x-emf",
	".wmf":  "image/x-wmf",
}

func imageContentType(name string) string {
	if ct, ok := imageContentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
