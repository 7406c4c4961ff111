package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/dgallion1/docxport/internal/doc"
	"github.com/dgallion1/docxport/internal/numbering"
)

// Fixed layout constants, twips.
const (
	quoteIndent = 720
	listIndent  = 720
	listHanging = 360
)

// Fixed inter-block spacing per kind (before/after, twips). Not
// user-configurable.
var blockSpacing = map[doc.BlockKind][2]int{
	doc.Title:         {0, 240},
	doc.Heading:       {240, 120},
	doc.Paragraph:     {0, 120},
	doc.ListItem:      {0, 60},
	doc.Quote:         {120, 120},
	doc.ThematicBreak: {120, 120},
	doc.Image:         {120, 120},
	doc.Placeholder:   {0, 120},
}

// documentXML renders the block sequence into word/document.xml. Media
// parts are consumed in the same order collectMedia assigned them, keeping
// drawing references and relationship IDs aligned.
func documentXML(blocks []doc.Block, media []mediaPart) *etree.Document {
	d := newXMLDoc()
	root := d.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:wp", nsWP)
	root.CreateAttr("xmlns:a", nsA)
	root.CreateAttr("xmlns:pic", nsPic)
	body := root.CreateElement("w:body")

	next := 0 // next media part index
	for _, b := range blocks {
		p := body.CreateElement("w:p")
		pPr := p.CreateElement("w:pPr")
		applyParagraphProps(pPr, b)
		for _, r := range b.Runs {
			if r.IsImage() {
				writeImageRun(p, r, media[next], next)
				next++
				continue
			}
			writeTextRun(p, r)
		}
	}
	return d
}

func applyParagraphProps(pPr *etree.Element, b doc.Block) {
	switch b.Kind {
	case doc.Title:
		pStyle(pPr, "Title")
	case doc.Heading:
		lvl := b.Level
		if lvl < 1 {
			lvl = 1
		}
		if lvl > 6 {
			lvl = 6
		}
		pStyle(pPr, "Heading"+strconv.Itoa(lvl))
	case doc.ListItem:
		pStyle(pPr, "ListParagraph")
		numPr := pPr.CreateElement("w:numPr")
		lvl := b.Level
		if lvl > numbering.MaxLevel {
			lvl = numbering.MaxLevel
		}
		numPr.CreateElement("w:ilvl").CreateAttr("w:val", strconv.Itoa(lvl))
		numPr.CreateElement("w:numId").CreateAttr("w:val", strconv.Itoa(numbering.ID(b.Family)))
	case doc.Quote:
		pStyle(pPr, "Quote")
		pPr.CreateElement("w:ind").CreateAttr("w:left", strconv.Itoa(quoteIndent))
	case doc.ThematicBreak:
		// A rule is an empty paragraph with a bottom border.
		bdr := pPr.CreateElement("w:pBdr")
		bottom := bdr.CreateElement("w:bottom")
		bottom.CreateAttr("w:val", "single")
		bottom.CreateAttr("w:sz", "6")
		bottom.CreateAttr("w:space", "1")
		bottom.CreateAttr("w:color", "auto")
	}

	sp := blockSpacing[b.Kind]
	spacing := pPr.CreateElement("w:spacing")
	spacing.CreateAttr("w:before", strconv.Itoa(sp[0]))
	spacing.CreateAttr("w:after", strconv.Itoa(sp[1]))
}

func pStyle(pPr *etree.Element, id string) {
	pPr.CreateElement("w:pStyle").CreateAttr("w:val", id)
}

// writeTextRun emits one styled text run. Embedded newlines become explicit
// line breaks.
func writeTextRun(p *etree.Element, r doc.Run) {
	run := p.CreateElement("w:r")
	if r.Bold || r.Italic || r.Underline {
		rPr := run.CreateElement("w:rPr")
		if r.Bold {
			rPr.CreateElement("w:b")
		}
		if r.Italic {
			rPr.CreateElement("w:i")
		}
		if r.Underline {
			rPr.CreateElement("w:u").CreateAttr("w:val", "single")
		}
	}
	segments := strings.Split(r.Text, "\n")
	for i, seg := range segments {
		if i > 0 {
			run.CreateElement("w:br")
		}
		if seg == "" {
			continue
		}
		t := run.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(seg)
	}
}

// writeImageRun emits the drawing markup anchoring one embedded media part.
func writeImageRun(p *etree.Element, r doc.Run, m mediaPart, index int) {
	cx := strconv.Itoa(r.Width * emuPerPx)
	cy := strconv.Itoa(r.Height * emuPerPx)
	id := strconv.Itoa(index + 1)

	run := p.CreateElement("w:r")
	drawing := run.CreateElement("w:drawing")
	inline := drawing.CreateElement("wp:inline")
	for _, k := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(k, "0")
	}
	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", cx)
	extent.CreateAttr("cy", cy)
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", id)
	docPr.CreateAttr("name", m.name)

	graphic := inline.CreateElement("a:graphic")
	graphicData := graphic.CreateElement("a:graphicData")
	graphicData.CreateAttr("uri", nsPic)

	pc := graphicData.CreateElement("pic:pic")
	nv := pc.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", id)
	cNvPr.CreateAttr("name", m.name)
	nv.CreateElement("pic:cNvPicPr")

	blipFill := pc.CreateElement("pic:blipFill")
	blip := blipFill.CreateElement("a:blip")
	blip.CreateAttr("r:embed", m.rel)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pc.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", cx)
	ext.CreateAttr("cy", cy)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
}
