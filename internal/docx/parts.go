package docx

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/dgallion1/docxport/internal/doc"
	"github.com/dgallion1/docxport/internal/numbering"
)

const (
	nsW    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP   = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA    = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic  = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsW15  = "http://schemas.microsoft.com/office/word/2012/wordml"
	nsCT   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRels = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDoc = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relSettings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

func newXMLDoc() *etree.Document {
	d := etree.NewDocument()
	d.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return d
}

func contentTypes(media []mediaPart) *etree.Document {
	d := newXMLDoc()
	types := d.CreateElement("Types")
	types.CreateAttr("xmlns", nsCT)

	def := func(ext, ct string) {
		e := types.CreateElement("Default")
		e.CreateAttr("Extension", ext)
		e.CreateAttr("ContentType", ct)
	}
	def("rels", "application/vnd.openxmlformats-package.relationships+xml")
	def("xml", "application/xml")
	seen := map[string]bool{}
	for _, m := range media {
		if seen[m.ext] {
			continue
		}
		seen[m.ext] = true
		def(m.ext, m.mime)
	}

	override := func(part, ct string) {
		e := types.CreateElement("Override")
		e.CreateAttr("PartName", part)
		e.CreateAttr("ContentType", ct)
	}
	override("/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	override("/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	override("/word/numbering.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml")
	override("/word/settings.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml")
	override("/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml")
	return d
}

func packageRels() *etree.Document {
	d := newXMLDoc()
	rels := d.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRels)
	rel(rels, "rId1", relOfficeDoc, "word/document.xml")
	rel(rels, "rId2", relCoreProps, "docProps/core.xml")
	return d
}

// documentRels wires the fixed parts and one relationship per media part.
func documentRels(media []mediaPart) *etree.Document {
	d := newXMLDoc()
	rels := d.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRels)
	rel(rels, "rId1", relStyles, "styles.xml")
	rel(rels, "rId2", relNumbering, "numbering.xml")
	rel(rels, "rId3", relSettings, "settings.xml")
	for _, m := range media {
		rel(rels, m.rel, relImage, "media/"+m.name)
	}
	return d
}

func rel(parent *etree.Element, id, typ, target string) {
	e := parent.CreateElement("Relationship")
	e.CreateAttr("Id", id)
	e.CreateAttr("Type", typ)
	e.CreateAttr("Target", target)
}

func coreProps(title string, created time.Time) *etree.Document {
	d := newXMLDoc()
	root := d.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	root.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	root.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	root.CreateElement("dc:title").SetText(title)
	c := root.CreateElement("dcterms:created")
	c.CreateAttr("xsi:type", "dcterms:W3CDTF")
	c.SetText(created.UTC().Format(time.RFC3339))
	return d
}

func settingsXML() *etree.Document {
	d := newXMLDoc()
	root := d.CreateElement("w:settings")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:w15", nsW15)
	id := root.CreateElement("w15:docId")
	id.CreateAttr("w15:val", "{"+uuid.NewString()+"}")
	return d
}

// Heading run sizes in half-points, levels 1..6.
var headingSizes = [...]string{"32", "28", "26", "24", "22", "20"}

func stylesXML() *etree.Document {
	d := newXMLDoc()
	root := d.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	normal := styleEl(root, "Normal", "Normal")
	normal.CreateAttr("w:default", "1")

	title := styleEl(root, "Title", "Title")
	titleRPr := title.CreateElement("w:rPr")
	titleRPr.CreateElement("w:b")
	sz(titleRPr, "40")

	for i, size := range headingSizes {
		name := "Heading" + strconv.Itoa(i+1)
		h := styleEl(root, name, name)
		h.CreateElement("w:basedOn").CreateAttr("w:val", "Normal")
		pPr := h.CreateElement("w:pPr")
		pPr.CreateElement("w:outlineLvl").CreateAttr("w:val", strconv.Itoa(i))
		rPr := h.CreateElement("w:rPr")
		rPr.CreateElement("w:b")
		sz(rPr, size)
	}

	lp := styleEl(root, "ListParagraph", "List Paragraph")
	lp.CreateElement("w:basedOn").CreateAttr("w:val", "Normal")

	q := styleEl(root, "Quote", "Quote")
	q.CreateElement("w:basedOn").CreateAttr("w:val", "Normal")
	qPPr := q.CreateElement("w:pPr")
	ind := qPPr.CreateElement("w:ind")
	ind.CreateAttr("w:left", strconv.Itoa(quoteIndent))
	q.CreateElement("w:rPr").CreateElement("w:i")

	return d
}

func styleEl(root *etree.Element, id, name string) *etree.Element {
	s := root.CreateElement("w:style")
	s.CreateAttr("w:type", "paragraph")
	s.CreateAttr("w:styleId", id)
	s.CreateElement("w:name").CreateAttr("w:val", name)
	return s
}

func sz(rPr *etree.Element, halfPoints string) {
	rPr.CreateElement("w:sz").CreateAttr("w:val", halfPoints)
	rPr.CreateElement("w:szCs").CreateAttr("w:val", halfPoints)
}

// numberingXML renders the registry: one abstract definition per family,
// referenced by the two fixed numbering IDs shared across the whole export.
func numberingXML() *etree.Document {
	d := newXMLDoc()
	root := d.CreateElement("w:numbering")
	root.CreateAttr("xmlns:w", nsW)

	abstractNum(root, 0, doc.Bullet)
	abstractNum(root, 1, doc.Ordered)

	num := func(numID int, abstractID int) {
		n := root.CreateElement("w:num")
		n.CreateAttr("w:numId", strconv.Itoa(numID))
		n.CreateElement("w:abstractNumId").CreateAttr("w:val", strconv.Itoa(abstractID))
	}
	num(numbering.BulletID, 0)
	num(numbering.OrderedID, 1)
	return d
}

func abstractNum(root *etree.Element, id int, family doc.Family) {
	a := root.CreateElement("w:abstractNum")
	a.CreateAttr("w:abstractNumId", strconv.Itoa(id))
	for lvl := 0; lvl <= numbering.MaxLevel; lvl++ {
		m := numbering.LevelMarker(family, lvl)
		l := a.CreateElement("w:lvl")
		l.CreateAttr("w:ilvl", strconv.Itoa(lvl))
		if family == doc.Ordered {
			l.CreateElement("w:start").CreateAttr("w:val", "1")
		}
		l.CreateElement("w:numFmt").CreateAttr("w:val", m.Format)
		l.CreateElement("w:lvlText").CreateAttr("w:val", m.Text)
		l.CreateElement("w:lvlJc").CreateAttr("w:val", "left")
		pPr := l.CreateElement("w:pPr")
		ind := pPr.CreateElement("w:ind")
		ind.CreateAttr("w:left", strconv.Itoa(listIndent*(lvl+1)))
		ind.CreateAttr("w:hanging", strconv.Itoa(listHanging))
	}
}
