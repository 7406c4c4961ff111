// Package docx assembles the final block sequence into a word-processing
// package: a zip container of OOXML parts. It is the only component that
// touches the binary format. Every numbering reference, media part and
// relationship identifier emitted here must resolve within the package.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"

	"github.com/dgallion1/docxport/internal/doc"
)

// ErrAssembly reports an internal invariant violation during packaging. It
// is not recoverable: no partial package is ever produced.
var ErrAssembly = errors.New("package assembly failed")

// EMU per pixel at 96 dpi.
const emuPerPx = 9525

// mediaPart is one embedded image payload. Each image run gets its own
// part, without deduplication.
type mediaPart struct {
	name string // e.g. "image1.png"
	ext  string
	mime string
	data []byte
	rel  string // relationship ID in document.xml.rels
}

// Serialize builds the complete package for the block sequence. The first
// block must be the synthetic title block.
func Serialize(blocks []doc.Block, title string, created time.Time, log *slog.Logger) ([]byte, error) {
	if len(blocks) == 0 || blocks[0].Kind != doc.Title {
		return nil, fmt.Errorf("%w: block sequence has no leading title block", ErrAssembly)
	}

	media := collectMedia(blocks)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{"[Content_Types].xml", contentTypes(media)},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", coreProps(title, created)},
		{"word/document.xml", documentXML(blocks, media)},
		{"word/_rels/document.xml.rels", documentRels(media)},
		{"word/styles.xml", stylesXML()},
		{"word/numbering.xml", numberingXML()},
		{"word/settings.xml", settingsXML()},
	}
	for _, p := range parts {
		if err := writeXMLToZip(zw, p.name, p.doc); err != nil {
			return nil, fmt.Errorf("%w: write %s: %v", ErrAssembly, p.name, err)
		}
	}

	for _, m := range media {
		if err := writeDataToZip(zw, "word/media/"+m.name, m.data); err != nil {
			return nil, fmt.Errorf("%w: write media %s: %v", ErrAssembly, m.name, err)
		}
		log.Debug("wrote media part", "name", m.name, "bytes", len(m.data), "rel", m.rel)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: close container: %v", ErrAssembly, err)
	}
	return buf.Bytes(), nil
}

// collectMedia walks the block sequence in order and assigns every image
// run a distinct media part and relationship ID. rId1..rId3 are reserved
// for the fixed part relationships.
func collectMedia(blocks []doc.Block) []mediaPart {
	var media []mediaPart
	for _, b := range blocks {
		for _, r := range b.Runs {
			if !r.IsImage() {
				continue
			}
			ext, mime := sniffImage(r.Image)
			n := len(media) + 1
			media = append(media, mediaPart{
				name: fmt.Sprintf("image%d.%s", n, ext),
				ext:  ext,
				mime: mime,
				data: r.Image,
				rel:  fmt.Sprintf("rId%d", n+3),
			})
		}
	}
	return media
}

// sniffImage detects the payload's type for the part extension and content
// type, defaulting to PNG when the bytes are unrecognizable.
func sniffImage(data []byte) (ext, mime string) {
	t, err := filetype.Match(data)
	if err != nil || t == filetype.Unknown || t.MIME.Value == "" {
		return "png", "image/png"
	}
	return t.Extension, t.MIME.Value
}

func writeXMLToZip(zw *zip.Writer, name string, d *etree.Document) error {
	data, err := d.WriteToBytes()
	if err != nil {
		return err
	}
	return writeDataToZip(zw, name, data)
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
