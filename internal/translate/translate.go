// Package translate walks the tagged markup tree and produces the ordered
// block sequence handed to the package serializer. One Translator value is
// created per export; nothing is shared across invocations.
package translate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dgallion1/docxport/internal/doc"
	"github.com/dgallion1/docxport/internal/markup"
	"github.com/dgallion1/docxport/internal/resource"
)

// Mode selects between the two export behaviors the editor historically
// shipped. They differ in inline image sizing, in how an unresolvable
// standalone image degrades, and in whether video stills are produced.
type Mode int

const (
	// ModeStandard drops blocks whose standalone image cannot be resolved
	// and ignores video elements. Inline images render at 550x350.
	ModeStandard Mode = iota
	// ModeMedia substitutes a textual placeholder carrying the declared
	// media type for unresolvable standalone images, and captures a still
	// frame for video elements. Inline images render at 500x350.
	ModeMedia
)

// Fixed display sizes, px. The two call paths always used different widths.
const (
	standardWidth = 550
	mediaWidth    = 500
	imageHeight   = 350
)

// Translator converts one document. It holds no state across calls beyond
// its collaborators, so concurrent exports stay independent.
type Translator struct {
	resolver resource.Resolver
	mode     Mode
	log      *slog.Logger
}

func New(resolver resource.Resolver, mode Mode, log *slog.Logger) *Translator {
	return &Translator{resolver: resolver, mode: mode, log: log}
}

// Document translates the markup tree into the final block sequence, with a
// synthetic title block always first.
func (t *Translator) Document(ctx context.Context, title string, root *markup.Node) []doc.Block {
	blocks := []doc.Block{{
		Kind: doc.Title,
		Runs: []doc.Run{{Text: title}},
	}}
	for _, n := range root.Children {
		blocks = t.block(ctx, n, blocks)
	}
	return blocks
}

func (t *Translator) block(ctx context.Context, n *markup.Node, out []doc.Block) []doc.Block {
	switch n.Kind {
	case markup.Heading:
		runs := t.runs(ctx, n.Children, style{})
		if blank(runs) {
			return out
		}
		return append(out, doc.Block{Kind: doc.Heading, Level: n.Level, Runs: runs})

	case markup.Paragraph:
		runs := t.runs(ctx, n.Children, style{})
		if blank(runs) {
			return out
		}
		return append(out, doc.Block{Kind: doc.Paragraph, Runs: runs})

	case markup.List:
		return t.list(ctx, n, 0, out)

	case markup.Quote:
		runs := t.runs(ctx, n.Children, style{})
		return append(out, doc.Block{Kind: doc.Quote, Runs: runs})

	case markup.Rule:
		return append(out, doc.Block{Kind: doc.ThematicBreak})

	case markup.Image:
		return t.standaloneImage(ctx, n, out)

	case markup.Video:
		if t.mode != ModeMedia {
			return out
		}
		return t.videoStill(ctx, n, out)

	default:
		// Unrecognized kinds are skipped without visiting children.
		return out
	}
}

// standaloneImage emits a block-level image. Resolution failure degrades per
// mode: the block is dropped outright, or replaced with a typed placeholder.
func (t *Translator) standaloneImage(ctx context.Context, n *markup.Node, out []doc.Block) []doc.Block {
	ref := doc.ResourceRef{Src: n.Src, MediaType: n.MediaType}
	data, err := t.resolver.Resolve(ctx, ref)
	if err != nil {
		t.log.Warn("standalone image unresolved", "src", n.Src, "error", err)
		if t.mode == ModeMedia {
			return append(out, placeholder(n.MediaType, "image"))
		}
		return out
	}
	w, h := t.displaySize()
	return append(out, doc.Block{
		Kind: doc.Image,
		Runs: []doc.Run{{Image: data, Width: w, Height: h}},
	})
}

// videoStill captures a representative frame for a video reference. Capture
// is best-effort: failure substitutes a placeholder, never aborts.
func (t *Translator) videoStill(ctx context.Context, n *markup.Node, out []doc.Block) []doc.Block {
	ref := doc.ResourceRef{Src: n.Src, MediaType: n.MediaType}
	still, err := t.resolver.CaptureStill(ctx, ref)
	if err != nil {
		t.log.Warn("video still unavailable", "src", n.Src, "error", err)
		return append(out, placeholder(n.MediaType, "video"))
	}
	w, h := t.displaySize()
	return append(out, doc.Block{
		Kind: doc.Image,
		Runs: []doc.Run{{Image: still, Width: w, Height: h}},
	})
}

// list implements the list translation sub-algorithm: one block per item at
// the inherited level, then each nested list recursed at level+1, pre-order
// depth-first. The family is fixed by the list element's own tag, never
// inherited. No level cap here; the serializer clamps rendering.
func (t *Translator) list(ctx context.Context, n *markup.Node, level int, out []doc.Block) []doc.Block {
	family := doc.Bullet
	if n.Ordered {
		family = doc.Ordered
	}
	for _, item := range n.Children {
		if item.Kind != markup.Item {
			continue
		}
		var nested []*markup.Node
		var leaf []*markup.Node
		for _, c := range item.Children {
			if c.Kind == markup.List {
				nested = append(nested, c)
			} else {
				leaf = append(leaf, c)
			}
		}
		out = append(out, doc.Block{
			Kind:   doc.ListItem,
			Family: family,
			Level:  level,
			Runs:   t.runs(ctx, leaf, style{}),
		})
		for _, sub := range nested {
			out = t.list(ctx, sub, level+1, out)
		}
	}
	return out
}

func (t *Translator) displaySize() (int, int) {
	if t.mode == ModeMedia {
		return mediaWidth, imageHeight
	}
	return standardWidth, imageHeight
}

// blank reports whether a run slice carries no visible content. Whitespace
// between styled spans is preserved as runs, so zero length alone does not
// decide whether a paragraph or heading is empty.
func blank(runs []doc.Run) bool {
	for _, r := range runs {
		if r.IsImage() || strings.TrimSpace(r.Text) != "" {
			return false
		}
	}
	return true
}

func placeholder(mediaType, fallback string) doc.Block {
	mt := mediaType
	if mt == "" {
		mt = fallback
	}
	return doc.Block{
		Kind:      doc.Placeholder,
		MediaType: mt,
		Runs:      []doc.Run{{Text: "[" + mt + "]", Italic: true}},
	}
}
