package translate

import (
	"context"

	"github.com/dgallion1/docxport/internal/doc"
	"github.com/dgallion1/docxport/internal/markup"
)

// style is the accumulator threaded through inline traversal. It is carried
// by value so sibling subtrees never observe each other's state, and it only
// ever gains flags on the way down.
type style struct {
	bold      bool
	italic    bool
	underline bool
}

// runs walks leaf content in document order and emits one run per text span
// or resolved inline image. Resolver failures omit the run silently.
func (t *Translator) runs(ctx context.Context, nodes []*markup.Node, st style) []doc.Run {
	var out []doc.Run
	for _, n := range nodes {
		switch n.Kind {
		case markup.Text:
			out = append(out, doc.Run{
				Text:      n.Text,
				Bold:      st.bold,
				Italic:    st.italic,
				Underline: st.underline,
			})
		case markup.Strong:
			sub := st
			sub.bold = true
			out = append(out, t.runs(ctx, n.Children, sub)...)
		case markup.Emphasis:
			sub := st
			sub.italic = true
			out = append(out, t.runs(ctx, n.Children, sub)...)
		case markup.Underline:
			sub := st
			sub.underline = true
			out = append(out, t.runs(ctx, n.Children, sub)...)
		case markup.Break:
			out = append(out, doc.Run{
				Text:      "\n",
				Bold:      st.bold,
				Italic:    st.italic,
				Underline: st.underline,
			})
		case markup.Image:
			ref := doc.ResourceRef{Src: n.Src, MediaType: n.MediaType}
			data, err := t.resolver.Resolve(ctx, ref)
			if err != nil {
				t.log.Warn("inline image unresolved", "src", n.Src, "error", err)
				continue
			}
			w, h := t.displaySize()
			out = append(out, doc.Run{Image: data, Width: w, Height: h})
		case markup.Paragraph, markup.Quote, markup.Heading, markup.Item:
			// Container content inside a leaf fragment flattens in place.
			out = append(out, t.runs(ctx, n.Children, st)...)
		case markup.List, markup.Video:
			// Never part of leaf content; handled at block level.
		default:
			// Unknown inline elements are skipped.
		}
	}
	return out
}
