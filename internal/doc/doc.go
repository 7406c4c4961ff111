// Package doc holds the transient export data model: styled runs, document
// blocks and resource references. Everything here is built in one pass per
// export and discarded after serialization.
package doc

// Run is a leaf content unit: either a span of uniformly styled text or an
// embedded image with a fixed display size.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool

	// Image fields. When Image is non-nil the text fields are unused.
	Image  []byte
	Width  int // display width, px
	Height int // display height, px
}

// IsImage reports whether the run carries image bytes.
func (r Run) IsImage() bool { return r.Image != nil }

// BlockKind identifies the paragraph-equivalent unit a Block renders as.
type BlockKind int

const (
	Title BlockKind = iota // synthetic, always first
	Heading
	Paragraph
	ListItem
	Quote
	ThematicBreak
	Image // standalone block-level image
	Placeholder
)

// Family is the bullet-vs-ordered classification shared by every list of
// that kind within one export.
type Family int

const (
	Bullet Family = iota
	Ordered
)

// Block is one paragraph-equivalent unit in output order.
type Block struct {
	Kind   BlockKind
	Runs   []Run
	Level  int    // heading level (1..6) or list nesting depth (0-based)
	Family Family // list items only
	// MediaType is the declared media type shown by placeholder blocks
	// substituted for unresolvable resources.
	MediaType string
}

// ResourceRef identifies visual media: either a self-contained data URI or
// an externally fetchable handle, plus the declared media type hint.
type ResourceRef struct {
	Src       string
	MediaType string
}
