// Package numbering is the registry of list numbering definitions. Exactly
// two definitions exist per export output: one shared by every bulleted list
// and one shared by every ordered list. The registry is pure configuration;
// nesting depth is carried per list item, not here.
package numbering

import (
	"fmt"

	"github.com/dgallion1/docxport/internal/doc"
)

// Numbering-definition identifiers referenced from list item paragraphs.
const (
	BulletID  = 1
	OrderedID = 2
)

// OOXML defines levels 0 through 8; deeper nesting is clamped at render
// time by the serializer.
const MaxLevel = 8

// Marker describes the glyph scheme applied at one nesting level.
type Marker struct {
	Format string // w:numFmt value
	Text   string // w:lvlText value
}

// ID returns the numbering-definition identifier for a list family.
func ID(f doc.Family) int {
	if f == doc.Ordered {
		return OrderedID
	}
	return BulletID
}

// LevelMarker returns the marker style for a family at a nesting level.
// Ordered lists use decimal, lower-letter then lower-roman; levels beyond
// the defined depths clamp to lower-roman. Bullets use one glyph at every
// level, only indentation varies.
func LevelMarker(f doc.Family, level int) Marker {
	if f == doc.Bullet {
		return Marker{Format: "bullet", Text: "•"}
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	text := fmt.Sprintf("%%%d.", level+1)
	switch level {
	case 0:
		return Marker{Format: "decimal", Text: text}
	case 1:
		return Marker{Format: "lowerLetter", Text: text}
	default:
		return Marker{Format: "lowerRoman", Text: text}
	}
}
