package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// ConvertMarkdown renders Markdown source to the HTML subset the exporter
// understands, so Markdown documents travel through the same parse step.
func ConvertMarkdown(src []byte) ([]byte, error) {
	md := goldmark.New()
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}
