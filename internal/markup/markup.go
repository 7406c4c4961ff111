// Package markup parses the editor's HTML subset into a closed tagged tree.
// The translation layer matches on Kind exhaustively instead of inspecting
// generic DOM nodes.
package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Kind classifies a markup node.
type Kind int

const (
	Fragment Kind = iota // synthetic root
	Text
	Heading // Level 1..6
	Paragraph
	List // Ordered tells the family
	Item
	Quote
	Rule
	Image
	Video
	Strong
	Emphasis
	Underline
	Break
	Unknown
)

// Node is one element of the tagged tree.
type Node struct {
	Kind      Kind
	Level     int    // headings
	Ordered   bool   // lists
	Text      string // text leaves
	Src       string // images and videos
	MediaType string
	Children  []*Node
}

// Parse reads an HTML document or fragment and returns the tagged tree root.
// Unrecognized elements become Unknown nodes with no children.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	root := &Node{Kind: Fragment}
	body := findBody(doc)
	if body == nil {
		body = doc
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if n := convert(c, false); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

// convert maps one DOM node. inline tells whether the parent holds leaf
// content: there, whitespace-only text separates styled spans and is kept
// verbatim; between block-level children it is layout noise and dropped.
func convert(n *html.Node, inline bool) *Node {
	switch n.Type {
	case html.TextNode:
		if !inline && strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return &Node{Kind: Text, Text: n.Data}
	case html.ElementNode:
		// handled below
	default:
		return nil
	}

	out := &Node{}
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		out.Kind = Heading
		out.Level = int(n.Data[1] - '0')
	case "p", "div":
		out.Kind = Paragraph
	case "ul":
		out.Kind = List
	case "ol":
		out.Kind = List
		out.Ordered = true
	case "li":
		out.Kind = Item
	case "blockquote":
		out.Kind = Quote
	case "hr":
		return &Node{Kind: Rule}
	case "br":
		return &Node{Kind: Break}
	case "img":
		return &Node{Kind: Image, Src: attr(n, "src"), MediaType: mediaType(n)}
	case "video":
		return &Node{Kind: Video, Src: videoSrc(n), MediaType: mediaType(n)}
	case "strong", "b":
		out.Kind = Strong
	case "em", "i":
		out.Kind = Emphasis
	case "u":
		out.Kind = Underline
	case "script", "style":
		return nil
	default:
		// Children deliberately not visited (translation ignores them too).
		return &Node{Kind: Unknown}
	}

	childInline := inline
	switch out.Kind {
	case Heading, Paragraph, Item, Strong, Emphasis, Underline:
		childInline = true
	case List, Quote:
		childInline = false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c, childInline); child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// mediaType returns the declared media type hint for an img/video element.
func mediaType(n *html.Node) string {
	if t := attr(n, "type"); t != "" {
		return t
	}
	return attr(n, "data-mimetype")
}

// videoSrc resolves a video's source either from its src attribute or from
// the first source child element.
func videoSrc(n *html.Node) string {
	if s := attr(n, "src"); s != "" {
		return s
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "source" {
			if s := attr(c, "src"); s != "" {
				return s
			}
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
