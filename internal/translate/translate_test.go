package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/docxport/internal/doc"
	"github.com/dgallion1/docxport/internal/markup"
	"github.com/dgallion1/docxport/internal/resource"
)

// fakeResolver lets tests control media resolution without touching the
// network.
type fakeResolver struct {
	resolve func(ref doc.ResourceRef) ([]byte, error)
	capture func(ref doc.ResourceRef) ([]byte, error)
}

func (f *fakeResolver) Resolve(_ context.Context, ref doc.ResourceRef) ([]byte, error) {
	if f.resolve == nil {
		return nil, resource.ErrFetch
	}
	return f.resolve(ref)
}

func (f *fakeResolver) CaptureStill(_ context.Context, ref doc.ResourceRef) ([]byte, error) {
	if f.capture == nil {
		return nil, resource.ErrCapture
	}
	return f.capture(ref)
}

func translateHTML(t *testing.T, mode Mode, r *fakeResolver, title, input string) []doc.Block {
	t.Helper()
	root, err := markup.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr := New(r, mode, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return tr.Document(context.Background(), title, root)
}

func runText(b doc.Block) string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func TestDocument_EndToEndExample(t *testing.T) {
	input := `<h1>Intro</h1><p>Hello <strong>World</strong></p><ul><li>One</li><li>Two<ul><li>Nested</li></ul></li></ul>`
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "Q1 Report", input)

	if len(blocks) != 6 {
		t.Fatalf("expected title block + 5 content blocks, got %d", len(blocks))
	}

	if blocks[0].Kind != doc.Title || runText(blocks[0]) != "Q1 Report" {
		t.Errorf("expected title block %q, got kind=%d text=%q", "Q1 Report", blocks[0].Kind, runText(blocks[0]))
	}
	if blocks[1].Kind != doc.Heading || blocks[1].Level != 1 || runText(blocks[1]) != "Intro" {
		t.Errorf("expected h1 %q, got %+v", "Intro", blocks[1])
	}

	p := blocks[2]
	if p.Kind != doc.Paragraph || len(p.Runs) != 2 {
		t.Fatalf("expected paragraph with 2 runs, got kind=%d runs=%d", p.Kind, len(p.Runs))
	}
	if p.Runs[0].Text != "Hello " || p.Runs[0].Bold {
		t.Errorf("expected plain run %q, got %+v", "Hello ", p.Runs[0])
	}
	if p.Runs[1].Text != "World" || !p.Runs[1].Bold {
		t.Errorf("expected bold run %q, got %+v", "World", p.Runs[1])
	}

	items := blocks[3:]
	wantItems := []struct {
		text  string
		level int
	}{
		{"One", 0},
		{"Two", 0},
		{"Nested", 1},
	}
	for i, want := range wantItems {
		b := items[i]
		if b.Kind != doc.ListItem {
			t.Fatalf("item %d: expected ListItem, got kind=%d", i, b.Kind)
		}
		if runText(b) != want.text || b.Level != want.level {
			t.Errorf("item %d: expected %q level %d, got %q level %d", i, want.text, want.level, runText(b), b.Level)
		}
		if b.Family != doc.Bullet {
			t.Errorf("item %d: expected bullet family, got %d", i, b.Family)
		}
	}
}

func TestDocument_EmptyBlocksOmitted(t *testing.T) {
	input := `<p></p><h2>  </h2><p>kept</p><hr>`
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", input)

	// Title, "kept" paragraph, thematic break.
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[1].Kind != doc.Paragraph || runText(blocks[1]) != "kept" {
		t.Errorf("expected kept paragraph, got %+v", blocks[1])
	}
	if blocks[2].Kind != doc.ThematicBreak || len(blocks[2].Runs) != 0 {
		t.Errorf("expected run-less thematic break, got %+v", blocks[2])
	}
}

func TestDocument_SpaceBetweenStyledSpansSurvives(t *testing.T) {
	input := `<p><strong>Hello</strong> <em>World</em></p>`
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", input)

	if len(blocks) != 2 {
		t.Fatalf("expected title + paragraph, got %d blocks", len(blocks))
	}
	p := blocks[1]
	if p.Kind != doc.Paragraph || len(p.Runs) != 3 {
		t.Fatalf("expected paragraph with 3 runs, got kind=%d runs=%d", p.Kind, len(p.Runs))
	}
	if got := runText(p); got != "Hello World" {
		t.Errorf("expected joined text %q, got %q", "Hello World", got)
	}
	if !p.Runs[0].Bold || p.Runs[0].Text != "Hello" {
		t.Errorf("expected bold %q, got %+v", "Hello", p.Runs[0])
	}
	if p.Runs[1].Text != " " || p.Runs[1].Bold || p.Runs[1].Italic {
		t.Errorf("expected unstyled space run, got %+v", p.Runs[1])
	}
	if !p.Runs[2].Italic || p.Runs[2].Text != "World" {
		t.Errorf("expected italic %q, got %+v", "World", p.Runs[2])
	}
}

func TestDocument_StyleAccumulatesDownward(t *testing.T) {
	input := `<p><strong>b<em>bi<u>biu</u></em></strong>plain</p>`
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", input)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	runs := blocks[1].Runs
	want := []doc.Run{
		{Text: "b", Bold: true},
		{Text: "bi", Bold: true, Italic: true},
		{Text: "biu", Bold: true, Italic: true, Underline: true},
		{Text: "plain"},
	}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d: %+v", len(want), len(runs), runs)
	}
	for i := range want {
		if !reflect.DeepEqual(runs[i], want[i]) {
			t.Errorf("run %d: expected %+v, got %+v", i, want[i], runs[i])
		}
	}
}

func TestDocument_SiblingsDoNotInheritStyle(t *testing.T) {
	input := `<p><strong>bold</strong><em>italic</em></p>`
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", input)
	runs := blocks[1].Runs
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Bold || runs[0].Italic {
		t.Errorf("first run: expected bold only, got %+v", runs[0])
	}
	if runs[1].Bold || !runs[1].Italic {
		t.Errorf("second run: expected italic only, got %+v", runs[1])
	}
}

func TestList_ThreeLevelOrderedNesting(t *testing.T) {
	input := `<ol><li>a<ol><li>b<ol><li>c</li></ol></li></ol></li></ol>`
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", input)

	items := blocks[1:]
	if len(items) != 3 {
		t.Fatalf("expected 3 list items, got %d", len(items))
	}
	for i, b := range items {
		if b.Kind != doc.ListItem || b.Family != doc.Ordered {
			t.Fatalf("item %d: expected ordered ListItem, got %+v", i, b)
		}
		if b.Level != i {
			t.Errorf("item %d: expected level %d, got %d", i, i, b.Level)
		}
	}
}

func TestList_FamilySwitchesAtNestedLevel(t *testing.T) {
	input := `<ol><li>parent<ul><li>child</li></ul></li><li>sibling</li></ol>`
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", input)

	items := blocks[1:]
	if len(items) != 3 {
		t.Fatalf("expected 3 list items, got %d", len(items))
	}
	if items[0].Family != doc.Ordered || items[0].Level != 0 {
		t.Errorf("parent: expected ordered level 0, got %+v", items[0])
	}
	if items[1].Family != doc.Bullet || items[1].Level != 1 {
		t.Errorf("child: expected bullet level 1, got %+v", items[1])
	}
	if items[2].Family != doc.Ordered || items[2].Level != 0 {
		t.Errorf("sibling: expected ordered level 0 unchanged, got %+v", items[2])
	}
}

func TestInlineImage_ResolvedAtModeSize(t *testing.T) {
	res := &fakeResolver{resolve: func(ref doc.ResourceRef) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}}

	tests := []struct {
		mode  Mode
		width int
	}{
		{ModeStandard, 550},
		{ModeMedia, 500},
	}
	for _, tt := range tests {
		blocks := translateHTML(t, tt.mode, res, "T", `<p>pic: <img src="x.png"></p>`)
		runs := blocks[1].Runs
		if len(runs) != 2 {
			t.Fatalf("mode %d: expected 2 runs, got %d", tt.mode, len(runs))
		}
		img := runs[1]
		if !img.IsImage() {
			t.Fatalf("mode %d: expected image run", tt.mode)
		}
		if img.Width != tt.width || img.Height != 350 {
			t.Errorf("mode %d: expected %dx350, got %dx%d", tt.mode, tt.width, img.Width, img.Height)
		}
	}
}

func TestInlineImage_FailureOmitsRunSilently(t *testing.T) {
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", `<p>before <img src="x.png"> after</p>`)
	runs := blocks[1].Runs
	if len(runs) != 2 {
		t.Fatalf("expected 2 text runs, got %d", len(runs))
	}
	for _, r := range runs {
		if r.IsImage() {
			t.Errorf("no image run expected, got %+v", r)
		}
	}
}

func TestStandaloneImage_FailureByMode(t *testing.T) {
	input := `<p>before</p><img src="x.png" type="image/png"><p>after</p>`

	// Standard mode drops the block.
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", input)
	if len(blocks) != 3 {
		t.Fatalf("standard: expected 3 blocks, got %d", len(blocks))
	}

	// Media mode substitutes a typed placeholder.
	blocks = translateHTML(t, ModeMedia, &fakeResolver{}, "T", input)
	if len(blocks) != 4 {
		t.Fatalf("media: expected 4 blocks, got %d", len(blocks))
	}
	ph := blocks[2]
	if ph.Kind != doc.Placeholder || ph.MediaType != "image/png" {
		t.Errorf("expected image/png placeholder, got %+v", ph)
	}
	if !strings.Contains(runText(ph), "image/png") {
		t.Errorf("placeholder text should carry the media type, got %q", runText(ph))
	}
}

func TestVideo_IgnoredInStandardMode(t *testing.T) {
	called := false
	res := &fakeResolver{capture: func(ref doc.ResourceRef) ([]byte, error) {
		called = true
		return []byte{9}, nil
	}}
	blocks := translateHTML(t, ModeStandard, res, "T", `<video src="v.mp4" type="video/mp4"></video>`)
	if len(blocks) != 1 {
		t.Errorf("expected only the title block, got %d", len(blocks))
	}
	if called {
		t.Errorf("standard mode must not attempt still capture")
	}
}

func TestVideo_StillAndPlaceholderInMediaMode(t *testing.T) {
	res := &fakeResolver{capture: func(ref doc.ResourceRef) ([]byte, error) {
		return []byte{0xFF, 0xD8}, nil
	}}
	blocks := translateHTML(t, ModeMedia, res, "T", `<video src="v.mp4" type="video/mp4"></video>`)
	if len(blocks) != 2 {
		t.Fatalf("expected title + still block, got %d", len(blocks))
	}
	still := blocks[1]
	if still.Kind != doc.Image || len(still.Runs) != 1 || !still.Runs[0].IsImage() {
		t.Fatalf("expected standalone image block, got %+v", still)
	}
	if still.Runs[0].Width != 500 || still.Runs[0].Height != 350 {
		t.Errorf("expected 500x350 still, got %dx%d", still.Runs[0].Width, still.Runs[0].Height)
	}

	// Capture failure degrades to a typed placeholder, never an error.
	failing := &fakeResolver{capture: func(ref doc.ResourceRef) ([]byte, error) {
		return nil, errors.New("decoder stalled")
	}}
	blocks = translateHTML(t, ModeMedia, failing, "T", `<video src="v.mp4" type="video/mp4"></video>`)
	if len(blocks) != 2 || blocks[1].Kind != doc.Placeholder {
		t.Fatalf("expected placeholder block, got %+v", blocks)
	}
	if blocks[1].MediaType != "video/mp4" {
		t.Errorf("expected video/mp4 placeholder, got %q", blocks[1].MediaType)
	}
}

func TestQuote_TranslatesWithRuns(t *testing.T) {
	blocks := translateHTML(t, ModeStandard, &fakeResolver{}, "T", `<blockquote><p>wise words</p></blockquote>`)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[1].Kind != doc.Quote || runText(blocks[1]) != "wise words" {
		t.Errorf("expected quote %q, got %+v", "wise words", blocks[1])
	}
}
