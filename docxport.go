// Package docxport converts rich-text documents (an HTML subset produced by
// the editor, or Markdown) into word-processing packages (.docx). The whole
// conversion runs as one sequential pass per call: parse, translate blocks,
// resolve media in document order, serialize the package.
package docxport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gosimple/slug"

	"github.com/dgallion1/docxport/internal/docx"
	"github.com/dgallion1/docxport/internal/markup"
	"github.com/dgallion1/docxport/internal/resource"
	"github.com/dgallion1/docxport/internal/translate"
)

// Mode selects the export behavior; see the translate package for the
// difference between the two historical paths.
type Mode = translate.Mode

const (
	// ModeStandard drops unresolvable standalone images and ignores video.
	ModeStandard = translate.ModeStandard
	// ModeMedia substitutes typed placeholders and captures video stills.
	ModeMedia = translate.ModeMedia
)

// Options configures an Exporter. Zero values take defaults.
type Options struct {
	Mode Mode

	// FetchTimeout bounds each individual media fetch.
	FetchTimeout time.Duration
	// CaptureTimeout bounds video still-frame extraction.
	CaptureTimeout time.Duration
	// JPEGQuality is used when encoding captured stills.
	JPEGQuality int
	// UntitledName replaces a missing document title; deployments localize
	// it.
	UntitledName string
	// FFmpegPath overrides the ffmpeg binary used for frame extraction.
	FFmpegPath string

	// Resolver overrides media resolution, mainly for tests.
	Resolver resource.Resolver
	Logger   *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Mode:           ModeStandard,
		FetchTimeout:   30 * time.Second,
		CaptureTimeout: 5 * time.Second,
		JPEGQuality:    85,
		UntitledName:   "Untitled Document",
	}
}

func (o *Options) applyDefaults() {
	def := DefaultOptions()
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = def.FetchTimeout
	}
	if o.CaptureTimeout <= 0 {
		o.CaptureTimeout = def.CaptureTimeout
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = def.JPEGQuality
	}
	if o.UntitledName == "" {
		o.UntitledName = def.UntitledName
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Result is a fully assembled package ready for delivery.
type Result struct {
	Filename string
	Data     []byte
}

// Saver is the platform "offer file to user" primitive.
type Saver interface {
	Save(filename string, data []byte) error
}

// Exporter converts documents. It is safe for concurrent use: every call
// owns its private data model and there is no cross-call state.
type Exporter struct {
	opts     Options
	resolver resource.Resolver
	log      *slog.Logger
}

func New(opts Options) *Exporter {
	opts.applyDefaults()
	res := opts.Resolver
	if res == nil {
		res = resource.NewClient(resource.Config{
			FetchTimeout:   opts.FetchTimeout,
			CaptureTimeout: opts.CaptureTimeout,
			FFmpegPath:     opts.FFmpegPath,
			JPEGQuality:    opts.JPEGQuality,
		}, opts.Logger)
	}
	return &Exporter{opts: opts, resolver: res, log: opts.Logger}
}

// Export converts the HTML body into a package. Media failures degrade
// per-block and never abort the export; only package assembly itself can
// fail.
func (e *Exporter) Export(ctx context.Context, title string, body io.Reader) (*Result, error) {
	root, err := markup.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	if title == "" {
		title = e.opts.UntitledName
	}

	now := time.Now()
	tr := translate.New(e.resolver, e.opts.Mode, e.log)
	blocks := tr.Document(ctx, title, root)

	data, err := docx.Serialize(blocks, title, now, e.log)
	if err != nil {
		return nil, fmt.Errorf("export %q: %w", title, err)
	}

	name := fmt.Sprintf("%s-%s.docx", safeName(title, e.opts.UntitledName), now.Format("2006-01-02"))
	e.log.Info("exported document", "title", title, "filename", name, "blocks", len(blocks), "bytes", len(data))
	return &Result{Filename: name, Data: data}, nil
}

// ExportMarkdown renders Markdown to the HTML subset first, then exports it
// through the same path.
func (e *Exporter) ExportMarkdown(ctx context.Context, title string, src []byte) (*Result, error) {
	html, err := markup.ConvertMarkdown(src)
	if err != nil {
		return nil, err
	}
	return e.Export(ctx, title, bytes.NewReader(html))
}

// ExportAndSave performs the save side effect after successful assembly
// only; on failure no partial file is produced.
func (e *Exporter) ExportAndSave(ctx context.Context, title string, body io.Reader, s Saver) (*Result, error) {
	res, err := e.Export(ctx, title, body)
	if err != nil {
		return nil, err
	}
	if err := s.Save(res.Filename, res.Data); err != nil {
		return nil, fmt.Errorf("save %s: %w", res.Filename, err)
	}
	return res, nil
}

// safeName slugs the title for use in a filename, falling back when the
// slug comes out empty.
func safeName(title, fallback string) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return slug.Make(fallback)
}
