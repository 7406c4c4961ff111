// Package resource materializes visual media references into byte buffers.
// References are either self-contained data URIs or externally fetchable
// handles (HTTP or local file). Resolution happens exactly once per
// encounter, sequentially, with no retry.
package resource

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dgallion1/docxport/internal/doc"
)

// Failure classes, matched with errors.Is.
var (
	ErrDecode  = errors.New("malformed embedded payload")
	ErrFetch   = errors.New("resource unreachable")
	ErrCapture = errors.New("still frame capture failed")
)

// Resolver produces raw media bytes for a reference. CaptureStill is
// best-effort: callers treat failure as "no preview available".
type Resolver interface {
	Resolve(ctx context.Context, ref doc.ResourceRef) ([]byte, error)
	CaptureStill(ctx context.Context, ref doc.ResourceRef) ([]byte, error)
}

// Config controls fetch and capture behavior.
type Config struct {
	FetchTimeout   time.Duration
	CaptureTimeout time.Duration
	FFmpegPath     string
	JPEGQuality    int
}

// Client is the default Resolver backed by net/http and ffmpeg.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		log: log,
	}
}

// Resolve materializes the full media body as a byte buffer.
func (c *Client) Resolve(ctx context.Context, ref doc.ResourceRef) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref.Src, "data:"):
		return decodeDataURI(ref.Src)
	case strings.HasPrefix(ref.Src, "http:"), strings.HasPrefix(ref.Src, "https:"):
		return c.fetch(ctx, ref.Src)
	case strings.HasPrefix(ref.Src, "file:"):
		return readLocal(localPath(ref.Src))
	case ref.Src == "":
		return nil, fmt.Errorf("%w: empty reference", ErrFetch)
	case !strings.Contains(ref.Src, ":"):
		// Bare path: ephemeral local handle.
		return readLocal(ref.Src)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme in %q", ErrFetch, ref.Src)
	}
}

// decodeDataURI decodes the base64 body of a data: reference.
func decodeDataURI(src string) ([]byte, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: data uri has no body", ErrDecode)
	}
	header, body := src[len("data:"):comma], src[comma+1:]
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: data uri is not base64", ErrDecode)
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: fetch %s: status %d: %s", ErrFetch, url, resp.StatusCode, string(respBody))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	c.log.Debug("fetched resource", "url", url, "bytes", len(data))
	return data, nil
}

// localPath extracts the filesystem path from a file: reference. All
// RFC 8089 spellings resolve to the same path: file:///p, file:/p and
// file://localhost/p.
func localPath(src string) string {
	u, err := url.Parse(src)
	if err != nil || u.Path == "" {
		return strings.TrimPrefix(src, "file://")
	}
	return u.Path
}

func readLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}
