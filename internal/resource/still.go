package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/disintegration/imaging"

	"github.com/dgallion1/docxport/internal/doc"
)

// Offset into playback at which the representative frame is taken.
const stillOffset = "0.5"

// CaptureStill loads a video resource, grabs the frame at a fixed playback
// offset and returns it encoded as a JPEG still. The whole operation is
// bounded by the configured capture timeout; on timeout or decode failure
// the error matches ErrCapture.
func (c *Client) CaptureStill(ctx context.Context, ref doc.ResourceRef) ([]byte, error) {
	// One budget covers the whole operation: load, frame extraction and
	// decode. A video that never finishes loading must still fail at the
	// configured bound.
	captureCtx, cancel := context.WithTimeout(ctx, c.cfg.CaptureTimeout)
	defer cancel()

	video, err := c.Resolve(captureCtx, ref)
	if err != nil {
		if errors.Is(captureCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrCapture, c.cfg.CaptureTimeout)
		}
		return nil, fmt.Errorf("%w: load video: %v", ErrCapture, err)
	}

	// ffmpeg needs a seekable input, so spill to a temp file.
	tmp, err := os.CreateTemp("", "docxport-video-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", ErrCapture, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(video); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: write temp file: %v", ErrCapture, err)
	}
	tmp.Close()

	frame, err := c.extractFrame(captureCtx, tmpPath)
	if err != nil {
		if errors.Is(captureCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrCapture, c.cfg.CaptureTimeout)
		}
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame: %v", ErrCapture, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.cfg.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode still: %v", ErrCapture, err)
	}
	return buf.Bytes(), nil
}

// extractFrame shells out to ffmpeg for the actual video decode; there is no
// pure-Go decoder for the container formats the editor accepts.
func (c *Client) extractFrame(ctx context.Context, path string) ([]byte, error) {
	ffmpeg := c.cfg.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-ss", stillOffset,
		"-i", path,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "png",
		"pipe:1",
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrCapture, err, firstLine(stderr.Bytes()))
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no frame", ErrCapture)
	}
	return out.Bytes(), nil
}

func firstLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i]
	}
	return b
}
