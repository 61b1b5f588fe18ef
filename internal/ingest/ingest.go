// Package ingest validates raw attachment bytes from the file picker or the
// clipboard and turns them into image attachments. Validation happens here,
// once, at the boundary: stored attachments are trusted downstream.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"hazreport/internal/model"
)

// MaxAttachmentSize bounds image payloads at 10 MiB. Text attachments are
// unbounded.
const MaxAttachmentSize = 10 << 20

// supportedExtensions lists the accepted picked-file extensions (without dot).
var supportedExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "bmp"}

// ErrTooLarge rejects payloads over MaxAttachmentSize.
var ErrTooLarge = errors.New("attachment exceeds the 10 MiB size limit")

// ErrUnsupportedFormat rejects files whose extension is not an accepted
// image type.
var ErrUnsupportedFormat = errors.New("unsupported attachment format")

// FromFile validates a picked file's extension and size and returns an image
// attachment. No attachment is produced on failure.
func FromFile(path string, data []byte) (model.ScreenshotContent, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	supported := false
	for _, e := range supportedExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		return model.ScreenshotContent{}, fmt.Errorf("%w: %q (accepted: %s)",
			ErrUnsupportedFormat, ext, strings.Join(supportedExtensions, ", "))
	}
	if len(data) > MaxAttachmentSize {
		return model.ScreenshotContent{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	return model.ImageContent(data), nil
}

// FromClipboard validates clipboard image bytes and returns an image
// attachment. The clipboard supplies decoded image data directly, so only
// the size bound applies.
func FromClipboard(data []byte) (model.ScreenshotContent, error) {
	if len(data) > MaxAttachmentSize {
		return model.ScreenshotContent{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	return model.ImageContent(data), nil
}
