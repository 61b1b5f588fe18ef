package model

import (
	"encoding/json"
	"fmt"
)

// ScreenshotKind discriminates the two attachment payload forms.
type ScreenshotKind string

const (
	// KindText is a free-text annotation standing in for an image.
	KindText ScreenshotKind = "text"
	// KindImage is raw image bytes captured from a file or the clipboard.
	KindImage ScreenshotKind = "image"
)

// ScreenshotContent is one evidence attachment: either a text note or image
// bytes, never both. The zero value is an empty text attachment.
//
// Image payloads are bounded at ingestion (see internal/ingest); stored
// values are trusted as-is.
type ScreenshotContent struct {
	Kind  ScreenshotKind
	Text  string
	Image []byte
}

// TextContent builds a text attachment.
func TextContent(s string) ScreenshotContent {
	return ScreenshotContent{Kind: KindText, Text: s}
}

// ImageContent builds an image attachment. The caller owns validation.
func ImageContent(data []byte) ScreenshotContent {
	return ScreenshotContent{Kind: KindImage, Image: data}
}

type screenshotWire struct {
	Type    ScreenshotKind  `json:"type"`
	Content json.RawMessage `json:"content"`
}

// MarshalJSON encodes the union as {"type": ..., "content": ...}.
// Image bytes use the standard base64 []byte encoding.
func (s ScreenshotContent) MarshalJSON() ([]byte, error) {
	var content []byte
	var err error
	switch s.Kind {
	case KindImage:
		content, err = json.Marshal(s.Image)
	case KindText, "":
		content, err = json.Marshal(s.Text)
	default:
		return nil, fmt.Errorf("marshal screenshot: unknown kind %q", s.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal screenshot: %w", err)
	}
	kind := s.Kind
	if kind == "" {
		kind = KindText
	}
	return json.Marshal(screenshotWire{Type: kind, Content: content})
}

// UnmarshalJSON decodes the tagged form. An unknown tag is an error rather
// than a silent text fallback, so corrupt documents fail loudly at load.
func (s *ScreenshotContent) UnmarshalJSON(data []byte) error {
	var w screenshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal screenshot: %w", err)
	}
	switch w.Type {
	case KindText:
		var text string
		if err := json.Unmarshal(w.Content, &text); err != nil {
			return fmt.Errorf("unmarshal screenshot text: %w", err)
		}
		*s = ScreenshotContent{Kind: KindText, Text: text}
		return nil
	case KindImage:
		var img []byte
		if err := json.Unmarshal(w.Content, &img); err != nil {
			return fmt.Errorf("unmarshal screenshot image: %w", err)
		}
		*s = ScreenshotContent{Kind: KindImage, Image: img}
		return nil
	default:
		return fmt.Errorf("unmarshal screenshot: unknown kind %q", w.Type)
	}
}

// Clone returns a deep copy. Image bytes are copied so callers cannot alias
// a stored attachment's backing array.
func (s ScreenshotContent) Clone() ScreenshotContent {
	out := s
	if s.Image != nil {
		out.Image = make([]byte, len(s.Image))
		copy(out.Image, s.Image)
	}
	return out
}

func cloneScreenshots(in []ScreenshotContent) []ScreenshotContent {
	if in == nil {
		return nil
	}
	out := make([]ScreenshotContent, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
