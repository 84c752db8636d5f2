// Package metadata reads the embedded EXIF dictionary of a photograph and
// derives its capture timestamp.
package metadata

import (
	"io"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// CaptureTag is the EXIF field holding the moment the shutter fired.
const CaptureTag = string(exif.DateTimeOriginal)

// TimestampLayout is the EXIF date format: "YYYY:MM:DD HH:MM:SS".
const TimestampLayout = "2006:01:02 15:04:05"

// Tags maps standard EXIF tag names to their values rendered as strings.
type Tags map[string]string

// Extractor returns the metadata dictionary of an encoded image.
type Extractor interface {
	Extract(r io.Reader) (Tags, error)
}

// ExifExtractor decodes EXIF with goexif.
type ExifExtractor struct{}

// Extract returns an empty map for images without a readable EXIF block.
// Tags decoded before a non-critical error are kept.
func (ExifExtractor) Extract(r io.Reader) (Tags, error) {
	tags := Tags{}

	x, err := exif.Decode(r)
	if err != nil && x == nil {
		return tags, nil
	}
	if err := x.Walk(walker(tags)); err != nil {
		return nil, err
	}
	return tags, nil
}

type walker Tags

func (w walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			w[string(name)] = s
			return nil
		}
	}
	w[string(name)] = tag.String()
	return nil
}

// CaptureTime parses the DateTimeOriginal field. An absent or malformed
// value reports false; callers skip such files.
func CaptureTime(tags Tags) (time.Time, bool) {
	raw, ok := tags[CaptureTag]
	if !ok {
		return time.Time{}, false
	}
	return ParseTimestamp(raw)
}

// ParseTimestamp parses an EXIF timestamp, ignoring NUL padding.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	t, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
