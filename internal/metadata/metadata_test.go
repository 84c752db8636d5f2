package metadata

import (
	"bytes"
	"image/color"
	"testing"
	"time"

	"github.com/ivlev/dategif/internal/metadata/exiftest"
)

func TestExtractCaptureTime(t *testing.T) {
	data := exiftest.JPEG(exiftest.Solid(32, 24, color.White), "2024:05:05 13:14:15")

	tags, err := ExifExtractor{}.Extract(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	got, ok := CaptureTime(tags)
	if !ok {
		t.Fatalf("Expected capture time, tags: %v", tags)
	}
	want := time.Date(2024, 5, 5, 13, 14, 15, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestExtractWithoutExifReturnsEmptyMap(t *testing.T) {
	data := exiftest.JPEG(exiftest.Solid(16, 16, color.Black), "")

	tags, err := ExifExtractor{}.Extract(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("Expected empty tags, got %v", tags)
	}
	if _, ok := CaptureTime(tags); ok {
		t.Error("Expected no capture time")
	}
}

func TestCaptureTime(t *testing.T) {
	tests := []struct {
		name string
		tags Tags
		ok   bool
	}{
		{"valid", Tags{CaptureTag: "2024:05:03 00:00:00"}, true},
		{"trailing nul", Tags{CaptureTag: "2024:05:03 10:00:00\x00"}, true},
		{"absent", Tags{"Model": "X100V"}, false},
		{"iso format", Tags{CaptureTag: "2024-05-03 10:00:00"}, false},
		{"empty", Tags{CaptureTag: ""}, false},
		{"bad month", Tags{CaptureTag: "2024:13:03 10:00:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CaptureTime(tt.tags)
			if ok != tt.ok {
				t.Errorf("Expected ok=%v, got %v", tt.ok, ok)
			}
		})
	}
}
