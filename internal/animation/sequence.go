// Package animation turns annotated photos into a looping GIF slideshow:
// fade-in frames, one hold frame and fade-out frames per photo.
package animation

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"

	"github.com/ivlev/dategif/internal/config"
)

var (
	ErrNoFrames         = errors.New("animation has no frames")
	ErrDurationMismatch = errors.New("frame and duration counts differ")
)

// Palette is used for photos and opaque fades.
var Palette = color.Palette(palette.Plan9)

// TransparentPalette is Plan9 with its darkest non-black gray (0x111111)
// swapped for full transparency, so transparent fades survive quantization.
var TransparentPalette = func() color.Palette {
	p := make(color.Palette, len(palette.Plan9))
	copy(p, palette.Plan9)
	p[17] = color.Transparent
	return p
}()

func PaletteFor(fadeMode string) color.Palette {
	if fadeMode == config.FadeTransparent {
		return TransparentPalette
	}
	return Palette
}

// Sequence is the complete, ordered frame list with per-frame display
// durations in milliseconds.
type Sequence struct {
	Frames    []*image.Paletted
	Durations []int
}

func (s *Sequence) Len() int {
	return len(s.Frames)
}

// Validate reports whether the sequence can be encoded.
func (s *Sequence) Validate() error {
	if len(s.Frames) == 0 {
		return ErrNoFrames
	}
	if len(s.Frames) != len(s.Durations) {
		return fmt.Errorf("%w: %d frames, %d durations", ErrDurationMismatch, len(s.Frames), len(s.Durations))
	}
	for i, f := range s.Frames {
		if f == nil {
			return fmt.Errorf("frame %d is missing", i)
		}
	}
	return nil
}

// Bounds returns the smallest canvas anchored at the origin that holds every frame.
func (s *Sequence) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, f := range s.Frames {
		r = r.Union(image.Rectangle{Max: f.Bounds().Max})
	}
	return r
}

// FramesPerImage is the number of frames one photo contributes.
func FramesPerImage(fadeFrames int) int {
	return 2*fadeFrames + 1
}
