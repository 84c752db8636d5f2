package effects

import (
	"fmt"
	"image"
	"iter"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/dategif/internal/config"
	"github.com/ivlev/dategif/internal/system"
)

type Direction int

const (
	FadeIn Direction = iota
	FadeOut
)

func (d Direction) String() string {
	if d == FadeOut {
		return "fade-out"
	}
	return "fade-in"
}

// Effect produces the transitional frames shown before and after a photo.
type Effect interface {
	Frames(img image.Image, n int, dir Direction) iter.Seq[*image.RGBA]
}

// NewEffect returns the fade for the configured mode.
func NewEffect(mode string) (Effect, error) {
	switch mode {
	case config.FadeSelf, config.FadeBlack, config.FadeTransparent:
		return &Fade{Mode: mode}, nil
	case "":
		return &Fade{Mode: config.FadeBlack}, nil
	default:
		return nil, fmt.Errorf("unknown fade mode: %s", mode)
	}
}

// Fade blends the photo against a counter-image: itself ("self"), black or
// full transparency. "self" reproduces the historical output, where both
// operands were the photo, so every frame looks like the photo.
type Fade struct {
	Mode string
}

// Alphas returns n evenly spaced blend weights over [0,1], both ends
// included. Fade-out is the reverse of fade-in; a single frame starts at
// the direction's origin (0 for fade-in, 1 for fade-out).
func Alphas(n int, dir Direction) []float64 {
	if n <= 0 {
		return nil
	}
	a := make([]float64, n)
	if n == 1 {
		if dir == FadeOut {
			a[0] = 1
		}
		return a
	}
	for i := range a {
		a[i] = float64(i) / float64(n-1)
	}
	if dir == FadeOut {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			a[i], a[j] = a[j], a[i]
		}
	}
	return a
}

// Frames lazily yields one blended frame per alpha. Buffers come from the
// shared frame pool; the consumer may return them with system.PutFrame once
// it is done with a frame.
func (f *Fade) Frames(img image.Image, n int, dir Direction) iter.Seq[*image.RGBA] {
	return func(yield func(*image.RGBA) bool) {
		src := toRGBA(img)
		for _, alpha := range Alphas(n, dir) {
			dst := system.GetFrame(src.Rect)
			f.Blend(dst, src, alpha)
			if !yield(dst) {
				return
			}
		}
	}
}

// Blend writes src*alpha + target*(1-alpha) into dst. dst and src must share bounds.
func (f *Fade) Blend(dst, src *image.RGBA, alpha float64) {
	switch f.Mode {
	case config.FadeSelf:
		for i, v := range src.Pix {
			s := float64(v)
			dst.Pix[i] = clamp(s*alpha + s*(1-alpha))
		}
	case config.FadeTransparent:
		// Premultiplied: scaling all four channels fades to transparent.
		for i, v := range src.Pix {
			dst.Pix[i] = clamp(float64(v) * alpha)
		}
	default:
		for i := 0; i+3 < len(src.Pix); i += 4 {
			dst.Pix[i] = clamp(float64(src.Pix[i]) * alpha)
			dst.Pix[i+1] = clamp(float64(src.Pix[i+1]) * alpha)
			dst.Pix[i+2] = clamp(float64(src.Pix[i+2]) * alpha)
			dst.Pix[i+3] = src.Pix[i+3]
		}
	}
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// toRGBA returns img as a tightly packed RGBA anchored at its own bounds.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
