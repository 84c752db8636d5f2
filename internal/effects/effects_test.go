package effects

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/dategif/internal/config"
)

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestAlphas(t *testing.T) {
	in := Alphas(10, FadeIn)
	out := Alphas(10, FadeOut)

	if len(in) != 10 || len(out) != 10 {
		t.Fatalf("Expected 10 alphas, got %d and %d", len(in), len(out))
	}
	if in[0] != 0 || in[9] != 1 {
		t.Errorf("Fade-in must span [0,1] exactly, got first=%v last=%v", in[0], in[9])
	}
	if out[0] != 1 || out[9] != 0 {
		t.Errorf("Fade-out must span [1,0] exactly, got first=%v last=%v", out[0], out[9])
	}
	for i := range in {
		if in[i] != out[len(out)-1-i] {
			t.Errorf("Fade-out is not the reverse of fade-in at %d: %v vs %v", i, out[len(out)-1-i], in[i])
		}
		if i > 0 && in[i] <= in[i-1] {
			t.Errorf("Fade-in alphas not ascending at %d", i)
		}
	}
}

func TestAlphasEdgeCounts(t *testing.T) {
	if diff := cmp.Diff([]float64(nil), Alphas(0, FadeIn)); diff != "" {
		t.Errorf("Alphas(0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0}, Alphas(1, FadeIn)); diff != "" {
		t.Errorf("Alphas(1, in) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1}, Alphas(1, FadeOut)); diff != "" {
		t.Errorf("Alphas(1, out) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0.5, 1}, Alphas(3, FadeIn)); diff != "" {
		t.Errorf("Alphas(3, in) mismatch (-want +got):\n%s", diff)
	}
}

func TestFramesCount(t *testing.T) {
	fade := &Fade{Mode: config.FadeBlack}
	src := solid(color.RGBA{200, 100, 50, 255})

	for _, dir := range []Direction{FadeIn, FadeOut} {
		n := 0
		for frame := range fade.Frames(src, 10, dir) {
			if frame.Bounds() != src.Bounds() {
				t.Errorf("%s: frame bounds %v, want %v", dir, frame.Bounds(), src.Bounds())
			}
			n++
		}
		if n != 10 {
			t.Errorf("%s: expected 10 frames, got %d", dir, n)
		}
	}
}

func TestFramesStopEarly(t *testing.T) {
	fade := &Fade{Mode: config.FadeBlack}
	n := 0
	for range fade.Frames(solid(color.RGBA{1, 2, 3, 255}), 10, FadeIn) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("Expected to stop after 3 frames, got %d", n)
	}
}

func TestBlackFade(t *testing.T) {
	fade := &Fade{Mode: config.FadeBlack}
	src := solid(color.RGBA{200, 100, 50, 255})

	var got []color.RGBA
	for frame := range fade.Frames(src, 3, FadeIn) {
		got = append(got, frame.RGBAAt(0, 0))
	}

	want := []color.RGBA{
		{0, 0, 0, 255},
		{100, 50, 25, 255},
		{200, 100, 50, 255},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Black fade mismatch (-want +got):\n%s", diff)
	}
}

func TestTransparentFade(t *testing.T) {
	fade := &Fade{Mode: config.FadeTransparent}
	src := solid(color.RGBA{200, 100, 50, 255})

	var got []color.RGBA
	for frame := range fade.Frames(src, 2, FadeOut) {
		got = append(got, frame.RGBAAt(3, 2))
	}

	want := []color.RGBA{{200, 100, 50, 255}, {0, 0, 0, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transparent fade mismatch (-want +got):\n%s", diff)
	}
}

func TestSelfFadeKeepsImage(t *testing.T) {
	fade := &Fade{Mode: config.FadeSelf}
	src := solid(color.RGBA{200, 100, 50, 255})

	for frame := range fade.Frames(src, 10, FadeIn) {
		if diff := cmp.Diff(src.Pix, frame.Pix); diff != "" {
			t.Fatalf("Self blend changed pixels (-want +got):\n%s", diff)
		}
	}
}

func TestFramesFromNonRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range gray.Pix {
		gray.Pix[i] = 100
	}

	fade := &Fade{Mode: config.FadeBlack}
	var last *image.RGBA
	for frame := range fade.Frames(gray, 2, FadeIn) {
		last = frame
	}
	if c := last.RGBAAt(1, 1); c != (color.RGBA{100, 100, 100, 255}) {
		t.Errorf("Expected full-strength last frame, got %v", c)
	}
}

func TestNewEffect(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"self", false},
		{"black", false},
		{"transparent", false},
		{"", false},
		{"wipe", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			eff, err := NewEffect(tt.mode)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if eff == nil {
				t.Error("Expected effect, got nil")
			}
		})
	}
}
