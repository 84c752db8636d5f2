package animation

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"math"
	"os"
)

// Encoder writes a finished sequence.
type Encoder interface {
	Encode(w io.Writer, seq *Sequence) error
}

// GIFEncoder writes an infinitely looping GIF.
type GIFEncoder struct{}

func (e *GIFEncoder) Encode(w io.Writer, seq *Sequence) error {
	if err := seq.Validate(); err != nil {
		return err
	}

	delays := make([]int, len(seq.Durations))
	disposal := make([]byte, len(seq.Durations))
	for i, ms := range seq.Durations {
		delays[i] = Centiseconds(ms)
		disposal[i] = gif.DisposalBackground
	}

	// Photos may differ in size; the logical screen must hold the largest.
	b := seq.Bounds()
	anim := &gif.GIF{
		Image:     seq.Frames,
		Delay:     delays,
		Disposal:  disposal,
		LoopCount: 0,
		Config:    image.Config{Width: b.Dx(), Height: b.Dy()},
	}
	return gif.EncodeAll(w, anim)
}

// EncodeFile creates or overwrites path.
func EncodeFile(enc Encoder, path string, seq *Sequence) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := enc.Encode(f, seq); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// Centiseconds converts a millisecond duration to the GIF delay unit.
func Centiseconds(ms int) int {
	return int(math.Round(float64(ms) / 10))
}
