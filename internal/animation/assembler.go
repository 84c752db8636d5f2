package animation

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/dategif/internal/config"
	"github.com/ivlev/dategif/internal/effects"
	"github.com/ivlev/dategif/internal/logging"
	"github.com/ivlev/dategif/internal/source"
	"github.com/ivlev/dategif/internal/system"
)

type Assembler struct {
	Effect  effects.Effect
	Params  config.FrameParams
	Palette color.Palette
	Workers int
	Log     *logging.Logger
}

func NewAssembler(cfg *config.Config, eff effects.Effect, log *logging.Logger) *Assembler {
	return &Assembler{
		Effect:  eff,
		Params:  cfg.FrameParams(),
		Palette: PaletteFor(cfg.FadeMode),
		Workers: cfg.Workers,
		Log:     log,
	}
}

// Build produces the whole slideshow in source order. Photos are decoded
// one at a time; frame quantization runs on up to Workers goroutines and
// each frame keeps its slot, so the output order never depends on timing.
func (a *Assembler) Build(ctx context.Context, src source.Source) (*Sequence, error) {
	count := src.Count()
	if count == 0 {
		return nil, ErrNoFrames
	}

	n := a.Params.FadeFrames
	total := count * FramesPerImage(n)
	seq := &Sequence{
		Frames:    make([]*image.Paletted, total),
		Durations: make([]int, 0, total),
	}

	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	pal := a.Palette
	if len(pal) == 0 {
		pal = Palette
	}

	slot := 0
	queue := func(img image.Image, pooled bool, durationMs int) {
		i := slot
		slot++
		seq.Durations = append(seq.Durations, durationMs)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seq.Frames[i] = Quantize(img, pal)
			if pooled {
				system.PutFrame(img.(*image.RGBA))
			}
			return nil
		})
	}

	for i := 0; i < count; i++ {
		if err := gctx.Err(); err != nil {
			break
		}

		img, err := src.Load(i)
		if err != nil {
			g.Wait()
			return nil, fmt.Errorf("load image %d: %w", i, err)
		}

		for frame := range a.Effect.Frames(img, n, effects.FadeIn) {
			queue(frame, true, a.Params.FadeDelayMs)
		}
		queue(img, false, a.Params.HoldDelayMs)
		for frame := range a.Effect.Frames(img, n, effects.FadeOut) {
			queue(frame, true, a.Params.FadeDelayMs)
		}

		a.log().Debugw("Frames queued", "image", i+1, "of", count, "frames", slot)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return seq, nil
}

// Quantize maps img onto pal with Floyd-Steinberg dithering.
func Quantize(img image.Image, pal color.Palette) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	return p
}

func (a *Assembler) log() *logging.Logger {
	if a.Log == nil {
		return logging.Nop()
	}
	return a.Log
}
