package video

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/image/draw"

	"github.com/ivlev/dategif/internal/animation"
)

// VideoEncoder renders a frame sequence into a video container.
type VideoEncoder interface {
	Encode(ctx context.Context, seq *animation.Sequence, path string) error
}

// FFmpegEncoder pipes raw RGBA frames into ffmpeg. Variable frame durations
// are expressed by repeating frames at a constant FPS.
type FFmpegEncoder struct {
	FPS        int
	Codec      string // libx264 when empty
	FFmpegPath string // ffmpeg from PATH when empty
}

func (e *FFmpegEncoder) Encode(ctx context.Context, seq *animation.Sequence, path string) error {
	if err := seq.Validate(); err != nil {
		return err
	}
	fps := e.FPS
	if fps < 1 {
		fps = 10
	}

	canvas := CanvasSize(seq.Bounds())
	input, output := e.buildArgs(canvas, fps)

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(writeFrames(ctx, pw, seq, canvas, fps))
	}()

	stream := ffmpeg.Input("pipe:", input).
		Output(path, output).
		OverWriteOutput().
		WithInput(pr)
	if e.FFmpegPath != "" {
		stream = stream.SetFfmpegPath(e.FFmpegPath)
	}

	err := stream.Run()
	// ffmpeg may exit before reading everything; unblock the writer.
	pr.Close()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("ffmpeg encode failed: %w", err)
	}
	return nil
}

func (e *FFmpegEncoder) buildArgs(canvas image.Rectangle, fps int) (ffmpeg.KwArgs, ffmpeg.KwArgs) {
	codec := e.Codec
	if codec == "" {
		codec = "libx264"
	}
	input := ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", canvas.Dx(), canvas.Dy()),
		"framerate": fps,
	}
	output := ffmpeg.KwArgs{
		"vcodec":  codec,
		"pix_fmt": "yuv420p",
	}
	return input, output
}

// CanvasSize pads the animation bounds to even dimensions, which yuv420p requires.
func CanvasSize(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w%2 != 0 {
		w++
	}
	if h%2 != 0 {
		h++
	}
	return image.Rect(0, 0, w, h)
}

// Repeats is how many constant-rate frames stand in for one frame shown durationMs.
func Repeats(durationMs, fps int) int {
	n := int(math.Round(float64(durationMs) * float64(fps) / 1000))
	if n < 1 {
		n = 1
	}
	return n
}

func writeFrames(ctx context.Context, w io.Writer, seq *animation.Sequence, canvas image.Rectangle, fps int) error {
	buf := image.NewRGBA(canvas)
	black := image.NewUniform(color.Black)

	for i, frame := range seq.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		draw.Draw(buf, canvas, black, image.Point{}, draw.Src)
		draw.Draw(buf, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		for r := Repeats(seq.Durations[i], fps); r > 0; r-- {
			if _, err := w.Write(buf.Pix); err != nil {
				return err
			}
		}
	}
	return nil
}
