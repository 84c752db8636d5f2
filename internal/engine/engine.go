package engine

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/ivlev/dategif/internal/animation"
	"github.com/ivlev/dategif/internal/config"
	"github.com/ivlev/dategif/internal/effects"
	"github.com/ivlev/dategif/internal/logging"
	"github.com/ivlev/dategif/internal/metadata"
	"github.com/ivlev/dategif/internal/overlay"
	"github.com/ivlev/dategif/internal/pipeline"
	"github.com/ivlev/dategif/internal/source"
	"github.com/ivlev/dategif/internal/system"
	"github.com/ivlev/dategif/internal/video"
)

// SlideshowProject runs the whole job: annotate, assemble, encode.
type SlideshowProject struct {
	Config    *config.Config
	Annotator *pipeline.Annotator
	Assembler *animation.Assembler
	Encoder   animation.Encoder
	Video     video.VideoEncoder // nil disables the MP4 export
	Log       *logging.Logger
}

// Result summarizes a finished run.
type Result struct {
	Artifacts []pipeline.Artifact
	Frames    int
	GIFPath   string
	VideoPath string
}

// NewSlideshowProject wires the default implementations from cfg.
func NewSlideshowProject(cfg *config.Config, log *logging.Logger) (*SlideshowProject, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}

	ref, _ := cfg.Reference()
	bg, _ := config.ParseHexColor(cfg.Overlay.Background)
	fg, _ := config.ParseHexColor(cfg.Overlay.Foreground)

	r := overlay.NewRenderer()
	r.Anchor = cfg.Anchor()
	r.Margin = cfg.Overlay.Margin
	r.Background = bg
	r.Foreground = fg

	eff, err := effects.NewEffect(cfg.FadeMode)
	if err != nil {
		return nil, err
	}

	p := &SlideshowProject{
		Config: cfg,
		Annotator: &pipeline.Annotator{
			Store:            pipeline.NewDirStore(cfg.InputDir),
			Extractor:        metadata.ExifExtractor{},
			Renderer:         r,
			Reference:        ref,
			Suffix:           cfg.Suffix,
			Prefix:           cfg.AnnotatedPrefix,
			Quality:          cfg.JPEGQuality,
			KeepListingOrder: cfg.KeepListingOrder,
			Log:              logging.WithComponent(log, "annotate"),
		},
		Assembler: animation.NewAssembler(cfg, eff, logging.WithComponent(log, "assemble")),
		Encoder:   &animation.GIFEncoder{},
		Log:       log,
	}
	if cfg.OutputVideo != "" {
		p.Video = &video.FFmpegEncoder{FPS: cfg.FPS}
	}
	return p, nil
}

func (p *SlideshowProject) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	p.Log.Infow("Annotating photos",
		"dir", p.Config.InputDir,
		"suffix", p.Config.Suffix,
		"reference", p.Config.ReferenceDate,
	)
	artifacts, err := p.Annotator.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("no photos with a capture date in %s: %w", p.Config.InputDir, animation.ErrNoFrames)
	}

	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = a.Path
	}
	src := source.NewImageSource(paths)
	defer src.Close()

	p.checkMemory(src)

	annotated := time.Now()
	seq, err := p.Assembler.Build(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("build frames: %w", err)
	}

	res := &Result{
		Artifacts: artifacts,
		Frames:    seq.Len(),
		GIFPath:   p.Config.GIFPath(),
	}

	p.Log.Infow("Encoding animation", "frames", seq.Len(), "output", res.GIFPath)
	if err := animation.EncodeFile(p.Encoder, res.GIFPath, seq); err != nil {
		return nil, err
	}

	if p.Video != nil {
		res.VideoPath = p.Config.VideoPath()
		p.Log.Infow("Exporting video", "output", res.VideoPath, "fps", p.Config.FPS)
		if err := p.Video.Encode(ctx, seq, res.VideoPath); err != nil {
			return nil, fmt.Errorf("export video: %w", err)
		}
	}

	p.Log.Infow("Done",
		"photos", len(artifacts),
		"frames", res.Frames,
		"annotate", annotated.Sub(start).Round(time.Millisecond),
		"total", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// checkMemory only warns: the frames are held until the final encode.
func (p *SlideshowProject) checkMemory(src source.Source) {
	bounds := make([]image.Rectangle, 0, src.Count())
	for i := 0; i < src.Count(); i++ {
		b, err := src.Dimensions(i)
		if err != nil {
			continue
		}
		bounds = append(bounds, b)
	}

	needed := system.FrameBytes(bounds, animation.FramesPerImage(p.Config.FadeFrames))
	report, err := system.CheckMemory(needed)
	if err != nil {
		p.Log.Debugw("Memory check unavailable", "error", err)
		return
	}
	if !report.Fits() {
		p.Log.Warnw("Animation may not fit in memory", "report", report.String())
		return
	}
	p.Log.Debugw("Memory check", "report", report.String())
}
