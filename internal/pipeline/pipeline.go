// Package pipeline annotates every photo of a store with its capture date
// and writes the annotated copies next to the originals.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ivlev/dategif/internal/logging"
	"github.com/ivlev/dategif/internal/metadata"
	"github.com/ivlev/dategif/internal/overlay"
)

// Artifact is an annotated photo written to the store. The embedded
// Record carries the original file name.
type Artifact struct {
	Record
	Annotated string
	Path      string
}

type Annotator struct {
	Store     Store
	Extractor metadata.Extractor
	Renderer  *overlay.Renderer
	Reference time.Time

	Suffix  string // case-sensitive, e.g. ".JPG"
	Prefix  string // prepended to the original name
	Quality int

	// KeepListingOrder leaves artifacts in enumeration order instead of
	// sorting them by capture time.
	KeepListingOrder bool

	Log *logging.Logger
}

// Run annotates every matching file and returns the artifacts in slideshow
// order. Files without a usable capture timestamp are skipped. Any decode
// or write error aborts the run; artifacts already written stay on disk.
func (a *Annotator) Run(ctx context.Context) ([]Artifact, error) {
	names, err := a.Store.List()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}

	listed := make(map[string]bool, len(names))
	for _, name := range names {
		listed[name] = true
	}

	var artifacts []Artifact
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return artifacts, err
		}
		if !a.matches(name, listed) {
			continue
		}

		art, err := a.Annotate(name)
		if err != nil {
			return artifacts, err
		}
		if art == nil {
			continue
		}
		artifacts = append(artifacts, *art)
	}

	if !a.KeepListingOrder {
		sort.SliceStable(artifacts, func(i, j int) bool {
			return artifacts[i].Captured.Before(artifacts[j].Captured)
		})
	}

	return artifacts, nil
}

// matches skips a prefixed name only when its source photo is listed too,
// so a re-run does not caption its own output twice.
func (a *Annotator) matches(name string, listed map[string]bool) bool {
	if !strings.HasSuffix(name, a.Suffix) {
		return false
	}
	if a.Prefix != "" && strings.HasPrefix(name, a.Prefix) && listed[strings.TrimPrefix(name, a.Prefix)] {
		a.log().Debugw("Skipping annotated output", "file", name)
		return false
	}
	return true
}

// Annotate processes one file. It returns nil, nil when the file has no
// capture timestamp.
func (a *Annotator) Annotate(name string) (*Artifact, error) {
	data, err := a.Store.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	tags, err := a.Extractor.Extract(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("metadata %s: %w", name, err)
	}
	captured, ok := metadata.CaptureTime(tags)
	if !ok {
		a.log().Debugw("Skipping file without capture date", "file", name)
		return nil, nil
	}

	rec := NewRecord(name, captured, a.Reference)
	annotated := a.Renderer.Render(img, rec.Caption)

	outName := a.Prefix + name
	if err := a.write(outName, annotated); err != nil {
		return nil, err
	}

	a.log().Infow("Annotated",
		"file", name,
		"weekday", rec.Weekday,
		"days", rec.Days,
	)

	return &Artifact{
		Record:    rec,
		Annotated: outName,
		Path:      a.Store.Path(outName),
	}, nil
}

func (a *Annotator) write(name string, img image.Image) (err error) {
	w, err := a.Store.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()

	if err := Encode(w, name, img, a.Quality); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}

// Encode picks the codec from the file extension: PNG for ".png", JPEG otherwise.
func Encode(w io.Writer, name string, img image.Image, quality int) error {
	if strings.EqualFold(filepath.Ext(name), ".png") {
		return png.Encode(w, img)
	}
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

func (a *Annotator) log() *logging.Logger {
	if a.Log == nil {
		return logging.Nop()
	}
	return a.Log
}
