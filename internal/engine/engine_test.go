package engine

import (
	"context"
	"errors"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/dategif/internal/animation"
	"github.com/ivlev/dategif/internal/config"
	"github.com/ivlev/dategif/internal/metadata/exiftest"
)

func writePhoto(t *testing.T, dir, name, captured string) {
	t.Helper()
	data := exiftest.JPEG(exiftest.Solid(480, 160, color.RGBA{60, 110, 170, 255}), captured)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSlideshowEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "IMG_0001.JPG", "2024:05:03 10:00:00")
	writePhoto(t, dir, "IMG_0002.JPG", "2024:05:10 18:30:00")
	writePhoto(t, dir, "SCAN.JPG", "")

	cfg := config.Default()
	cfg.InputDir = dir

	project, err := NewSlideshowProject(cfg, nil)
	if err != nil {
		t.Fatalf("NewSlideshowProject failed: %v", err)
	}
	res, err := project.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Artifacts) != 2 {
		t.Fatalf("Expected 2 artifacts, got %d", len(res.Artifacts))
	}
	if res.Artifacts[0].Days != 0 || res.Artifacts[1].Days != 7 {
		t.Errorf("Expected offsets 0 and 7, got %d and %d", res.Artifacts[0].Days, res.Artifacts[1].Days)
	}
	for _, a := range res.Artifacts {
		if a.Weekday != "Friday" {
			t.Errorf("%s: expected Friday, got %s", a.Name, a.Weekday)
		}
		if _, err := os.Stat(filepath.Join(dir, "annotated_"+a.Name)); err != nil {
			t.Errorf("Missing annotated file for %s: %v", a.Name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "annotated_SCAN.JPG")); !os.IsNotExist(err) {
		t.Error("Photo without capture date must not be annotated")
	}

	if res.Frames != 42 {
		t.Errorf("Expected 42 frames, got %d", res.Frames)
	}
	if res.GIFPath != filepath.Join(dir, "output.gif") {
		t.Errorf("Unexpected GIF path %s", res.GIFPath)
	}
	if res.VideoPath != "" {
		t.Errorf("Video export should be off by default, got %s", res.VideoPath)
	}

	f, err := os.Open(res.GIFPath)
	if err != nil {
		t.Fatalf("Open GIF: %v", err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if len(g.Image) != 42 {
		t.Errorf("Expected 42 GIF frames, got %d", len(g.Image))
	}
	if g.LoopCount != 0 {
		t.Errorf("Expected infinite loop, got %d", g.LoopCount)
	}
	for i, d := range g.Delay {
		want := 10
		if i%21 == 10 {
			want = 150
		}
		if d != want {
			t.Errorf("Frame %d: expected delay %d, got %d", i, want, d)
		}
	}
}

func TestSlideshowOverwritesOutput(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "A.JPG", "2024:05:04 09:00:00")
	if err := os.WriteFile(filepath.Join(dir, "output.gif"), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.InputDir = dir
	cfg.FadeFrames = 2

	project, err := NewSlideshowProject(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := project.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Frames != 5 {
		t.Errorf("Expected 5 frames, got %d", res.Frames)
	}

	data, err := os.ReadFile(res.GIFPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "GIF89a") {
		t.Error("Expected output.gif to be replaced by a GIF")
	}
}

func TestSlideshowWithoutPhotos(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "NODATE.JPG", "")

	cfg := config.Default()
	cfg.InputDir = dir

	project, err := NewSlideshowProject(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = project.Run(context.Background())
	if !errors.Is(err, animation.ErrNoFrames) {
		t.Errorf("Expected ErrNoFrames, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "output.gif")); !os.IsNotExist(err) {
		t.Error("No GIF should be written without frames")
	}
}

func TestSlideshowCorruptPhotoAborts(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "BROKEN.JPG"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.InputDir = dir

	project, err := NewSlideshowProject(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := project.Run(context.Background()); err == nil {
		t.Error("Expected decode error")
	}
}

func TestNewSlideshowProjectValidates(t *testing.T) {
	cfg := config.Default()
	cfg.FadeMode = "wipe"
	if _, err := NewSlideshowProject(cfg, nil); err == nil {
		t.Error("Expected validation error")
	}

	cfg = config.Default()
	cfg.OutputVideo = "out.mp4"
	p, err := NewSlideshowProject(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Video == nil {
		t.Error("Expected video encoder when output_video is set")
	}
}
