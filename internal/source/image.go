package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Source is an ordered list of images the animation is built from.
type Source interface {
	Count() int
	Dimensions(index int) (image.Rectangle, error)
	Load(index int) (image.Image, error)
	Close() error
}

// ImageSource decodes image files on demand, so only the photo being
// turned into frames is held in full color.
type ImageSource struct {
	paths []string
}

func NewImageSource(paths []string) *ImageSource {
	return &ImageSource{paths: append([]string(nil), paths...)}
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

// Dimensions reads only the image header.
func (s *ImageSource) Dimensions(index int) (image.Rectangle, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return image.Rectangle{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("%s: %w", s.paths[index], err)
	}
	return image.Rect(0, 0, cfg.Width, cfg.Height), nil
}

func (s *ImageSource) Load(index int) (image.Image, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.paths[index], err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
