// Package overlay burns a caption with a solid background box into an image.
package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Renderer draws captions at a fixed anchor. The anchor does not move with
// the caption length; the box grows to the right and down.
type Renderer struct {
	Anchor     image.Point // top-left of the text
	Margin     int         // padding between text and box edge
	Face       font.Face
	Background color.Color
	Foreground color.Color
}

// NewRenderer returns a renderer with the default placement: text at
// (20,40), a 10px white box and black 7x13 bitmap text.
func NewRenderer() *Renderer {
	return &Renderer{
		Anchor:     image.Pt(20, 40),
		Margin:     10,
		Face:       basicfont.Face7x13,
		Background: color.White,
		Foreground: color.Black,
	}
}

// Measure returns the width and height of the caption's ink bounding box.
func (r *Renderer) Measure(text string) image.Point {
	b, _ := font.BoundString(r.Face, text)
	return image.Pt((b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil())
}

// Box returns the background rectangle relative to the image origin. The
// bottom-right corner is inclusive, so Max is one past it.
func (r *Renderer) Box(text string) image.Rectangle {
	size := r.Measure(text)
	m := image.Pt(r.Margin, r.Margin)
	return image.Rectangle{
		Min: r.Anchor.Sub(m),
		Max: r.Anchor.Add(size).Add(m).Add(image.Pt(1, 1)),
	}
}

// Render returns a copy of img with the caption drawn on it. img is not modified.
func (r *Renderer) Render(img image.Image, text string) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	box := r.Box(text).Add(bounds.Min)
	draw.Draw(dst, box, image.NewUniform(r.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.Foreground),
		Face: r.Face,
	}
	// Drawer.Dot is the baseline; shift by the ascent so the anchor is the top edge.
	origin := r.Anchor.Add(bounds.Min)
	d.Dot = fixed.Point26_6{
		X: fixed.I(origin.X),
		Y: fixed.I(origin.Y) + r.Face.Metrics().Ascent,
	}
	d.DrawString(text)

	return dst
}
