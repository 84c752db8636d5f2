// Package exiftest builds small JPEG files carrying a DateTimeOriginal tag.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
)

// Solid returns a w x h RGBA image filled with c.
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// JPEG encodes img and, when captured is not empty, inserts an APP1 EXIF
// segment with DateTimeOriginal set to captured ("YYYY:MM:DD HH:MM:SS").
func JPEG(img image.Image, captured string) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	data := buf.Bytes()
	if captured == "" {
		return data
	}

	app1 := segment(tiffBlock(captured))

	out := make([]byte, 0, len(data)+len(app1))
	out = append(out, data[:2]...) // SOI
	out = append(out, app1...)
	out = append(out, data[2:]...)
	return out
}

func segment(payload []byte) []byte {
	body := append([]byte("Exif\x00\x00"), payload...)
	seg := []byte{0xff, 0xe1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(body)+2))
	return append(seg, body...)
}

// IFD0 holds the Exif sub-IFD pointer, the sub-IFD holds DateTimeOriginal.
func tiffBlock(captured string) []byte {
	value := append([]byte(captured), 0)

	const (
		ifd0Off  = 8
		exifOff  = ifd0Off + 2 + 12 + 4
		valueOff = exifOff + 2 + 12 + 4
	)

	be := binary.BigEndian
	b := make([]byte, valueOff+len(value))
	copy(b, "MM")
	be.PutUint16(b[2:], 42)
	be.PutUint32(b[4:], ifd0Off)

	be.PutUint16(b[ifd0Off:], 1)
	entry(b[ifd0Off+2:], 0x8769, 4, 1, exifOff)
	be.PutUint32(b[ifd0Off+14:], 0)

	be.PutUint16(b[exifOff:], 1)
	entry(b[exifOff+2:], 0x9003, 2, uint32(len(value)), valueOff)
	be.PutUint32(b[exifOff+14:], 0)

	copy(b[valueOff:], value)
	return b
}

func entry(b []byte, tag, typ uint16, count, value uint32) {
	be := binary.BigEndian
	be.PutUint16(b[0:], tag)
	be.PutUint16(b[2:], typ)
	be.PutUint32(b[4:], count)
	be.PutUint32(b[8:], value)
}
