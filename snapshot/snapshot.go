// Package snapshot converts frames to and from image files.
package snapshot

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/abihf/visionedge/frame"
)

// Encode writes a width x height frame as PNG. Channels are written in RGBA
// order as given.
func Encode(w io.Writer, buf []byte, width, height int) error {
	if err := frame.Validate(len(buf), width, height); err != nil {
		return err
	}
	img := &image.NRGBA{
		Pix:    buf[:frame.Size(width, height)],
		Stride: width * frame.Channels,
		Rect:   image.Rect(0, 0, width, height),
	}
	return errors.Wrap(png.Encode(w, img), "encode png")
}

// Decode reads a PNG, JPEG or GIF image into a new non-premultiplied RGBA
// frame.
func Decode(r io.Reader) ([]byte, int, int, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "decode image")
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst.Pix, b.Dx(), b.Dy(), nil
}

// FileName returns the snapshot name for a capture taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("visionedge_%d.png", now.UnixMilli())
}

// Save writes the frame as a PNG in dir and returns its path.
func Save(dir string, buf []byte, width, height int, now time.Time) (string, error) {
	path := filepath.Join(dir, FileName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create snapshot")
	}
	if err := Encode(f, buf, width, height); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close snapshot")
	}
	return path, nil
}
