// Package frame implements the per-frame transform pipeline.
//
// A frame is a densely packed buffer of width*height pixels with 4 interleaved
// 8-bit channels. The channel order belongs to the host; only channels 0, 1
// and 2 are weighted (as R, G, B) when luminance is needed.
package frame

import (
	"github.com/pkg/errors"
)

// Channels is the number of interleaved 8-bit channels per pixel.
const Channels = 4

// ErrBufferTooSmall is returned when the buffer is shorter than the declared
// dimensions require.
var ErrBufferTooSmall = errors.New("buffer too small")

// Size returns the byte length of a width x height frame. The product must
// fit in an int; Validate establishes that for any frame backed by a buffer.
func Size(width, height int) int {
	return width * height * Channels
}

// Validate checks that a buffer of bufferLength bytes can hold a width x height
// frame. Dimensions are expected to be positive.
func Validate(bufferLength, width, height int) error {
	if width > 0 && height > 0 {
		// Divide instead of multiplying so huge dimensions cannot wrap.
		if bufferLength/Channels/width < height {
			return tooSmall(bufferLength, width, height)
		}
		return nil
	}
	if bufferLength < Size(width, height) {
		return tooSmall(bufferLength, width, height)
	}
	return nil
}

func tooSmall(bufferLength, width, height int) error {
	return errors.Wrapf(ErrBufferTooSmall, "%dx%dx%d frame does not fit in %d bytes", width, height, Channels, bufferLength)
}

// Transform validates in and returns a new buffer holding the transformed
// frame. in is only read, and only its first Size(width, height) bytes.
func Transform(in []byte, width, height int, mode Mode) ([]byte, error) {
	if err := Validate(len(in), width, height); err != nil {
		return nil, err
	}
	pix := in[:Size(width, height)]

	switch mode {
	case Grayscale:
		return Expand(Luminance(pix, width, height)), nil
	case EdgeDetection:
		lum := Luminance(pix, width, height)
		return Expand(DetectEdges(lum, width, height, LowThreshold, HighThreshold)), nil
	default:
		out := make([]byte, len(pix))
		copy(out, pix)
		return out, nil
	}
}

// Expand turns a single-channel image into the 4-channel layout with every
// color channel set to the sample and full opacity.
func Expand(single []byte) []byte {
	out := make([]byte, len(single)*Channels)
	for i, v := range single {
		o := i * Channels
		out[o] = v
		out[o+1] = v
		out[o+2] = v
		out[o+3] = 255
	}
	return out
}
