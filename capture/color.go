package capture

import (
	"github.com/pkg/errors"

	"github.com/abihf/visionedge/frame"
)

// yuyvToRGBA converts packed YUYV 4:2:2 to RGBA with a BT.601 integer
// approximation. Pixels share chroma in pairs, so width must be even.
func yuyvToRGBA(src []byte, width, height int) ([]byte, error) {
	if width%2 != 0 {
		return nil, errors.Errorf("YUYV frame width %d is odd", width)
	}
	if len(src) < width*height*2 {
		return nil, errors.Errorf("YUYV frame has %d bytes, want %d", len(src), width*height*2)
	}

	out := make([]byte, frame.Size(width, height))
	for i, o := 0, 0; i+3 < width*height*2; i, o = i+4, o+8 {
		u := int(src[i+1]) - 128
		v := int(src[i+3]) - 128
		putRGBA(out[o:o+4], int(src[i]), u, v)
		putRGBA(out[o+4:o+8], int(src[i+2]), u, v)
	}
	return out, nil
}

func putRGBA(dst []byte, y, u, v int) {
	c := y - 16
	if c < 0 {
		c = 0
	}
	dst[0] = clampByte((298*c + 409*v + 128) >> 8)
	dst[1] = clampByte((298*c - 100*u - 208*v + 128) >> 8)
	dst[2] = clampByte((298*c + 516*u + 128) >> 8)
	dst[3] = 255
}

func clampByte(x int) byte {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return byte(x)
}

// isWarmupFrame reports whether nearly every pixel is black, as sensors
// produce while the exposure settles.
func isWarmupFrame(rgba []byte, width, height int) bool {
	lum := frame.Luminance(rgba, width, height)
	dark := 0
	for _, l := range lum {
		if l < 16 {
			dark++
		}
	}
	return float64(dark)/float64(len(lum)) > 0.98
}
