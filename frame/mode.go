package frame

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects the transform applied to a frame.
type Mode int32

const (
	Original Mode = iota
	Grayscale
	EdgeDetection
)

func (m Mode) String() string {
	switch m {
	case Original:
		return "original"
	case Grayscale:
		return "grayscale"
	case EdgeDetection:
		return "edge"
	default:
		return "unknown(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode accepts a mode name or its integer value. Integers are passed
// through unchecked, so unmapped values keep their passthrough behaviour.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "original", "none", "":
		return Original, nil
	case "grayscale", "gray", "grey":
		return Grayscale, nil
	case "edge", "edges", "edge_detection":
		return EdgeDetection, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return Original, errors.Errorf("unknown mode %q", s)
	}
	return Mode(n), nil
}
