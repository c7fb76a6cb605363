// Package visionedge is the call contract hosts use to run frames through the
// transform pipeline.
package visionedge

import (
	"github.com/pkg/errors"

	"github.com/abihf/visionedge/frame"
	"github.com/abihf/visionedge/internal/log"
)

// InitMessage is returned by Initialize.
const InitMessage = "VisionEdge native module initialized"

// Initialize reports that the module is loaded. It has no other effect.
func Initialize() string {
	log.L().Info("VisionEdge native module initialized successfully")
	return InitMessage
}

// ProcessFrame transforms a width x height frame with the given mode and
// returns a newly allocated buffer of width*height*4 bytes. in is borrowed for
// the duration of the call and never retained or written.
//
// Mode 0 copies, 1 converts to grayscale, 2 detects edges; any other value
// copies. A buffer shorter than the dimensions require yields a nil buffer and
// an error whose cause is frame.ErrBufferTooSmall.
func ProcessFrame(in []byte, width, height, mode int32) ([]byte, error) {
	w, h, m := int(width), int(height), frame.Mode(mode)
	logger := log.L().With("width", w, "height", h, "mode", m.String())
	logger.Debug("Processing frame", "in_bytes", len(in), "want_bytes", frame.Size(w, h))

	out, err := frame.Transform(in, w, h, m)
	if err != nil {
		if errors.Cause(err) == frame.ErrBufferTooSmall {
			logger.Error("Input buffer too small", "error", err)
		}
		return nil, err
	}

	logger.Debug("Frame processed", "out_bytes", len(out))
	return out, nil
}
