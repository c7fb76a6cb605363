// Package capture streams RGBA frames from a V4L2 webcam.
package capture

import "github.com/pkg/errors"

// Frame is one captured image in the 4-channel layout the frame package
// expects. Buffer is owned by the receiver.
type Frame struct {
	Buffer []byte
	Width  int
	Height int
}

// Processor handles a frame and reports whether capturing should continue.
type Processor func(frame *Frame) (bool, error)

type Option struct {
	Device string
	Width  int
	Height int
	// CPUCore pins the capture thread when >= 0.
	CPUCore int
}

// Capture runs processor on every frame until it returns false or an error,
// or until the camera fails.
func Capture(opt *Option, processor Processor) error {
	cam := Open(opt)
	defer cam.Close()

	for frame := range cam.Stream() {
		cont, err := processor(frame)
		if err != nil {
			return errors.Wrap(err, "process frame")
		}
		if !cont {
			return nil
		}
	}
	return cam.Err()
}
