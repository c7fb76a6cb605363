package capture

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"

	"github.com/abihf/visionedge/utils/thread"
)

// V4L2 fourcc for packed YUYV 4:2:2.
const pixelFormatYUYV webcam.PixelFormat = 0x56595559

// waitTimeout is the per-frame wait in seconds.
const waitTimeout = 1

type device interface {
	StartStreaming() error
	WaitForFrame(timeout uint32) error
	ReadFrame() ([]byte, error)
	Close() error
}

// openDevice opens the webcam and negotiates YUYV at the requested size. The
// driver may pick a different size, which is returned.
var openDevice = func(opt *Option) (device, int, int, error) {
	cam, err := webcam.Open(opt.Device)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "Can not open device")
	}

	if _, ok := cam.GetSupportedFormats()[pixelFormatYUYV]; !ok {
		cam.Close()
		return nil, 0, 0, errors.Errorf("%s does not support YUYV", opt.Device)
	}
	_, w, h, err := cam.SetImageFormat(pixelFormatYUYV, uint32(opt.Width), uint32(opt.Height))
	if err != nil {
		cam.Close()
		return nil, 0, 0, errors.Wrap(err, "Can not set image format")
	}
	if w%2 != 0 {
		cam.Close()
		return nil, 0, 0, errors.Errorf("%s negotiated odd YUYV width %d", opt.Device, w)
	}
	return cam, int(w), int(h), nil
}

// Camera delivers frames on a one-slot mailbox: when the consumer falls
// behind, the pending frame is replaced by the newest one.
type Camera struct {
	frame chan *Frame
	done  chan struct{}
	err   error

	stopped   atomic.Bool
	closeOnce sync.Once
}

// Open starts capturing in the background. Errors are reported by Err once
// Stream is closed.
func Open(opt *Option) *Camera {
	c := &Camera{
		frame: make(chan *Frame, 1),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		defer close(c.frame)
		if err := c.run(opt); err != nil {
			c.err = err
		}
	}()
	return c
}

// Stream returns the frame channel. It is closed when capturing stops.
func (c *Camera) Stream() <-chan *Frame {
	return c.frame
}

// Err returns the error that stopped capturing, if any. It is only
// meaningful after Stream has been closed.
func (c *Camera) Err() error {
	<-c.done
	return c.err
}

// Close stops capturing and waits for the device to be released.
func (c *Camera) Close() {
	c.closeOnce.Do(func() {
		c.stopped.Store(true)
	})
	<-c.done
}

func (c *Camera) isStopped() bool {
	return c.stopped.Load()
}

func (c *Camera) run(opt *Option) error {
	if opt.CPUCore >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := thread.SetCPUAffinity(opt.CPUCore); err != nil {
			slog.Warn("Can not pin capture thread", "core", opt.CPUCore, "error", err)
		}
	}

	cam, width, height, err := openDevice(opt)
	if err != nil {
		return err
	}
	defer cam.Close()

	if err := cam.StartStreaming(); err != nil {
		return errors.Wrap(err, "Can not start streaming")
	}

	for !c.isStopped() {
		err = cam.WaitForFrame(waitTimeout)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			slog.Debug("Frame wait timed out", "device", opt.Device)
			continue
		default:
			return errors.Wrap(err, "Frame wait failed")
		}

		raw, err := cam.ReadFrame()
		if err != nil {
			return errors.Wrap(err, "Read frame failed")
		}
		if len(raw) == 0 || c.isStopped() {
			continue
		}

		rgba, err := yuyvToRGBA(raw, width, height)
		if err != nil {
			return err
		}
		if isWarmupFrame(rgba, width, height) {
			continue
		}

		c.publish(&Frame{Buffer: rgba, Width: width, Height: height})
	}

	return nil
}

func (c *Camera) publish(f *Frame) {
	for {
		select {
		case c.frame <- f:
			return
		default:
		}
		// drop the stale frame
		select {
		case <-c.frame:
		default:
		}
	}
}
