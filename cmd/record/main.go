package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/abihf/visionedge"
	"github.com/abihf/visionedge/capture"
	"github.com/abihf/visionedge/config"
	"github.com/abihf/visionedge/frame"
	vlog "github.com/abihf/visionedge/internal/log"
	"github.com/abihf/visionedge/snapshot"
)

var conf = config.Load()

func main() {
	every := flag.Int("every", 30, "save one snapshot per N frames")
	count := flag.Int("count", 5, "number of snapshots to save")
	modeName := flag.String("mode", conf.Mode, "original, gray or edge")
	flag.Parse()

	vlog.Init(conf.LogLevel)
	if err := mainE(*every, *count, *modeName); err != nil {
		fmt.Println(err)
	}
}

func mainE(every, count int, modeName string) error {
	mode, err := frame.ParseMode(modeName)
	if err != nil {
		return err
	}
	if every < 1 {
		every = 1
	}

	opt := &capture.Option{
		Device:  conf.Device,
		Width:   conf.Width,
		Height:  conf.Height,
		CPUCore: *conf.CPUCore,
	}

	frames, saved := 0, 0
	return capture.Capture(opt, func(f *capture.Frame) (bool, error) {
		frames++
		out, err := visionedge.ProcessFrame(f.Buffer, int32(f.Width), int32(f.Height), int32(mode))
		if err != nil {
			return false, err
		}
		if frames%every != 0 {
			return true, nil
		}

		path, err := snapshot.Save(conf.SnapshotDir, out, f.Width, f.Height, time.Now())
		if err != nil {
			return false, err
		}
		saved++
		fmt.Printf("  - Saved %s (%dx%d, %s)\n", path, f.Width, f.Height, mode)
		return saved < count, nil
	})
}
