package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/abihf/visionedge"
	"github.com/abihf/visionedge/frame"
	"github.com/abihf/visionedge/snapshot"
)

func main() {
	if len(os.Args) < 2 {
		help()
	}
	switch os.Args[1] {
	case "init":
		fmt.Println(visionedge.Initialize())
	case "process":
		if len(os.Args) < 4 || len(os.Args) > 5 {
			help()
		}
		mode := "edge"
		if len(os.Args) == 5 {
			mode = os.Args[4]
		}
		must(process(os.Args[2], os.Args[3], mode))
		println("Done")
	default:
		help()
	}
}

func process(inPath, outPath, modeName string) error {
	mode, err := frame.ParseMode(modeName)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "Can not open input")
	}
	defer in.Close()

	buf, w, h, err := snapshot.Decode(in)
	if err != nil {
		return err
	}

	out, err := visionedge.ProcessFrame(buf, int32(w), int32(h), int32(mode))
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "Can not create output")
	}
	if err := snapshot.Encode(f, out, w, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func help() {
	log.Fatalf("Usage: %s init | process <input image> <output.png> [original|gray|edge]", os.Args[0])
}
