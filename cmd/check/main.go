package main

import (
	"flag"
	"log"
	"net"

	"github.com/abihf/visionedge/protocol"
)

func main() {
	sock := flag.String("socket", protocol.GetSockAddress(), "daemon socket")
	flag.Parse()

	conn, err := net.Dial("unix", *sock)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	dec := protocol.NewDecoder(conn)

	if _, err := protocol.WriteInitReq(conn, "check"); err != nil {
		log.Fatal(err)
	}
	res, err := dec.ReadRes()
	if err != nil {
		log.Fatal(err)
	}
	println("Init", res.Status, res.Extras["message"])

	// 2x2 white probe in edge mode, expected to come back edge-free.
	probe := []byte{
		255, 255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 255, 255,
	}
	if _, err := protocol.WriteProcessReq(conn, probe, 2, 2, 2); err != nil {
		log.Fatal(err)
	}
	res, err = dec.ReadRes()
	if err != nil {
		log.Fatal(err)
	}
	if res.Status != protocol.StatusSuccess {
		log.Fatalf("Process %s: %s (%s)", res.Status, res.Error, res.Code)
	}
	println("Process", res.Status, len(res.Frame.Data), "bytes")
}
