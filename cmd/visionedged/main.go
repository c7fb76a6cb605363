package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/pkg/errors"

	"github.com/abihf/visionedge/config"
	vdaemon "github.com/abihf/visionedge/daemon"
	"github.com/abihf/visionedge/httpapi"
	vlog "github.com/abihf/visionedge/internal/log"
)

var conf = config.Load()

func main() {
	vlog.Init(conf.LogLevel)
	if err := serve(); err != nil {
		log.Fatal(err)
	}
}

func serve() error {
	logger := vlog.L()

	if vdaemon.IsAlreadyRunning(conf.PidFile) {
		return errors.New("already run")
	}

	if err := vdaemon.WriteLockFile(conf.PidFile); err != nil {
		return errors.Wrap(err, "Can not write pid file")
	}
	defer os.Remove(conf.PidFile)

	os.Remove(conf.Socket)

	ln, err := net.Listen("unix", conf.Socket)
	if err != nil {
		return errors.Wrap(err, "Listen error")
	}
	defer ln.Close()

	os.Chmod(conf.Socket, 0666)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 2)
	go func() {
		errc <- vdaemon.New(logger).Serve(ctx, ln)
	}()

	var api *httpapi.Server
	if conf.HTTPAddr != "" {
		api = httpapi.New(logger)
		go func() {
			errc <- api.Listen(conf.HTTPAddr)
		}()
	}

	daemon.SdNotify(false, daemon.SdNotifyReady)
	logger.Info("visionedged ready", "socket", conf.Socket, "http", conf.HTTPAddr)

	select {
	case <-ctx.Done():
		logger.Info("Caught signal, shutting down")
	case err = <-errc:
	}

	daemon.SdNotify(false, daemon.SdNotifyStopping)
	if api != nil {
		api.Shutdown()
	}
	stop()
	return err
}
