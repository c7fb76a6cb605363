package daemon

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/abihf/visionedge"
	"github.com/abihf/visionedge/protocol"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pipe(t *testing.T) (net.Conn, *protocol.Decoder) {
	t.Helper()
	client, server := net.Pipe()
	go New(quietLogger()).Handle(server)
	t.Cleanup(func() { client.Close() })
	client.SetDeadline(time.Now().Add(5 * time.Second))
	return client, protocol.NewDecoder(client)
}

func TestHandle_Init(t *testing.T) {
	c, dec := pipe(t)

	id, err := protocol.WriteInitReq(c, "test")
	if err != nil {
		t.Fatal(err)
	}
	res, err := dec.ReadRes()
	if err != nil {
		t.Fatal(err)
	}
	if res.ID != id || res.Status != protocol.StatusSuccess {
		t.Fatalf("res = %+v", res)
	}
	if res.Extras["message"] != visionedge.InitMessage {
		t.Errorf("message = %q, want %q", res.Extras["message"], visionedge.InitMessage)
	}
}

func TestHandle_Process(t *testing.T) {
	c, dec := pipe(t)
	white := bytes.Repeat([]byte{255, 255, 255, 255}, 4)

	tests := []struct {
		name     string
		data     []byte
		w, h     int32
		mode     int32
		wantCode protocol.Code
		want     []byte
	}{
		{"grayscale", white, 2, 2, 1, "", white},
		{"edge", white, 2, 2, 2, "", bytes.Repeat([]byte{0, 0, 0, 255}, 4)},
		{"short buffer", white[:15], 2, 2, 0, protocol.CodeBufferTooSmall, nil},
		{"zero width", white, 0, 2, 0, protocol.CodeBadRequest, nil},
		{"max int32 dimensions", white[:4], math.MaxInt32, math.MaxInt32, 0, protocol.CodeBufferTooSmall, nil},
		{"max int32 edge", white, math.MaxInt32, math.MaxInt32, 2, protocol.CodeBufferTooSmall, nil},
	}

	// All requests share one connection.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := protocol.WriteProcessReq(c, tt.data, tt.w, tt.h, tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			res, err := dec.ReadRes()
			if err != nil {
				t.Fatal(err)
			}
			if res.ID != id {
				t.Errorf("res.ID = %q, want %q", res.ID, id)
			}

			if tt.wantCode != "" {
				if res.Status != protocol.StatusError || res.Code != tt.wantCode {
					t.Errorf("res = %+v, want error %s", res, tt.wantCode)
				}
				if res.Frame != nil {
					t.Error("error response carries a frame")
				}
				return
			}
			if res.Status != protocol.StatusSuccess || res.Frame == nil {
				t.Fatalf("res = %+v", res)
			}
			if !bytes.Equal(res.Frame.Data, tt.want) {
				t.Errorf("frame = %v, want %v", res.Frame.Data, tt.want)
			}
		})
	}
}

func TestHandle_UnknownAction(t *testing.T) {
	c, dec := pipe(t)

	if _, err := c.Write([]byte(`{"id":"x","action":"AUTH"}` + "\n")); err != nil {
		t.Fatal(err)
	}
	res, err := dec.ReadRes()
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != protocol.StatusError || res.Code != protocol.CodeBadRequest {
		t.Errorf("res = %+v", res)
	}
}

func TestServe(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ve.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(quietLogger()).Serve(ctx, ln) }()

	conn, err := net.Dial("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := protocol.WriteInitReq(conn, "serve-test"); err != nil {
		t.Fatal(err)
	}
	res, err := protocol.ReadRes(conn)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != protocol.StatusSuccess {
		t.Errorf("res = %+v", res)
	}
	conn.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_ClosesIdleConnections(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ve.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(quietLogger()).Serve(ctx, ln) }()

	conn, err := net.Dial("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// One round trip so the handler is known to be running.
	if _, err := protocol.WriteInitReq(conn, "idle"); err != nil {
		t.Fatal(err)
	}
	if _, err := protocol.ReadRes(conn); err != nil {
		t.Fatal(err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve blocked on an idle connection")
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Read(make([]byte, 1)); err == nil {
		t.Error("idle connection still open after shutdown")
	}
}

func TestLockFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "visionedge.pid")

	if IsAlreadyRunning(path) {
		t.Error("missing pid file reported as running")
	}
	if err := WriteLockFile(path); err != nil {
		t.Fatal(err)
	}
	if !IsAlreadyRunning(path) {
		t.Error("own pid not reported as running")
	}

	garbage := filepath.Join(dir, "garbage.pid")
	os.WriteFile(garbage, []byte("not-a-pid"), 0o644)
	if IsAlreadyRunning(garbage) {
		t.Error("invalid pid file reported as running")
	}

	stale := filepath.Join(dir, "stale.pid")
	os.WriteFile(stale, []byte(strconv.Itoa(1<<22+12345)), 0o644)
	if IsAlreadyRunning(stale) {
		t.Error("stale pid reported as running")
	}
}

func TestWriteLockFile_WriteError(t *testing.T) {
	// Writes to /dev/full always fail with ENOSPC.
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	if err := WriteLockFile("/dev/full"); err == nil {
		t.Error("want error when the pid can not be written")
	}
}
