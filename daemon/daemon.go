// Package daemon serves the protocol package's requests on a listener.
package daemon

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/abihf/visionedge"
	"github.com/abihf/visionedge/frame"
	"github.com/abihf/visionedge/protocol"
)

type Server struct {
	Logger *slog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
}

func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Logger: logger}
}

// Serve accepts connections until ctx is done or the listener fails. Open
// connections are closed when ctx is done, and Serve waits for their
// handlers to return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.wg.Wait()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		ln.Close()
		s.closeConns()
	}()

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return errors.Wrap(err, "accept")
		}

		if !s.track(c) {
			c.Close()
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.Handle(c)
		}()
	}
}

// track registers c unless the server is shutting down.
func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.conns {
		c.Close()
	}
}

// Handle answers requests on c until the peer closes it.
func (s *Server) Handle(c net.Conn) {
	defer c.Close()

	dec := protocol.NewDecoder(c)
	for {
		req, err := dec.ReadReq()
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				s.Logger.Warn("Can not read request", "error", err)
			}
			return
		}

		if err := s.dispatch(c, req); err != nil {
			s.Logger.Warn("Can not write response", "id", req.ID, "error", err)
			return
		}
	}
}

func (s *Server) dispatch(w io.Writer, req *protocol.Req) error {
	logger := s.Logger.With("id", req.ID, "action", req.Action)

	switch req.Action {
	case protocol.ActionInit:
		logger.Info("Init requested", "client", req.Params["client"])
		return protocol.WriteSuccessRes(w, req.ID, map[string]string{
			"message": visionedge.Initialize(),
		})

	case protocol.ActionProcess:
		f := req.Frame
		if f == nil {
			return protocol.WriteErrorRes(w, req.ID, protocol.CodeBadRequest, errors.New("missing frame"))
		}
		if f.Width <= 0 || f.Height <= 0 {
			return protocol.WriteErrorRes(w, req.ID, protocol.CodeBadRequest,
				errors.Errorf("invalid dimensions %dx%d", f.Width, f.Height))
		}

		out, err := visionedge.ProcessFrame(f.Data, f.Width, f.Height, f.Mode)
		if err != nil {
			code := protocol.CodeInternal
			if errors.Cause(err) == frame.ErrBufferTooSmall {
				code = protocol.CodeBufferTooSmall
			}
			return protocol.WriteErrorRes(w, req.ID, code, err)
		}
		return protocol.WriteFrameRes(w, req.ID, out, f.Width, f.Height)

	default:
		logger.Warn("Unknown action")
		return protocol.WriteErrorRes(w, req.ID, protocol.CodeBadRequest,
			errors.Errorf("unknown action %q", req.Action))
	}
}
