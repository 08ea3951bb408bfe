// Package httpserver exposes the services over HTTP/JSON using gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Options configures the listener.
type Options struct {
	Addr            string
	TLSCert         string
	TLSKey          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server runs an http.Server until its context is cancelled.
type Server struct {
	opts Options
	srv  *http.Server
	log  *zap.Logger
}

// New wraps handler in an http.Server.
func New(opts Options, handler http.Handler, log *zap.Logger) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		opts: opts,
		log:  log,
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
		},
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis. On ctx cancellation it shuts down
// gracefully, waiting at most ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	tls := s.opts.TLSCert != "" && s.opts.TLSKey != ""
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", lis.Addr().String()), zap.Bool("tls", tls))
		if tls {
			errCh <- s.srv.ServeTLS(lis, s.opts.TLSCert, s.opts.TLSKey)
			return
		}
		errCh <- s.srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shCtx); err != nil {
			_ = s.srv.Close()
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
