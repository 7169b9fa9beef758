package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/graft/internal/logging"
)

// Shutdown is a context cancelled on SIGINT, SIGTERM or Stop.
type Shutdown struct {
	context.Context
	stop func()

	mu  sync.Mutex
	sig os.Signal
}

// OnSignal returns a Shutdown derived from parent. Callers must Stop it.
func OnSignal(parent context.Context) *Shutdown {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	s := &Shutdown{Context: ctx}
	s.stop = func() {
		signal.Stop(ch)
		cancel()
	}
	go func() {
		select {
		case sig := <-ch:
			s.mu.Lock()
			s.sig = sig
			s.mu.Unlock()
		case <-ctx.Done():
		}
		s.stop()
	}()
	return s
}

// Stop cancels the context and releases the signal handler.
func (s *Shutdown) Stop() { s.stop() }

// Signal returns the signal that ended the context, or nil.
func (s *Shutdown) Signal() os.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sig
}

// Serve runs srv until it fails or s is done. In-flight requests then get grace to
// finish before the server is closed.
func (s *Shutdown) Serve(srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-s.Done():
	}

	logger.Info("Start shutdown", "signal", s.Signal())
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown did not complete", "timeout", grace, "err", err)
		if err := srv.Close(); err != nil {
			return fmt.Errorf("close server: %w", err)
		}
	}
	return nil
}

// createLogger logs to stderr in debug mode so stdout only carries rendered output.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage writes a status line that is not part of the rendered output.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
