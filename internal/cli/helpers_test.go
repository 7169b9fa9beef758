package cli

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/graft/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_Stop(t *testing.T) {
	s := OnSignal(context.Background())
	s.Stop()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by Stop")
	}
	assert.Nil(t, s.Signal())
}

func TestShutdown_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := OnSignal(parent)
	defer s.Stop()

	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with its parent")
	}
}

func TestShutdown_Serve(t *testing.T) {
	s := OnSignal(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	go func() {
		time.Sleep(50 * time.Millisecond)
		s.Stop()
	}()
	require.NoError(t, s.Serve(srv, time.Second, logging.NewNop()))
}

func TestShutdown_ServeListenError(t *testing.T) {
	s := OnSignal(context.Background())
	defer s.Stop()

	err := s.Serve(&http.Server{Addr: "127.0.0.1:-1"}, time.Second, logging.NewNop())
	assert.ErrorContains(t, err, "server error")
}
