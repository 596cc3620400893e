package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeSignalsReadyAfterBind(t *testing.T) {
	srv := &http.Server{
		Addr: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
		ReadHeaderTimeout: time.Second,
	}

	readyCalls := 0
	serverErr, err := serve(srv, func() error {
		readyCalls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, readyCalls)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-serverErr:
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}
}

func TestServeDoesNotSignalReadyWhenBindFails(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	srv := &http.Server{
		Addr:              taken.Addr().String(),
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}

	readyCalls := 0
	serverErr, err := serve(srv, func() error {
		readyCalls++
		return nil
	})
	require.Error(t, err)
	assert.Nil(t, serverErr)
	assert.Zero(t, readyCalls)
}

func TestServeKeepsRunningWhenReadyFails(t *testing.T) {
	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}

	serverErr, err := serve(srv, func() error {
		return fmt.Errorf("status table unavailable")
	})
	require.NoError(t, err)
	require.NotNil(t, serverErr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}
