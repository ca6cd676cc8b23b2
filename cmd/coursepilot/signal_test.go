//go:build unix

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchInterrupt_SecondSignalIsNotCaught(t *testing.T) {
	// guard keeps SIGUSR1 from terminating the test binary
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGUSR1)
	defer signal.Stop(guard)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchInterrupt(sigChan, cancel, io.Discard)
		close(done)
	}()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first signal did not cancel the run")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	<-guard

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))
	select {
	case <-guard:
	case <-time.After(5 * time.Second):
		t.Fatal("second signal was not delivered")
	}
	select {
	case sig := <-sigChan:
		t.Fatalf("signal %v still delivered after the first interrupt", sig)
	default:
	}
}
