package lib

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandleInterruptDrainsBeforeReturning(t *testing.T) {
	drained := make(chan struct{}, 1)
	returned := make(chan struct{})

	go func() {
		HandleInterrupt(func(ctx context.Context) error {
			drained <- struct{}{}
			return nil
		})
		close(returned)
	}()

	// give the goroutine time to register its signal handler
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown callback was not invoked")
	}
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("HandleInterrupt did not return after draining")
	}
}
