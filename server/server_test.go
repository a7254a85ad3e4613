package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voicecart/voicecart/internal/profile"
	storetest "github.com/voicecart/voicecart/store/test"
)

func TestStartReturnsOnContextCancel(t *testing.T) {
	ts := storetest.NewTestingStore(context.Background(), t)
	testProfile := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Addr:   "127.0.0.1",
		Port:   0,
	}

	s, err := NewServer(context.Background(), testProfile, ts)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.apiService.Shutdown()
		s.rateLimiter.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	// Give the listener a moment to come up, then cancel.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}
