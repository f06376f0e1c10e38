package sigctx

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyContext(t *testing.T) {
	t.Run("Stop", func(t *testing.T) {
		ctx, stop := NotifyContext(t.Context())
		require.NoError(t, ctx.Err())
		stop()
		assert.Error(t, ctx.Err())
	})

	t.Run("Signal", func(t *testing.T) {
		ctx, stop := NotifyContext(t.Context())
		defer stop()

		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("context is not done after SIGTERM")
		}
	})
}
