package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDelay(t *testing.T) {
	p := Policy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	assert.Equal(t, 100*time.Millisecond, p.NextDelay(0))
	assert.Equal(t, 100*time.Millisecond, p.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.NextDelay(2))
	assert.Equal(t, 800*time.Millisecond, p.NextDelay(4))
	assert.Equal(t, time.Second, p.NextDelay(10))

	assert.Equal(t, time.Second, Policy{}.NextDelay(1))
	assert.Equal(t, 9*time.Second, Policy{BackoffFactor: 3}.NextDelay(3))
}

func TestDo(t *testing.T) {
	logger := zerolog.Nop()
	p := Policy{MaxRetries: 3, InitialDelay: time.Millisecond}

	t.Run("EventuallySucceeds", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, &logger, "db", func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("GivesUp", func(t *testing.T) {
		errDown := errors.New("down")
		calls := 0
		err := Do(context.Background(), p, &logger, "redis", func(context.Context) error {
			calls++
			return errDown
		})
		assert.ErrorIs(t, err, errDown)
		assert.Equal(t, 4, calls)
	})

	t.Run("ContextCanceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := Policy{MaxRetries: 5, InitialDelay: time.Hour}
		err := Do(ctx, slow, &logger, "db", func(context.Context) error { return errors.New("down") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
