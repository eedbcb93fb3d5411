package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer(t *testing.T) {
	ctx := context.Background()

	unlimited := NewPacer(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, unlimited.Wait(ctx))
	}

	slow := NewPacer(0.001, 1)
	require.NoError(t, slow.Wait(ctx), "burst allows the first call")

	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, slow.Wait(short), "second call would exceed the deadline")
}

func TestPacer_Nil(t *testing.T) {
	var p *Pacer
	assert.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
}
