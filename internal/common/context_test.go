package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithInterrupt_CleanupCancels(t *testing.T) {
	ctx, cleanup := WithInterrupt(context.Background())
	assert.NoError(t, ctx.Err())

	cleanup()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by cleanup")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWithInterrupt_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, cleanup := WithInterrupt(parent)
	defer cleanup()

	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not follow parent cancellation")
	}
}
