package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(ctx)))

	ctx = context.WithValue(ctx, suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx), "non-bool values are ignored")
}

func TestRunID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, int64(0), getRunID(ctx))
	assert.Equal(t, int64(42), getRunID(withRunID(ctx, 42)))
}

func TestProgressFor(t *testing.T) {
	assert.Nil(t, progressFor(WithSuppressHeader(context.Background())))
	assert.NotNil(t, progressFor(context.Background()))
}
