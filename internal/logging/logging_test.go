package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, err := New(false)
	require.NoError(t, err)
	assert.True(t, logger.Enabled())
	assert.False(t, logger.V(1).Enabled())

	verbose, err := New(true)
	require.NoError(t, err)
	assert.True(t, verbose.V(1).Enabled())
}

func TestFromContext_DefaultsToDiscard(t *testing.T) {
	logger := FromContext(context.Background())
	assert.False(t, logger.Enabled())
}

func TestIntoContext(t *testing.T) {
	logger, err := New(true)
	require.NoError(t, err)

	ctx := IntoContext(context.Background(), logger)
	assert.True(t, FromContext(ctx).V(1).Enabled())
}
