package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New(5000)

	got, err := s.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got)

	require.NoError(t, s.SetHighScore(ctx, 7000))
	got, err = s.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), got)
	assert.Equal(t, 1, s.Saves())
}
