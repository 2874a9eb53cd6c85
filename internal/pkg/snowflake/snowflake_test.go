package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomSnowFlake_Generate(t *testing.T) {
	t.Parallel()

	sf, err := NewCustomSnowFlake(1, 2)
	require.NoError(t, err)

	id0, err := sf.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), id0.AppID())

	id1, err := sf.Generate(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id1.AppID())

	_, err = sf.Generate(5)
	assert.ErrorIs(t, err, ErrUnknownApp)
}

func TestNewCustomSnowFlake(t *testing.T) {
	t.Parallel()

	_, err := NewCustomSnowFlake(32, 1)
	assert.ErrorIs(t, err, ErrExceedNode)

	_, err = NewCustomSnowFlake(1, 33)
	assert.ErrorIs(t, err, ErrExceedApp)
}
