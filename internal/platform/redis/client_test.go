package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot/internal/platform/config"
)

func TestNewWithoutURLDisablesRedis(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "://nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}
