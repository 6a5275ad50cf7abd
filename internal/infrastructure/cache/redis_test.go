package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_UnavailableBypasses(t *testing.T) {
	var r *Redis
	ctx := context.Background()

	assert.False(t, r.Available())
	assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)

	var out map[string]string
	hit, err := r.GetJSON(ctx, "profile:x", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, r.SetJSON(ctx, "profile:x", map[string]string{"a": "b"}, 0))
	assert.NoError(t, r.Delete(ctx, "profile:x"))

	assert.NoError(t, r.Close())
}

func TestRedis_DefaultTTL(t *testing.T) {
	assert.Equal(t, 600*time.Second, (&Redis{}).DefaultTTL())
	assert.Equal(t, time.Minute, (&Redis{ttl: time.Minute}).DefaultTTL())
}
