package browse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitorSweepsExpiredRecords(t *testing.T) {
	cache := NewListingCache(time.Minute, 10, nil)
	cache.Set("/a", listingOf("a"))
	cache.Set("/b", listingOf("b"))
	cache.backdate("/a", 2*time.Minute)

	j := newJanitor(cache, 10*time.Millisecond)
	j.start()

	assert.Eventually(t, func() bool {
		return cache.Len() == 1
	}, time.Second, 5*time.Millisecond, "janitor sweeps the expired record")

	require.NoError(t, j.stop(context.Background()))

	_, ok := cache.Get("/b")
	assert.True(t, ok, "fresh record survives the sweep")
}

func TestJanitorStopIsPrompt(t *testing.T) {
	j := newJanitor(NewListingCache(time.Minute, 10, nil), time.Hour)
	j.start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, j.stop(ctx), "stop must not wait for the next tick")
}
