package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// idempotencyFixture is an IdempotencyStore backed by an in-process Redis.
type idempotencyFixture struct {
	store  *IdempotencyStore
	client *redislib.Client
	redis  *miniredis.Miniredis
}

func (f *idempotencyFixture) key(k string) string {
	return f.store.prefix + k
}

func newIdempotencyFixture(t *testing.T) *idempotencyFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &idempotencyFixture{
		store:  NewIdempotencyStore(client),
		client: client,
		redis:  mr,
	}
}
