package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const statePrefix = "oauth:state:"

// Cache keeps one-shot OAuth state values in redis.
type Cache struct {
	RDB *redis.Client
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Put(ctx context.Context, state string, ttl time.Duration) error {
	ok, err := c.RDB.SetNX(ctx, statePrefix+state, 1, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("state already issued")
	}
	return nil
}

// Take consumes state; a second call for the same value reports false.
func (c *Cache) Take(ctx context.Context, state string) (bool, error) {
	err := c.RDB.GetDel(ctx, statePrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }
