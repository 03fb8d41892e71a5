package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrLockHeld = errors.New("lock already held")

// Lock is a redis-backed mutex scoped by key. The TTL bounds how long a
// crashed holder can block other workers.
type Lock struct {
	client *Client
	key    string
	owner  string
}

func (c *Client) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	prefixedKey := c.prefixKey("lock:" + key)
	owner := uuid.NewString()

	ok, err := c.rdb.SetNX(ctx, prefixedKey, owner, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return &Lock{client: c, key: prefixedKey, owner: owner}, nil
}

// Release deletes the lock only if this holder still owns it, so a holder
// that outlived its TTL cannot release a lock reacquired by someone else.
func (l *Lock) Release(ctx context.Context) error {
	script := `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
	`
	_, err := l.client.rdb.Eval(ctx, script, []string{l.key}, l.owner).Result()
	return err
}
