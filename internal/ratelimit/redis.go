package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps token buckets in Redis so throttling holds across
// server instances. Bucket state lives in a hash mutated by a Lua script,
// keeping refill-and-consume atomic.
type RedisStorage struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStorage(client *redis.Client, keyPrefix string) *RedisStorage {
	if keyPrefix == "" {
		keyPrefix = "login_limit:"
	}

	return &RedisStorage{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

const consumeScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refillRate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local tokensToConsume = tonumber(ARGV[4])
	local windowSeconds = tonumber(ARGV[5])

	local bucketData = redis.call('HMGET', key, 'tokens', 'lastRefill')
	local tokens = tonumber(bucketData[1])
	local lastRefill = tonumber(bucketData[2])
	if tokens == nil then
		tokens = capacity
	end
	if lastRefill == nil then
		lastRefill = now
	end

	local elapsed = (now - lastRefill) / 1000000000
	if elapsed > 0 then
		tokens = math.min(capacity, tokens + elapsed * refillRate)
	end

	local allowed = 0
	if tokens >= tokensToConsume then
		tokens = tokens - tokensToConsume
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'lastRefill', tostring(now))
	redis.call('EXPIRE', key, math.ceil(windowSeconds * 2))

	return allowed
`

func (r *RedisStorage) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	if limit.Attempts <= 0 || limit.Window <= 0 {
		return false, fmt.Errorf("invalid rate limit: %d per %s", limit.Attempts, limit.Window)
	}

	capacity := float64(limit.Attempts)
	refillRate := capacity / limit.Window.Seconds()

	result, err := r.client.Eval(ctx, consumeScript, []string{r.keyPrefix + key},
		capacity,
		refillRate,
		time.Now().UnixNano(),
		1.0,
		limit.Window.Seconds(),
	).Result()
	if err != nil {
		return false, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return result.(int64) == 1, nil
}

// Ping checks if the Redis connection is healthy.
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Stop releases the underlying Redis connection.
func (r *RedisStorage) Stop() {
	_ = r.client.Close()
}
