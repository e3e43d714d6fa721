package redis

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisProvider struct {
	Client *redis.Client
	URL    string
	logger *zap.SugaredLogger
	ttl    time.Duration
	stop   context.CancelFunc
}

func NewRedisProvider(redisURL string, logger *zap.Logger, ttl time.Duration) *RedisProvider {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{
			Addr: redisURL,
			DB:   0,
		}
	}
	opts.MaxRetries = 3
	opts.MinRetryBackoff = 100 * time.Millisecond
	opts.MaxRetryBackoff = 500 * time.Millisecond

	client := redis.NewClient(opts)

	ctx, cancel := context.WithCancel(context.Background())
	provider := &RedisProvider{
		Client: client,
		URL:    redisURL,
		logger: logger.Sugar(),
		ttl:    ttl,
		stop:   cancel,
	}

	client.AddHook(&loggerHook{provider: provider})

	go provider.startConnectionMonitor(ctx)

	if err := client.Ping(context.Background()).Err(); err != nil {
		provider.logger.Errorw("Redis connection failed at startup", "error", err)
	} else {
		provider.logger.Infow("Redis connected",
			"url", redisURL,
			"db", opts.DB,
			"default_ttl", ttl.String(),
		)
	}

	return provider
}

func (r *RedisProvider) TTL() time.Duration {
	return r.ttl
}

func (r *RedisProvider) SetWithDefaultTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.Client.Set(ctx, key, value, ttl)
}

func (r *RedisProvider) SetEX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	return r.Client.Set(ctx, key, value, ttl)
}

func (r *RedisProvider) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.Client.Get(ctx, key)
}

type ClaimResult int

const (
	ClaimMissing ClaimResult = iota
	ClaimMismatch
	ClaimOK
)

var compareAndDelete = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return 0
end
if v ~= ARGV[1] then
	return 1
end
redis.call("DEL", unpack(KEYS))
return 2
`)

// Claim deletes key, together with extra, only when key holds expected.
// The check and the delete run as one script, so at most one caller
// claims a given value.
func (r *RedisProvider) Claim(ctx context.Context, key, expected string, extra ...string) (ClaimResult, error) {
	keys := append([]string{key}, extra...)
	n, err := compareAndDelete.Run(ctx, r.Client, keys, expected).Int()
	if err != nil {
		return ClaimMissing, err
	}
	return ClaimResult(n), nil
}

func (r *RedisProvider) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.Client.Del(ctx, keys...)
}

func (r *RedisProvider) Scan(ctx context.Context, cursor uint64, pattern string, count int64) *redis.ScanCmd {
	return r.Client.Scan(ctx, cursor, pattern, count)
}

// GetJSON decodes a cached value into dst. It reports false on a miss or on
// an undecodable entry.
func (r *RedisProvider) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warnw("Redis cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Warnw("Redis cache entry undecodable", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON caches value for ttl (the provider default when ttl <= 0).
// Failures are logged, never returned: the cache is best effort.
func (r *RedisProvider) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warnw("Redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.SetWithDefaultTTL(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Warnw("Redis cache write failed", "key", key, "error", err)
	}
}

// DeletePattern removes every key matching pattern using SCAN and returns
// the number of deleted keys.
func (r *RedisProvider) DeletePattern(ctx context.Context, pattern string) int {
	var cursor uint64
	deletedCount := 0
	for {
		keys, cur, err := r.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			r.logger.Warnw("Redis scan failed during cache invalidation", "error", err, "pattern", pattern)
			return deletedCount
		}
		if len(keys) > 0 {
			n, err := r.Del(ctx, keys...).Result()
			if err != nil {
				r.logger.Warnw("Failed to delete cache keys", "error", err, "keys", keys)
			} else {
				deletedCount += int(n)
			}
		}
		if cur == 0 {
			break
		}
		cursor = cur
	}
	if deletedCount > 0 {
		r.logger.Debugw("Cache invalidated", "pattern", pattern, "deleted_keys", deletedCount)
	}
	return deletedCount
}

func (r *RedisProvider) Close() error {
	if r.stop != nil {
		r.stop()
	}
	return r.Client.Close()
}

func (r *RedisProvider) startConnectionMonitor(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var wasConnected bool

	if err := r.Client.Ping(ctx).Err(); err == nil {
		wasConnected = true
	} else {
		r.logger.Warnw("Redis unavailable at startup", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := r.Client.Ping(ctx).Err()
			if err != nil {
				if wasConnected {
					r.logger.Errorw("Redis disconnected", "error", err)
					wasConnected = false
				}
			} else if !wasConnected {
				r.logger.Infow("Redis reconnected", "url", r.URL)
				wasConnected = true
			}
		}
	}
}

type loggerHook struct {
	provider *RedisProvider
}

func (h *loggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.provider.logger.Errorw("Redis dial failed", "network", network, "addr", addr, "error", err)
		} else {
			h.provider.logger.Debugw("Redis dialed", "network", network, "addr", addr)
		}
		return conn, err
	}
}

func (h *loggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		if cmd.Name() == "ping" && err == nil {
			return err
		}
		h.log(cmd, time.Since(start), err)
		return err
	}
}

func (h *loggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		duration := time.Since(start)
		for _, cmd := range cmds {
			h.log(cmd, duration, err)
		}
		return err
	}
}

// Command args are not logged: keys and values may carry session keys and
// sign-in codes.
func (h *loggerHook) log(cmd redis.Cmder, duration time.Duration, err error) {
	fields := []interface{}{
		"command", cmd.Name(),
		"duration_ms", duration.Milliseconds(),
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		fields = append(fields, "error", err)
		h.provider.logger.Errorw("Redis command failed", fields...)
		return
	}
	h.provider.logger.Debugw("Redis command executed", fields...)
}
