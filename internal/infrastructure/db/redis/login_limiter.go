package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AthrunAshy/flasky/internal/core/domain"
)

// LoginLimiter throttles login attempts per account and per source address,
// backed by Redis INCR with a rolling-window expiry.
// Key format: login:<email> and loginip:<ip>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow counts one attempt against both keys and returns
// domain.ErrLoginRateLimited once either budget is exhausted.
func (l *LoginLimiter) Allow(ctx context.Context, email, remoteIP string) error {
	if err := l.enforce(ctx, emailKey(email)); err != nil {
		return err
	}
	if remoteIP != "" {
		return l.enforce(ctx, ipKey(remoteIP))
	}
	return nil
}

// Reset clears the attempt counters, typically after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, remoteIP string) error {
	keys := []string{emailKey(email)}
	if remoteIP != "" {
		keys = append(keys, ipKey(remoteIP))
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) enforce(ctx context.Context, key string) error {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter: %w", err)
		}
	}
	if count > int64(l.maxAttempts) {
		return domain.ErrLoginRateLimited
	}
	return nil
}

func emailKey(email string) string {
	return "login:" + strings.ToLower(email)
}

func ipKey(ip string) string {
	return "loginip:" + ip
}
