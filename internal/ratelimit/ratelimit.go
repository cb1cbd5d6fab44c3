package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"engagement-service/internal/shared/httpx"

	"github.com/redis/go-redis/v9"
)

type Limiter struct{ R *redis.Client }

func New(r *redis.Client) *Limiter { return &Limiter{R: r} }

func (l *Limiter) AllowSliding(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	k := "rl:" + key
	pipe := l.R.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, err
	}
	n := incr.Val()
	return n <= limit, n, nil
}

// LimitHTTP rejects requests once the caller exceeds limit within window.
// The limiter fails open when redis is unreachable.
func (l *Limiter) LimitHTTP(limit int64, window time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := httpx.UserFromCtx(r)
		if err != nil || uid == "" {
			httpx.WriteJSON(w, map[string]string{"error": "missing user"}, http.StatusUnauthorized)
			return
		}
		ok, n, e := l.AllowSliding(r.Context(), uid, limit, window)
		if e != nil {
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			httpx.WriteJSON(w, map[string]string{
				"error": fmt.Sprintf("rate limit exceeded (count=%d, limit=%d)", n, limit),
				"code":  "rate_limited",
			}, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
