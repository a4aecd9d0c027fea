// Package ratelimit implements a per-key attempt counter with a sliding window.
//
// Each key owns a count and a window start. On every attempt the window is
// restarted when more than the configured duration has elapsed since its
// start, then the count is incremented; the attempt is limited once the count
// exceeds the maximum. The defaults used by the registration endpoint are ten
// attempts per ten minutes.
//
// Two stores are provided. MemoryStore guards a map with a single mutex and
// is scoped to the process. RedisStore runs the same read-reset-increment
// sequence as a Lua script so several instances can share one table.
//
// The clock is injectable through WithClock:
//
//	store := ratelimit.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimit.NewSlidingWindow(store, 10, 10*time.Minute)
//	if err != nil {
//	    return err
//	}
//
//	limited, err := limiter.IsLimited(ctx, ratelimit.ClientIP(r))
package ratelimit
