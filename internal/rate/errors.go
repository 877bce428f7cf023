package rate

import "errors"

var (
	// ErrRateLimited reports that an identifier or IP exhausted its
	// attempt budget for the current window.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps transport failures talking to Redis.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
