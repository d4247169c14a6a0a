package infra

import "time"

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// CalculateBackoff returns the exponential backoff duration for a given
// retry count: base * 2^retryCount, capped at the maximum. A negative
// count yields the base delay.
func CalculateBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		return backoffBase
	}

	// 2^31 seconds already exceeds the cap; avoid shifting into overflow.
	if retryCount > 30 {
		return backoffMax
	}

	backoff := backoffBase * time.Duration(1<<retryCount)
	if backoff > backoffMax {
		return backoffMax
	}
	return backoff
}
