package llm

import "fmt"

// Retry runs fn up to attempts times and returns nil on the first success.
// The last error is returned when every attempt fails. Nondeterministic
// generation is wrapped in this so validation failures get a bounded number
// of fresh samples instead of crashing the operation.
func Retry(attempts int, fn func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := fn(attempt); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
