package transport

import (
	"context"
	"log/slog"
	"time"
)

// SendWithRetry sends an update, retrying retryable failures with
// exponential backoff (baseDelay, 2*baseDelay, ...). It makes at most
// maxAttempts attempts and returns the result of the last one.
// Rejections, 4xx statuses and decode errors are not retried.
func SendWithRetry(ctx context.Context, sender Sender, action Action, params any, maxAttempts int, baseDelay time.Duration) (*Response, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		resp    *Response
		lastErr error
	)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, lastErr = sender.Send(ctx, action, params)
		if lastErr == nil {
			if attempt > 0 {
				slog.Debug("update sent after retry",
					"attempt", attempt+1,
					"action", action)
			}
			return resp, nil
		}

		ue := Classify(lastErr)
		if !ue.Retryable() || attempt == maxAttempts-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		slog.Debug("update failed, retrying",
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"retry_delay", delay,
			"action", action,
			"error", lastErr)

		select {
		case <-ctx.Done():
			return nil, Classify(ctx.Err())
		case <-time.After(delay):
		}
	}

	slog.Warn("update failed",
		"action", action,
		"error", lastErr)

	return resp, lastErr
}
