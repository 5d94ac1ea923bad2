package database

import (
	"context"
	"fmt"
	"time"

	"banking-chatbot/internal/common/config"

	"go.uber.org/zap"
)

// RetryWithBackoff runs operation until it succeeds, doubling the delay after
// each failure. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, operation func(context.Context) error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	if log == nil {
		log = zap.NewNop()
	}

	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation(ctx)
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s aborted: %w", operationName, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// ConnectRedis opens a Redis client and waits until it answers PING.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, maxRetries int, initialDelay time.Duration, log *zap.Logger) (*RedisClient, error) {
	client, err := NewRedis(cfg)
	if err != nil {
		return nil, err
	}
	if err := RetryWithBackoff(ctx, client.Ping, maxRetries, initialDelay, log, "Redis connection"); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectPostgres opens a PostgreSQL pool and waits until it answers.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig, maxRetries int, initialDelay time.Duration, log *zap.Logger) (*PostgresClient, error) {
	client, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := RetryWithBackoff(ctx, client.Ping, maxRetries, initialDelay, log, "PostgreSQL connection"); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
