package db

import (
	"context"
	"fmt"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

const defaultPingTimeout = 5 * time.Second

// Ping probes the store with a bounded timeout. A zero timeout uses the default.
func Ping(ctx context.Context, p Pinger, timeout time.Duration) error {
	if timeout == 0 {
		timeout = defaultPingTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
