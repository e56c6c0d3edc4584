package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// WaitForRPC polls url until it answers eth_blockNumber or attempts run out.
func WaitForRPC(ctx context.Context, url string, attempts int, interval time.Duration) error {
	if attempts < 1 {
		return fmt.Errorf("waiting for RPC at %s needs at least one attempt, got %d", url, attempts)
	}

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", url, err)
	}
	defer client.Close()

	var lastErr error
	for range attempts {
		if _, lastErr = client.BlockNumber(ctx); lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return fmt.Errorf("timed out waiting for RPC at %s: %w", url, lastErr)
}
