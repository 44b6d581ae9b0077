package clients

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spacesedan/reviewpulse/config"
	"github.com/valkey-io/valkey-go"
)

type ValkeyClient struct {
	Client valkey.Client
	cfg    config.ValkeyConfig
	mu     sync.RWMutex
	dial   func(context.Context, config.ValkeyConfig) (valkey.Client, error)
}

func NewValkeyClient(ctx context.Context, cfg config.ValkeyConfig) (*ValkeyClient, error) {
	client, err := dialValkey(ctx, cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeyClient{Client: client, cfg: cfg, dial: dialValkey}, nil
}

func dialValkey(ctx context.Context, cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PING_TIMEOUT)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Client
}

// recreateClient replaces stale with a freshly dialed client. If another
// caller already replaced stale, the current client is kept.
func (vc *ValkeyClient) recreateClient(ctx context.Context, stale valkey.Client) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	if vc.Client != stale {
		return
	}

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := vc.dial(ctx, vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Valkey client recreated")
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// DoWithRetry runs cmd, retrying connection failures. Valkey nil replies are
// returned as-is so callers can check them with valkey.IsValkeyNil.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	_ = Retry(ctx, "ValkeyClient", func(ctx context.Context) error {
		c := vc.client()
		result = c.Do(ctx, build(c))
		return vc.classify(ctx, c, result.Error())
	})
	return result
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, build func(valkey.Client) []valkey.Completed) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult
	_ = Retry(ctx, "ValkeyClient", func(ctx context.Context) error {
		c := vc.client()
		results = c.DoMulti(ctx, build(c)...)
		for _, r := range results {
			if err := vc.classify(ctx, c, r.Error()); err != nil {
				return err
			}
		}
		return nil
	})
	return results
}

// classify marks transient errors retryable, recreating used when its
// connection is gone.
func (vc *ValkeyClient) classify(ctx context.Context, used valkey.Client, err error) error {
	if err == nil || valkey.IsValkeyNil(err) {
		return nil
	}
	if errors.Is(err, valkey.ErrClosing) || ShouldRetry(err) {
		vc.recreateClient(ctx, used)
		return retry.RetryableError(err)
	}
	return err
}
