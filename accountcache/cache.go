package accountcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/lendwire"
)

// DefaultTTL is how long a cached account stays fresh.
const DefaultTTL = 30 * time.Second

// Fetcher decorates an account fetcher with a Redis read-through cache.
//
// Key schema:
//
//	acct:{address} - hash with fields "owner" (32 raw bytes) and
//	                 "data" (raw account bytes)
type Fetcher struct {
	inner  lendwire.AccountFetcher
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// New builds a caching fetcher around inner. A nil logger discards
// output; ttl <= 0 selects DefaultTTL.
func New(inner lendwire.AccountFetcher, c *Client, logger *slog.Logger, ttl time.Duration) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Fetcher{
		inner:  inner,
		rdb:    c.Underlying(),
		logger: logger.With(slog.String("component", "accountcache")),
		ttl:    ttl,
	}
}

func acctKey(address solana.PublicKey) string {
	return "acct:" + address.String()
}

// FetchAccount returns the cached account when present, otherwise fetches
// through the inner fetcher and stores the result. Cache errors degrade
// to a direct fetch.
func (f *Fetcher) FetchAccount(ctx context.Context, address solana.PublicKey) (lendwire.Account, error) {
	key := acctKey(address)

	fields, err := f.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		f.logger.WarnContext(ctx, "cache read failed, fetching direct",
			slog.String("address", address.String()),
			slog.String("error", err.Error()),
		)
	} else if owner, ok := fields["owner"]; ok && len(owner) == solana.PublicKeyLength {
		return lendwire.Account{
			Address: address,
			Owner:   solana.PublicKeyFromBytes([]byte(owner)),
			Data:    []byte(fields["data"]),
		}, nil
	}

	acct, err := f.inner.FetchAccount(ctx, address)
	if err != nil {
		return lendwire.Account{}, err
	}

	pipe := f.rdb.TxPipeline()
	pipe.HSet(ctx, key, "owner", acct.Owner[:], "data", acct.Data)
	pipe.Expire(ctx, key, f.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		f.logger.WarnContext(ctx, "cache write failed",
			slog.String("address", address.String()),
			slog.String("error", err.Error()),
		)
	}
	return acct, nil
}

// Invalidate drops the cached entry for an address, if any.
func (f *Fetcher) Invalidate(ctx context.Context, address solana.PublicKey) error {
	if err := f.rdb.Del(ctx, acctKey(address)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("accountcache: invalidate %s: %w", address, err)
	}
	return nil
}
