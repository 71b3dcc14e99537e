// Package resolver walks a market's account graph: it derives the pool
// and obligation addresses, fetches the accounts through a caller
// supplied fetcher, and decodes them into typed entities. Pool sweeps
// fetch concurrently and report per-pool outcomes, so one corrupt or
// missing account never hides its siblings.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/lendwire"
	"github.com/alanyoungcy/lendwire/derive"
	"github.com/alanyoungcy/lendwire/state"
)

// DefaultFetchLimit bounds concurrent account fetches during a pool sweep.
const DefaultFetchLimit = 8

// Resolver resolves one market's accounts under one protocol generation.
type Resolver struct {
	fetcher lendwire.AccountFetcher
	codec   state.Codec
	logger  *slog.Logger
	limit   int
}

// New builds a resolver. A nil logger discards output; limit <= 0 selects
// DefaultFetchLimit.
func New(fetcher lendwire.AccountFetcher, codec state.Codec, logger *slog.Logger, limit int) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	return &Resolver{
		fetcher: fetcher,
		codec:   codec,
		logger:  logger.With(slog.String("component", "resolver")),
		limit:   limit,
	}
}

// Market fetches and decodes the market record at the given address.
func (r *Resolver) Market(ctx context.Context, address solana.PublicKey) (state.Market, error) {
	acct, err := r.fetcher.FetchAccount(ctx, address)
	if err != nil {
		return state.Market{}, fmt.Errorf("resolver: fetch market %s: %w", address, err)
	}
	m, err := r.codec.DecodeMarket(acct)
	if err != nil {
		return state.Market{}, err
	}
	r.logger.DebugContext(ctx, "resolved market",
		slog.String("address", address.String()),
		slog.Uint64("liquidity_pools", m.LiquidityTokenCount),
		slog.Uint64("collateral_pools", m.CollateralTokenCount),
	)
	return m, nil
}

// LiquidityPool is one row of a liquidity sweep. Err is set when that
// pool's fetch or decode failed; Entity is valid only when Err is nil.
type LiquidityPool struct {
	Index   uint64
	Address solana.PublicKey
	Entity  state.Liquidity
	Err     error
}

// CollateralPool is one row of a collateral sweep.
type CollateralPool struct {
	Index   uint64
	Address solana.PublicKey
	Entity  state.Collateral
	Err     error
}

// LiquidityPools derives and resolves the market's liquidity pools,
// indices 0 through m.LiquidityTokenCount-1. The returned slice always
// has one row per index, in order; rows carry their own errors. The only
// returned error is context cancellation or an authority derivation
// failure.
func (r *Resolver) LiquidityPools(ctx context.Context, m state.Market) ([]LiquidityPool, error) {
	it, err := derive.NewPoolIterator(derive.PoolLiquidity, m.Address, r.codec.ProgramID(), m.LiquidityTokenCount)
	if err != nil {
		return nil, err
	}
	rows := make([]LiquidityPool, 0, m.LiquidityTokenCount)
	for it.Next() {
		rows = append(rows, LiquidityPool{Index: it.Index(), Address: it.Address()})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i := range rows {
		i := i
		g.Go(func() error {
			row := &rows[i]
			acct, err := r.fetcher.FetchAccount(ctx, row.Address)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				row.Err = err
				return nil
			}
			row.Entity, row.Err = r.codec.DecodeLiquidity(acct)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logSweep(ctx, "liquidity", len(rows), countLiquidityErrs(rows))
	return rows, nil
}

// CollateralPools derives and resolves the market's collateral pools,
// mirroring LiquidityPools.
func (r *Resolver) CollateralPools(ctx context.Context, m state.Market) ([]CollateralPool, error) {
	it, err := derive.NewPoolIterator(derive.PoolCollateral, m.Address, r.codec.ProgramID(), m.CollateralTokenCount)
	if err != nil {
		return nil, err
	}
	rows := make([]CollateralPool, 0, m.CollateralTokenCount)
	for it.Next() {
		rows = append(rows, CollateralPool{Index: it.Index(), Address: it.Address()})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i := range rows {
		i := i
		g.Go(func() error {
			row := &rows[i]
			acct, err := r.fetcher.FetchAccount(ctx, row.Address)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				row.Err = err
				return nil
			}
			row.Entity, row.Err = r.codec.DecodeCollateral(acct)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logSweep(ctx, "collateral", len(rows), countCollateralErrs(rows))
	return rows, nil
}

// Obligation derives a borrower's position address from its key tuple and
// resolves it.
func (r *Resolver) Obligation(ctx context.Context, owner, market, liquidity, collateral solana.PublicKey) (state.Obligation, error) {
	address, err := derive.ObligationAddress(owner, market, liquidity, collateral, r.codec.ProgramID())
	if err != nil {
		return state.Obligation{}, err
	}
	acct, err := r.fetcher.FetchAccount(ctx, address)
	if err != nil {
		return state.Obligation{}, fmt.Errorf("resolver: fetch obligation %s: %w", address, err)
	}
	return r.codec.DecodeObligation(acct)
}

func (r *Resolver) logSweep(ctx context.Context, kind string, total, failed int) {
	if failed > 0 {
		r.logger.WarnContext(ctx, "pool sweep finished with failures",
			slog.String("kind", kind),
			slog.Int("total", total),
			slog.Int("failed", failed),
		)
		return
	}
	r.logger.DebugContext(ctx, "pool sweep finished",
		slog.String("kind", kind),
		slog.Int("total", total),
	)
}

func countLiquidityErrs(rows []LiquidityPool) int {
	n := 0
	for _, row := range rows {
		if row.Err != nil {
			n++
		}
	}
	return n
}

func countCollateralErrs(rows []CollateralPool) int {
	n := 0
	for _, row := range rows {
		if row.Err != nil {
			n++
		}
	}
	return n
}
