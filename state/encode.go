package state

import (
	"fmt"

	"github.com/alanyoungcy/lendwire"
	"github.com/alanyoungcy/lendwire/layout"
)

// Re-encoding walks the same registry tables as decoding, so a decoded
// entity marshals back to the exact input bytes. The primary consumers are
// round-trip tests and the account cache.

// EncodeMarket serializes a market to its wire form.
func (c Codec) EncodeMarket(m Market) ([]byte, error) {
	rec := c.reg.Market
	w := newWriter(rec.Span())
	w.u8(m.Version)
	w.address(m.Owner)
	if rec.Has(layout.FieldLiquidityTokenCount) {
		w.u64(m.LiquidityTokenCount)
		w.u64(m.CollateralTokenCount)
	}
	return w.buf, nil
}

// EncodeLiquidity serializes a liquidity pool to its wire form.
func (c Codec) EncodeLiquidity(l Liquidity) ([]byte, error) {
	rec := c.reg.Liquidity
	if !l.Status.Valid() {
		return nil, fmt.Errorf("state: encode %s: status %d: %w",
			rec.Name, uint8(l.Status), lendwire.ErrCorruptEnum)
	}
	if rec.Has(layout.FieldOracle) && l.Oracle == nil {
		return nil, fmt.Errorf("state: encode %s: oracle: %w", rec.Name, lendwire.ErrMissingField)
	}

	w := newWriter(rec.Span())
	w.u8(l.Version)
	w.u8(uint8(l.Status))
	w.address(l.Market)
	w.address(l.TokenMint)
	w.address(l.TokenAccount)
	w.address(l.PoolMint)
	if rec.Has(layout.FieldAmountBorrowed) {
		w.u64(l.AmountBorrowed)
	}
	if rec.Has(layout.FieldOracle) {
		w.address(*l.Oracle)
	}
	return w.buf, nil
}

// EncodeCollateral serializes a collateral pool to its wire form. An
// absent optional oracle is written as 33 zero bytes, matching how the
// program zero-initializes account data.
func (c Codec) EncodeCollateral(col Collateral) ([]byte, error) {
	rec := c.reg.Collateral
	if !col.Status.Valid() {
		return nil, fmt.Errorf("state: encode %s: status %d: %w",
			rec.Name, uint8(col.Status), lendwire.ErrCorruptEnum)
	}

	w := newWriter(rec.Span())
	w.u8(col.Version)
	w.u8(uint8(col.Status))
	w.address(col.Market)
	w.address(col.TokenMint)
	if rec.Has(layout.FieldTokenAccount) {
		w.address(col.TokenAccount)
	}
	w.u64(col.RatioInitial)
	if rec.Has(layout.FieldRatioHealthy) {
		w.u64(col.RatioHealthy)
	}
	if rec.Has(layout.FieldOracle) {
		if col.Oracle != nil {
			w.u8(1)
			w.address(*col.Oracle)
		} else {
			w.buf = append(w.buf, make([]byte, 33)...)
		}
	}
	return w.buf, nil
}

// EncodeObligation serializes a borrower position to its wire form.
func (c Codec) EncodeObligation(o Obligation) ([]byte, error) {
	rec := c.reg.Obligation
	if rec.Empty() {
		return nil, fmt.Errorf("state: generation %s has no %s record", c.reg.Generation, rec.Name)
	}

	w := newWriter(rec.Span())
	w.u8(o.Version)
	w.address(o.Market)
	w.address(o.Owner)
	w.address(o.Liquidity)
	w.address(o.Collateral)
	w.u64(o.AmountLiquidityBorrowed)
	w.u64(o.AmountCollateralDeposited)
	if rec.Has(layout.FieldInterestAmount) {
		w.u64(o.InterestAmount)
		w.u64(o.InterestSlot)
	}
	return w.buf, nil
}
