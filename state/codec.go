package state

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/alanyoungcy/lendwire"
	"github.com/alanyoungcy/lendwire/layout"
)

// Codec decodes and re-encodes protocol accounts for one generation's
// registry, pinned to one program identity. The zero Codec is not usable;
// build one with NewCodec.
//
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	reg     layout.Registry
	program solana.PublicKey
}

// NewCodec returns a codec for the generation. program overrides the
// registry's pinned program identity (for private redeployments); pass the
// zero key to keep the canonical one.
func NewCodec(gen lendwire.Generation, program solana.PublicKey) (Codec, error) {
	reg, err := layout.For(gen)
	if err != nil {
		return Codec{}, fmt.Errorf("state: %w", err)
	}
	if program.IsZero() {
		program = reg.ProgramID
	}
	return Codec{reg: reg, program: program}, nil
}

// Registry exposes the codec's layout tables.
func (c Codec) Registry() layout.Registry {
	return c.reg
}

// ProgramID returns the program identity accounts must be owned by.
func (c Codec) ProgramID() solana.PublicKey {
	return c.program
}

// checkHeader runs the shared decode preconditions in contract order:
// span, then ownership, then the version tag.
func (c Codec) checkHeader(rec layout.Record, acct lendwire.Account) error {
	if rec.Empty() {
		return fmt.Errorf("state: generation %s has no %s record", c.reg.Generation, rec.Name)
	}
	if len(acct.Data) != rec.Span() {
		return fmt.Errorf("state: %s %s: got %d bytes, want %d: %w",
			rec.Name, acct.Address, len(acct.Data), rec.Span(), lendwire.ErrSizeMismatch)
	}
	if !acct.Owner.Equals(c.program) {
		return fmt.Errorf("state: %s %s: owned by %s, want %s: %w",
			rec.Name, acct.Address, acct.Owner, c.program, lendwire.ErrOwnershipMismatch)
	}
	switch version := acct.Data[0]; version {
	case layout.RecordVersion:
	case 0:
		return fmt.Errorf("state: %s %s: %w", rec.Name, acct.Address, lendwire.ErrUninitialized)
	default:
		return fmt.Errorf("state: %s %s: version %d, want %d: %w",
			rec.Name, acct.Address, version, layout.RecordVersion, lendwire.ErrVersionMismatch)
	}
	return nil
}

func (c Codec) status(rec layout.Record, acct lendwire.Account, raw uint8) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return 0, fmt.Errorf("state: %s %s: status %d: %w",
			rec.Name, acct.Address, raw, lendwire.ErrCorruptEnum)
	}
	return s, nil
}

// optionAddress reads a borsh-style optional key: a presence byte followed
// by 32 key bytes that are zero-padding when absent.
func (c Codec) optionAddress(rec layout.Record, acct lendwire.Account, r *reader) (*solana.PublicKey, error) {
	switch present := r.u8(); present {
	case 0:
		r.address() // skip padding
		return nil, nil
	case 1:
		key := r.address()
		return &key, nil
	default:
		return nil, fmt.Errorf("state: %s %s: option tag %d: %w",
			rec.Name, acct.Address, present, lendwire.ErrCorruptEnum)
	}
}

// DecodeMarket decodes a market account.
func (c Codec) DecodeMarket(acct lendwire.Account) (Market, error) {
	rec := c.reg.Market
	if err := c.checkHeader(rec, acct); err != nil {
		return Market{}, err
	}

	r := &reader{buf: acct.Data}
	m := Market{Address: acct.Address}
	m.Version = r.u8()
	m.Owner = r.address()
	if rec.Has(layout.FieldLiquidityTokenCount) {
		m.LiquidityTokenCount = r.u64()
		m.CollateralTokenCount = r.u64()
	}
	return m, nil
}

// DecodeLiquidity decodes a liquidity pool account.
func (c Codec) DecodeLiquidity(acct lendwire.Account) (Liquidity, error) {
	rec := c.reg.Liquidity
	if err := c.checkHeader(rec, acct); err != nil {
		return Liquidity{}, err
	}

	r := &reader{buf: acct.Data}
	l := Liquidity{Address: acct.Address}
	l.Version = r.u8()
	status, err := c.status(rec, acct, r.u8())
	if err != nil {
		return Liquidity{}, err
	}
	l.Status = status
	l.Market = r.address()
	l.TokenMint = r.address()
	l.TokenAccount = r.address()
	l.PoolMint = r.address()
	if rec.Has(layout.FieldAmountBorrowed) {
		l.AmountBorrowed = r.u64()
	}
	if rec.Has(layout.FieldOracle) {
		oracle := r.address()
		l.Oracle = &oracle
	}
	return l, nil
}

// DecodeCollateral decodes a collateral pool account.
func (c Codec) DecodeCollateral(acct lendwire.Account) (Collateral, error) {
	rec := c.reg.Collateral
	if err := c.checkHeader(rec, acct); err != nil {
		return Collateral{}, err
	}

	r := &reader{buf: acct.Data}
	col := Collateral{Address: acct.Address}
	col.Version = r.u8()
	status, err := c.status(rec, acct, r.u8())
	if err != nil {
		return Collateral{}, err
	}
	col.Status = status
	col.Market = r.address()
	col.TokenMint = r.address()
	if rec.Has(layout.FieldTokenAccount) {
		col.TokenAccount = r.address()
	}
	col.RatioInitial = r.u64()
	if rec.Has(layout.FieldRatioHealthy) {
		col.RatioHealthy = r.u64()
	}
	if rec.Has(layout.FieldOracle) {
		oracle, err := c.optionAddress(rec, acct, r)
		if err != nil {
			return Collateral{}, err
		}
		col.Oracle = oracle
	}
	return col, nil
}

// DecodeObligation decodes a borrower position account.
func (c Codec) DecodeObligation(acct lendwire.Account) (Obligation, error) {
	rec := c.reg.Obligation
	if err := c.checkHeader(rec, acct); err != nil {
		return Obligation{}, err
	}

	r := &reader{buf: acct.Data}
	o := Obligation{Address: acct.Address}
	o.Version = r.u8()
	o.Market = r.address()
	o.Owner = r.address()
	o.Liquidity = r.address()
	o.Collateral = r.address()
	o.AmountLiquidityBorrowed = r.u64()
	o.AmountCollateralDeposited = r.u64()
	if rec.Has(layout.FieldInterestAmount) {
		o.InterestAmount = r.u64()
		o.InterestSlot = r.u64()
	}
	return o, nil
}
