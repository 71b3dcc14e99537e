// Package derive computes the deterministic addresses of the protocol's
// accounts. Pool token accounts are seeded off the market authority with
// ordinal seeds, obligations off a per-market obligation authority, and
// the authorities themselves are program derived addresses found by bump
// search. All derivations are pure; no network access is involved.
package derive

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/alanyoungcy/lendwire"
)

const (
	liquiditySeedPrefix  = "liquidity"
	collateralSeedPrefix = "collateral"
	obligationSeed       = "obligation"
)

// PoolKind selects which ordinal seed family a pool address belongs to.
type PoolKind uint8

const (
	PoolLiquidity PoolKind = iota
	PoolCollateral
)

func (k PoolKind) String() string {
	switch k {
	case PoolLiquidity:
		return "liquidity"
	case PoolCollateral:
		return "collateral"
	default:
		return fmt.Sprintf("poolkind(%d)", uint8(k))
	}
}

func (k PoolKind) seed(index uint64) (string, error) {
	switch k {
	case PoolLiquidity:
		return fmt.Sprintf("%s%d", liquiditySeedPrefix, index), nil
	case PoolCollateral:
		return fmt.Sprintf("%s%d", collateralSeedPrefix, index), nil
	default:
		return "", fmt.Errorf("derive: unknown pool kind %d", uint8(k))
	}
}

// SeededAddress derives sha256(base || seed || program), the address the
// runtime assigns to accounts created with a seed.
func SeededAddress(base solana.PublicKey, seed string, program solana.PublicKey) (solana.PublicKey, error) {
	addr, err := solana.CreateWithSeed(base, seed, program)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive: seed %q: %w", seed, err)
	}
	return addr, nil
}

// MarketAuthority finds the program derived authority for a market by
// searching bumps from 255 down. A market for which no bump yields an
// off-curve address reports ErrDerivationExhausted.
func MarketAuthority(market, program solana.PublicKey) (solana.PublicKey, uint8, error) {
	auth, bump, err := solana.FindProgramAddress([][]byte{market[:]}, program)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive: market authority for %s: %w",
			market, lendwire.ErrDerivationExhausted)
	}
	return auth, bump, nil
}

// ObligationAuthority finds the program derived base for one borrower
// position: seeds are the owner, market, liquidity pool and collateral
// pool keys, in that order.
func ObligationAuthority(owner, market, liquidity, collateral, program solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{owner[:], market[:], liquidity[:], collateral[:]}
	auth, bump, err := solana.FindProgramAddress(seeds, program)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive: obligation authority for %s: %w",
			owner, lendwire.ErrDerivationExhausted)
	}
	return auth, bump, nil
}

// ObligationAddress derives the account holding one borrower position.
func ObligationAddress(owner, market, liquidity, collateral, program solana.PublicKey) (solana.PublicKey, error) {
	auth, _, err := ObligationAuthority(owner, market, liquidity, collateral, program)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return SeededAddress(auth, obligationSeed, program)
}

// PoolAddress derives the index-th liquidity or collateral token account
// of a market.
func PoolAddress(kind PoolKind, market, program solana.PublicKey, index uint64) (solana.PublicKey, error) {
	auth, _, err := MarketAuthority(market, program)
	if err != nil {
		return solana.PublicKey{}, err
	}
	seed, err := kind.seed(index)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return SeededAddress(auth, seed, program)
}

// LiquidityAddress derives the index-th liquidity pool of a market.
func LiquidityAddress(market, program solana.PublicKey, index uint64) (solana.PublicKey, error) {
	return PoolAddress(PoolLiquidity, market, program, index)
}

// CollateralAddress derives the index-th collateral pool of a market.
func CollateralAddress(market, program solana.PublicKey, index uint64) (solana.PublicKey, error) {
	return PoolAddress(PoolCollateral, market, program, index)
}

// PoolIterator walks the pool addresses of a market in ordinal order.
// The market authority is found once at construction; Next derives one
// address per call. Iterators are restartable via Reset and safe to
// abandon at any point.
type PoolIterator struct {
	kind      PoolKind
	authority solana.PublicKey
	program   solana.PublicKey
	count     uint64

	next uint64
	addr solana.PublicKey
	err  error
}

// NewPoolIterator prepares an iterator over the first count pools of the
// given kind. The bump search to locate the market authority happens here.
func NewPoolIterator(kind PoolKind, market, program solana.PublicKey, count uint64) (*PoolIterator, error) {
	auth, _, err := MarketAuthority(market, program)
	if err != nil {
		return nil, err
	}
	return &PoolIterator{kind: kind, authority: auth, program: program, count: count}, nil
}

// Next advances to the next pool address. It returns false when the count
// is exhausted or a derivation failed; check Err to distinguish.
func (it *PoolIterator) Next() bool {
	if it.err != nil || it.next >= it.count {
		return false
	}
	seed, err := it.kind.seed(it.next)
	if err != nil {
		it.err = err
		return false
	}
	addr, err := SeededAddress(it.authority, seed, it.program)
	if err != nil {
		it.err = err
		return false
	}
	it.addr = addr
	it.next++
	return true
}

// Index reports the ordinal of the address most recently yielded by Next.
func (it *PoolIterator) Index() uint64 {
	return it.next - 1
}

// Address reports the address most recently yielded by Next.
func (it *PoolIterator) Address() solana.PublicKey {
	return it.addr
}

// Err reports the first derivation failure, if any.
func (it *PoolIterator) Err() error {
	return it.err
}

// Reset rewinds the iterator to the first pool, clearing any error.
func (it *PoolIterator) Reset() {
	it.next = 0
	it.addr = solana.PublicKey{}
	it.err = nil
}
