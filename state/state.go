// Package state defines the typed protocol entities and the codec that
// maps them to and from raw account bytes. Decoding is a pure, total
// function of (generation, bytes, owner): it either yields a complete
// entity or fails with one sentinel error from the root package, never a
// partial result.
package state

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

// Status gates whether the program accepts deposits and withdrawals
// against a pool. It is stored as a single byte with a closed domain;
// decoding never clamps an out-of-range value.
type Status uint8

const (
	// StatusInactive pools reject operations and are hidden from listings.
	StatusInactive Status = 0
	// StatusActive pools accept all operations.
	StatusActive Status = 1
	// StatusInactiveVisible pools reject operations but stay listed.
	StatusInactiveVisible Status = 2
)

// Valid reports whether s is inside the wire domain.
func (s Status) Valid() bool {
	return s <= StatusInactiveVisible
}

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusActive:
		return "active"
	case StatusInactiveVisible:
		return "inactive_visible"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// RatioPower is the fixed-point denominator of the collateralization
// ratios carried by Collateral records.
const RatioPower uint64 = 1_000_000_000

// RatioToUI converts a raw fixed-point ratio to its human representation.
// Presentation only: stored fields always stay in raw units.
func RatioToUI(ratio uint64) float64 {
	return float64(ratio) / float64(RatioPower)
}

// UIToRatio converts a human ratio (e.g. 0.5) to raw fixed-point units.
func UIToRatio(ui float64) uint64 {
	return uint64(math.Round(ui * float64(RatioPower)))
}

// Market is the root registry of one lending market. The pool counts bound
// the deterministic sub-address enumeration; GenerationA markets predate
// the counters and decode them as zero.
type Market struct {
	Address solana.PublicKey

	Version              uint8
	Owner                solana.PublicKey
	LiquidityTokenCount  uint64
	CollateralTokenCount uint64
}

// Liquidity is one lendable asset pool. AmountBorrowed and Oracle exist
// only from GenerationC; earlier generations decode them as zero and nil.
type Liquidity struct {
	Address solana.PublicKey

	Version        uint8
	Status         Status
	Market         solana.PublicKey
	TokenMint      solana.PublicKey
	TokenAccount   solana.PublicKey
	PoolMint       solana.PublicKey
	AmountBorrowed uint64
	Oracle         *solana.PublicKey
}

// Collateral is one accepted collateral pool. The ratios are raw
// fixed-point thresholds consumed by the program; this layer only
// transports them. TokenAccount and RatioHealthy exist from GenerationB,
// Oracle (optional on the wire) from GenerationC.
type Collateral struct {
	Address solana.PublicKey

	Version      uint8
	Status       Status
	Market       solana.PublicKey
	TokenMint    solana.PublicKey
	TokenAccount solana.PublicKey
	RatioInitial uint64
	RatioHealthy uint64
	Oracle       *solana.PublicKey
}

// Obligation is one borrower position, keyed by its derived
// (owner, market, liquidity, collateral) address. The interest fields
// exist from GenerationC.
type Obligation struct {
	Address solana.PublicKey

	Version                   uint8
	Market                    solana.PublicKey
	Owner                     solana.PublicKey
	Liquidity                 solana.PublicKey
	Collateral                solana.PublicKey
	AmountLiquidityBorrowed   uint64
	AmountCollateralDeposited uint64
	InterestAmount            uint64
	InterestSlot              uint64
}
