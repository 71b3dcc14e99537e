// Package layout is the single source of truth for the protocol's on-wire
// shapes: for every record kind and every command it declares the ordered
// field list, the byte widths, and (for commands) the opcode. It is pure
// data with no behavior beyond span arithmetic; both the state decoder and
// the instruction builders consume the same tables, so read and write
// offsets cannot drift apart.
//
// Registries are versioned by protocol generation and are append-only: a
// new deployment gets a new registry, existing ones are never edited, and a
// registry is only ever used together with the program identity it is
// pinned to.
package layout

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/alanyoungcy/lendwire"
)

// Program identities the generations are pinned to. GenerationC was an
// in-place upgrade of the GenerationB program account, so both share one
// identity.
var (
	ProgramIDGenerationA = solana.MustPublicKeyFromBase58("Fh6wJURoiAGhPDYJVKcW9EsHDBYdMfysaqk2jZfQWC1r")
	ProgramIDGenerationB = solana.MustPublicKeyFromBase58("69LK6qziCCnqgmUPYpuiJ2y8JavKVRrCZ4pDekSyDZTn")
	ProgramIDGenerationC = solana.MustPublicKeyFromBase58("69LK6qziCCnqgmUPYpuiJ2y8JavKVRrCZ4pDekSyDZTn")
)

// RecordVersion is the version tag every generation currently writes into
// the first byte of each record. Zero marks an uninitialized account.
const RecordVersion uint8 = 1

// FieldType is the wire type of one record or payload field.
type FieldType uint8

const (
	// TypeU8 is a single byte (version tags, status enums).
	TypeU8 FieldType = iota
	// TypeU64 is an unsigned 64-bit little-endian integer.
	TypeU64
	// TypeAddress is a raw 32-byte public key.
	TypeAddress
	// TypeOptionAddress is a presence byte (0 or 1) followed by 32 key
	// bytes that are meaningful only when the presence byte is 1. The 33
	// bytes are always on the wire.
	TypeOptionAddress
)

// Width returns the number of bytes the type occupies on the wire.
func (t FieldType) Width() int {
	switch t {
	case TypeU8:
		return 1
	case TypeU64:
		return 8
	case TypeAddress:
		return 32
	case TypeOptionAddress:
		return 33
	default:
		return 0
	}
}

// Field is one named, typed slot in a record or command payload.
type Field struct {
	Name string
	Type FieldType
}

// Canonical field names shared by the record and command tables.
const (
	FieldVersion                  = "version"
	FieldStatus                   = "status"
	FieldOwner                    = "owner"
	FieldMarket                   = "market"
	FieldLiquidity                = "liquidity"
	FieldCollateral               = "collateral"
	FieldTokenMint                = "token_mint"
	FieldTokenAccount             = "token_account"
	FieldPoolMint                 = "pool_mint"
	FieldOracle                   = "oracle"
	FieldLiquidityTokenCount      = "liquidity_token_count"
	FieldCollateralTokenCount     = "collateral_token_count"
	FieldAmountBorrowed           = "amount_borrowed"
	FieldRatioInitial             = "ratio_initial"
	FieldRatioHealthy             = "ratio_healthy"
	FieldAmountLiquidityBorrowed  = "amount_liquidity_borrowed"
	FieldAmountCollateralDeposit  = "amount_collateral_deposited"
	FieldInterestAmount           = "interest_amount"
	FieldInterestSlot             = "interest_slot"
	FieldAmount                   = "amount"
)

// Record is the ordered field list of one account kind.
type Record struct {
	Name   string
	Fields []Field
}

// Span returns the total byte length of the record. A buffer must be
// exactly this long to decode.
func (r Record) Span() int {
	n := 0
	for _, f := range r.Fields {
		n += f.Type.Width()
	}
	return n
}

// Has reports whether the record carries a field with the given name.
func (r Record) Has(name string) bool {
	for _, f := range r.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Offset returns the byte offset of the named field, derived by summing
// the widths of the preceding fields.
func (r Record) Offset(name string) (int, bool) {
	off := 0
	for _, f := range r.Fields {
		if f.Name == name {
			return off, true
		}
		off += f.Type.Width()
	}
	return 0, false
}

// Empty reports whether the generation has no such record at all (e.g.
// obligations before GenerationB).
func (r Record) Empty() bool {
	return len(r.Fields) == 0
}

// Registry is one generation's complete wire contract: record layouts plus
// the command table, pinned to a program identity.
type Registry struct {
	Generation lendwire.Generation
	ProgramID  solana.PublicKey

	Market     Record
	Liquidity  Record
	Collateral Record
	Obligation Record

	Commands map[Command]CommandSpec
}

// For returns the registry for a generation.
func For(g lendwire.Generation) (Registry, error) {
	switch g {
	case lendwire.GenerationA:
		return registryA, nil
	case lendwire.GenerationB:
		return registryB, nil
	case lendwire.GenerationC:
		return registryC, nil
	default:
		return Registry{}, fmt.Errorf("layout: no registry for generation %s", g)
	}
}
