// Package instruction assembles the protocol's wire instructions: a one
// byte opcode, little-endian scalar fields, and the positional account
// list each command expects. Builders derive the authority addresses they
// reference, so callers pass only the accounts they actually know.
package instruction

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/alanyoungcy/lendwire"
	"github.com/alanyoungcy/lendwire/derive"
	"github.com/alanyoungcy/lendwire/layout"
)

// Instruction is one assembled protocol instruction. It satisfies the
// solana.Instruction interface so it can be placed in a transaction
// directly.
type Instruction struct {
	programID solana.PublicKey
	accounts  []*solana.AccountMeta
	data      []byte
}

// ProgramID returns the program the instruction targets.
func (in *Instruction) ProgramID() solana.PublicKey {
	return in.programID
}

// Accounts returns the positional account list.
func (in *Instruction) Accounts() []*solana.AccountMeta {
	return in.accounts
}

// Data returns the serialized payload.
func (in *Instruction) Data() ([]byte, error) {
	return in.data, nil
}

// Builder assembles instructions for one protocol generation. The zero
// value is not usable; construct with NewBuilder.
type Builder struct {
	reg     layout.Registry
	program solana.PublicKey
}

// NewBuilder returns a builder for the given generation. A zero program
// pins the generation's canonical deployment.
func NewBuilder(gen lendwire.Generation, program solana.PublicKey) (Builder, error) {
	reg, err := layout.For(gen)
	if err != nil {
		return Builder{}, err
	}
	if program.IsZero() {
		program = reg.ProgramID
	}
	return Builder{reg: reg, program: program}, nil
}

// ProgramID returns the program the builder targets.
func (b Builder) ProgramID() solana.PublicKey {
	return b.program
}

func (b Builder) spec(cmd layout.Command) (layout.CommandSpec, error) {
	spec, ok := b.reg.Commands[cmd]
	if !ok {
		return layout.CommandSpec{}, fmt.Errorf("instruction: %s under %s: %w",
			cmd, b.reg.Generation, lendwire.ErrUnknownCommand)
	}
	return spec, nil
}

type req struct {
	name string
	key  solana.PublicKey
}

// required rejects a zero key in any account slot the command cannot do
// without. Optional oracle references are checked separately by their
// pairing rule.
func required(cmd layout.Command, reqs ...req) error {
	for _, r := range reqs {
		if r.key.IsZero() {
			return fmt.Errorf("instruction: %s: %s account: %w",
				cmd, r.name, lendwire.ErrMissingField)
		}
	}
	return nil
}

// payload serializes the opcode plus the given u64 values, which must
// cover the command's scalar fields in registry order. Status bytes are
// handled separately by the two update builders.
func payload(spec layout.CommandSpec, scalars ...uint64) []byte {
	buf := make([]byte, 0, spec.PayloadSize())
	buf = append(buf, spec.Opcode)
	for _, v := range scalars {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	return buf
}

func (b Builder) build(accounts []*solana.AccountMeta, data []byte) *Instruction {
	return &Instruction{programID: b.program, accounts: accounts, data: data}
}

// InitMarketParams names the accounts of an InitMarket instruction.
type InitMarketParams struct {
	Market solana.PublicKey // uninitialized, writable
	Owner  solana.PublicKey // signer
}

// InitMarket assembles the market initialization instruction.
func (b Builder) InitMarket(p InitMarketParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdInitMarket)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdInitMarket,
		req{"market", p.Market}, req{"owner", p.Owner},
	); err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Market).WRITE(),
		solana.Meta(p.Owner).SIGNER(),
		solana.Meta(solana.SysVarRentPubkey),
	}
	return b.build(accounts, payload(spec)), nil
}

// CreateLiquidityTokenParams names the accounts of a CreateLiquidityToken
// instruction. Oracle is appended only when non-nil.
type CreateLiquidityTokenParams struct {
	Liquidity    solana.PublicKey
	TokenMint    solana.PublicKey
	TokenAccount solana.PublicKey
	PoolMint     solana.PublicKey
	Market       solana.PublicKey
	MarketOwner  solana.PublicKey // signer
	Oracle       *solana.PublicKey
}

// CreateLiquidityToken assembles the liquidity pool creation instruction.
// The market authority is derived internally.
func (b Builder) CreateLiquidityToken(p CreateLiquidityTokenParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdCreateLiquidityToken)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdCreateLiquidityToken,
		req{"liquidity", p.Liquidity}, req{"token mint", p.TokenMint},
		req{"token account", p.TokenAccount}, req{"pool mint", p.PoolMint},
		req{"market", p.Market}, req{"market owner", p.MarketOwner},
	); err != nil {
		return nil, err
	}
	auth, _, err := derive.MarketAuthority(p.Market, b.program)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Liquidity).WRITE(),
		solana.Meta(p.TokenMint),
		solana.Meta(p.TokenAccount).WRITE(),
		solana.Meta(p.PoolMint).WRITE(),
		solana.Meta(p.Market).WRITE(),
		solana.Meta(p.MarketOwner).SIGNER(),
		solana.Meta(auth),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	}
	if p.Oracle != nil {
		accounts = append(accounts, solana.Meta(*p.Oracle))
	}
	return b.build(accounts, payload(spec)), nil
}

// UpdateLiquidityTokenParams names the accounts and the new status of an
// UpdateLiquidityToken instruction.
type UpdateLiquidityTokenParams struct {
	Liquidity   solana.PublicKey
	Market      solana.PublicKey
	MarketOwner solana.PublicKey // signer
	Status      uint8
}

// UpdateLiquidityToken assembles the pool status change instruction.
func (b Builder) UpdateLiquidityToken(p UpdateLiquidityTokenParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdUpdateLiquidityToken)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdUpdateLiquidityToken,
		req{"liquidity", p.Liquidity}, req{"market", p.Market},
		req{"market owner", p.MarketOwner},
	); err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Liquidity).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(p.MarketOwner).SIGNER(),
	}
	return b.build(accounts, append(payload(spec), p.Status)), nil
}

// CreateCollateralTokenParams names the accounts and ratios of a
// CreateCollateralToken instruction. Oracle is appended only when non-nil.
type CreateCollateralTokenParams struct {
	Collateral   solana.PublicKey
	TokenMint    solana.PublicKey
	TokenAccount solana.PublicKey
	Market       solana.PublicKey
	MarketOwner  solana.PublicKey // signer
	Oracle       *solana.PublicKey

	RatioInitial uint64
	RatioHealthy uint64
}

// CreateCollateralToken assembles the collateral pool creation
// instruction. The market authority is derived internally.
func (b Builder) CreateCollateralToken(p CreateCollateralTokenParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdCreateCollateralToken)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdCreateCollateralToken,
		req{"collateral", p.Collateral}, req{"token mint", p.TokenMint},
		req{"token account", p.TokenAccount}, req{"market", p.Market},
		req{"market owner", p.MarketOwner},
	); err != nil {
		return nil, err
	}
	auth, _, err := derive.MarketAuthority(p.Market, b.program)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Collateral).WRITE(),
		solana.Meta(p.TokenMint),
		solana.Meta(p.TokenAccount).WRITE(),
		solana.Meta(p.Market).WRITE(),
		solana.Meta(p.MarketOwner).SIGNER(),
		solana.Meta(auth),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	}
	if p.Oracle != nil {
		accounts = append(accounts, solana.Meta(*p.Oracle))
	}
	return b.build(accounts, payload(spec, p.RatioInitial, p.RatioHealthy)), nil
}

// UpdateCollateralTokenParams names the accounts, status and ratios of an
// UpdateCollateralToken instruction.
type UpdateCollateralTokenParams struct {
	Collateral  solana.PublicKey
	Market      solana.PublicKey
	MarketOwner solana.PublicKey // signer

	Status       uint8
	RatioInitial uint64
	RatioHealthy uint64
}

// UpdateCollateralToken assembles the collateral status and ratio change
// instruction.
func (b Builder) UpdateCollateralToken(p UpdateCollateralTokenParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdUpdateCollateralToken)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdUpdateCollateralToken,
		req{"collateral", p.Collateral}, req{"market", p.Market},
		req{"market owner", p.MarketOwner},
	); err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Collateral).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(p.MarketOwner).SIGNER(),
	}
	data := make([]byte, 0, spec.PayloadSize())
	data = append(data, spec.Opcode, p.Status)
	data = binary.LittleEndian.AppendUint64(data, p.RatioInitial)
	data = binary.LittleEndian.AppendUint64(data, p.RatioHealthy)
	return b.build(accounts, data), nil
}

// PoolTransferParams names the accounts shared by LiquidityDeposit and
// LiquidityWithdraw: on deposit Source holds pool tokens of the token
// mint and Destination receives pool mint tokens; on withdraw the mints
// swap roles.
type PoolTransferParams struct {
	Liquidity         solana.PublicKey
	Source            solana.PublicKey
	Destination       solana.PublicKey
	TokenAccount      solana.PublicKey
	PoolMint          solana.PublicKey
	Market            solana.PublicKey
	TransferAuthority solana.PublicKey // signer

	Amount uint64
}

func (b Builder) poolTransfer(cmd layout.Command, p PoolTransferParams) (*Instruction, error) {
	spec, err := b.spec(cmd)
	if err != nil {
		return nil, err
	}
	if err := required(cmd,
		req{"liquidity", p.Liquidity}, req{"source", p.Source},
		req{"destination", p.Destination}, req{"token account", p.TokenAccount},
		req{"pool mint", p.PoolMint}, req{"market", p.Market},
		req{"transfer authority", p.TransferAuthority},
	); err != nil {
		return nil, err
	}
	auth, _, err := derive.MarketAuthority(p.Market, b.program)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Liquidity),
		solana.Meta(p.Source).WRITE(),
		solana.Meta(p.Destination).WRITE(),
		solana.Meta(p.TokenAccount).WRITE(),
		solana.Meta(p.PoolMint).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(auth),
		solana.Meta(p.TransferAuthority).SIGNER(),
		solana.Meta(solana.TokenProgramID),
	}
	return b.build(accounts, payload(spec, p.Amount)), nil
}

// LiquidityDeposit assembles the pool deposit instruction.
func (b Builder) LiquidityDeposit(p PoolTransferParams) (*Instruction, error) {
	return b.poolTransfer(layout.CmdLiquidityDeposit, p)
}

// LiquidityWithdraw assembles the pool withdrawal instruction.
func (b Builder) LiquidityWithdraw(p PoolTransferParams) (*Instruction, error) {
	return b.poolTransfer(layout.CmdLiquidityWithdraw, p)
}

// CreateObligationParams names the accounts of a CreateObligation
// instruction.
type CreateObligationParams struct {
	Obligation solana.PublicKey
	Liquidity  solana.PublicKey
	Collateral solana.PublicKey
	Market     solana.PublicKey
	Owner      solana.PublicKey // signer
}

// CreateObligation assembles the borrower position creation instruction.
// The obligation authority is derived internally from the owner, market
// and pool keys.
func (b Builder) CreateObligation(p CreateObligationParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdCreateObligation)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdCreateObligation,
		req{"obligation", p.Obligation}, req{"liquidity", p.Liquidity},
		req{"collateral", p.Collateral}, req{"market", p.Market},
		req{"owner", p.Owner},
	); err != nil {
		return nil, err
	}
	auth, _, err := derive.ObligationAuthority(p.Owner, p.Market, p.Liquidity, p.Collateral, b.program)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Obligation).WRITE(),
		solana.Meta(p.Liquidity),
		solana.Meta(p.Collateral),
		solana.Meta(p.Market),
		solana.Meta(auth),
		solana.Meta(p.Owner).SIGNER(),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(solana.SystemProgramID),
	}
	return b.build(accounts, payload(spec)), nil
}

// ObligationCollateralDepositParams names the accounts of an
// ObligationCollateralDeposit instruction.
type ObligationCollateralDepositParams struct {
	Obligation        solana.PublicKey
	Collateral        solana.PublicKey
	Source            solana.PublicKey
	TokenAccount      solana.PublicKey
	Market            solana.PublicKey
	TransferAuthority solana.PublicKey // signer

	Amount uint64
}

// ObligationCollateralDeposit assembles the collateral deposit
// instruction.
func (b Builder) ObligationCollateralDeposit(p ObligationCollateralDepositParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdObligationCollateralDeposit)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdObligationCollateralDeposit,
		req{"obligation", p.Obligation}, req{"collateral", p.Collateral},
		req{"source", p.Source}, req{"token account", p.TokenAccount},
		req{"market", p.Market}, req{"transfer authority", p.TransferAuthority},
	); err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Obligation).WRITE(),
		solana.Meta(p.Collateral),
		solana.Meta(p.Source).WRITE(),
		solana.Meta(p.TokenAccount).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(p.TransferAuthority).SIGNER(),
		solana.Meta(solana.TokenProgramID),
	}
	return b.build(accounts, payload(spec, p.Amount)), nil
}

// ObligationCollateralWithdrawParams names the accounts of an
// ObligationCollateralWithdraw instruction. The two oracles are appended
// only together; supplying exactly one is an error.
type ObligationCollateralWithdrawParams struct {
	Obligation       solana.PublicKey
	Liquidity        solana.PublicKey
	Collateral       solana.PublicKey
	Destination      solana.PublicKey
	TokenAccount     solana.PublicKey
	Market           solana.PublicKey
	Owner            solana.PublicKey // signer
	LiquidityOracle  *solana.PublicKey
	CollateralOracle *solana.PublicKey

	Amount uint64
}

// ObligationCollateralWithdraw assembles the collateral withdrawal
// instruction. The market authority is derived internally.
func (b Builder) ObligationCollateralWithdraw(p ObligationCollateralWithdrawParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdObligationCollateralWithdraw)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdObligationCollateralWithdraw,
		req{"obligation", p.Obligation}, req{"liquidity", p.Liquidity},
		req{"collateral", p.Collateral}, req{"destination", p.Destination},
		req{"token account", p.TokenAccount}, req{"market", p.Market},
		req{"owner", p.Owner},
	); err != nil {
		return nil, err
	}
	if (p.LiquidityOracle == nil) != (p.CollateralOracle == nil) {
		return nil, fmt.Errorf("instruction: %s: oracle references come in pairs: %w",
			layout.CmdObligationCollateralWithdraw, lendwire.ErrMissingField)
	}
	auth, _, err := derive.MarketAuthority(p.Market, b.program)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Obligation).WRITE(),
		solana.Meta(p.Liquidity),
		solana.Meta(p.Collateral),
		solana.Meta(p.Destination).WRITE(),
		solana.Meta(p.TokenAccount).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(p.Owner).SIGNER(),
		solana.Meta(auth),
		solana.Meta(solana.TokenProgramID),
	}
	if p.LiquidityOracle != nil {
		accounts = append(accounts,
			solana.Meta(*p.LiquidityOracle),
			solana.Meta(*p.CollateralOracle),
		)
	}
	return b.build(accounts, payload(spec, p.Amount)), nil
}

// ObligationLiquidityBorrowParams names the accounts of an
// ObligationLiquidityBorrow instruction.
type ObligationLiquidityBorrowParams struct {
	Obligation   solana.PublicKey
	Liquidity    solana.PublicKey
	Collateral   solana.PublicKey
	Destination  solana.PublicKey
	TokenAccount solana.PublicKey
	Market       solana.PublicKey
	Owner        solana.PublicKey // signer

	Amount uint64
}

// ObligationLiquidityBorrow assembles the borrow instruction. The market
// authority is derived internally.
func (b Builder) ObligationLiquidityBorrow(p ObligationLiquidityBorrowParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdObligationLiquidityBorrow)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdObligationLiquidityBorrow,
		req{"obligation", p.Obligation}, req{"liquidity", p.Liquidity},
		req{"collateral", p.Collateral}, req{"destination", p.Destination},
		req{"token account", p.TokenAccount}, req{"market", p.Market},
		req{"owner", p.Owner},
	); err != nil {
		return nil, err
	}
	auth, _, err := derive.MarketAuthority(p.Market, b.program)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Obligation).WRITE(),
		solana.Meta(p.Liquidity).WRITE(),
		solana.Meta(p.Collateral),
		solana.Meta(p.Destination).WRITE(),
		solana.Meta(p.TokenAccount).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(p.Owner).SIGNER(),
		solana.Meta(auth),
		solana.Meta(solana.TokenProgramID),
	}
	return b.build(accounts, payload(spec, p.Amount)), nil
}

// ObligationLiquidityRepayParams names the accounts of an
// ObligationLiquidityRepay instruction.
type ObligationLiquidityRepayParams struct {
	Obligation        solana.PublicKey
	Liquidity         solana.PublicKey
	Source            solana.PublicKey
	TokenAccount      solana.PublicKey
	Market            solana.PublicKey
	TransferAuthority solana.PublicKey // signer

	Amount uint64
}

// ObligationLiquidityRepay assembles the repay instruction.
func (b Builder) ObligationLiquidityRepay(p ObligationLiquidityRepayParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdObligationLiquidityRepay)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdObligationLiquidityRepay,
		req{"obligation", p.Obligation}, req{"liquidity", p.Liquidity},
		req{"source", p.Source}, req{"token account", p.TokenAccount},
		req{"market", p.Market}, req{"transfer authority", p.TransferAuthority},
	); err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Obligation).WRITE(),
		solana.Meta(p.Liquidity).WRITE(),
		solana.Meta(p.Source).WRITE(),
		solana.Meta(p.TokenAccount).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(p.TransferAuthority).SIGNER(),
		solana.Meta(solana.TokenProgramID),
	}
	return b.build(accounts, payload(spec, p.Amount)), nil
}

// LiquidateObligationParams names the accounts of a LiquidateObligation
// instruction. The liquidator repays liquidity from Source and receives
// seized collateral at Destination. Oracles follow the withdraw pairing
// rule.
type LiquidateObligationParams struct {
	Obligation             solana.PublicKey
	Liquidity              solana.PublicKey
	Collateral             solana.PublicKey
	Source                 solana.PublicKey
	Destination            solana.PublicKey
	LiquidityTokenAccount  solana.PublicKey
	CollateralTokenAccount solana.PublicKey
	Market                 solana.PublicKey
	TransferAuthority      solana.PublicKey // signer
	LiquidityOracle        *solana.PublicKey
	CollateralOracle       *solana.PublicKey

	Amount uint64
}

// LiquidateObligation assembles the liquidation instruction. The market
// authority is derived internally.
func (b Builder) LiquidateObligation(p LiquidateObligationParams) (*Instruction, error) {
	spec, err := b.spec(layout.CmdLiquidateObligation)
	if err != nil {
		return nil, err
	}
	if err := required(layout.CmdLiquidateObligation,
		req{"obligation", p.Obligation}, req{"liquidity", p.Liquidity},
		req{"collateral", p.Collateral}, req{"source", p.Source},
		req{"destination", p.Destination},
		req{"liquidity token account", p.LiquidityTokenAccount},
		req{"collateral token account", p.CollateralTokenAccount},
		req{"market", p.Market}, req{"transfer authority", p.TransferAuthority},
	); err != nil {
		return nil, err
	}
	if (p.LiquidityOracle == nil) != (p.CollateralOracle == nil) {
		return nil, fmt.Errorf("instruction: %s: oracle references come in pairs: %w",
			layout.CmdLiquidateObligation, lendwire.ErrMissingField)
	}
	auth, _, err := derive.MarketAuthority(p.Market, b.program)
	if err != nil {
		return nil, err
	}
	accounts := []*solana.AccountMeta{
		solana.Meta(p.Obligation).WRITE(),
		solana.Meta(p.Liquidity).WRITE(),
		solana.Meta(p.Collateral),
		solana.Meta(p.Source).WRITE(),
		solana.Meta(p.Destination).WRITE(),
		solana.Meta(p.LiquidityTokenAccount).WRITE(),
		solana.Meta(p.CollateralTokenAccount).WRITE(),
		solana.Meta(p.Market),
		solana.Meta(p.TransferAuthority).SIGNER(),
		solana.Meta(auth),
		solana.Meta(solana.TokenProgramID),
	}
	if p.LiquidityOracle != nil {
		accounts = append(accounts,
			solana.Meta(*p.LiquidityOracle),
			solana.Meta(*p.CollateralOracle),
		)
	}
	return b.build(accounts, payload(spec, p.Amount)), nil
}
