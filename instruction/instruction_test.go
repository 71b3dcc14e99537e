package instruction

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/alanyoungcy/lendwire"
	"github.com/alanyoungcy/lendwire/derive"
	"github.com/alanyoungcy/lendwire/layout"
)

var (
	market       = solana.MustPublicKeyFromBase58("GodqUPNYM3U91UT5X3HWgtqJaAAarw5MHvjTA3tfWWhX")
	owner        = solana.MustPublicKeyFromBase58("FJsja5oAgs6mDYAxtj7NNn2FUNDhmLYec6J2dsKMLah9")
	marketAuth   = solana.MustPublicKeyFromBase58("27xykDf72ZnhEnz1WXakTsULr33Zb2qbXQMzoznPZ5r5")
	liquidity    = solana.MustPublicKeyFromBase58("HdvG3GFxy1V8uMzdE13EdRqwEZW3LCY3QyAZdG1t7hsS")
	collateral   = solana.MustPublicKeyFromBase58("E5vb3deXdkW7jp77rwPzTgbZSTWSeim15MGU84TXDE4J")
	obligation   = solana.MustPublicKeyFromBase58("6zxgahXSTMJfF2ien8vavNeGJdxXVRyyqRNdM8JvSkH2")
	oblAuth      = solana.MustPublicKeyFromBase58("TH8hNyJxVGx43JswdBuixzBHDHD87cL4j5MdKiWhRUP")
	tokenMint    = key(0x21)
	tokenAcct    = key(0x22)
	poolMint     = key(0x23)
	source       = key(0x24)
	dest         = key(0x25)
	liqOracle    = key(0x26)
	colOracle    = key(0x27)
	liqTokenAcct = key(0x28)
	colTokenAcct = key(0x29)
)

func key(b byte) solana.PublicKey {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func mustBuilder(t *testing.T, gen lendwire.Generation) Builder {
	t.Helper()
	b, err := NewBuilder(gen, solana.PublicKey{})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

type meta struct {
	addr     solana.PublicKey
	writable bool
	signer   bool
}

func w(a solana.PublicKey) meta  { return meta{a, true, false} }
func r(a solana.PublicKey) meta  { return meta{a, false, false} }
func rs(a solana.PublicKey) meta { return meta{a, false, true} }

func checkAccounts(t *testing.T, in *Instruction, want []meta) {
	t.Helper()
	got := in.Accounts()
	if len(got) != len(want) {
		t.Fatalf("account count = %d, want %d", len(got), len(want))
	}
	for i, m := range got {
		if !m.PublicKey.Equals(want[i].addr) {
			t.Errorf("account %d = %s, want %s", i, m.PublicKey, want[i].addr)
		}
		if m.IsWritable != want[i].writable {
			t.Errorf("account %d writable = %v", i, m.IsWritable)
		}
		if m.IsSigner != want[i].signer {
			t.Errorf("account %d signer = %v", i, m.IsSigner)
		}
	}
}

// One row per command: the positional account contract the program reads.
func TestAccountOrders(t *testing.T) {
	b := mustBuilder(t, lendwire.GenerationC)

	rent := solana.SysVarRentPubkey
	system := solana.SystemProgramID
	token := solana.TokenProgramID

	tests := []struct {
		name  string
		build func() (*Instruction, error)
		want  []meta
	}{
		{
			"init market",
			func() (*Instruction, error) {
				return b.InitMarket(InitMarketParams{Market: market, Owner: owner})
			},
			[]meta{w(market), rs(owner), r(rent)},
		},
		{
			"create liquidity token",
			func() (*Instruction, error) {
				return b.CreateLiquidityToken(CreateLiquidityTokenParams{
					Liquidity: liquidity, TokenMint: tokenMint, TokenAccount: tokenAcct,
					PoolMint: poolMint, Market: market, MarketOwner: owner, Oracle: &liqOracle,
				})
			},
			[]meta{w(liquidity), r(tokenMint), w(tokenAcct), w(poolMint), w(market),
				rs(owner), r(marketAuth), r(rent), r(system), r(token), r(liqOracle)},
		},
		{
			"update liquidity token",
			func() (*Instruction, error) {
				return b.UpdateLiquidityToken(UpdateLiquidityTokenParams{
					Liquidity: liquidity, Market: market, MarketOwner: owner, Status: 1,
				})
			},
			[]meta{w(liquidity), r(market), rs(owner)},
		},
		{
			"create collateral token",
			func() (*Instruction, error) {
				return b.CreateCollateralToken(CreateCollateralTokenParams{
					Collateral: collateral, TokenMint: tokenMint, TokenAccount: tokenAcct,
					Market: market, MarketOwner: owner, RatioInitial: 1, RatioHealthy: 2,
				})
			},
			[]meta{w(collateral), r(tokenMint), w(tokenAcct), w(market), rs(owner),
				r(marketAuth), r(rent), r(system), r(token)},
		},
		{
			"update collateral token",
			func() (*Instruction, error) {
				return b.UpdateCollateralToken(UpdateCollateralTokenParams{
					Collateral: collateral, Market: market, MarketOwner: owner,
				})
			},
			[]meta{w(collateral), r(market), rs(owner)},
		},
		{
			"liquidity deposit",
			func() (*Instruction, error) {
				return b.LiquidityDeposit(PoolTransferParams{
					Liquidity: liquidity, Source: source, Destination: dest,
					TokenAccount: tokenAcct, PoolMint: poolMint, Market: market,
					TransferAuthority: owner, Amount: 1,
				})
			},
			[]meta{r(liquidity), w(source), w(dest), w(tokenAcct), w(poolMint),
				r(market), r(marketAuth), rs(owner), r(token)},
		},
		{
			"liquidity withdraw",
			func() (*Instruction, error) {
				return b.LiquidityWithdraw(PoolTransferParams{
					Liquidity: liquidity, Source: source, Destination: dest,
					TokenAccount: tokenAcct, PoolMint: poolMint, Market: market,
					TransferAuthority: owner, Amount: 1,
				})
			},
			[]meta{r(liquidity), w(source), w(dest), w(tokenAcct), w(poolMint),
				r(market), r(marketAuth), rs(owner), r(token)},
		},
		{
			"create obligation",
			func() (*Instruction, error) {
				return b.CreateObligation(CreateObligationParams{
					Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
					Market: market, Owner: owner,
				})
			},
			[]meta{w(obligation), r(liquidity), r(collateral), r(market),
				r(oblAuth), rs(owner), r(rent), r(system)},
		},
		{
			"obligation collateral deposit",
			func() (*Instruction, error) {
				return b.ObligationCollateralDeposit(ObligationCollateralDepositParams{
					Obligation: obligation, Collateral: collateral, Source: source,
					TokenAccount: colTokenAcct, Market: market, TransferAuthority: owner,
					Amount: 1,
				})
			},
			[]meta{w(obligation), r(collateral), w(source), w(colTokenAcct),
				r(market), rs(owner), r(token)},
		},
		{
			"obligation collateral withdraw",
			func() (*Instruction, error) {
				return b.ObligationCollateralWithdraw(ObligationCollateralWithdrawParams{
					Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
					Destination: dest, TokenAccount: colTokenAcct, Market: market,
					Owner: owner, LiquidityOracle: &liqOracle, CollateralOracle: &colOracle,
					Amount: 1,
				})
			},
			[]meta{w(obligation), r(liquidity), r(collateral), w(dest), w(colTokenAcct),
				r(market), rs(owner), r(marketAuth), r(token), r(liqOracle), r(colOracle)},
		},
		{
			"obligation liquidity borrow",
			func() (*Instruction, error) {
				return b.ObligationLiquidityBorrow(ObligationLiquidityBorrowParams{
					Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
					Destination: dest, TokenAccount: liqTokenAcct, Market: market,
					Owner: owner, Amount: 1,
				})
			},
			[]meta{w(obligation), w(liquidity), r(collateral), w(dest), w(liqTokenAcct),
				r(market), rs(owner), r(marketAuth), r(token)},
		},
		{
			"obligation liquidity repay",
			func() (*Instruction, error) {
				return b.ObligationLiquidityRepay(ObligationLiquidityRepayParams{
					Obligation: obligation, Liquidity: liquidity, Source: source,
					TokenAccount: liqTokenAcct, Market: market, TransferAuthority: owner,
					Amount: 1,
				})
			},
			[]meta{w(obligation), w(liquidity), w(source), w(liqTokenAcct),
				r(market), rs(owner), r(token)},
		},
		{
			"liquidate obligation",
			func() (*Instruction, error) {
				return b.LiquidateObligation(LiquidateObligationParams{
					Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
					Source: source, Destination: dest,
					LiquidityTokenAccount: liqTokenAcct, CollateralTokenAccount: colTokenAcct,
					Market: market, TransferAuthority: owner, Amount: 1,
				})
			},
			[]meta{w(obligation), w(liquidity), r(collateral), w(source), w(dest),
				w(liqTokenAcct), w(colTokenAcct), r(market), rs(owner), r(marketAuth), r(token)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := tt.build()
			if err != nil {
				t.Fatal(err)
			}
			checkAccounts(t, in, tt.want)
		})
	}
}

func TestLiquidityDepositGoldenPayload(t *testing.T) {
	b := mustBuilder(t, lendwire.GenerationC)
	in, err := b.LiquidityDeposit(PoolTransferParams{
		Liquidity: liquidity, Source: source, Destination: dest,
		TokenAccount: tokenAcct, PoolMint: poolMint, Market: market,
		TransferAuthority: owner, Amount: 5_000_000,
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := in.Data()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x05, 0x40, 0x4B, 0x4C, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(data, want) {
		t.Fatalf("payload = %x, want %x", data, want)
	}
}

func TestPayloadSizes(t *testing.T) {
	b := mustBuilder(t, lendwire.GenerationC)

	in, err := b.UpdateCollateralToken(UpdateCollateralTokenParams{
		Collateral: collateral, Market: market, MarketOwner: owner,
		Status: 2, RatioInitial: 500_000_000, RatioHealthy: 750_000_000,
	})
	if err != nil {
		t.Fatal(err)
	}
	data, _ := in.Data()
	if len(data) != 18 {
		t.Fatalf("update collateral payload = %d bytes, want 18", len(data))
	}
	if data[0] != 4 || data[1] != 2 {
		t.Fatalf("payload prefix = %x", data[:2])
	}

	in, err = b.UpdateLiquidityToken(UpdateLiquidityTokenParams{
		Liquidity: liquidity, Market: market, MarketOwner: owner, Status: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	data, _ = in.Data()
	if !bytes.Equal(data, []byte{2, 1}) {
		t.Fatalf("update liquidity payload = %x", data)
	}

	in, err = b.CreateObligation(CreateObligationParams{
		Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
		Market: market, Owner: owner,
	})
	if err != nil {
		t.Fatal(err)
	}
	data, _ = in.Data()
	if !bytes.Equal(data, []byte{7}) {
		t.Fatalf("create obligation payload = %x", data)
	}
}

func TestUnknownCommandPerGeneration(t *testing.T) {
	bA := mustBuilder(t, lendwire.GenerationA)
	_, err := bA.LiquidityDeposit(PoolTransferParams{Market: market, TransferAuthority: owner})
	if !errors.Is(err, lendwire.ErrUnknownCommand) {
		t.Fatalf("deposit under first deployment: got %v, want ErrUnknownCommand", err)
	}

	bB := mustBuilder(t, lendwire.GenerationB)
	_, err = bB.LiquidateObligation(LiquidateObligationParams{Market: market, TransferAuthority: owner})
	if !errors.Is(err, lendwire.ErrUnknownCommand) {
		t.Fatalf("liquidate under previous deployment: got %v, want ErrUnknownCommand", err)
	}
}

// A zero key in any required account slot must be rejected, not silently
// assembled into an instruction (or worse, used to derive an authority).
func TestRequiredAccountsRejectZeroKey(t *testing.T) {
	b := mustBuilder(t, lendwire.GenerationC)

	tests := []struct {
		name  string
		build func() (*Instruction, error)
	}{
		{
			"init market without owner",
			func() (*Instruction, error) {
				return b.InitMarket(InitMarketParams{Market: market})
			},
		},
		{
			"create liquidity token without pool mint",
			func() (*Instruction, error) {
				return b.CreateLiquidityToken(CreateLiquidityTokenParams{
					Liquidity: liquidity, TokenMint: tokenMint, TokenAccount: tokenAcct,
					Market: market, MarketOwner: owner,
				})
			},
		},
		{
			"update liquidity token without market",
			func() (*Instruction, error) {
				return b.UpdateLiquidityToken(UpdateLiquidityTokenParams{
					Liquidity: liquidity, MarketOwner: owner,
				})
			},
		},
		{
			"create collateral token without token account",
			func() (*Instruction, error) {
				return b.CreateCollateralToken(CreateCollateralTokenParams{
					Collateral: collateral, TokenMint: tokenMint,
					Market: market, MarketOwner: owner,
				})
			},
		},
		{
			"update collateral token without collateral",
			func() (*Instruction, error) {
				return b.UpdateCollateralToken(UpdateCollateralTokenParams{
					Market: market, MarketOwner: owner,
				})
			},
		},
		{
			"liquidity deposit without market",
			func() (*Instruction, error) {
				return b.LiquidityDeposit(PoolTransferParams{
					Liquidity: liquidity, Source: source, Destination: dest,
					TokenAccount: tokenAcct, PoolMint: poolMint,
					TransferAuthority: owner, Amount: 1,
				})
			},
		},
		{
			"liquidity withdraw without source",
			func() (*Instruction, error) {
				return b.LiquidityWithdraw(PoolTransferParams{
					Liquidity: liquidity, Destination: dest,
					TokenAccount: tokenAcct, PoolMint: poolMint, Market: market,
					TransferAuthority: owner, Amount: 1,
				})
			},
		},
		{
			"create obligation without collateral",
			func() (*Instruction, error) {
				return b.CreateObligation(CreateObligationParams{
					Obligation: obligation, Liquidity: liquidity,
					Market: market, Owner: owner,
				})
			},
		},
		{
			"obligation collateral deposit without transfer authority",
			func() (*Instruction, error) {
				return b.ObligationCollateralDeposit(ObligationCollateralDepositParams{
					Obligation: obligation, Collateral: collateral, Source: source,
					TokenAccount: colTokenAcct, Market: market, Amount: 1,
				})
			},
		},
		{
			"obligation collateral withdraw without destination",
			func() (*Instruction, error) {
				return b.ObligationCollateralWithdraw(ObligationCollateralWithdrawParams{
					Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
					TokenAccount: colTokenAcct, Market: market, Owner: owner, Amount: 1,
				})
			},
		},
		{
			"obligation liquidity borrow without obligation",
			func() (*Instruction, error) {
				return b.ObligationLiquidityBorrow(ObligationLiquidityBorrowParams{
					Liquidity: liquidity, Collateral: collateral, Destination: dest,
					TokenAccount: liqTokenAcct, Market: market, Owner: owner, Amount: 1,
				})
			},
		},
		{
			"obligation liquidity repay without liquidity",
			func() (*Instruction, error) {
				return b.ObligationLiquidityRepay(ObligationLiquidityRepayParams{
					Obligation: obligation, Source: source,
					TokenAccount: liqTokenAcct, Market: market,
					TransferAuthority: owner, Amount: 1,
				})
			},
		},
		{
			"liquidate obligation without collateral token account",
			func() (*Instruction, error) {
				return b.LiquidateObligation(LiquidateObligationParams{
					Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
					Source: source, Destination: dest, LiquidityTokenAccount: liqTokenAcct,
					Market: market, TransferAuthority: owner, Amount: 1,
				})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := tt.build()
			if !errors.Is(err, lendwire.ErrMissingField) {
				t.Fatalf("got err=%v, want ErrMissingField", err)
			}
			if in != nil {
				t.Fatal("instruction assembled despite missing account")
			}
		})
	}
}

func TestOracleReferencesPairOnly(t *testing.T) {
	b := mustBuilder(t, lendwire.GenerationC)

	_, err := b.ObligationCollateralWithdraw(ObligationCollateralWithdrawParams{
		Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
		Destination: dest, TokenAccount: colTokenAcct, Market: market,
		Owner: owner, LiquidityOracle: &liqOracle, Amount: 1,
	})
	if !errors.Is(err, lendwire.ErrMissingField) {
		t.Fatalf("lone liquidity oracle: got %v, want ErrMissingField", err)
	}

	in, err := b.ObligationCollateralWithdraw(ObligationCollateralWithdrawParams{
		Obligation: obligation, Liquidity: liquidity, Collateral: collateral,
		Destination: dest, TokenAccount: colTokenAcct, Market: market,
		Owner: owner, Amount: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(in.Accounts()); n != 9 {
		t.Fatalf("oracle-less withdraw has %d accounts, want 9", n)
	}
}

func TestBuilderDefaultsProgram(t *testing.T) {
	b := mustBuilder(t, lendwire.GenerationC)
	if !b.ProgramID().Equals(layout.ProgramIDGenerationC) {
		t.Fatalf("program = %s", b.ProgramID())
	}

	custom := key(0x55)
	bc, err := NewBuilder(lendwire.GenerationC, custom)
	if err != nil {
		t.Fatal(err)
	}
	if !bc.ProgramID().Equals(custom) {
		t.Fatalf("program = %s, want custom", bc.ProgramID())
	}
}

func TestObligationAuthorityMatchesDerive(t *testing.T) {
	auth, _, err := derive.ObligationAuthority(owner, market, liquidity, collateral,
		layout.ProgramIDGenerationC)
	if err != nil {
		t.Fatal(err)
	}
	if !auth.Equals(oblAuth) {
		t.Fatalf("authority = %s, want %s", auth, oblAuth)
	}
}
