package layout

import "github.com/alanyoungcy/lendwire"

// The generation tables below are golden data. Adding a generation means
// adding a new var; editing an existing one breaks decoding of data already
// on chain.

var registryA = Registry{
	Generation: lendwire.GenerationA,
	ProgramID:  ProgramIDGenerationA,

	// 33 bytes
	Market: Record{
		Name: "market",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldOwner, TypeAddress},
		},
	},
	// 130 bytes
	Liquidity: Record{
		Name: "liquidity",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldStatus, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldTokenMint, TypeAddress},
			{FieldTokenAccount, TypeAddress},
			{FieldPoolMint, TypeAddress},
		},
	},
	// 74 bytes; the first deployment tracked a single ratio and kept the
	// supply account implicit.
	Collateral: Record{
		Name: "collateral",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldStatus, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldTokenMint, TypeAddress},
			{FieldRatioInitial, TypeU64},
		},
	},
	// Obligations did not exist yet.
	Obligation: Record{Name: "obligation"},

	Commands: commandsA,
}

var registryB = Registry{
	Generation: lendwire.GenerationB,
	ProgramID:  ProgramIDGenerationB,

	// 49 bytes
	Market: Record{
		Name: "market",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldOwner, TypeAddress},
			{FieldLiquidityTokenCount, TypeU64},
			{FieldCollateralTokenCount, TypeU64},
		},
	},
	// 130 bytes
	Liquidity: Record{
		Name: "liquidity",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldStatus, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldTokenMint, TypeAddress},
			{FieldTokenAccount, TypeAddress},
			{FieldPoolMint, TypeAddress},
		},
	},
	// 114 bytes
	Collateral: Record{
		Name: "collateral",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldStatus, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldTokenMint, TypeAddress},
			{FieldTokenAccount, TypeAddress},
			{FieldRatioInitial, TypeU64},
			{FieldRatioHealthy, TypeU64},
		},
	},
	// 145 bytes
	Obligation: Record{
		Name: "obligation",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldOwner, TypeAddress},
			{FieldLiquidity, TypeAddress},
			{FieldCollateral, TypeAddress},
			{FieldAmountLiquidityBorrowed, TypeU64},
			{FieldAmountCollateralDeposit, TypeU64},
		},
	},

	Commands: commandsB,
}

var registryC = Registry{
	Generation: lendwire.GenerationC,
	ProgramID:  ProgramIDGenerationC,

	// 49 bytes
	Market: Record{
		Name: "market",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldOwner, TypeAddress},
			{FieldLiquidityTokenCount, TypeU64},
			{FieldCollateralTokenCount, TypeU64},
		},
	},
	// 170 bytes; the oracle reference is mandatory here, unlike the
	// collateral record's optional one.
	Liquidity: Record{
		Name: "liquidity",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldStatus, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldTokenMint, TypeAddress},
			{FieldTokenAccount, TypeAddress},
			{FieldPoolMint, TypeAddress},
			{FieldAmountBorrowed, TypeU64},
			{FieldOracle, TypeAddress},
		},
	},
	// 147 bytes
	Collateral: Record{
		Name: "collateral",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldStatus, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldTokenMint, TypeAddress},
			{FieldTokenAccount, TypeAddress},
			{FieldRatioInitial, TypeU64},
			{FieldRatioHealthy, TypeU64},
			{FieldOracle, TypeOptionAddress},
		},
	},
	// 161 bytes
	Obligation: Record{
		Name: "obligation",
		Fields: []Field{
			{FieldVersion, TypeU8},
			{FieldMarket, TypeAddress},
			{FieldOwner, TypeAddress},
			{FieldLiquidity, TypeAddress},
			{FieldCollateral, TypeAddress},
			{FieldAmountLiquidityBorrowed, TypeU64},
			{FieldAmountCollateralDeposit, TypeU64},
			{FieldInterestAmount, TypeU64},
			{FieldInterestSlot, TypeU64},
		},
	},

	Commands: commandsC,
}
