package layout

// Command names one client-issued protocol command.
type Command string

const (
	CmdInitMarket                   Command = "init_market"
	CmdCreateLiquidityToken         Command = "create_liquidity_token"
	CmdUpdateLiquidityToken         Command = "update_liquidity_token"
	CmdCreateCollateralToken        Command = "create_collateral_token"
	CmdUpdateCollateralToken        Command = "update_collateral_token"
	CmdLiquidityDeposit             Command = "liquidity_deposit"
	CmdLiquidityWithdraw            Command = "liquidity_withdraw"
	CmdCreateObligation             Command = "create_obligation"
	CmdObligationCollateralDeposit  Command = "obligation_collateral_deposit"
	CmdObligationCollateralWithdraw Command = "obligation_collateral_withdraw"
	CmdObligationLiquidityBorrow    Command = "obligation_liquidity_borrow"
	CmdObligationLiquidityRepay     Command = "obligation_liquidity_repay"
	CmdLiquidateObligation          Command = "liquidate_obligation"
)

// CommandSpec pins one command's opcode and the scalar fields that follow
// it in the instruction payload. Opcodes are part of the wire contract and
// are never renumbered within a generation.
type CommandSpec struct {
	Opcode uint8
	Fields []Field
}

// PayloadSize returns the full payload length: the opcode byte plus the
// field widths in registry order.
func (c CommandSpec) PayloadSize() int {
	n := 1
	for _, f := range c.Fields {
		n += f.Type.Width()
	}
	return n
}

var (
	statusField = Field{FieldStatus, TypeU8}
	amountField = Field{FieldAmount, TypeU64}
	ratioFields = []Field{
		{FieldRatioInitial, TypeU64},
		{FieldRatioHealthy, TypeU64},
	}
)

// The bootstrap deployment spoke only two commands.
var commandsA = map[Command]CommandSpec{
	CmdInitMarket:           {Opcode: 0},
	CmdCreateLiquidityToken: {Opcode: 1},
}

var commandsB = map[Command]CommandSpec{
	CmdInitMarket:                   {Opcode: 0},
	CmdCreateLiquidityToken:         {Opcode: 1},
	CmdUpdateLiquidityToken:         {Opcode: 2, Fields: []Field{statusField}},
	CmdCreateCollateralToken:        {Opcode: 3, Fields: ratioFields},
	CmdUpdateCollateralToken:        {Opcode: 4, Fields: append([]Field{statusField}, ratioFields...)},
	CmdLiquidityDeposit:             {Opcode: 5, Fields: []Field{amountField}},
	CmdLiquidityWithdraw:            {Opcode: 6, Fields: []Field{amountField}},
	CmdCreateObligation:             {Opcode: 7},
	CmdObligationCollateralDeposit:  {Opcode: 8, Fields: []Field{amountField}},
	CmdObligationCollateralWithdraw: {Opcode: 9, Fields: []Field{amountField}},
	CmdObligationLiquidityBorrow:    {Opcode: 10, Fields: []Field{amountField}},
	CmdObligationLiquidityRepay:     {Opcode: 11, Fields: []Field{amountField}},
}

var commandsC = func() map[Command]CommandSpec {
	m := make(map[Command]CommandSpec, len(commandsB)+1)
	for k, v := range commandsB {
		m[k] = v
	}
	m[CmdLiquidateObligation] = CommandSpec{Opcode: 12, Fields: []Field{amountField}}
	return m
}()
