package lendwire

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Account is one fetched ledger account: the address it was fetched for,
// the program that owns it, and its raw data. The owner is part of the
// decode contract (a buffer of the right shape under the wrong owner is
// still rejected); the address is only echoed through to decoded entities.
type Account struct {
	Address solana.PublicKey
	Owner   solana.PublicKey
	Data    []byte
}

// AccountFetcher is the boundary to whatever actually talks to the ledger:
// an RPC client, a replayed snapshot, a cache in front of either. This
// module performs no I/O of its own.
//
// FetchAccount returns ErrNotFound (possibly wrapped) when no account
// exists at the address.
type AccountFetcher interface {
	FetchAccount(ctx context.Context, address solana.PublicKey) (Account, error)
}
