// Package lendwire is the wire-format layer for the on-chain lending
// protocol: it pins the byte layout of every protocol account, decodes
// fetched account data into typed entities, builds opcode-tagged
// instructions with their positional account lists, and derives the
// protocol's deterministic addresses.
//
// The package tree is split by concern:
//
//   - layout: per-generation record layouts and the command table (pure data)
//   - state: typed entities and the account decoder/encoder
//   - instruction: per-command instruction builders
//   - derive: seeded-address and program-authority derivation
//   - resolver: concurrent resolution of a market's enumerable sub-accounts
//   - accountcache: Redis-backed raw account cache
//   - config: deployment descriptor (program ID, generation, markets)
//
// Everything here is a pure computation over bytes and public keys. Network
// transport, transaction submission, and key management live outside this
// module and reach it through the AccountFetcher interface and the
// instruction descriptors it produces.
package lendwire
