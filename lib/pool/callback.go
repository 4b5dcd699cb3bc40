// Package pool composes the tick book, tick bitmap, and position book into
// the two pool operations spec.md §4.7/§4.8 describe: mint and swap. This
// file declares the capability types a caller supplies in place of the
// source's fixed-name callback methods (spec.md §9's design note).
package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MintCallback is invoked once Mint has updated ticks, the bitmap, and the
// position, asking the caller to deliver the owed token amounts. The
// caller must cause the pool's observed balance of each token to increase
// by at least the owed amount before returning.
type MintCallback func(amount0Owed, amount1Owed *uint256.Int, data []byte) error

// SwapCallback is invoked once Swap has computed the signed deltas for the
// two tokens, asking the caller to settle both legs: deliver the positive
// side to the pool and accept the negative side, already earmarked for
// recipient. There is no separate transfer-out capability because token
// movement itself is an external-ledger concern this core never touches
// directly (see spec.md §1's Out of scope note) — SwapCallback, like
// MintCallback, is the caller's sole settlement hook.
type SwapCallback func(amount0Delta, amount1Delta *big.Int, data []byte) error

// BalanceReader lets the pool sample its own balance of a token around a
// callback without importing a concrete ledger implementation.
type BalanceReader interface {
	BalanceOf(token common.Address) *uint256.Int
}
