package main

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// autoFundingLedger is a standalone replacement for the external
// accounting spec.md §1 keeps out of scope. It tracks each token's
// balance and always pays whatever a mint callback says is owed,
// modeling a cooperative counterparty rather than a real custodian.
type autoFundingLedger struct {
	balances map[common.Address]*uint256.Int
}

func newAutoFundingLedger(token0, token1 common.Address) *autoFundingLedger {
	return &autoFundingLedger{balances: map[common.Address]*uint256.Int{
		token0: new(uint256.Int),
		token1: new(uint256.Int),
	}}
}

func (l *autoFundingLedger) BalanceOf(token common.Address) *uint256.Int {
	bal, ok := l.balances[token]
	if !ok {
		return new(uint256.Int)
	}
	return bal.Clone()
}

func (l *autoFundingLedger) deposit(token common.Address, amount *uint256.Int) {
	l.balances[token] = new(uint256.Int).Add(l.balances[token], amount)
}

func (l *autoFundingLedger) withdraw(token common.Address, amount *uint256.Int) {
	l.balances[token] = new(uint256.Int).Sub(l.balances[token], amount)
}

func (l *autoFundingLedger) applySignedDelta(token common.Address, delta *big.Int) {
	if delta.Sign() == 0 {
		return
	}
	if delta.Sign() > 0 {
		amount, overflow := uint256.FromBig(delta)
		if overflow {
			panic("delta overflows u256")
		}
		l.deposit(token, amount)
		return
	}
	amount, overflow := uint256.FromBig(new(big.Int).Neg(delta))
	if overflow {
		panic("delta overflows u256")
	}
	l.withdraw(token, amount)
}

// mintCallback funds whatever the pool reports as owed.
func (l *autoFundingLedger) mintCallback(token0, token1 common.Address) func(owed0, owed1 *uint256.Int, data []byte) error {
	return func(owed0, owed1 *uint256.Int, data []byte) error {
		l.deposit(token0, owed0)
		l.deposit(token1, owed1)
		return nil
	}
}

// swapCallback settles both legs of a swap against the ledger.
func (l *autoFundingLedger) swapCallback(token0, token1 common.Address) func(amount0Delta, amount1Delta *big.Int, data []byte) error {
	return func(amount0Delta, amount1Delta *big.Int, data []byte) error {
		l.applySignedDelta(token0, amount0Delta)
		l.applySignedDelta(token1, amount1Delta)
		return nil
	}
}
