// Package tick implements the per-tick liquidity book: each initialized
// tick carries the gross liquidity referencing it and the signed net
// liquidity delta applied when the swap engine crosses it, per spec.md
// §4.5. Ticks are addressed directly by index in a plain map — unlike the
// teacher's sorted-slice-of-touched-ticks storage, which exists to let its
// simulator binary-search a compact in-memory snapshot of only the ticks a
// historical backtest ever touched. Neighbor search for the swap loop is
// lib/tickbitmap's job, not this package's.
package tick

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
	"github.com/clammcore/clamm-core/lib/liquiditymath"
	"github.com/clammcore/clamm-core/lib/tickmath"
)

// Info is the per-tick bookkeeping record.
type Info struct {
	Initialized    bool
	LiquidityGross *uint256.Int
	LiquidityNet   *big.Int
}

func zeroInfo() *Info {
	return &Info{LiquidityGross: new(uint256.Int), LiquidityNet: new(big.Int)}
}

// Book holds every initialized tick for a pool at a fixed tick spacing.
type Book struct {
	ticks               map[int32]*Info
	maxLiquidityPerTick *uint256.Int
}

// NewBook returns an empty tick book for the given tick spacing.
func NewBook(tickSpacing int32) *Book {
	return &Book{
		ticks:               make(map[int32]*Info),
		maxLiquidityPerTick: maxLiquidityPerTick(tickSpacing),
	}
}

// MaxLiquidityPerTick returns the per-tick gross liquidity cap this book
// enforces, floor((2^128-1) / numUsableTicks) for its tick spacing.
func (b *Book) MaxLiquidityPerTick() *uint256.Int {
	return b.maxLiquidityPerTick.Clone()
}

// Get returns the stored record for index, or the zero record
// (uninitialized, zero gross/net) if the tick has never been touched.
func (b *Book) Get(index int32) Info {
	info, ok := b.ticks[index]
	if !ok {
		return *zeroInfo()
	}
	return *info
}

// Update applies liquidityDelta (positive for a mint, negative for a burn)
// to the tick at index, updating gross and net liquidity, and reports
// whether the tick's initialized state flipped. upper indicates whether
// index is being updated as the upper bound of a position's range (its net
// liquidity contribution is negated relative to the lower bound).
func (b *Book) Update(index int32, liquidityDelta *big.Int, upper bool) (flipped bool, err error) {
	info, ok := b.ticks[index]
	if !ok {
		info = zeroInfo()
	}

	grossAfter, err := liquiditymath.AddDelta(info.LiquidityGross, liquidityDelta)
	if err != nil {
		return false, fmt.Errorf("tick %d: %w", index, err)
	}
	if grossAfter.Cmp(b.maxLiquidityPerTick) > 0 {
		return false, fmt.Errorf("tick %d: gross liquidity %s exceeds per-tick cap %s: %w", index, grossAfter, b.maxLiquidityPerTick, clammerrors.ErrLiquidityOverflow)
	}

	netAfter := new(big.Int).Set(info.LiquidityNet)
	if upper {
		netAfter.Sub(netAfter, liquidityDelta)
	} else {
		netAfter.Add(netAfter, liquidityDelta)
	}

	wasInitialized := info.Initialized
	isInitialized := !grossAfter.IsZero()

	if isInitialized {
		b.ticks[index] = &Info{Initialized: true, LiquidityGross: grossAfter, LiquidityNet: netAfter}
	} else {
		delete(b.ticks, index)
	}

	return wasInitialized != isInitialized, nil
}

// Clone returns a deep copy of the book, for a caller that needs to
// snapshot state before a mutation it may have to roll back.
func (b *Book) Clone() *Book {
	ticks := make(map[int32]*Info, len(b.ticks))
	for index, info := range b.ticks {
		ticks[index] = &Info{
			Initialized:    info.Initialized,
			LiquidityGross: info.LiquidityGross.Clone(),
			LiquidityNet:   new(big.Int).Set(info.LiquidityNet),
		}
	}
	return &Book{ticks: ticks, maxLiquidityPerTick: b.maxLiquidityPerTick.Clone()}
}

// Cross returns the stored liquidityNet for index, for the swap engine to
// add or subtract from the pool's active liquidity when stepping across it.
func (b *Book) Cross(index int32) *big.Int {
	info, ok := b.ticks[index]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(info.LiquidityNet)
}

func maxLiquidityPerTick(tickSpacing int32) *uint256.Int {
	minTick := (tickmath.MinTick / tickSpacing) * tickSpacing
	maxTick := (tickmath.MaxTick / tickSpacing) * tickSpacing
	numTicks := uint64((maxTick-minTick)/tickSpacing) + 1

	maxUint128 := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	return new(uint256.Int).Div(maxUint128, uint256.NewInt(numTicks))
}
