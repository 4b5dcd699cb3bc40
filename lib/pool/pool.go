package pool

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
	"github.com/clammcore/clamm-core/lib/liquiditymath"
	"github.com/clammcore/clamm-core/lib/position"
	"github.com/clammcore/clamm-core/lib/swapmath"
	"github.com/clammcore/clamm-core/lib/tick"
	"github.com/clammcore/clamm-core/lib/tickbitmap"
	"github.com/clammcore/clamm-core/lib/tickmath"
)

// tickSpacing is fixed to 1, matching "the specified core" spec.md §4.5
// describes; the constructor signature is otherwise unchanged from
// spec.md §6, which takes no tick-spacing argument. lib/tick and
// lib/tickbitmap both generalize to arbitrary spacing for a caller who
// wants a different pool, but Pool itself only ever asks for spacing 1.
const tickSpacing int32 = 1

// Slot0 is the pool's current price and tick, per spec.md §3.
type Slot0 struct {
	SqrtPriceX96 *uint256.Int
	Tick         int32
}

// Pool is the tick-indexed liquidity book and swap engine described in
// spec.md §2.7: it composes the tick book, tick bitmap, and position book
// into mint and swap, and owns slot0 plus the pool's active liquidity.
type Pool struct {
	Token0 common.Address
	Token1 common.Address

	mu sync.Mutex

	slot0     Slot0
	liquidity *uint256.Int

	ticks     *tick.Book
	bitmap    *tickbitmap.Bitmap
	positions *position.Book
}

// NewPool constructs a pool at the given initial price and tick. The pool
// does not verify initialTick == getTickAtSqrtRatio(initialSqrtPriceX96);
// the caller must supply a consistent pair, per spec.md §6.
func NewPool(token0, token1 common.Address, initialSqrtPriceX96 *uint256.Int, initialTick int32) *Pool {
	return &Pool{
		Token0:    token0,
		Token1:    token1,
		slot0:     Slot0{SqrtPriceX96: initialSqrtPriceX96.Clone(), Tick: initialTick},
		liquidity: new(uint256.Int),
		ticks:     tick.NewBook(tickSpacing),
		bitmap:    tickbitmap.New(tickSpacing),
		positions: position.NewBook(),
	}
}

// Slot0 returns the pool's current sqrt price and tick.
func (p *Pool) Slot0() Slot0 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Slot0{SqrtPriceX96: p.slot0.SqrtPriceX96.Clone(), Tick: p.slot0.Tick}
}

// Liquidity returns the pool's current active liquidity.
func (p *Pool) Liquidity() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liquidity.Clone()
}

// Position returns the liquidity recorded for (owner, lowerTick, upperTick).
func (p *Pool) Position(owner common.Address, lowerTick, upperTick int32) *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positions.Get(owner, lowerTick, upperTick).Liquidity.Clone()
}

// Tick returns the stored bookkeeping record for a tick index.
func (p *Pool) Tick(index int32) tick.Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticks.Get(index)
}

// TickBitmapWord returns the 256-bit word at wordPos.
func (p *Pool) TickBitmapWord(wordPos int16) *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bitmap.Word(wordPos)
}

// snapshot captures every mutable field mint/swap may touch, so a failed
// operation can be rolled back wholesale rather than partially applied,
// per spec.md §7's rollback requirement.
type snapshot struct {
	slot0     Slot0
	liquidity *uint256.Int
	ticks     *tick.Book
	bitmap    *tickbitmap.Bitmap
	positions *position.Book
}

func (p *Pool) snapshot() snapshot {
	return snapshot{
		slot0:     Slot0{SqrtPriceX96: p.slot0.SqrtPriceX96.Clone(), Tick: p.slot0.Tick},
		liquidity: p.liquidity.Clone(),
		ticks:     p.ticks.Clone(),
		bitmap:    p.bitmap.Clone(),
		positions: p.positions.Clone(),
	}
}

func (p *Pool) restore(s snapshot) {
	p.slot0 = s.slot0
	p.liquidity = s.liquidity
	p.ticks = s.ticks
	p.bitmap = s.bitmap
	p.positions = s.positions
}

// Mint adds amount of liquidity to [lowerTick, upperTick) on behalf of
// owner, per spec.md §4.7.
func (p *Pool) Mint(owner common.Address, lowerTick, upperTick int32, amount *uint256.Int, balances BalanceReader, callback MintCallback, data []byte) (amount0, amount1 *uint256.Int, err error) {
	if lowerTick < tickmath.MinTick || lowerTick >= upperTick || upperTick > tickmath.MaxTick {
		return nil, nil, fmt.Errorf("mint [%d,%d): %w", lowerTick, upperTick, clammerrors.ErrInvalidTickRange)
	}
	if amount == nil || amount.IsZero() {
		return nil, nil, fmt.Errorf("mint: %w", clammerrors.ErrZeroLiquidity)
	}

	if !p.mu.TryLock() {
		return nil, nil, clammerrors.ErrReentrant
	}
	defer p.mu.Unlock()

	snap := p.snapshot()
	amount0, amount1, err = p.mintLocked(owner, lowerTick, upperTick, amount, balances, callback, data)
	if err != nil {
		p.restore(snap)
		return nil, nil, err
	}
	return amount0, amount1, nil
}

func (p *Pool) mintLocked(owner common.Address, lowerTick, upperTick int32, amount *uint256.Int, balances BalanceReader, callback MintCallback, data []byte) (*uint256.Int, *uint256.Int, error) {
	delta := amount.ToBig()

	flippedLower, err := p.ticks.Update(lowerTick, delta, false)
	if err != nil {
		return nil, nil, fmt.Errorf("mint: %w", err)
	}
	if flippedLower {
		if err := p.bitmap.FlipTick(lowerTick); err != nil {
			return nil, nil, fmt.Errorf("mint: %w", err)
		}
	}

	flippedUpper, err := p.ticks.Update(upperTick, delta, true)
	if err != nil {
		return nil, nil, fmt.Errorf("mint: %w", err)
	}
	if flippedUpper {
		if err := p.bitmap.FlipTick(upperTick); err != nil {
			return nil, nil, fmt.Errorf("mint: %w", err)
		}
	}

	if _, err := p.positions.Update(owner, lowerTick, upperTick, delta); err != nil {
		return nil, nil, fmt.Errorf("mint: %w", err)
	}

	sqrtAtLower, err := tickmath.GetSqrtRatioAtTick(lowerTick)
	if err != nil {
		return nil, nil, fmt.Errorf("mint: %w", err)
	}
	sqrtAtUpper, err := tickmath.GetSqrtRatioAtTick(upperTick)
	if err != nil {
		return nil, nil, fmt.Errorf("mint: %w", err)
	}

	amount0, amount1, err := liquiditymath.GetAmountsForLiquidity(p.slot0.SqrtPriceX96, sqrtAtLower, sqrtAtUpper, amount, true)
	if err != nil {
		return nil, nil, fmt.Errorf("mint: %w", err)
	}

	if lowerTick <= p.slot0.Tick && p.slot0.Tick < upperTick {
		p.liquidity = new(uint256.Int).Add(p.liquidity, amount)
	}

	prior0 := balances.BalanceOf(p.Token0)
	prior1 := balances.BalanceOf(p.Token1)

	if err := callback(amount0, amount1, data); err != nil {
		return nil, nil, fmt.Errorf("mint callback: %w", err)
	}

	after0 := balances.BalanceOf(p.Token0)
	after1 := balances.BalanceOf(p.Token1)
	want0 := new(uint256.Int).Add(prior0, amount0)
	want1 := new(uint256.Int).Add(prior1, amount1)
	if after0.Cmp(want0) < 0 || after1.Cmp(want1) < 0 {
		return nil, nil, fmt.Errorf("mint: %w", clammerrors.ErrInsufficientInputAmount)
	}

	return amount0, amount1, nil
}

// Swap exchanges amountSpecified of the input token (token0 when
// zeroForOne, else token1) along the curve for the opposite token, per
// spec.md §4.8. It is exact-input only: amountSpecified is always a
// positive remaining-input amount, and there is no external price limit —
// price bounding comes entirely from clamping the walked tick to
// [MinTick, MaxTick]. The returned deltas are signed with the convention
// positive = pool receives, negative = pool sends.
func (p *Pool) Swap(recipient common.Address, zeroForOne bool, amountSpecified *uint256.Int, balances BalanceReader, callback SwapCallback, data []byte) (amount0Delta, amount1Delta *big.Int, err error) {
	if !p.mu.TryLock() {
		return nil, nil, clammerrors.ErrReentrant
	}
	defer p.mu.Unlock()

	snap := p.snapshot()
	amount0Delta, amount1Delta, err = p.swapLocked(recipient, zeroForOne, amountSpecified, balances, callback, data)
	if err != nil {
		p.restore(snap)
		return nil, nil, err
	}
	return amount0Delta, amount1Delta, nil
}

func (p *Pool) swapLocked(recipient common.Address, zeroForOne bool, amountSpecified *uint256.Int, balances BalanceReader, callback SwapCallback, data []byte) (*big.Int, *big.Int, error) {
	sqrtP := p.slot0.SqrtPriceX96.Clone()
	curTick := p.slot0.Tick
	activeLiquidity := p.liquidity.Clone()

	amountSpecifiedRemaining := new(big.Int).Set(amountSpecified.ToBig())
	amountCalculated := new(big.Int)

	for amountSpecifiedRemaining.Sign() > 0 {
		sqrtPStart := sqrtP

		nextTick, initialized := p.bitmap.NextInitializedTickWithinOneWord(curTick, zeroForOne)
		if nextTick < tickmath.MinTick {
			nextTick = tickmath.MinTick
		} else if nextTick > tickmath.MaxTick {
			nextTick = tickmath.MaxTick
		}

		sqrtPTarget, err := tickmath.GetSqrtRatioAtTick(nextTick)
		if err != nil {
			return nil, nil, fmt.Errorf("swap: %w", err)
		}

		nextSqrtP, amtIn, amtOut, err := swapmath.ComputeSwapStep(sqrtP, sqrtPTarget, activeLiquidity, amountSpecifiedRemaining)
		if err != nil {
			return nil, nil, fmt.Errorf("swap: %w", err)
		}
		sqrtP = nextSqrtP

		amountSpecifiedRemaining.Sub(amountSpecifiedRemaining, amtIn.ToBig())
		amountCalculated.Add(amountCalculated, amtOut.ToBig())

		if sqrtP.Cmp(sqrtPTarget) == 0 {
			if initialized {
				liquidityNet := p.ticks.Cross(nextTick)
				if zeroForOne {
					liquidityNet = new(big.Int).Neg(liquidityNet)
				}
				activeLiquidity, err = liquiditymath.AddDelta(activeLiquidity, liquidityNet)
				if err != nil {
					return nil, nil, fmt.Errorf("swap: %w", err)
				}
			}
			if zeroForOne {
				curTick = nextTick - 1
			} else {
				curTick = nextTick
			}

			if amountSpecifiedRemaining.Sign() > 0 && activeLiquidity.IsZero() {
				return nil, nil, fmt.Errorf("swap: %w", clammerrors.ErrNotEnoughLiquidity)
			}
			continue
		}

		if sqrtP.Cmp(sqrtPStart) != 0 {
			curTick, err = tickmath.GetTickAtSqrtRatio(sqrtP)
			if err != nil {
				return nil, nil, fmt.Errorf("swap: %w", err)
			}
		}
		break
	}

	p.slot0 = Slot0{SqrtPriceX96: sqrtP, Tick: curTick}
	p.liquidity = activeLiquidity

	consumed := new(big.Int).Sub(amountSpecified.ToBig(), amountSpecifiedRemaining)

	var amount0, amount1 *big.Int
	if zeroForOne {
		amount0 = consumed
		amount1 = new(big.Int).Neg(amountCalculated)
	} else {
		amount0 = new(big.Int).Neg(amountCalculated)
		amount1 = consumed
	}

	inputToken := p.Token1
	inputDelta := amount1
	if zeroForOne {
		inputToken = p.Token0
		inputDelta = amount0
	}

	prior := balances.BalanceOf(inputToken).ToBig()

	if err := callback(amount0, amount1, data); err != nil {
		return nil, nil, fmt.Errorf("swap callback: %w", err)
	}

	after := balances.BalanceOf(inputToken).ToBig()
	want := new(big.Int).Add(prior, inputDelta)
	if after.Cmp(want) < 0 {
		return nil, nil, fmt.Errorf("swap: %w", clammerrors.ErrInsufficientInputAmount)
	}

	return amount0, amount1, nil
}
