// Package swapmath computes a single swap step: how far the price moves
// toward a target tick's price given the liquidity active over that range
// and the amount remaining to fill, per spec.md §4.4. Protocol/LP fees are
// a spec.md Non-goal, so this omits the feePips term the teacher's version
// carries.
package swapmath

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
	"github.com/clammcore/clamm-core/lib/sqrtpricemath"
)

// ComputeSwapStep advances the price from sqrtRatioCurrentX96 toward
// sqrtRatioTargetX96 at the given liquidity, consuming as much of
// amountRemaining as the step allows. A positive amountRemaining means
// "exact input remaining"; a negative amountRemaining means "exact output
// remaining" (magnitude |amountRemaining|). It returns the next sqrt price,
// the amount of the input token consumed, and the amount of the output
// token produced by this step.
func ComputeSwapStep(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity *uint256.Int, amountRemaining *big.Int) (sqrtRatioNextX96, amountIn, amountOut *uint256.Int, err error) {
	zeroForOne := sqrtRatioCurrentX96.Cmp(sqrtRatioTargetX96) >= 0
	exactIn := amountRemaining.Sign() >= 0

	if exactIn {
		remaining, overflow := uint256.FromBig(amountRemaining)
		if overflow {
			return nil, nil, nil, fmt.Errorf("swap step: amount remaining overflows u256: %w", clammerrors.ErrOverflow)
		}

		if zeroForOne {
			amountIn, err = sqrtpricemath.GetAmount0Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, true)
		} else {
			amountIn, err = sqrtpricemath.GetAmount1Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, true)
		}
		if err != nil {
			return nil, nil, nil, err
		}

		if remaining.Cmp(amountIn) >= 0 {
			sqrtRatioNextX96 = sqrtRatioTargetX96.Clone()
		} else {
			sqrtRatioNextX96, err = sqrtpricemath.GetNextSqrtPriceFromInput(sqrtRatioCurrentX96, liquidity, remaining, zeroForOne)
			if err != nil {
				return nil, nil, nil, err
			}
		}
	} else {
		amountSpecified, overflow := uint256.FromBig(new(big.Int).Neg(amountRemaining))
		if overflow {
			return nil, nil, nil, fmt.Errorf("swap step: amount remaining overflows u256: %w", clammerrors.ErrOverflow)
		}

		if zeroForOne {
			amountOut, err = sqrtpricemath.GetAmount1Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, false)
		} else {
			amountOut, err = sqrtpricemath.GetAmount0Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, false)
		}
		if err != nil {
			return nil, nil, nil, err
		}

		if amountSpecified.Cmp(amountOut) >= 0 {
			sqrtRatioNextX96 = sqrtRatioTargetX96.Clone()
		} else {
			sqrtRatioNextX96, err = sqrtpricemath.GetNextSqrtPriceFromOutput(sqrtRatioCurrentX96, liquidity, amountSpecified, zeroForOne)
			if err != nil {
				return nil, nil, nil, err
			}
		}
	}

	reachedTarget := sqrtRatioTargetX96.Cmp(sqrtRatioNextX96) == 0

	// Both the input and the output amount of the step round up.
	if zeroForOne {
		if !(reachedTarget && exactIn) {
			amountIn, err = sqrtpricemath.GetAmount0Delta(sqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, true)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		if !(reachedTarget && !exactIn) {
			amountOut, err = sqrtpricemath.GetAmount1Delta(sqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, true)
			if err != nil {
				return nil, nil, nil, err
			}
		}
	} else {
		if !(reachedTarget && exactIn) {
			amountIn, err = sqrtpricemath.GetAmount1Delta(sqrtRatioCurrentX96, sqrtRatioNextX96, liquidity, true)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		if !(reachedTarget && !exactIn) {
			amountOut, err = sqrtpricemath.GetAmount0Delta(sqrtRatioCurrentX96, sqrtRatioNextX96, liquidity, true)
			if err != nil {
				return nil, nil, nil, err
			}
		}
	}

	if !exactIn {
		cap, overflow := uint256.FromBig(new(big.Int).Neg(amountRemaining))
		if overflow {
			return nil, nil, nil, fmt.Errorf("swap step: amount remaining overflows u256: %w", clammerrors.ErrOverflow)
		}
		if amountOut.Cmp(cap) > 0 {
			amountOut = cap
		}
	}

	return sqrtRatioNextX96, amountIn, amountOut, nil
}
