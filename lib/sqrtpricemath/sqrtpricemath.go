// Package sqrtpricemath computes the token amounts required to move the
// price between two sqrt ratios, and the sqrt ratio reached by applying a
// given input or output amount at a fixed liquidity, per spec.md §4.3.
package sqrtpricemath

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
	"github.com/clammcore/clamm-core/lib/fullmath"
)

var one = uint256.NewInt(1)
var maxUint160 = new(uint256.Int).Sub(new(uint256.Int).Lsh(one, 160), one)

// GetAmount0Delta returns the amount of token0 needed to move the price
// from sqrtRatioAX96 to sqrtRatioBX96 (order-independent) at liquidity.
func GetAmount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	if sqrtRatioAX96.IsZero() {
		return nil, fmt.Errorf("amount0 delta: sqrt ratio is zero: %w", clammerrors.ErrOverflow)
	}

	numerator1 := new(uint256.Int).Lsh(liquidity, 96)
	numerator2 := new(uint256.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)

	if roundUp {
		inner, err := fullmath.MulDivRoundingUp(numerator1, numerator2, sqrtRatioBX96)
		if err != nil {
			return nil, err
		}
		return fullmath.MulDivRoundingUp(inner, one, sqrtRatioAX96)
	}

	inner, err := fullmath.MulDiv(numerator1, numerator2, sqrtRatioBX96)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Div(inner, sqrtRatioAX96), nil
}

// GetAmount1Delta returns the amount of token1 needed to move the price
// from sqrtRatioAX96 to sqrtRatioBX96 (order-independent) at liquidity.
func GetAmount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	diff := new(uint256.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if roundUp {
		return fullmath.MulDivRoundingUp(liquidity, diff, fullmath.Q96)
	}
	return fullmath.MulDiv(liquidity, diff, fullmath.Q96)
}

// GetNextSqrtPriceFromInput returns the sqrt price reached by adding amountIn
// of the input token (token0 when zeroForOne, else token1) at liquidity.
func GetNextSqrtPriceFromInput(sqrtPX96, liquidity, amountIn *uint256.Int, zeroForOne bool) (*uint256.Int, error) {
	if sqrtPX96.IsZero() {
		return nil, fmt.Errorf("next sqrt price from input: sqrt price is zero: %w", clammerrors.ErrOverflow)
	}
	if liquidity.IsZero() {
		return nil, fmt.Errorf("next sqrt price from input: %w", clammerrors.ErrZeroLiquidity)
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountIn, true)
	}
	return nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput returns the sqrt price reached by removing
// amountOut of the output token (token1 when zeroForOne, else token0) at
// liquidity.
func GetNextSqrtPriceFromOutput(sqrtPX96, liquidity, amountOut *uint256.Int, zeroForOne bool) (*uint256.Int, error) {
	if sqrtPX96.IsZero() {
		return nil, fmt.Errorf("next sqrt price from output: sqrt price is zero: %w", clammerrors.ErrOverflow)
	}
	if liquidity.IsZero() {
		return nil, fmt.Errorf("next sqrt price from output: %w", clammerrors.ErrZeroLiquidity)
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountOut, false)
	}
	return nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountOut, false)
}

func nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if amount.IsZero() {
		return sqrtPX96, nil
	}
	numerator1 := new(uint256.Int).Lsh(liquidity, 96)

	if add {
		product := new(uint256.Int).Mul(amount, sqrtPX96)
		if new(uint256.Int).Div(product, amount).Eq(sqrtPX96) {
			denominator := new(uint256.Int).Add(numerator1, product)
			if denominator.Cmp(numerator1) >= 0 {
				return fullmath.MulDivRoundingUp(numerator1, sqrtPX96, denominator)
			}
		}
		denom := new(uint256.Int).Add(new(uint256.Int).Div(numerator1, sqrtPX96), amount)
		return fullmath.MulDivRoundingUp(numerator1, one, denom)
	}

	product := new(uint256.Int).Mul(amount, sqrtPX96)
	if !new(uint256.Int).Div(product, amount).Eq(sqrtPX96) || numerator1.Cmp(product) <= 0 {
		return nil, fmt.Errorf("next sqrt price from amount0: %w", clammerrors.ErrOverflow)
	}
	denominator := new(uint256.Int).Sub(numerator1, product)
	return fullmath.MulDivRoundingUp(numerator1, sqrtPX96, denominator)
}

func nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if add {
		var quotient *uint256.Int
		var err error
		if amount.Cmp(maxUint160) <= 0 {
			quotient = new(uint256.Int).Div(new(uint256.Int).Lsh(amount, 96), liquidity)
		} else {
			quotient, err = fullmath.MulDiv(amount, fullmath.Q96, liquidity)
			if err != nil {
				return nil, err
			}
		}
		return new(uint256.Int).Add(sqrtPX96, quotient), nil
	}

	quotient, err := fullmath.MulDivRoundingUp(amount, fullmath.Q96, liquidity)
	if err != nil {
		return nil, err
	}
	if sqrtPX96.Cmp(quotient) <= 0 {
		return nil, fmt.Errorf("next sqrt price from amount1: price would go non-positive: %w", clammerrors.ErrOverflow)
	}
	return new(uint256.Int).Sub(sqrtPX96, quotient), nil
}
