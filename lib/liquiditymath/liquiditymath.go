// Package liquiditymath converts token amounts to the liquidity they back
// within a tick range, and applies signed liquidity deltas to an unsigned
// gross liquidity accumulator, per spec.md §4.3.
package liquiditymath

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
	"github.com/clammcore/clamm-core/lib/fullmath"
	"github.com/clammcore/clamm-core/lib/sqrtpricemath"
)

var maxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// GetLiquidityForAmount0 returns the liquidity backed by amount0 of token0
// over [sqrtRatioAX96, sqrtRatioBX96] (order-independent).
func GetLiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0 *uint256.Int) (*uint256.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	intermediate, err := fullmath.MulDiv(sqrtRatioAX96, sqrtRatioBX96, fullmath.Q96)
	if err != nil {
		return nil, err
	}
	return fullmath.MulDiv(amount0, intermediate, new(uint256.Int).Sub(sqrtRatioBX96, sqrtRatioAX96))
}

// GetLiquidityForAmount1 returns the liquidity backed by amount1 of token1
// over [sqrtRatioAX96, sqrtRatioBX96] (order-independent).
func GetLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1 *uint256.Int) (*uint256.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	return fullmath.MulDiv(amount1, fullmath.Q96, new(uint256.Int).Sub(sqrtRatioBX96, sqrtRatioAX96))
}

// GetLiquidityForAmounts returns the maximum liquidity that can be minted
// from amount0 and amount1 given the current price sqrtRatioX96 and the
// range [sqrtRatioAX96, sqrtRatioBX96], taking whichever token is the
// binding constraint depending on where the current price sits in range.
func GetLiquidityForAmounts(sqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1 *uint256.Int) (*uint256.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	switch {
	case sqrtRatioX96.Cmp(sqrtRatioAX96) <= 0:
		return GetLiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0)
	case sqrtRatioX96.Cmp(sqrtRatioBX96) < 0:
		l0, err := GetLiquidityForAmount0(sqrtRatioX96, sqrtRatioBX96, amount0)
		if err != nil {
			return nil, err
		}
		l1, err := GetLiquidityForAmount1(sqrtRatioAX96, sqrtRatioX96, amount1)
		if err != nil {
			return nil, err
		}
		if l0.Cmp(l1) < 0 {
			return l0, nil
		}
		return l1, nil
	default:
		return GetLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1)
	}
}

// GetAmountsForLiquidity is the inverse of GetLiquidityForAmounts: given a
// liquidity amount and a tick range, it returns the token amounts that back
// it at the current price sqrtRatioX96, per spec.md §4.3/§4.7. roundUp
// should be true when computing amounts owed to the pool (mint) and false
// when computing amounts owed to a caller (burn).
func GetAmountsForLiquidity(sqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, liquidity *uint256.Int, roundUp bool) (amount0, amount1 *uint256.Int, err error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	switch {
	case sqrtRatioX96.Cmp(sqrtRatioAX96) <= 0:
		amount0, err = sqrtpricemath.GetAmount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity, roundUp)
		if err != nil {
			return nil, nil, err
		}
		return amount0, new(uint256.Int), nil
	case sqrtRatioX96.Cmp(sqrtRatioBX96) < 0:
		amount0, err = sqrtpricemath.GetAmount0Delta(sqrtRatioX96, sqrtRatioBX96, liquidity, roundUp)
		if err != nil {
			return nil, nil, err
		}
		amount1, err = sqrtpricemath.GetAmount1Delta(sqrtRatioAX96, sqrtRatioX96, liquidity, roundUp)
		if err != nil {
			return nil, nil, err
		}
		return amount0, amount1, nil
	default:
		amount1, err = sqrtpricemath.GetAmount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity, roundUp)
		if err != nil {
			return nil, nil, err
		}
		return new(uint256.Int), amount1, nil
	}
}

// AddDelta adds a signed liquidity delta to an unsigned gross liquidity
// value, returning ErrLiquidityUnderflow if the sum goes negative or
// ErrLiquidityOverflow if it exceeds the uint128 liquidity cap.
func AddDelta(x *uint256.Int, delta *big.Int) (*uint256.Int, error) {
	sum := new(big.Int).Add(x.ToBig(), delta)
	if sum.Sign() < 0 {
		return nil, fmt.Errorf("addDelta(%s, %s): %w", x, delta, clammerrors.ErrLiquidityUnderflow)
	}
	result, overflow := uint256.FromBig(sum)
	if overflow || result.Cmp(maxUint128) > 0 {
		return nil, fmt.Errorf("addDelta(%s, %s): %w", x, delta, clammerrors.ErrLiquidityOverflow)
	}
	return result, nil
}
