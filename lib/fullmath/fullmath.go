// Package fullmath implements the FixedPoint96 Q64.96 mulDiv primitive: a
// 512-bit-intermediate multiply-then-divide with explicit rounding, as used
// throughout the tick/price and swap math.
package fullmath

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
)

// Q96 is 2^96, the fixed-point unit for sqrtPriceX96 values.
var Q96 = new(uint256.Int).Lsh(uint256.NewInt(1), 96)

var one = uint256.NewInt(1)

// MulDiv computes floor(a*b/denominator) using a 512-bit intermediate
// product, returning clammerrors.ErrOverflow if denominator is zero or the
// quotient does not fit in 256 bits.
func MulDiv(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, fmt.Errorf("mulDiv: denominator is zero: %w", clammerrors.ErrOverflow)
	}
	result, overflow := new(uint256.Int).MulDivOverflow(a, b, denominator)
	if overflow {
		return nil, fmt.Errorf("mulDiv(%s, %s, %s): %w", a, b, denominator, clammerrors.ErrOverflow)
	}
	return result, nil
}

// MulDivRoundingUp computes ceil(a*b/denominator) with the same overflow
// semantics as MulDiv.
func MulDivRoundingUp(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	result, err := MulDiv(a, b, denominator)
	if err != nil {
		return nil, err
	}
	rem := new(uint256.Int).MulMod(a, b, denominator)
	if !rem.IsZero() {
		if result.Cmp(new(uint256.Int).Not(uint256.NewInt(0))) == 0 {
			return nil, fmt.Errorf("mulDivRoundingUp(%s, %s, %s): %w", a, b, denominator, clammerrors.ErrOverflow)
		}
		result = new(uint256.Int).Add(result, one)
	}
	return result, nil
}
