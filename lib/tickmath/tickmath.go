// Package tickmath implements the bijection between signed tick indices and
// Q64.96 sqrt-price ratios: getSqrtRatioAtTick (a product of precomputed
// factors selected by the bits of |tick|) and its inverse getTickAtSqrtRatio
// (a log2 approximation plus a one-step correction).
package tickmath

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
)

const (
	// MinTick is the minimum tick that may be passed to GetSqrtRatioAtTick.
	MinTick int32 = -887272
	// MaxTick is the maximum tick that may be passed to GetSqrtRatioAtTick.
	MaxTick int32 = -MinTick
)

var (
	// MinSqrtRatio is GetSqrtRatioAtTick(MinTick).
	MinSqrtRatio = uint256.NewInt(4295128739)
	// MaxSqrtRatio is GetSqrtRatioAtTick(MaxTick) + 1 (the exclusive upper bound).
	MaxSqrtRatio = mustFromDecimal("1461446703485210103287273052203988822378723970343")

	q32  = uint256.NewInt(1 << 32)
	one  = uint256.NewInt(1)
	zero = uint256.NewInt(0)
)

func mustFromDecimal(s string) *uint256.Int {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		panic(err)
	}
	return v
}

func mustFromHex(s string) *uint256.Int {
	v, err := uint256.FromHex(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ratioConstants[i] holds 2^128 / sqrt(1.0001^(2^(i+1))), the Uniswap V3
// constant table selected by bit i+1 of |tick| (bit 0 picks seedOdd).
var ratioConstants = [19]*uint256.Int{
	mustFromHex("0xfff97272373d413259a46990580e213a"),
	mustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
	mustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
	mustFromHex("0xffcb9843d60f6159c9db58835c926644"),
	mustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
	mustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
	mustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
	mustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
	mustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
	mustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
	mustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
	mustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
	mustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
	mustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
	mustFromHex("0x31be135f97d08fd981231505542fcfa6"),
	mustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
	mustFromHex("0x5d6af8dedb81196699c329225ee604"),
	mustFromHex("0x2216e584f5fa1ea926041bedfe98"),
	mustFromHex("0x48a170391f7dc42444e8fa2"),
}

var seedEven = mustFromHex("0x100000000000000000000000000000000")
var seedOdd = mustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")

// GetSqrtRatioAtTick returns floor(1.0001^(tick/2) * 2^96) for tick in
// [MinTick, MaxTick].
func GetSqrtRatioAtTick(tick int32) (*uint256.Int, error) {
	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}
	if absTick > MaxTick {
		return nil, fmt.Errorf("tick %d: %w", tick, clammerrors.ErrTickOutOfRange)
	}

	var ratio *uint256.Int
	if absTick&0x1 != 0 {
		ratio = seedOdd.Clone()
	} else {
		ratio = seedEven.Clone()
	}
	for i, c := range ratioConstants {
		bit := uint32(1) << uint(i+1)
		if uint32(absTick)&bit != 0 {
			ratio = mulShift128(ratio, c)
		}
	}

	if tick > 0 {
		maxUint256 := new(uint256.Int).Not(zero)
		ratio = new(uint256.Int).Div(maxUint256, ratio)
	}

	// ratio is a UQ128.128 value; shift down to Q64.96, rounding up when any
	// of the 32 truncated bits are set.
	shifted := new(uint256.Int).Rsh(ratio, 32)
	rem := new(uint256.Int).Mod(ratio, q32)
	if !rem.IsZero() {
		shifted = new(uint256.Int).Add(shifted, one)
	}
	return shifted, nil
}

func mulShift128(val, mulBy *uint256.Int) *uint256.Int {
	product := new(uint256.Int).Mul(val, mulBy)
	return new(uint256.Int).Rsh(product, 128)
}

// GetTickAtSqrtRatio returns the greatest tick t such that
// GetSqrtRatioAtTick(t) <= sqrtPriceX96, for sqrtPriceX96 in
// [MinSqrtRatio, MaxSqrtRatio).
func GetTickAtSqrtRatio(sqrtPriceX96 *uint256.Int) (int32, error) {
	if sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, fmt.Errorf("sqrtPriceX96 %s: %w", sqrtPriceX96, clammerrors.ErrTickOutOfRange)
	}

	sqrtRatioX128 := new(uint256.Int).Lsh(sqrtPriceX96, 32)
	msb := mostSignificantBit(sqrtRatioX128)

	var r *uint256.Int
	if msb >= 128 {
		r = new(uint256.Int).Rsh(sqrtRatioX128, uint(msb-127))
	} else {
		r = new(uint256.Int).Lsh(sqrtRatioX128, uint(127-msb))
	}

	log2 := new(uint256.Int).Lsh(int64ToU256(int64(msb)-128), 64)

	for i := 0; i < 14; i++ {
		r = new(uint256.Int).Rsh(new(uint256.Int).Mul(r, r), 127)
		f := new(uint256.Int).Rsh(r, 128)
		log2 = new(uint256.Int).Or(log2, new(uint256.Int).Lsh(f, uint(63-i)))
		r = new(uint256.Int).Rsh(r, uint(f.Uint64()))
	}

	magicSqrt10001 := mustFromHex("0x3627A301D71055774C85")
	logSqrt10001 := new(uint256.Int).Mul(log2, magicSqrt10001)

	magicTickLow := mustFromDecimal("3402992956809132418596140100660247210")
	magicTickHigh := mustFromDecimal("291339464771989622907027621153398088495")

	tickLow := int32(shiftRight128ToSigned(new(uint256.Int).Sub(logSqrt10001, magicTickLow)))
	tickHigh := int32(shiftRight128ToSigned(new(uint256.Int).Add(logSqrt10001, magicTickHigh)))

	if tickLow == tickHigh {
		return tickLow, nil
	}

	sqrtRatioAtHigh, err := GetSqrtRatioAtTick(tickHigh)
	if err != nil {
		return 0, err
	}
	if sqrtRatioAtHigh.Cmp(sqrtPriceX96) <= 0 {
		return tickHigh, nil
	}
	return tickLow, nil
}

// int64ToU256 reinterprets a (possibly negative) int64 as the 256-bit two's
// complement value used for the fixed-point log2 accumulator.
func int64ToU256(v int64) *uint256.Int {
	if v >= 0 {
		return uint256.NewInt(uint64(v))
	}
	u := new(uint256.Int).Not(uint256.NewInt(uint64(-v) - 1))
	return u
}

// shiftRight128ToSigned treats x as a two's-complement signed 256-bit value
// (possibly "negative", i.e. with its high bits all set from an earlier
// wraparound subtraction) and returns x >> 128 reinterpreted as a signed
// 64-bit tick. A logical right shift by a multiple of 64 followed by taking
// the low 64 bits and reinterpreting them as int64 recovers the correct
// signed quotient here, because the tick magnitude is always far smaller
// than 2^64: the high, discarded bits of the shifted value are either all
// zero (positive case) or all one (negative case) and do not affect the
// low 64 bits we keep.
func shiftRight128ToSigned(x *uint256.Int) int64 {
	shifted := new(uint256.Int).Rsh(x, 128)
	return int64(shifted.Uint64())
}

// mostSignificantBit returns the bit index (0-255) of the highest set bit.
// x must be non-zero.
func mostSignificantBit(x *uint256.Int) int {
	return x.BitLen() - 1
}
