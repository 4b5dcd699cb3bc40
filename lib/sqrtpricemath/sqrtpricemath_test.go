package sqrtpricemath

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func u(s string) *uint256.Int {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestAmountDeltaRoundingBracketsByAtMostOne(t *testing.T) {
	cases := []struct {
		a, b, l string
	}{
		{"79228162514264337593543950336", "87150978765690771352898345369", "1000000000000000000"},
		{"4295128739", "1461446703485210103287273052203988822378723970341", "12345"},
		{"79228162514264337593543950336", "79228162514264337593543950337", "1"},
	}
	for _, c := range cases {
		a, b, l := u(c.a), u(c.b), u(c.l)

		down0, err := GetAmount0Delta(a, b, l, false)
		require.NoError(t, err)
		up0, err := GetAmount0Delta(a, b, l, true)
		require.NoError(t, err)
		require.True(t, down0.Cmp(up0) <= 0)
		diff0 := new(uint256.Int).Sub(up0, down0)
		require.True(t, diff0.Cmp(uint256.NewInt(2)) < 0)

		down1, err := GetAmount1Delta(a, b, l, false)
		require.NoError(t, err)
		up1, err := GetAmount1Delta(a, b, l, true)
		require.NoError(t, err)
		require.True(t, down1.Cmp(up1) <= 0)
		diff1 := new(uint256.Int).Sub(up1, down1)
		require.True(t, diff1.Cmp(uint256.NewInt(2)) < 0)
	}
}

func TestNextSqrtPriceFromInputMonotonic(t *testing.T) {
	sqrtP := u("79228162514264337593543950336")
	liquidity := u("1000000000000000000")
	amountIn := u("500000000000000000")

	down, err := GetNextSqrtPriceFromInput(sqrtP, liquidity, amountIn, true)
	require.NoError(t, err)
	require.True(t, down.Cmp(sqrtP) <= 0)

	up, err := GetNextSqrtPriceFromInput(sqrtP, liquidity, amountIn, false)
	require.NoError(t, err)
	require.True(t, up.Cmp(sqrtP) >= 0)
}

func TestNextSqrtPriceFromOutputInverseOfInput(t *testing.T) {
	sqrtP := u("79228162514264337593543950336")
	liquidity := u("1000000000000000000")
	amountOut := u("100000000000000000")

	next, err := GetNextSqrtPriceFromOutput(sqrtP, liquidity, amountOut, false)
	require.NoError(t, err)
	require.True(t, next.Cmp(sqrtP) > 0)

	got, err := GetAmount0Delta(sqrtP, next, liquidity, true)
	require.NoError(t, err)
	require.True(t, got.Cmp(amountOut) >= 0)
}

func TestGetNextSqrtPriceFromInputZeroAmountIsNoOp(t *testing.T) {
	sqrtP := u("79228162514264337593543950336")
	liquidity := u("1000000000000000000")

	got, err := GetNextSqrtPriceFromInput(sqrtP, liquidity, uint256.NewInt(0), true)
	require.NoError(t, err)
	require.True(t, got.Eq(sqrtP))
}

func TestGetNextSqrtPriceFromInputZeroLiquidityErrors(t *testing.T) {
	sqrtP := u("79228162514264337593543950336")
	_, err := GetNextSqrtPriceFromInput(sqrtP, uint256.NewInt(0), uint256.NewInt(1), true)
	require.Error(t, err)
}
