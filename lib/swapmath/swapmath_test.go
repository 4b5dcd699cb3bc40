package swapmath

import (
	"math/big"
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

func TestComputeSwapStepExactInStaysWithinTarget(t *testing.T) {
	current := u("1344919684864506912172695223877090")
	target := u("1346938477169594858818217023321238")
	liquidity := u("731344820973715931")
	amountRemaining, _ := new(big.Int).SetString("26412237337162431364", 10)

	next, amountIn, amountOut, err := ComputeSwapStep(current, target, liquidity, amountRemaining)
	require.NoError(t, err)
	require.True(t, next.Cmp(current) >= 0)
	require.True(t, next.Cmp(target) <= 0)
	require.False(t, amountIn.IsZero())
	require.False(t, amountOut.IsZero())
	require.True(t, amountIn.Cmp(u(amountRemaining.String())) <= 0)
}

func TestComputeSwapStepExactInReachesTargetWhenAmountIsLarge(t *testing.T) {
	current := u("79228162514264337593543950336")
	target := u("87150978765690771352898345369")
	liquidity := u("1000000000000000000")
	amountRemaining, _ := new(big.Int).SetString("1000000000000000000000", 10)

	next, amountIn, amountOut, err := ComputeSwapStep(current, target, liquidity, amountRemaining)
	require.NoError(t, err)
	require.Equal(t, target.String(), next.String())
	require.False(t, amountIn.IsZero())
	require.False(t, amountOut.IsZero())
}

func TestComputeSwapStepExactOutCapsAtRequestedOutput(t *testing.T) {
	current := u("79228162514264337593543950336")
	target := u("87150978765690771352898345369")
	liquidity := u("1000000000000000000")
	amountOutRequested := big.NewInt(-1000000000000)

	next, amountIn, amountOut, err := ComputeSwapStep(current, target, liquidity, amountOutRequested)
	require.NoError(t, err)
	require.True(t, next.Cmp(current) >= 0)
	require.False(t, amountIn.IsZero())
	require.True(t, amountOut.Cmp(u("1000000000000")) <= 0)
}

func TestComputeSwapStepZeroForOneDirection(t *testing.T) {
	current := u("87150978765690771352898345369")
	target := u("79228162514264337593543950336")
	liquidity := u("1000000000000000000")
	amountRemaining, _ := new(big.Int).SetString("1000000000000000000000", 10)

	next, amountIn, amountOut, err := ComputeSwapStep(current, target, liquidity, amountRemaining)
	require.NoError(t, err)
	require.True(t, next.Cmp(current) <= 0)
	require.True(t, next.Cmp(target) >= 0)
	require.False(t, amountIn.IsZero())
	require.False(t, amountOut.IsZero())
}
