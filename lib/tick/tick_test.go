package tick

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateFlipsOnFirstMintAndLastBurn(t *testing.T) {
	book := NewBook(60)

	flipped, err := book.Update(120, big.NewInt(1000), false)
	require.NoError(t, err)
	require.True(t, flipped)

	info := book.Get(120)
	require.True(t, info.Initialized)
	require.Equal(t, uint64(1000), info.LiquidityGross.Uint64())
	require.Equal(t, big.NewInt(1000), info.LiquidityNet)

	flipped, err = book.Update(120, big.NewInt(-1000), false)
	require.NoError(t, err)
	require.True(t, flipped)

	info = book.Get(120)
	require.False(t, info.Initialized)
	require.True(t, info.LiquidityGross.IsZero())
}

func TestUpdateUpperNegatesNet(t *testing.T) {
	book := NewBook(60)

	_, err := book.Update(60, big.NewInt(500), true)
	require.NoError(t, err)

	info := book.Get(60)
	require.Equal(t, big.NewInt(-500), info.LiquidityNet)
	require.Equal(t, uint64(500), info.LiquidityGross.Uint64())
}

func TestUpdateDoesNotFlipOnSecondMint(t *testing.T) {
	book := NewBook(60)

	_, err := book.Update(120, big.NewInt(1000), false)
	require.NoError(t, err)

	flipped, err := book.Update(120, big.NewInt(500), false)
	require.NoError(t, err)
	require.False(t, flipped)

	info := book.Get(120)
	require.Equal(t, uint64(1500), info.LiquidityGross.Uint64())
}

func TestUpdateExceedsPerTickCap(t *testing.T) {
	book := NewBook(200000)

	cap := book.MaxLiquidityPerTick()
	over := new(big.Int).Add(cap.ToBig(), big.NewInt(1))

	_, err := book.Update(0, over, false)
	require.Error(t, err)
}

func TestCrossReturnsStoredNet(t *testing.T) {
	book := NewBook(60)
	_, err := book.Update(60, big.NewInt(250), false)
	require.NoError(t, err)

	require.Equal(t, big.NewInt(250), book.Cross(60))
	require.Equal(t, new(big.Int), book.Cross(61))
}
