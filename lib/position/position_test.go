package position

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndDistinguishesRanges(t *testing.T) {
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	k1 := Key(owner, 100, 200)
	k2 := Key(owner, 100, 200)
	require.Equal(t, k1, k2)

	k3 := Key(owner, 100, 201)
	require.NotEqual(t, k1, k3)

	k4 := Key(owner, -200, -100)
	require.NotEqual(t, k1, k4)
}

func TestKeyDistinguishesOwners(t *testing.T) {
	a := common.HexToAddress("0x1111111111111111111111111111111111111111")
	b := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NotEqual(t, Key(a, 100, 200), Key(b, 100, 200))
}

func TestGetReturnsZeroPositionWithoutCreatingIt(t *testing.T) {
	book := NewBook()
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	info := book.Get(owner, 100, 200)
	require.True(t, info.Liquidity.IsZero())
	require.Empty(t, book.positions, "Get must not persist an entry for an unseen key")

	liquidity, err := book.Update(owner, 100, 200, big.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, uint64(500), liquidity.Uint64())
	require.Len(t, book.positions, 1)

	liquidity, err = book.Update(owner, 100, 200, big.NewInt(250))
	require.NoError(t, err)
	require.Equal(t, uint64(750), liquidity.Uint64())

	require.Equal(t, uint64(750), book.Get(owner, 100, 200).Liquidity.Uint64())
}

func TestUpdateUnderflows(t *testing.T) {
	book := NewBook()
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	_, err := book.Update(owner, 100, 200, big.NewInt(-1))
	require.Error(t, err)
}
