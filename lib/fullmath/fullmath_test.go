package fullmath

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func u256FromDec(t *testing.T, s string) *uint256.Int {
	t.Helper()
	b, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad decimal literal %q", s)
	v, overflow := uint256.FromBig(b)
	require.False(t, overflow)
	return v
}

func TestMulDivAgainstBigIntOracle(t *testing.T) {
	cases := []struct {
		a, b, d string
	}{
		{"1", "1", "1"},
		{"1000000000000000000", "2", "3"},
		{"79228162514264337593543950336", "5000", "1"},                 // Q96 * 5000
		{"340282366920938463463374607431768211455", "7", "13"},        // 2^128-1 scaled
		{"123456789012345678901234567890", "987654321", "1000000007"}, // arbitrary
	}
	for _, c := range cases {
		a := u256FromDec(t, c.a)
		b := u256FromDec(t, c.b)
		d := u256FromDec(t, c.d)

		want := new(big.Int).Mul(a.ToBig(), b.ToBig())
		wantDown := new(big.Int).Div(want, d.ToBig())
		rem := new(big.Int).Mod(want, d.ToBig())
		wantUp := new(big.Int).Set(wantDown)
		if rem.Sign() != 0 {
			wantUp.Add(wantUp, big.NewInt(1))
		}

		gotDown, err := MulDiv(a, b, d)
		require.NoError(t, err)
		require.Equal(t, wantDown.String(), gotDown.ToBig().String())

		gotUp, err := MulDivRoundingUp(a, b, d)
		require.NoError(t, err)
		require.Equal(t, wantUp.String(), gotUp.ToBig().String())
	}
}

func TestMulDivDenominatorZero(t *testing.T) {
	_, err := MulDiv(uint256.NewInt(1), uint256.NewInt(1), uint256.NewInt(0))
	require.Error(t, err)
}

func TestMulDivRoundingUpExactDivisionDoesNotRoundUp(t *testing.T) {
	got, err := MulDivRoundingUp(uint256.NewInt(10), uint256.NewInt(10), uint256.NewInt(10))
	require.NoError(t, err)
	require.Equal(t, uint64(10), got.Uint64())
}
