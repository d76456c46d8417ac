package mathex

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/carbon-go/shared"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name      string
		x, y, d   int64
		floor     int64
		ceil      int64
	}{
		{"exact", 10, 6, 3, 20, 20},
		{"remainder", 10, 7, 3, 23, 24},
		{"one", 5, 9, 1, 45, 45},
		{"zero operand", 0, 9, 7, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			f, err := MulDivF(big.NewInt(tt.x), big.NewInt(tt.y), big.NewInt(tt.d))
			require.NoError(err)
			require.Equal(tt.floor, f.Int64())
			c, err := MulDivC(big.NewInt(tt.x), big.NewInt(tt.y), big.NewInt(tt.d))
			require.NoError(err)
			require.Equal(tt.ceil, c.Int64())
		})
	}
}

func TestMulDivDivisionByZero(t *testing.T) {
	require := require.New(t)
	_, err := MulDivF(big.NewInt(1), big.NewInt(1), big.NewInt(0))
	require.ErrorIs(err, shared.ErrDivisionByZero)
	_, err = MulDivC(big.NewInt(1), big.NewInt(1), big.NewInt(0))
	require.ErrorIs(err, shared.ErrDivisionByZero)
}

func TestMulDivOverflow(t *testing.T) {
	require := require.New(t)
	_, err := MulDivF(maxUint256, maxUint256, big.NewInt(1))
	require.ErrorIs(err, shared.ErrOverflow)

	// The same product divided by its MinFactor stays in range.
	factor := MinFactor(maxUint256, maxUint256)
	v, err := MulDivC(maxUint256, maxUint256, factor)
	require.NoError(err)
	require.True(v.Cmp(maxUint256) <= 0)
}

func TestMul512(t *testing.T) {
	require := require.New(t)
	hi, lo := Mul512(maxUint256, maxUint256)
	// (2^256-1)^2 = (2^256-2)<<256 + 1
	require.Equal(new(big.Int).Sub(maxUint256, big.NewInt(1)), hi)
	require.Equal(big.NewInt(1), lo)

	hi, lo = Mul512(big.NewInt(3), big.NewInt(4))
	require.Zero(hi.Sign())
	require.Equal(big.NewInt(12), lo)
}

func TestMinFactor(t *testing.T) {
	require := require.New(t)
	// Small products need no scaling.
	require.Equal(big.NewInt(1), MinFactor(big.NewInt(1000), big.NewInt(1000)))
	// Large products need exactly hi+1.
	big255 := new(big.Int).Lsh(big.NewInt(1), 255)
	factor := MinFactor(big255, big255)
	v, err := MulDivC(big255, big255, factor)
	require.NoError(err)
	require.True(v.Cmp(maxUint256) <= 0)
}

func TestToUint128(t *testing.T) {
	require := require.New(t)
	v, err := ToUint128(big.NewInt(1))
	require.NoError(err)
	require.Equal(int64(1), v.Int64())

	_, err = ToUint128(new(big.Int).Lsh(big.NewInt(1), 128))
	require.ErrorIs(err, shared.ErrOverflow)
	_, err = ToUint128(big.NewInt(-1))
	require.ErrorIs(err, shared.ErrOverflow)
	require.True(FitsUint128(maxUint128))
	require.False(FitsUint128(new(big.Int).Add(maxUint128, big.NewInt(1))))
}
