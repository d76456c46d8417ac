package strategies

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/carbon-go/shared"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		orders   [2]shared.Order
		inverted bool
	}{
		{
			name: "basic",
			orders: [2]shared.Order{
				{Y: big.NewInt(800000), Z: big.NewInt(8000000), A: 736899889, B: 12148001999},
				{Y: big.NewInt(500), Z: big.NewInt(1000), A: 0, B: 281474976710655},
			},
		},
		{
			name: "inverted",
			orders: [2]shared.Order{
				{Y: big.NewInt(1), Z: big.NewInt(2), A: 3, B: 4},
				{Y: big.NewInt(5), Z: big.NewInt(6), A: 7, B: 8},
			},
			inverted: true,
		},
		{
			name: "max liquidity",
			orders: [2]shared.Order{
				{
					Y: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
					Z: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
					A: 1<<64 - 1,
					B: 1<<64 - 1,
				},
				{
					Y: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
					Z: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
					A: 1<<64 - 1,
					B: 1<<63 - 1,
				},
			},
			inverted: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			packed, err := Pack(tt.orders, tt.inverted)
			require.NoError(err)

			orders, inverted, err := Unpack(packed)
			require.NoError(err)
			require.Equal(tt.inverted, inverted)
			for i := range orders {
				require.True(orders[i].Equal(tt.orders[i]), "order %d", i)
			}
		})
	}
}

func TestPackRejectsWideValues(t *testing.T) {
	require := require.New(t)

	wide := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := Pack([2]shared.Order{{Y: wide, Z: wide}, {Y: big.NewInt(0), Z: big.NewInt(0)}}, false)
	require.ErrorIs(err, shared.ErrOverflow)

	// B1 shares its word with the inversion flag.
	_, err = Pack([2]shared.Order{
		{Y: big.NewInt(0), Z: big.NewInt(0)},
		{Y: big.NewInt(0), Z: big.NewInt(0), B: 1 << 63},
	}, false)
	require.ErrorIs(err, shared.ErrOverflow)
}

func TestUnpackZeroSentinel(t *testing.T) {
	require := require.New(t)
	_, _, err := Unpack(PackedOrders{})
	require.ErrorIs(err, shared.ErrStrategyDoesNotExist)
}

func TestChangedWords(t *testing.T) {
	require := require.New(t)
	orders := [2]shared.Order{
		{Y: big.NewInt(10), Z: big.NewInt(20), A: 1, B: 2},
		{Y: big.NewInt(30), Z: big.NewInt(40), A: 3, B: 4},
	}
	before, err := Pack(orders, false)
	require.NoError(err)

	require.Equal([3]bool{}, ChangedWords(before, before))

	orders[0].Y = big.NewInt(11)
	after, err := Pack(orders, false)
	require.NoError(err)
	require.Equal([3]bool{true, false, false}, ChangedWords(before, after))

	orders[1].Z = big.NewInt(41)
	after, err = Pack(orders, false)
	require.NoError(err)
	require.Equal([3]bool{true, false, true}, ChangedWords(before, after))
}

func FuzzPackUnpack(f *testing.F) {
	f.Add(uint64(800000), uint64(8000000), uint64(736899889), uint64(12148001999),
		uint64(500), uint64(1000), uint64(0), uint64(281474976710655), true)
	f.Add(uint64(0), uint64(0), uint64(0), uint64(1),
		uint64(1), uint64(1), uint64(1), uint64(1), false)
	f.Fuzz(func(t *testing.T, y0, z0, a0, b0, y1, z1, a1, b1 uint64, inverted bool) {
		orders := [2]shared.Order{
			{Y: new(big.Int).SetUint64(y0), Z: new(big.Int).SetUint64(z0), A: a0, B: b0},
			{Y: new(big.Int).SetUint64(y1), Z: new(big.Int).SetUint64(z1), A: a1, B: b1 & (1<<63 - 1)},
		}
		packed, err := Pack(orders, inverted)
		if err != nil {
			t.Fatalf("pack: %v", err)
		}
		if packed[0].IsZero() && packed[1].IsZero() && packed[2].IsZero() {
			// The all-zero sentinel round-trips as non-existence.
			return
		}
		got, gotInverted, err := Unpack(packed)
		if err != nil {
			t.Fatalf("unpack: %v", err)
		}
		if gotInverted != inverted {
			t.Fatalf("inverted flag lost")
		}
		for i := range got {
			if !got[i].Equal(orders[i]) {
				t.Fatalf("order %d mismatch: got %+v want %+v", i, got[i], orders[i])
			}
		}
	})
}
