package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name     string
		stake    uint64
		feeBps   uint16
		expected uint64
	}{
		{name: "standard 5 percent", stake: 10_000_000_000, feeBps: 500, expected: 500_000_000},
		{name: "zero fee", stake: 10_000_000_000, feeBps: 0, expected: 0},
		{name: "full fee", stake: 10_000_000_000, feeBps: 10000, expected: 10_000_000_000},
		{name: "truncates toward zero", stake: 3, feeBps: 500, expected: 0},
		{name: "one bps", stake: 10000, feeBps: 1, expected: 1},
		{name: "max stake no wrap", stake: math.MaxUint64, feeBps: 10000, expected: math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := ComputeFee(tt.stake, tt.feeBps)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fee)
		})
	}
}

func TestComputeFee_Bounds(t *testing.T) {
	// 0 <= fee <= stake for every valid rate.
	stakes := []uint64{0, 1, 3, 9999, 10_000_000_000, math.MaxUint64}
	rates := []uint16{0, 1, 499, 500, 9999, 10000}

	for _, stake := range stakes {
		for _, bps := range rates {
			fee, err := ComputeFee(stake, bps)
			require.NoError(t, err)
			assert.LessOrEqual(t, fee, stake, "stake=%d bps=%d", stake, bps)
		}
	}
}

func TestComputeFee_RejectsRateAboveMax(t *testing.T) {
	_, err := ComputeFee(100, 10001)
	assert.ErrorIs(t, err, ErrMathOverflow)
}

func TestCheckedAdds(t *testing.T) {
	sum, err := AddU64(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = AddU64(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, err = AddU32(math.MaxUint32, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, err = AddU8(math.MaxUint8, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	diff, err := SubU64(10, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), diff)

	_, err = SubU64(4, 10)
	assert.ErrorIs(t, err, ErrMathOverflow)
}
