package domain

import (
	"errors"
	"math"
	"math/bits"
)

var ErrMathOverflow = errors.New("math overflow")

// ComputeFee returns floor(stake * feeBps / 10000). The product is computed
// in a widened 128-bit intermediate so a large stake cannot wrap before the
// division. feeBps above MaxFeeBps is rejected.
func ComputeFee(stake uint64, feeBps uint16) (uint64, error) {
	if feeBps > MaxFeeBps {
		return 0, ErrMathOverflow
	}

	hi, lo := bits.Mul64(stake, uint64(feeBps))
	// Quotient overflows u64 only when hi >= divisor; impossible for
	// feeBps <= 10000, but the guard keeps the downcast honest.
	if hi >= MaxFeeBps {
		return 0, ErrMathOverflow
	}
	fee, _ := bits.Div64(hi, lo, MaxFeeBps)
	return fee, nil
}

func AddU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

func SubU64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathOverflow
	}
	return diff, nil
}

func AddU32(a, b uint32) (uint32, error) {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return 0, ErrMathOverflow
	}
	return uint32(sum), nil
}

func AddU8(a, b uint8) (uint8, error) {
	sum := uint16(a) + uint16(b)
	if sum > math.MaxUint8 {
		return 0, ErrMathOverflow
	}
	return uint8(sum), nil
}
