package core

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func encodeFuzzInput(a1, a2, b1, b2 float64, op, frac byte) []byte {
	data := make([]byte, 34)
	binary.LittleEndian.PutUint64(data[0:], math.Float64bits(a1))
	binary.LittleEndian.PutUint64(data[8:], math.Float64bits(a2))
	binary.LittleEndian.PutUint64(data[16:], math.Float64bits(b1))
	binary.LittleEndian.PutUint64(data[24:], math.Float64bits(b2))
	data[32] = op
	data[33] = frac
	return data
}

func TestCheckSingleOpInclusionKnownInputs(t *testing.T) {
	for op := byte(0); op < fuzzOpCount; op++ {
		for frac := byte(0); frac < 16; frac++ {
			data := encodeFuzzInput(1, 2, 3, 4, op, frac|frac<<4)
			assert.Equal(t, OutcomeOK, CheckSingleOpInclusion(data), "op %d frac %d", op, frac)
		}
	}
}

func TestCheckSingleOpInclusionMixedSigns(t *testing.T) {
	for op := byte(0); op < fuzzOpCount; op++ {
		data := encodeFuzzInput(-2, 3, -5, 7, op, 0x5a)
		assert.Equal(t, OutcomeOK, CheckSingleOpInclusion(data), "op %d", op)
	}
}

func TestCheckSingleOpShortInputIsOK(t *testing.T) {
	assert.Equal(t, OutcomeOK, CheckSingleOpInclusion([]byte{1, 2, 3}))
	assert.Equal(t, OutcomeOK, CheckSingleOpValidity(nil))
}

func FuzzSingleOpInclusion(f *testing.F) {
	f.Add(encodeFuzzInput(1, 2, 3, 4, 2, 0x37))
	f.Add(encodeFuzzInput(-2, 3, -5, 7, 3, 0xc1))
	f.Add(encodeFuzzInput(0, 0, 1, 2, 2, 0x00))
	f.Fuzz(func(t *testing.T, data []byte) {
		if outcome := CheckSingleOpInclusion(data); outcome != OutcomeOK {
			t.Fatalf("inclusion probe failed: %s", outcome)
		}
	})
}

func FuzzSingleOpValidity(f *testing.F) {
	f.Add(encodeFuzzInput(1, 2, 3, 4, 3, 0x00))
	f.Fuzz(func(t *testing.T, data []byte) {
		if outcome := CheckSingleOpValidity(data); outcome != OutcomeOK {
			t.Fatalf("validity probe failed: %s", outcome)
		}
	})
}
