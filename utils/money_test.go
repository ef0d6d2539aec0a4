package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{120, 120.00},
		{15.0375, 15.04},
		{0.125, 0.13},
		{0.124, 0.12},
		{4.99975, 5.00},
		{0.005, 0.01},
		{0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundToCents(tc.in), "RoundToCents(%v)", tc.in)
	}
}

func TestCommissionAmount(t *testing.T) {
	assert.Equal(t, 120.00, CommissionAmount(1000, 12))
	assert.Equal(t, 0.13, CommissionAmount(12.5, 1))
	assert.Equal(t, 0.00, CommissionAmount(1000, 0))
	assert.Equal(t, 1000.00, CommissionAmount(1000, 100))
}
