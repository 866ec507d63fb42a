package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceCents(t *testing.T) {
	cases := []struct {
		display string
		cents   int64
	}{
		{"$75", 7500},
		{"$1,200", 120000},
		{"$49.95", 4995},
		{"24.5", 2450},
		{"US$9.99", 999},
		{" $199 ", 19900},
		{"0.05", 5},
	}
	for _, tc := range cases {
		got, err := ParsePriceCents(tc.display)
		require.NoError(t, err, tc.display)
		assert.Equal(t, tc.cents, got, tc.display)
	}
}

func TestParsePriceCentsInvalid(t *testing.T) {
	for _, display := range []string{"", "$", "free", "$12.345", "-10"} {
		_, err := ParsePriceCents(display)
		assert.Error(t, err, display)
	}
}

func TestCentsUnitsRoundTrip(t *testing.T) {
	assert.Equal(t, 120000.0/100, CentsToUnits(120000))
	assert.Equal(t, int64(120000), UnitsToCents(1200.0))
	assert.Equal(t, int64(4995), UnitsToCents(49.95))
}
