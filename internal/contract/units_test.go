package contract

import (
	"math/big"
	"testing"

	"github.com/GTsubekti/madrasah-defi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
		expected string
	}{
		{"1000", 2, "100000"},
		{"10000", 0, "10000"},
		{"1.23", 2, "123"},
		{"0.5", 18, "500000000000000000"},
		{".5", 2, "50"},
		{"200000", 6, "200000000000"},
		{"0.000001", 6, "1"},
		{"0", 2, "0"},
	}

	for _, tc := range cases {
		got, err := ParseUnits(tc.amount, tc.decimals)
		require.NoError(t, err, "amount %q", tc.amount)
		assert.Equal(t, tc.expected, got.String(), "amount %q", tc.amount)
	}
}

func TestParseUnitsRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
	}{
		{"", 2},
		{"   ", 2},
		{"abc", 2},
		{"-1", 2},
		{"+1", 2},
		{"1.2.3", 2},
		{"1,5", 2},
		{"1.234", 2}, // 小数位超过decimals
		{".", 2},
	}

	for _, tc := range cases {
		_, err := ParseUnits(tc.amount, tc.decimals)
		assert.ErrorIs(t, err, model.ErrInvalidAmount, "amount %q", tc.amount)
	}
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		value    string
		decimals uint8
		expected string
	}{
		{"100000", 2, "1000"},
		{"123", 2, "1.23"},
		{"120", 2, "1.2"},
		{"5", 2, "0.05"},
		{"0", 18, "0"},
		{"500000000000000000", 18, "0.5"},
		{"10000", 0, "10000"},
	}

	for _, tc := range cases {
		v, ok := new(big.Int).SetString(tc.value, 10)
		require.True(t, ok)
		assert.Equal(t, tc.expected, FormatUnits(v, tc.decimals), "value %s", tc.value)
	}
}

func TestFormatUnitsNil(t *testing.T) {
	assert.Equal(t, "0", FormatUnits(nil, 2))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []string{"1000", "1.23", "0.05", "999999.999999"} {
		parsed, err := ParseUnits(amount, 6)
		require.NoError(t, err)
		assert.Equal(t, amount, FormatUnits(parsed, 6))
	}
}
