package rpc_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erc7824/walletgate/pkg/rpc"
)

func TestParseUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     string
	}{
		{name: "whole tokens", amount: "1", decimals: 18, want: "1000000000000000000"},
		{name: "fractional", amount: "1.5", decimals: 18, want: "1500000000000000000"},
		{name: "six decimals", amount: "12.345678", decimals: 6, want: "12345678"},
		{name: "zero decimals", amount: "42", decimals: 0, want: "42"},
		{name: "negative amount", amount: "-2.5", decimals: 6, want: "-2500000"},
		{name: "smallest unit", amount: "0.000001", decimals: 6, want: "1"},
		{name: "excess precision truncates", amount: "1.0000000000000000019", decimals: 18, want: "1000000000000000001"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := rpc.ParseUnits(tc.amount, tc.decimals)
			require.NoError(t, err)

			want, ok := new(big.Int).SetString(tc.want, 10)
			require.True(t, ok)
			assert.Zero(t, got.Cmp(want), "got %s, want %s", got, want)
		})
	}
}

func TestParseUnits_Errors(t *testing.T) {
	t.Parallel()

	for _, amount := range []string{"", "abc", "1.2.3", "1,5"} {
		_, err := rpc.ParseUnits(amount, 18)
		assert.Error(t, err, "amount %q", amount)
	}

	_, err := rpc.ParseUnits("1", -1)
	assert.Error(t, err)
}

func TestFormatUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     string
	}{
		{name: "whole tokens", amount: "1000000000000000000", decimals: 18, want: "1"},
		{name: "fractional", amount: "1500000000000000000", decimals: 18, want: "1.5"},
		{name: "six decimals", amount: "12345678", decimals: 6, want: "12.345678"},
		{name: "smallest unit", amount: "1", decimals: 6, want: "0.000001"},
		{name: "negative amount", amount: "-2500000", decimals: 6, want: "-2.5"},
		{name: "zero", amount: "0", decimals: 18, want: "0"},
		{name: "zero decimals", amount: "42", decimals: 0, want: "42"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			amount, ok := new(big.Int).SetString(tc.amount, 10)
			require.True(t, ok)

			got, err := rpc.FormatUnits(amount, tc.decimals)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatUnits_NilAmount(t *testing.T) {
	t.Parallel()

	got, err := rpc.FormatUnits(nil, 18)
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	_, err = rpc.FormatUnits(big.NewInt(1), -1)
	assert.Error(t, err)
}

func TestUnits_RoundTrip(t *testing.T) {
	t.Parallel()

	wei, err := rpc.ParseUnits("123.456789012345678", 18)
	require.NoError(t, err)

	back, err := rpc.FormatUnits(wei, 18)
	require.NoError(t, err)
	assert.Equal(t, "123.456789012345678", back)
}
