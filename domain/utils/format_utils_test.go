package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   uint64
		decimals int32
		want     string
	}{
		{name: "zero", amount: 0, decimals: 18, want: "0"},
		{name: "whole unit", amount: 1_000_000_000_000_000_000, decimals: 18, want: "1"},
		{name: "fraction", amount: 1_500_000, decimals: 6, want: "1.5"},
		{name: "raw yield", amount: 1234567, decimals: 18, want: "0.000000000001234567"},
		{name: "no decimals", amount: 42, decimals: 0, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.decimals))
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		decimals int32
		want     uint64
		wantErr  bool
	}{
		{name: "whole unit", value: "1", decimals: 18, want: 1_000_000_000_000_000_000},
		{name: "fraction", value: "0.99", decimals: 2, want: 99},
		{name: "too many decimals", value: "0.001", decimals: 2, wantErr: true},
		{name: "negative", value: "-1", decimals: 0, wantErr: true},
		{name: "garbage", value: "one", decimals: 0, wantErr: true},
		{name: "overflow", value: "100", decimals: 18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmount(tt.value, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatShortNotation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "999", FormatShortNotation(999))
	assert.Equal(t, "1.5k", FormatShortNotation(1500))
	assert.Equal(t, "50k", FormatShortNotation(50000))
	assert.Equal(t, "1.23M", FormatShortNotation(1234567))
}
