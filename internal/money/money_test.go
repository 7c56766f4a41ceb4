package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain integer", input: "50", want: "50"},
		{name: "two decimal places", input: "10.25", want: "10.25"},
		{name: "thousand separators", input: "1,250.50", want: "1250.5"},
		{name: "surrounding spaces", input: " 99 ", want: "99"},
		{name: "not a number", input: "fifty", wantErr: ErrNotANumber},
		{name: "empty", input: "", wantErr: ErrNotANumber},
		{name: "zero", input: "0", wantErr: ErrNotPositive},
		{name: "negative", input: "-5", wantErr: ErrNotPositive},
		{name: "too large", input: "100000001", wantErr: ErrTooLarge},
		{name: "too precise", input: "10.999", wantErr: ErrTooPrecise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			require.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestParseAmountAcceptsMaximum(t *testing.T) {
	got, err := ParseAmount("100000000")
	require.NoError(t, err)
	require.True(t, got.Equal(MaxTransaction))
}
