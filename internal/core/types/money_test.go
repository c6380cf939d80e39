package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPrecision(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "cents", value: "15.99"},
		{name: "four fraction digits", value: "0.0001"},
		{name: "trailing zeros", value: "17.500000"},
		{name: "five fraction digits", value: "1.00001", wantErr: true},
		{name: "eighteen integer digits", value: "999999999999999999"},
		{name: "nineteen integer digits", value: "1000000000000000000", wantErr: true},
		{name: "zero", value: "0"},
		{name: "negative cents", value: "-15.99"},
		{name: "positive exponent", value: "1.5e3"},
		{name: "negative exponent", value: "12e-2"},
		{name: "scaled trailing zeros", value: "1500e-6"},
		{name: "exponent past integer limit", value: "100e16", wantErr: true},
		{name: "tiny exponent", value: "1e-5000000", wantErr: true},
		{name: "huge exponent", value: "1e2000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPrecision(MustMoney(tt.value))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckPrecision_ExtremeExponentsAreCheap(t *testing.T) {
	for _, value := range []string{"1e-2147483648", "1e2147483647", "123456789e-900000000"} {
		m := MustMoney(value)

		start := time.Now()
		err := CheckPrecision(m)
		elapsed := time.Since(start)

		assert.Error(t, err, value)
		assert.Less(t, elapsed, 50*time.Millisecond, value)
	}
}

func TestOptionalMoney(t *testing.T) {
	m, err := NewMoneyFromString("17.50")
	require.NoError(t, err)

	some := SomeMoney(m)
	assert.True(t, some.Valid)
	assert.True(t, some.Decimal.Equal(MustMoney("17.5")))
	assert.Equal(t, "17.5", Canonical(m))

	assert.False(t, NoMoney().Valid)
}
