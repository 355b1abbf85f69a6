package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cents    int64
		currency string
		want     int64
	}{
		{"positive cents", 1234, USD, 1234},
		{"zero", 0, USD, 0},
		{"negative cents", -5000, USD, -5000},
		{"euro", 1000, EUR, 1000},
		{"yen (no decimals)", 10000, JPY, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.cents, tt.currency)
			assert.Equal(t, tt.want, m.Amount())
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestNewFromDecimal(t *testing.T) {
	m := NewFromDecimal(decimal.RequireFromString("12.34"), USD)
	assert.Equal(t, int64(1234), m.Amount())

	m = NewFromDecimal(decimal.RequireFromString("-50.99"), USD)
	assert.Equal(t, int64(-5099), m.Amount())
}

func TestParseAmount_American(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1,234.56", "1234.56"},
		{"$1,234.56", "1234.56"},
		{"-99.99", "-99.99"},
		{"(99.99)", "-99.99"},
		{"  42.00  ", "42.00"},
		{"+15.50", "15.50"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw, false)
			require.NoError(t, err)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "got %s want %s", got, want)
		})
	}
}

func TestParseAmount_European(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"€1.234,56", "1234.56"},
		{"(1.234,56)", "-1234.56"},
		{"-99,99", "-99.99"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw, true)
			require.NoError(t, err)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "got %s want %s", got, want)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("", false)
	assert.Error(t, err)

	_, err = ParseAmount("not a number", false)
	assert.Error(t, err)
}

func TestAddSubtract(t *testing.T) {
	a := New(1000, USD)
	b := New(250, USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(750), diff.Amount())
}

func TestAddCurrencyMismatch(t *testing.T) {
	a := New(1000, USD)
	b := New(1000, EUR)
	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestAbsNegate(t *testing.T) {
	m := New(-500, USD)
	assert.Equal(t, int64(500), m.Abs().Amount())
	assert.Equal(t, int64(500), m.Negate().Amount())
}

func TestIsZeroPositiveNegative(t *testing.T) {
	assert.True(t, New(0, USD).IsZero())
	assert.True(t, New(100, USD).IsPositive())
	assert.True(t, New(-100, USD).IsNegative())
}

func TestCompare(t *testing.T) {
	small := New(100, USD)
	big := New(200, USD)
	assert.Equal(t, -1, small.Compare(big))
	assert.Equal(t, 1, big.Compare(small))
	assert.Equal(t, 0, small.Compare(New(100, USD)))
}

func TestToDecimal(t *testing.T) {
	m := New(123456, USD)
	d := m.ToDecimal()
	assert.True(t, decimal.RequireFromString("1234.56").Equal(d))
}

func TestPercentDiff(t *testing.T) {
	a := decimal.RequireFromString("100")
	b := decimal.RequireFromString("99")
	diff := PercentDiff(a, b)
	assert.True(t, diff.LessThan(decimal.RequireFromString("1.1")))

	zero := PercentDiff(decimal.Zero, decimal.Zero)
	assert.True(t, zero.IsZero())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := New(199, USD)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var out Money
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, m.Currency(), out.Currency())
	assert.True(t, m.ToDecimal().Equal(out.ToDecimal()))
}

func TestNilMoneySafety(t *testing.T) {
	var m *Money
	assert.True(t, m.IsZero())
	assert.Equal(t, int64(0), m.Amount())
	assert.Equal(t, "", m.Currency())
	assert.Equal(t, "0.00", m.String())
}
