// Package money provides currency-safe financial arithmetic using the
// Fowler Money pattern. Canonical ledger amounts always flow through this
// package so that decimal/rounding bugs cannot creep into parsing or
// transfer-matching code.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217) seen across the bundled bank configs.
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	PKR = "PKR"
	HUF = "HUF"
	JPY = "JPY"
	CHF = "CHF"
	CAD = "CAD"
	AUD = "AUD"
)

var currencySymbols = []string{"$", "€", "£", "₨", "Rs", "Ft", "¥", "₹"}

// Money represents a monetary value with currency, backed by go-money for
// safe arithmetic and shopspring/decimal for precision parsing.
type Money struct {
	m *money.Money
}

// New creates a new Money value from minor units (cents) and currency code.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// NewFromDecimal creates Money from a decimal.Decimal value. This is the
// preferred constructor for values parsed out of a CSV cell.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(USD)
	}
	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := amount.Mul(multiplier).Round(0).IntPart()
	return New(cents, currencyCode)
}

// Zero returns a zero Money value for the given currency.
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

var parenNegative = regexp.MustCompile(`^\((.*)\)$`)

// ParseAmount parses a raw CSV numeric cell into a signed decimal.Decimal,
// honoring the data cleaning rules: currency symbols are stripped,
// parenthesized values are treated as negative, and the separator convention
// (European "1.234,56" vs American "1,234.56") is chosen by the caller
// (clean.Amount passes the bank's european_format setting).
func ParseAmount(raw string, europeanFormat bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	negative := false
	if m := parenNegative.FindStringSubmatch(s); m != nil {
		negative = true
		s = m[1]
	}

	s = strings.ReplaceAll(s, " ", "")
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")

	if europeanFormat {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Amount returns the amount in minor units (cents).
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsZero returns true if the amount is zero.
func (m *Money) IsZero() bool { return m == nil || m.m == nil || m.m.IsZero() }

// IsPositive returns true if the amount is greater than zero.
func (m *Money) IsPositive() bool { return m != nil && m.m != nil && m.m.IsPositive() }

// IsNegative returns true if the amount is less than zero.
func (m *Money) IsNegative() bool { return m != nil && m.m != nil && m.m.IsNegative() }

// Abs returns the absolute value.
func (m *Money) Abs() *Money {
	if m == nil || m.m == nil {
		return Zero(USD)
	}
	return &Money{m: m.m.Absolute()}
}

// Negate returns the negated value.
func (m *Money) Negate() *Money {
	if m == nil || m.m == nil {
		return Zero(USD)
	}
	return &Money{m: m.m.Negative()}
}

// Add adds two Money values. Returns an error if currencies don't match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}
	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Subtract subtracts other from m. Returns an error if currencies don't match.
func (m *Money) Subtract(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		if other == nil {
			return Zero(USD), nil
		}
		return other.Negate(), nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}
	result, err := m.m.Subtract(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Equals returns true if both values are equal.
func (m *Money) Equals(other *Money) bool {
	if m == nil || m.m == nil {
		return other == nil || other.m == nil || other.IsZero()
	}
	if other == nil || other.m == nil {
		return m.IsZero()
	}
	eq, _ := m.m.Equals(other.m)
	return eq
}

// Compare returns -1 if m < other, 0 if equal, 1 if m > other.
func (m *Money) Compare(other *Money) int {
	if m == nil || m.m == nil {
		if other == nil || other.m == nil || other.IsZero() {
			return 0
		}
		if other.IsPositive() {
			return -1
		}
		return 1
	}
	cmp, _ := m.m.Compare(other.m)
	return cmp
}

// SameCurrency returns true if both values share a currency.
func (m *Money) SameCurrency(other *Money) bool {
	if m == nil || m.m == nil || other == nil || other.m == nil {
		return false
	}
	return m.m.SameCurrency(other.m)
}

// Display returns a formatted string for display (e.g., "$1,234.56").
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "$0.00"
	}
	return m.m.Display()
}

// String returns the amount as a plain decimal string (e.g., "1234.56").
func (m *Money) String() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.ToDecimal().String()
}

// ToDecimal converts to decimal.Decimal for precise calculations.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// PercentDiff returns abs(|a|-|b|)/max(abs(a),abs(b)) as a percentage, for
// comparing amounts across currencies where exact equality is not expected.
// Package transfer computes its own fraction for the flexible cross-bank
// strategy and does not call this.
func PercentDiff(a, b decimal.Decimal) decimal.Decimal {
	aAbs, bAbs := a.Abs(), b.Abs()
	denom := aAbs
	if bAbs.GreaterThan(denom) {
		denom = bAbs
	}
	if denom.IsZero() {
		return decimal.Zero
	}
	return aAbs.Sub(bAbs).Abs().Div(denom).Mul(decimal.NewFromInt(100))
}

// MarshalJSON implements json.Marshaler.
func (m *Money) MarshalJSON() ([]byte, error) {
	if m == nil || m.m == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(map[string]interface{}{
		"amount":   m.ToDecimal().String(),
		"currency": m.Currency(),
		"display":  m.Display(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	d, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return err
	}
	*m = *NewFromDecimal(d, v.Currency)
	return nil
}

// Scan implements sql.Scanner. Integer values are read as USD minor units
// and float values as USD major units.
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.m = nil
		return nil
	}
	switch v := value.(type) {
	case int64:
		m.m = money.New(v, USD)
		return nil
	case float64:
		m.m = money.New(int64(v*100), USD)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
}

// Value implements driver.Valuer.
func (m *Money) Value() (driver.Value, error) {
	if m == nil || m.m == nil {
		return nil, nil
	}
	return m.Amount(), nil
}
