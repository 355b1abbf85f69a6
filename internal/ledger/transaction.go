// Package ledger defines the canonical transaction schema that every bank's
// CSV export is normalized into, regardless of its original column layout,
// currency, or language.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical, bank-agnostic record produced by the
// normalization pipeline. A negative Amount is an outflow; positive is an
// inflow.
type Transaction struct {
	Date             time.Time
	Amount           decimal.Decimal
	Currency         string
	Description      string
	Note             string
	Category         string
	Account          string
	Balance          *decimal.Decimal
	SourceBank       string
	TransactionIndex int
	ExchangeAmount   *decimal.Decimal
	ExchangeCurrency string
	Raw              map[string]string
}

// IsOutflow reports whether the transaction reduces the account balance.
func (t Transaction) IsOutflow() bool { return t.Amount.IsNegative() }

// IsInflow reports whether the transaction increases the account balance.
func (t Transaction) IsInflow() bool { return t.Amount.IsPositive() }

// HasExchangeInfo reports whether a currency-conversion amount was captured
// alongside the primary amount (Wise-style "Exchange To Amount" columns).
func (t Transaction) HasExchangeInfo() bool {
	return t.ExchangeAmount != nil && t.ExchangeCurrency != ""
}
