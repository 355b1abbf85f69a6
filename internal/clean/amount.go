// Package clean implements the per-bank data cleaning and normalization
// rules from the original ingestion system: numeric and date parsing,
// description cleanup, conditional overrides, and keyword categorization.
package clean

import (
	"github.com/shopspring/decimal"

	"github.com/hisaabflow/ledger/internal/bankconfig"
	"github.com/hisaabflow/ledger/pkg/money"
)

// Amount parses a raw amount cell using the bank's numeric format, honoring
// the parentheses-as-negative and thousands-separator conventions (spec
// §4.7 step 3). An empty cell is an error: callers drop the row.
func Amount(cfg *bankconfig.BankConfig, raw string) (decimal.Decimal, error) {
	return money.ParseAmount(raw, cfg.DataCleaning.EuropeanNumberFormat)
}

// AmountFromDebitCredit resolves a signed amount from separate debit/credit
// cells (double-entry exports): a populated debit cell yields a negative
// amount, a populated credit cell yields a positive one.
func AmountFromDebitCredit(cfg *bankconfig.BankConfig, debit, credit string) (decimal.Decimal, error) {
	if debit != "" {
		d, err := Amount(cfg, debit)
		if err != nil {
			return decimal.Zero, err
		}
		return d.Abs().Neg(), nil
	}
	if credit != "" {
		return Amount(cfg, credit)
	}
	return decimal.Zero, nil
}
