package normalize

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hisaabflow/ledger/internal/bankconfig"
	"github.com/hisaabflow/ledger/internal/clean"
	"github.com/hisaabflow/ledger/internal/ledger"
	"github.com/hisaabflow/ledger/internal/rowset"
)

// ErrZeroAmount and ErrUnparseableDate are dropped-row conditions (spec §3
// invariants): a zero-amount or dateless row never becomes a Transaction.
var (
	ErrZeroAmount      = errors.New("normalize: zero amount")
	ErrUnparseableDate = errors.New("normalize: unparseable date")
	ErrMissingAmount   = errors.New("normalize: no amount or debit/credit column mapped")
)

// Normalizer turns cleaned rows into canonical ledger.Transaction values,
// applying merchant sanitization and any user-taught overrides on top of a
// bank's declarative rules.
type Normalizer struct {
	sanitizer *MerchantSanitizer
	overrides OverrideStore
}

// New creates a Normalizer. Pass NewMemOverrideStore() when no persistent
// override store is wired in.
func New(overrides OverrideStore) *Normalizer {
	return &Normalizer{sanitizer: NewMerchantSanitizer(), overrides: overrides}
}

// Normalize converts one row into a Transaction. index becomes the
// Transaction's stable TransactionIndex; filename seeds the account-name
// fallback when no cashew_account/account_mapping applies.
func (n *Normalizer) Normalize(cfg *bankconfig.BankConfig, row rowset.Row, filename string, index int, userID string) (ledger.Transaction, error) {
	amount, err := n.resolveAmount(cfg, row)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if amount.IsZero() {
		return ledger.Transaction{}, ErrZeroAmount
	}

	rawDate := mapped(cfg, row, "date")
	date, err := clean.Date(cfg, rawDate)
	if err != nil {
		return ledger.Transaction{}, ErrUnparseableDate
	}

	currency := resolveCurrency(cfg, row)
	rawDescription := mapped(cfg, row, "description")
	description := clean.Description(cfg, rawDescription)
	rawNote := mapped(cfg, row, "note")

	override := clean.ApplyConditionalOverrides(cfg, clean.RowFields{
		Description: description,
		Note:        rawNote,
		Amount:      amount,
	})

	category := override.Category
	note := rawNote
	if override.Note != "" {
		note = override.Note
	}
	if override.Description != "" {
		description = override.Description
	}

	merchant := n.sanitizer.Sanitize(description)
	if category == "" {
		if userOverride, _ := n.overrides.FindMatchingOverride(userID, description); userOverride != nil {
			category = userOverride.Category
			if userOverride.Merchant != "" {
				description = userOverride.Merchant
			}
		}
	}
	if category == "" {
		category = clean.Categorize(cfg, description)
	}
	if category == "" {
		category = merchant.Category
	}
	if merchant.Matched {
		description = merchant.Name
	}

	txn := ledger.Transaction{
		Date:             date,
		Amount:           amount,
		Currency:         currency,
		Description:      description,
		Note:             note,
		Category:         category,
		Account:          clean.ResolveAccount(cfg, currency, filename),
		SourceBank:       cfg.Name,
		TransactionIndex: index,
		Raw:              row.Named,
	}

	if exch, exchCur, ok := resolveExchange(cfg, row); ok {
		txn.ExchangeAmount = &exch
		txn.ExchangeCurrency = exchCur
	}
	if balRaw := mapped(cfg, row, "balance"); balRaw != "" {
		if bal, err := clean.Amount(cfg, balRaw); err == nil {
			txn.Balance = &bal
		}
	}

	return txn, nil
}

func (n *Normalizer) resolveAmount(cfg *bankconfig.BankConfig, row rowset.Row) (decimal.Decimal, error) {
	if amtHeader, ok := cfg.ColumnMapping["amount"]; ok && amtHeader != "" {
		return clean.Amount(cfg, row.Named[amtHeader])
	}
	debitHeader := cfg.ColumnMapping["debit"]
	creditHeader := cfg.ColumnMapping["credit"]
	if debitHeader != "" || creditHeader != "" {
		return clean.AmountFromDebitCredit(cfg, row.Named[debitHeader], row.Named[creditHeader])
	}
	return decimal.Zero, ErrMissingAmount
}

func mapped(cfg *bankconfig.BankConfig, row rowset.Row, role string) string {
	header, ok := cfg.ColumnMapping[role]
	if !ok || header == "" {
		return ""
	}
	return row.Named[header]
}

// defaultCurrency is the global fallback (spec §4.7 step 3) used when a row
// has no currency column and its bank config declares no primary currency —
// the unknown-bank path in particular has neither.
const defaultCurrency = "USD"

func resolveCurrency(cfg *bankconfig.BankConfig, row rowset.Row) string {
	if header, ok := cfg.ColumnMapping["currency"]; ok && header != "" {
		if v := strings.ToUpper(strings.TrimSpace(row.Named[header])); v != "" {
			return v
		}
	}
	if primary := strings.ToUpper(strings.TrimSpace(cfg.PrimaryCurrency)); primary != "" {
		return primary
	}
	return defaultCurrency
}

// exchangeAmountAliases is the ordered list of header aliases that hold a
// Wise-style currency-conversion amount, tried in order (spec §4.8.3 step 1).
// Only these exact header names are checked; other columns are not searched
// by keyword.
var exchangeAmountAliases = []string{
	"Exchange To Amount", "exchange_to_amount", "ExchangeToAmount", "exchangetoamount",
	"Total", "Total Amount", "Converted Amount", "Target Amount", "Destination Amount",
}

var exchangeCurrencyAliases = []string{
	"Exchange To", "exchange_to", "Target Currency", "target_currency", "Destination Currency",
}

func resolveExchange(cfg *bankconfig.BankConfig, row rowset.Row) (decimal.Decimal, string, bool) {
	for _, alias := range exchangeAmountAliases {
		if raw, ok := row.Named[alias]; ok && raw != "" {
			amt, err := clean.Amount(cfg, raw)
			if err != nil {
				continue
			}
			currency := ""
			for _, curAlias := range exchangeCurrencyAliases {
				if v, ok := row.Named[curAlias]; ok && v != "" {
					currency = strings.ToUpper(strings.TrimSpace(v))
					break
				}
			}
			return amt, currency, true
		}
	}
	return decimal.Zero, "", false
}
