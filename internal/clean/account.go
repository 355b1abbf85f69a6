package clean

import (
	"strings"

	"github.com/hisaabflow/ledger/internal/bankconfig"
)

// ResolveAccount picks the display account name for a transaction using the
// three-tier fallback: a currency-specific mapping, then the bank's default
// cashew_account, then a name derived from the source filename (spec §3/§4.7).
func ResolveAccount(cfg *bankconfig.BankConfig, currency, filename string) string {
	if acct, ok := cfg.AccountMapping[strings.ToUpper(currency)]; ok && acct != "" {
		return acct
	}
	if cfg.CashewAccount != "" {
		return cfg.CashewAccount
	}
	return accountFromFilename(filename)
}

func accountFromFilename(filename string) string {
	name := filename
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
