package clean

import (
	"fmt"
	"strings"
	"time"

	"github.com/hisaabflow/ledger/internal/bankconfig"
)

// defaultDateFormats is tried, in order, whenever a bank config does not
// declare its own candidate list or its candidates all fail.
var defaultDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
	"02.01.2006",
}

// Date parses a raw date cell by trying the bank's configured formats
// first, then the built-in defaults (spec §4.7 step 4).
func Date(cfg *bankconfig.BankConfig, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	candidates := cfg.DataCleaning.DateFormats
	for _, layout := range candidates {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	for _, layout := range defaultDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
