/*
Bankledger ingests one or more bank account statements in arbitrary CSV
formats, normalizes them to canonical transactions, categorizes them, and
detects cross-bank transfer pairs. It prints the resulting ledger as CSV
(Date, Amount, Category, Title, Note, Account) to standard output.

	bankledger -help
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hisaabflow/ledger/internal/bankconfig"
	"github.com/hisaabflow/ledger/internal/ingest"
	"github.com/hisaabflow/ledger/internal/ledger"
	"github.com/hisaabflow/ledger/pkg/config"
)

const pgmName = "bankledger"

// Exit codes, matching spec §6 exactly.
const (
	exitOK             = 0
	exitBadInput       = 2
	exitNoBankDetected = 3
	exitIOFailure      = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type cliConfig struct {
	bankConfDir string
	appConfPath string
	strict      bool
	userID      string
	help        bool
}

func run(args []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, statements, err := parseArgs(args)
	if err != nil {
		logger.Error("parse flags", "error", err)
		return exitBadInput
	}
	if cfg.help {
		return exitOK
	}
	if len(statements) == 0 {
		logger.Error("no statement files given")
		return exitBadInput
	}

	registry, err := bankconfig.NewRegistry(cfg.bankConfDir)
	if err != nil {
		logger.Error("load bank configs", "dir", cfg.bankConfDir, "error", err)
		return exitIOFailure
	}

	appCfg := config.Defaults()
	if cfg.appConfPath != "" {
		appCfg, err = config.Load(cfg.appConfPath)
		if err != nil {
			logger.Error("load app config", "path", cfg.appConfPath, "error", err)
			return exitIOFailure
		}
	}

	pipeline := ingest.New(registry, appCfg, nil)

	files, err := readStatements(statements)
	if err != nil {
		logger.Error("read statement", "error", err)
		return exitIOFailure
	}

	results, err := pipeline.ParseMany(context.Background(), files, ingest.Options{
		UserID:              cfg.userID,
		StrictBankDetection: cfg.strict,
	})
	if err != nil {
		if ingest.ErrNoBankDetected(err) {
			logger.Error("bank not detected at required confidence")
			return exitNoBankDetected
		}
		logger.Error("parse statements", "error", err)
		return exitBadInput
	}

	var all []ledger.Transaction
	for _, r := range results {
		if len(r.RowErrors) > 0 {
			logger.Warn("rows skipped", "file", r.File, "count", len(r.RowErrors))
		}
		all = append(all, r.Transactions...)
	}

	merged, analysis := pipeline.Transform(all, nil)
	logger.Info("transfer detection",
		"pairs", analysis.Summary.TransferPairsFound,
		"conflicts", analysis.Summary.Conflicts,
		"flagged", analysis.Summary.FlaggedForReview)

	if err := ledger.WriteCSV(os.Stdout, merged); err != nil {
		logger.Error("write csv", "error", err)
		return exitIOFailure
	}

	return exitOK
}

// parseArgs returns the CLI configuration and the statement file names given
// after the flags. If help was requested, it prints usage and returns
// cfg.help set, with no error.
func parseArgs(args []string) (cliConfig, []string, error) {
	fs := flag.NewFlagSet(pgmName, flag.ContinueOnError)
	fs.Usage = func() { usage(fs) }

	var cfg cliConfig
	fs.StringVar(&cfg.bankConfDir, "bankconf", "", "directory of bank .conf files, mandatory")
	fs.StringVar(&cfg.appConfPath, "appconf", "", "path to app config file, optional; defaults are used if empty")
	fs.BoolVar(&cfg.strict, "strict", false, "reject a file whose bank cannot be detected confidently")
	fs.StringVar(&cfg.userID, "user", "", "user id used to look up merchant overrides")
	fs.BoolVar(&cfg.help, "help", false, "write this help text then exit")

	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}

	if cfg.help {
		fs.Usage()
		return cfg, nil, nil
	}

	if cfg.bankConfDir == "" {
		return cfg, nil, fmt.Errorf("bankledger: -bankconf is mandatory")
	}

	return cfg, fs.Args(), nil
}

func readStatements(paths []string) ([]ingest.File, error) {
	files := make([]ingest.File, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, ingest.File{Name: filepath.Base(p), Content: content})
	}
	return files, nil
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "usage: %v [flags] statement.csv [statement2.csv ...]\n", pgmName)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr,
		"Bankledger normalizes bank account statements from arbitrary CSV formats,",
		"categorizes transactions, and detects transfer pairs across statements.")
	fmt.Fprintln(os.Stderr)
	fs.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "exit codes: %d ok, %d bad input, %d bank not detected, %d i/o failure\n",
		exitOK, exitBadInput, exitNoBankDetected, exitIOFailure)
}
