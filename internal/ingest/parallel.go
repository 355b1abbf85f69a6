package ingest

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParseMany runs Parse over every file concurrently, bounded by a
// worker-pool sized to runtime.NumCPU() (spec §5: multi-file ingestion is
// embarrassingly parallel across files). Results preserve input order
// regardless of completion order, so downstream transfer detection sees a
// deterministic file ordering. If ctx is canceled, in-flight files'
// partial results are discarded and ParseMany returns the context error.
//
// Parse numbers each file's transactions from 1, so two files' rows can
// collide on TransactionIndex; ParseMany renumbers every transaction
// sequentially across the whole batch, in file order, once every file has
// been parsed, so the index is unique for the session (spec §3/§8) before
// any caller feeds the results into Transform/DetectTransfersOnly.
func (p *Pipeline) ParseMany(ctx context.Context, files []File, opts Options) ([]ParseResult, error) {
	results := make([]ParseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := p.Parse(f, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reindexSession(results)
	return results, nil
}

// reindexSession renumbers every transaction's TransactionIndex
// sequentially across all of results, in order, so an index uniquely
// identifies a row for the whole batch rather than just within its file.
func reindexSession(results []ParseResult) {
	next := 1
	for i := range results {
		for j := range results[i].Transactions {
			results[i].Transactions[j].TransactionIndex = next
			next++
		}
	}
}
