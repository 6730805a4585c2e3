package flatten

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/erraggy/xsdflat/document"
)

// Batch is one independent document set.
type Batch struct {
	// Name identifies the set in errors
	Name string
	// Sources are the documents converted together
	Sources []document.Source
}

// ConvertBatch converts each batch as its own document set, concurrently.
// Results are in input order. The first failure cancels batches that have
// not started and is returned; no partial results are returned with it.
func ConvertBatch(ctx context.Context, batches []Batch, opts ...Option) ([]*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("flatten: invalid options: %w", err)
	}

	results := make([]*Result, len(batches))
	p := pool.New().
		WithMaxGoroutines(cfg.concurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i, b := range batches {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := cfg.flattener().Convert(b.Sources)
			if err != nil {
				return fmt.Errorf("batch %q: %w", b.Name, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
