package tablesnap

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/tablesnap/model"
)

// BatchResult holds the outcome for one photograph in a batch.
type BatchResult struct {
	// Path is the photograph this result belongs to.
	Path string

	// Table is the extracted table. It is nil when Err is set.
	Table *model.Table

	// Warnings lists non-fatal problems hit while processing the
	// photograph, such as cells whose recognition failed.
	Warnings []Warning

	// Err is the failure for this photograph, nil on success.
	Err error
}

// ProcessBatch extracts tables from many photographs concurrently, up to
// WithParallelism images at a time. Results come back in input order,
// one per path. A photograph that fails records its error in its own
// slot and does not disturb the rest of the batch; the returned error is
// non-nil only when ctx is cancelled. Photographs that had not started
// when cancellation arrived carry the cancellation error in their slots.
//
// Example:
//
//	results, err := tablesnap.ProcessBatch(ctx, paths,
//	    tablesnap.WithParallelism(4),
//	    tablesnap.WithRecognizer(client))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("%s: %v", r.Path, r.Err)
//	        continue
//	    }
//	    fmt.Println(r.Table.ToDelimited("|"))
//	}
func ProcessBatch(ctx context.Context, paths []string, opts ...Option) ([]BatchResult, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]BatchResult, len(paths))

	var g errgroup.Group
	g.SetLimit(o.parallelism)
	for i, path := range paths {
		i, path := i, path
		results[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			p := &Pipeline{path: path, opts: o.clone()}
			table, warnings, err := p.Table()
			results[i].Table = table
			results[i].Warnings = warnings
			results[i].Err = err
			return nil
		})
	}

	// Workers only surface the cancellation error; per-image failures
	// stay in their slots.
	return results, g.Wait()
}
