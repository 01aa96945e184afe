package poseidoncrh

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/logger"
	"golang.org/x/sync/errgroup"
)

// EvaluateBatch evaluates crh on every input concurrently, sharing the
// read-only parameters between workers. Results keep the order of inputs.
// The first failure cancels the remaining evaluations and is returned.
func EvaluateBatch[P any](ctx context.Context, crh CRH[P], parameters P, inputs [][]byte) ([]fr.Element, error) {
	start := time.Now()
	out := make([]fr.Element, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := crh.Evaluate(parameters, inputs[i])
			if err != nil {
				return fmt.Errorf("poseidoncrh: input %d: %w", i, err)
			}
			out[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log := logger.Logger()
	log.Debug().Int("inputs", len(inputs)).Dur("took", time.Since(start)).Msg("crh batch evaluated")
	return out, nil
}
