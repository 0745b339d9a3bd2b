package sim

import (
	"context"
	"fmt"

	"github.com/milosgajdos/go-lqg/noise"
	"golang.org/x/sync/errgroup"
)

// Run samples n trajectories from every simulation in sims concurrently
// and returns them in the same order as sims.
// in is shared by all the simulations and is never modified.
// Every Sim must appear in sims at most once and must own its noise source:
// Run returns error if the same Sim or the same Gaussian noise is used more than once.
// Run stops scheduling new simulations when ctx is cancelled or any
// simulation fails and returns the first error.
func Run(ctx context.Context, sims []*Sim, n int, in *Input) ([]*Trajectory, error) {
	if err := checkShared(sims); err != nil {
		return nil, err
	}

	out := make([]*Trajectory, len(sims))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range sims {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			tr, err := s.Sample(n, in)
			if err != nil {
				return fmt.Errorf("simulation %d: %w", i, err)
			}
			out[i] = tr

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// checkShared returns error if sims contains nil, duplicate simulations
// or simulations sharing stateful noise.
func checkShared(sims []*Sim) error {
	seen := make(map[*Sim]int, len(sims))
	sources := make(map[*noise.Gaussian]int, len(sims))

	for i, s := range sims {
		if s == nil {
			return fmt.Errorf("invalid simulation %d: %v", i, s)
		}

		if j, ok := seen[s]; ok {
			return fmt.Errorf("simulation %d is the same as simulation %d", i, j)
		}
		seen[s] = i

		if g, ok := s.src.(*noise.Gaussian); ok {
			if j, ok := sources[g]; ok {
				return fmt.Errorf("simulation %d shares noise source with simulation %d", i, j)
			}
			sources[g] = i
		}
	}

	return nil
}
