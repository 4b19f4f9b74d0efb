package headroom

import (
	"context"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Analyze runs the lump-sum search and the income headroom report
// concurrently for one request.
func (s *Solver) Analyze(ctx context.Context, req domain.ScenarioRequest) (*Report, error) {
	report := &Report{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lump, err := s.MaxLumpSumKeepingBenefits(gctx, req)
		if err != nil {
			return err
		}
		report.LumpSum = lump
		return nil
	})
	g.Go(func() error {
		income, err := s.IncomeHeadroom(gctx, req)
		if err != nil {
			return err
		}
		report.Income = income
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
