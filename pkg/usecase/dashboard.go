package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

// LoadDashboard fetches value help, opportunities and risks concurrently.
// Only the risk fetch can fail the call; the other two record their
// failure in Error() as they always do.
func (s *Store) LoadDashboard(ctx context.Context, query model.RiskQuery) error {
	var eg errgroup.Group

	eg.Go(func() error {
		s.FetchValueHelp(ctx)
		return nil
	})
	eg.Go(func() error {
		s.FetchOpportunities(ctx)
		return nil
	})
	eg.Go(func() error {
		return s.FetchRisks(ctx, query)
	})

	return eg.Wait()
}
