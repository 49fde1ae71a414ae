package usecase

import (
	"context"
	"net/url"
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

var (
	opportunityListPaths = []string{"data.opportunities", "opportunities", "data", model.BodyPath}
	opportunityPaths     = []string{"data.opportunity", "data", model.BodyPath}
)

// FetchOpportunities replaces the opportunity list. Failures are recorded in
// Error() and not returned.
func (s *Store) FetchOpportunities(ctx context.Context) {
	_ = s.fetchOpportunities(ctx)
}

func (s *Store) fetchOpportunities(ctx context.Context) error {
	done := s.begin()
	defer done()

	if err := s.RefreshOpportunities(ctx); err != nil {
		return s.fail(ctx, err, MsgFetchOpportunities)
	}
	return nil
}

// RefreshOpportunities replaces the opportunity list without touching loading
// or Error().
func (s *Store) RefreshOpportunities(ctx context.Context) error {
	env, err := s.oppsAPI.GetAll(ctx, url.Values{})
	if err != nil {
		return err
	}

	opps, err := decodeOpportunityList(env)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.opportunities = opps
	s.mu.Unlock()
	return nil
}

// FetchOpportunityByID fetches one opportunity and makes it current.
func (s *Store) FetchOpportunityByID(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	done := s.begin()
	defer done()

	if err := id.Validate(); err != nil {
		return nil, s.fail(ctx, goerr.Wrap(ErrInvalidID, err.Error()), MsgFetchOpportunity)
	}

	env, err := s.oppsAPI.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, err, MsgFetchOpportunity, goerr.V(OpportunityIDKey, id))
	}

	res := env.Extract(opportunityPaths...)
	if !res.Exists() {
		return nil, s.fail(ctx, goerr.Wrap(ErrEmptyResponse, "opportunity not found in response"), MsgFetchOpportunity, goerr.V(OpportunityIDKey, id))
	}

	var opp model.Opportunity
	if err := model.DecodeResult(res, &opp); err != nil {
		return nil, s.fail(ctx, err, MsgFetchOpportunity, goerr.V(OpportunityIDKey, id))
	}

	s.mu.Lock()
	s.currentOpportunity = &opp
	s.mu.Unlock()

	return opp.Clone(), nil
}

func decodeOpportunityList(env *model.Envelope) ([]*model.Opportunity, error) {
	res := env.ExtractArray(opportunityListPaths...)
	if !res.Exists() {
		return []*model.Opportunity{}, nil
	}

	var opps []*model.Opportunity
	if err := model.DecodeResult(res, &opps); err != nil {
		return nil, goerr.Wrap(err, "failed to decode opportunity list")
	}
	return slices.DeleteFunc(opps, func(o *model.Opportunity) bool { return o == nil }), nil
}
