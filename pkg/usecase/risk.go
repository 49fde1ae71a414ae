package usecase

import (
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

// Extraction order of each call site. The API wraps payloads differently
// per endpoint, so every call site lists the shapes it accepts.
var (
	riskListPaths = []string{"data.risks", "risks", "data", model.BodyPath}
	riskPaths     = []string{"data.risk", "data", model.BodyPath}
)

// FetchRisks replaces the risk list with the server list matching query.
func (s *Store) FetchRisks(ctx context.Context, query model.RiskQuery) error {
	done := s.begin()
	defer done()

	seq := s.issueList()
	env, err := s.risksAPI.GetAll(ctx, query)
	if err != nil {
		return s.fail(ctx, err, MsgFetchRisks)
	}

	risks, err := decodeRiskList(env)
	if err != nil {
		return s.fail(ctx, err, MsgFetchRisks)
	}

	s.applyList(ctx, seq, risks)
	return nil
}

// FetchRisksByOpportunity replaces the risk list with the risks of one
// opportunity.
func (s *Store) FetchRisksByOpportunity(ctx context.Context, id types.OpportunityID) error {
	done := s.begin()
	defer done()

	if err := id.Validate(); err != nil {
		return s.fail(ctx, goerr.Wrap(ErrInvalidID, err.Error()), MsgFetchRisks)
	}

	seq := s.issueList()
	env, err := s.oppsAPI.GetRisks(ctx, id)
	if err != nil {
		return s.fail(ctx, err, MsgFetchRisks, goerr.V(OpportunityIDKey, id))
	}

	risks, err := decodeRiskList(env)
	if err != nil {
		return s.fail(ctx, err, MsgFetchRisks, goerr.V(OpportunityIDKey, id))
	}

	s.applyList(ctx, seq, risks)
	return nil
}

// CreateRisk creates a risk and appends the server's copy to the list.
func (s *Store) CreateRisk(ctx context.Context, input model.RiskInput) (*model.Risk, error) {
	done := s.begin()
	defer done()

	env, err := s.risksAPI.Create(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, err, MsgCreateRisk)
	}

	created, err := decodeRisk(env)
	if err != nil {
		return nil, s.fail(ctx, err, MsgCreateRisk)
	}

	s.mu.Lock()
	s.risks = append(s.risks, created)
	s.mu.Unlock()

	return created.Clone(), nil
}

// UpdateRisk sends patch and replaces the local risk with the server's
// copy. The list is unchanged when id is not in it.
func (s *Store) UpdateRisk(ctx context.Context, id types.RiskID, patch model.RiskPatch) (*model.Risk, error) {
	done := s.begin()
	defer done()

	if err := id.Validate(); err != nil {
		return nil, s.fail(ctx, goerr.Wrap(ErrInvalidID, err.Error()), MsgUpdateRisk)
	}

	env, err := s.risksAPI.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fail(ctx, err, MsgUpdateRisk, goerr.V(RiskIDKey, id))
	}

	updated, err := decodeRisk(env)
	if err != nil {
		return nil, s.fail(ctx, err, MsgUpdateRisk, goerr.V(RiskIDKey, id))
	}

	s.mu.Lock()
	if i := slices.IndexFunc(s.risks, func(r *model.Risk) bool { return r.ID == id }); i >= 0 {
		s.risks[i] = updated
	}
	if s.currentRisk != nil && s.currentRisk.ID == id {
		s.currentRisk = updated
	}
	s.mu.Unlock()

	return updated.Clone(), nil
}

// DeleteRisk deletes a risk and removes it locally once the server confirms.
func (s *Store) DeleteRisk(ctx context.Context, id types.RiskID) error {
	done := s.begin()
	defer done()

	if err := id.Validate(); err != nil {
		return s.fail(ctx, goerr.Wrap(ErrInvalidID, err.Error()), MsgDeleteRisk)
	}

	if _, err := s.risksAPI.Delete(ctx, id); err != nil {
		return s.fail(ctx, err, MsgDeleteRisk, goerr.V(RiskIDKey, id))
	}

	s.mu.Lock()
	s.risks = slices.DeleteFunc(slices.Clone(s.risks), func(r *model.Risk) bool { return r.ID == id })
	if s.currentRisk != nil && s.currentRisk.ID == id {
		s.currentRisk = nil
	}
	s.mu.Unlock()

	return nil
}

// SelectRisk makes the local risk with id current and returns it. Returns
// nil and clears the selection when id is not in the list.
func (s *Store) SelectRisk(id types.RiskID) *model.Risk {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentRisk = nil
	for _, r := range s.risks {
		if r.ID == id {
			s.currentRisk = r
			break
		}
	}
	return s.currentRisk.Clone()
}

func (s *Store) issueList() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listIssued++
	return s.listIssued
}

// applyList replaces the risk list unless a newer list was already applied.
func (s *Store) applyList(ctx context.Context, seq uint64, risks []*model.Risk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.listApplied {
		logging.From(ctx).Debug("discard stale risk list", "seq", seq, "applied", s.listApplied)
		return
	}
	s.listApplied = seq
	s.risks = risks
}

func decodeRiskList(env *model.Envelope) ([]*model.Risk, error) {
	res := env.ExtractArray(riskListPaths...)
	if !res.Exists() {
		return []*model.Risk{}, nil
	}

	var risks []*model.Risk
	if err := model.DecodeResult(res, &risks); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk list")
	}
	return slices.DeleteFunc(risks, func(r *model.Risk) bool { return r == nil }), nil
}

func decodeRisk(env *model.Envelope) (*model.Risk, error) {
	res := env.Extract(riskPaths...)
	if !res.Exists() {
		return nil, goerr.Wrap(ErrEmptyResponse, "risk not found in response")
	}

	var risk model.Risk
	if err := model.DecodeResult(res, &risk); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk")
	}
	return &risk, nil
}
