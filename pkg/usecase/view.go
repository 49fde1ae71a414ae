package usecase

import (
	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Risks              []*model.Risk        `json:"risks"`
	CurrentRisk        *model.Risk          `json:"currentRisk"`
	Opportunities      []*model.Opportunity `json:"opportunities"`
	CurrentOpportunity *model.Opportunity   `json:"currentOpportunity"`
	Loading            bool                 `json:"loading"`
	Error              string               `json:"error,omitempty"`
	ValueHelp          model.ValueHelp      `json:"valueHelp"`
	Filters            model.Filters        `json:"filters"`
}

// FilteredRisks returns the risks matching every active filter.
func (x *Snapshot) FilteredRisks() []*model.Risk {
	out := []*model.Risk{}
	for _, r := range x.Risks {
		if x.Filters.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// RisksByStatus groups the risks by status in first seen order.
func (x *Snapshot) RisksByStatus() model.RiskGroups {
	return model.GroupByStatus(x.Risks)
}

// HighImpactRisks returns the risks with High or Very High impact.
func (x *Snapshot) HighImpactRisks() []*model.Risk {
	out := []*model.Risk{}
	for _, r := range x.Risks {
		if r.Impact.IsHigh() {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Snapshot{
		Risks:              cloneRisks(s.risks),
		CurrentRisk:        s.currentRisk.Clone(),
		Opportunities:      cloneOpportunities(s.opportunities),
		CurrentOpportunity: s.currentOpportunity.Clone(),
		Loading:            s.inFlight > 0,
		Error:              s.errMsg,
		ValueHelp:          s.valueHelp.Clone(),
		Filters:            s.filters,
	}
}

// FilteredRisks returns the stored risks matching the active filters.
func (s *Store) FilteredRisks() []*model.Risk {
	return s.riskView().FilteredRisks()
}

func (s *Store) RisksByStatus() model.RiskGroups {
	return s.riskView().RisksByStatus()
}

func (s *Store) HighImpactRisks() []*model.Risk {
	return s.riskView().HighImpactRisks()
}

// riskView is a Snapshot carrying only what the derived views read.
func (s *Store) riskView() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{Risks: cloneRisks(s.risks), Filters: s.filters}
}

func (s *Store) Risks() []*model.Risk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRisks(s.risks)
}

func (s *Store) CurrentRisk() *model.Risk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentRisk.Clone()
}

func (s *Store) Opportunities() []*model.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOpportunities(s.opportunities)
}

func (s *Store) CurrentOpportunity() *model.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentOpportunity.Clone()
}

// Loading reports whether an action is in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Error returns the message of the last failure, or "" when there is none.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) ValueHelp() model.ValueHelp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valueHelp.Clone()
}

func (s *Store) Filters() model.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters merges patch into the current filters.
func (s *Store) SetFilters(patch model.FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Apply(patch)
}

// ClearFilters resets every filter.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = model.Filters{}
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

func cloneRisks(risks []*model.Risk) []*model.Risk {
	out := make([]*model.Risk, len(risks))
	for i, r := range risks {
		out[i] = r.Clone()
	}
	return out
}

func cloneOpportunities(opps []*model.Opportunity) []*model.Opportunity {
	out := make([]*model.Opportunity, len(opps))
	for i, o := range opps {
		out[i] = o.Clone()
	}
	return out
}
