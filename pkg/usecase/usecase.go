package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/service/api"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

// Store owns the client side state of risks and opportunities and keeps it
// in sync with the remote API. Create one per application with New; a
// server gives each request its own Fork. It is safe for concurrent use.
//
// Concurrent actions share the loading and error fields (last writer wins)
// and risk mutations are applied in completion order. Risk list
// replacements are versioned so a stale list never overwrites a newer one.
type Store struct {
	risksAPI interfaces.RiskAPI
	oppsAPI  interfaces.OpportunityAPI

	mu                 sync.RWMutex
	risks              []*model.Risk
	currentRisk        *model.Risk
	opportunities      []*model.Opportunity
	currentOpportunity *model.Opportunity
	inFlight           int
	errMsg             string
	valueHelp          model.ValueHelp
	filters            model.Filters

	listIssued  uint64
	listApplied uint64
}

type Option func(*Store)

// WithFilters sets the initial filters
func WithFilters(f model.Filters) Option {
	return func(s *Store) {
		s.filters = f
	}
}

// New creates a store backed by the given API resources
func New(risks interfaces.RiskAPI, opportunities interfaces.OpportunityAPI, opts ...Option) *Store {
	s := &Store{
		risksAPI:      risks,
		oppsAPI:       opportunities,
		risks:         []*model.Risk{},
		opportunities: []*model.Opportunity{},
		valueHelp:     model.NewValueHelp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fork returns a new store on the same APIs seeded with the value help and
// opportunity lists of s. Risks, selections, filters, loading and error start
// empty, so state set on the fork never reaches s or other forks.
func (s *Store) Fork() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := New(s.risksAPI, s.oppsAPI)
	f.valueHelp = s.valueHelp.Clone()
	f.opportunities = cloneOpportunities(s.opportunities)
	return f
}

// begin marks an action in flight and clears the error. The returned func
// must be deferred.
func (s *Store) begin() func() {
	s.mu.Lock()
	s.inFlight++
	s.errMsg = ""
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}
}

// fail records the user facing message for err and returns err wrapped.
func (s *Store) fail(ctx context.Context, err error, fallback string, values ...goerr.Option) error {
	msg := api.ErrorMessage(err, fallback)

	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()

	logging.From(ctx).Warn(fallback, "error", err.Error(), "message", msg)
	return goerr.Wrap(err, fallback, values...)
}
