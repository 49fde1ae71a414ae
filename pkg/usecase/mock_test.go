package usecase_test

import (
	"context"
	"net/url"
	"sync"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

func envelope(body string) *model.Envelope {
	return model.NewEnvelope(200, []byte(body))
}

// mockRiskAPI is a configurable interfaces.RiskAPI. Nil funcs answer with
// an empty JSON object.
type mockRiskAPI struct {
	mu    sync.Mutex
	calls []string

	getAllFn           func(ctx context.Context, query model.RiskQuery) (*model.Envelope, error)
	getByOpportunityFn func(ctx context.Context, id types.OpportunityID) (*model.Envelope, error)
	createFn           func(ctx context.Context, input model.RiskInput) (*model.Envelope, error)
	updateFn           func(ctx context.Context, id types.RiskID, patch model.RiskPatch) (*model.Envelope, error)
	deleteFn           func(ctx context.Context, id types.RiskID) (*model.Envelope, error)
	getValueHelpFn     func(ctx context.Context) (*model.Envelope, error)
}

func (m *mockRiskAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockRiskAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

func (m *mockRiskAPI) GetAll(ctx context.Context, query model.RiskQuery) (*model.Envelope, error) {
	m.record("GetAll")
	if m.getAllFn == nil {
		return envelope(`{}`), nil
	}
	return m.getAllFn(ctx, query)
}

func (m *mockRiskAPI) GetByOpportunity(ctx context.Context, id types.OpportunityID) (*model.Envelope, error) {
	m.record("GetByOpportunity")
	if m.getByOpportunityFn == nil {
		return envelope(`{}`), nil
	}
	return m.getByOpportunityFn(ctx, id)
}

func (m *mockRiskAPI) Create(ctx context.Context, input model.RiskInput) (*model.Envelope, error) {
	m.record("Create")
	if m.createFn == nil {
		return envelope(`{}`), nil
	}
	return m.createFn(ctx, input)
}

func (m *mockRiskAPI) Update(ctx context.Context, id types.RiskID, patch model.RiskPatch) (*model.Envelope, error) {
	m.record("Update")
	if m.updateFn == nil {
		return envelope(`{}`), nil
	}
	return m.updateFn(ctx, id, patch)
}

func (m *mockRiskAPI) Delete(ctx context.Context, id types.RiskID) (*model.Envelope, error) {
	m.record("Delete")
	if m.deleteFn == nil {
		return envelope(``), nil
	}
	return m.deleteFn(ctx, id)
}

func (m *mockRiskAPI) GetValueHelp(ctx context.Context) (*model.Envelope, error) {
	m.record("GetValueHelp")
	if m.getValueHelpFn == nil {
		return envelope(`{}`), nil
	}
	return m.getValueHelpFn(ctx)
}

// mockOpportunityAPI is a configurable interfaces.OpportunityAPI
type mockOpportunityAPI struct {
	mu    sync.Mutex
	calls []string

	getAllFn   func(ctx context.Context, params url.Values) (*model.Envelope, error)
	getByIDFn  func(ctx context.Context, id types.OpportunityID) (*model.Envelope, error)
	getRisksFn func(ctx context.Context, id types.OpportunityID) (*model.Envelope, error)
}

func (m *mockOpportunityAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockOpportunityAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

func (m *mockOpportunityAPI) GetAll(ctx context.Context, params url.Values) (*model.Envelope, error) {
	m.record("GetAll")
	if m.getAllFn == nil {
		return envelope(`{}`), nil
	}
	return m.getAllFn(ctx, params)
}

func (m *mockOpportunityAPI) GetByID(ctx context.Context, id types.OpportunityID) (*model.Envelope, error) {
	m.record("GetByID")
	if m.getByIDFn == nil {
		return envelope(`{}`), nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockOpportunityAPI) GetRisks(ctx context.Context, id types.OpportunityID) (*model.Envelope, error) {
	m.record("GetRisks")
	if m.getRisksFn == nil {
		return envelope(`{}`), nil
	}
	return m.getRisksFn(ctx, id)
}
