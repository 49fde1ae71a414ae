package api

import (
	"context"
	"net/url"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// RisksAPI maps the risk resource methods to REST calls.
type RisksAPI struct {
	client *Client
}

// NewRisksAPI creates the risk resource bound to client
func NewRisksAPI(client *Client) *RisksAPI {
	return &RisksAPI{client: client}
}

// GetAll lists risks matching query (GET /risks).
func (x *RisksAPI) GetAll(ctx context.Context, query model.RiskQuery) (*model.Envelope, error) {
	return x.client.Get(ctx, "/risks", query.Values())
}

// GetByOpportunity lists the risks of an opportunity (GET /risks?opportunityID=).
func (x *RisksAPI) GetByOpportunity(ctx context.Context, id types.OpportunityID) (*model.Envelope, error) {
	return x.client.Get(ctx, "/risks", url.Values{"opportunityID": {id.String()}})
}

// Create creates a risk (POST /risks).
func (x *RisksAPI) Create(ctx context.Context, input model.RiskInput) (*model.Envelope, error) {
	return x.client.Post(ctx, "/risks", input)
}

// Update partially updates a risk (PATCH /risks/{id}).
func (x *RisksAPI) Update(ctx context.Context, id types.RiskID, patch model.RiskPatch) (*model.Envelope, error) {
	return x.client.Patch(ctx, "/risks/"+url.PathEscape(id.String()), patch)
}

// Delete deletes a risk (DELETE /risks/{id}).
func (x *RisksAPI) Delete(ctx context.Context, id types.RiskID) (*model.Envelope, error) {
	return x.client.Delete(ctx, "/risks/"+url.PathEscape(id.String()))
}

// GetValueHelp fetches the option lists for risk inputs (GET /risks/value-help).
func (x *RisksAPI) GetValueHelp(ctx context.Context) (*model.Envelope, error) {
	return x.client.Get(ctx, "/risks/value-help", nil)
}
