package api

import (
	"context"
	"net/url"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// OpportunitiesAPI maps the opportunity resource methods to REST calls.
type OpportunitiesAPI struct {
	client *Client
}

// NewOpportunitiesAPI creates the opportunity resource bound to client
func NewOpportunitiesAPI(client *Client) *OpportunitiesAPI {
	return &OpportunitiesAPI{client: client}
}

// GetAll lists opportunities (GET /opportunities).
func (x *OpportunitiesAPI) GetAll(ctx context.Context, params url.Values) (*model.Envelope, error) {
	return x.client.Get(ctx, "/opportunities", params)
}

// GetByID fetches one opportunity (GET /opportunities/{id}).
func (x *OpportunitiesAPI) GetByID(ctx context.Context, id types.OpportunityID) (*model.Envelope, error) {
	return x.client.Get(ctx, "/opportunities/"+url.PathEscape(id.String()), nil)
}

// GetRisks lists the risks of an opportunity (GET /opportunities/{id}/risks).
func (x *OpportunitiesAPI) GetRisks(ctx context.Context, id types.OpportunityID) (*model.Envelope, error) {
	return x.client.Get(ctx, "/opportunities/"+url.PathEscape(id.String())+"/risks", nil)
}
