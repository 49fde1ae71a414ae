package interfaces

import (
	"context"
	"net/url"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// RiskAPI is the risk resource of the remote API
type RiskAPI interface {
	GetAll(ctx context.Context, query model.RiskQuery) (*model.Envelope, error)
	GetByOpportunity(ctx context.Context, id types.OpportunityID) (*model.Envelope, error)
	Create(ctx context.Context, input model.RiskInput) (*model.Envelope, error)
	Update(ctx context.Context, id types.RiskID, patch model.RiskPatch) (*model.Envelope, error)
	Delete(ctx context.Context, id types.RiskID) (*model.Envelope, error)
	GetValueHelp(ctx context.Context) (*model.Envelope, error)
}

// OpportunityAPI is the opportunity resource of the remote API
type OpportunityAPI interface {
	GetAll(ctx context.Context, params url.Values) (*model.Envelope, error)
	GetByID(ctx context.Context, id types.OpportunityID) (*model.Envelope, error)
	GetRisks(ctx context.Context, id types.OpportunityID) (*model.Envelope, error)
}
