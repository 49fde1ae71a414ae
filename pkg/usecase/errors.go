package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrInvalidID     = goerr.New("invalid ID")
	ErrEmptyResponse = goerr.New("no payload in API response")
)

// Context keys for error values
const (
	RiskIDKey        = "risk_id"
	OpportunityIDKey = "opportunity_id"
)

// Default error messages shown when the failure carries no better message.
const (
	MsgFetchRisks         = "Failed to fetch risks"
	MsgCreateRisk         = "Failed to create risk"
	MsgUpdateRisk         = "Failed to update risk"
	MsgDeleteRisk         = "Failed to delete risk"
	MsgFetchValueHelp     = "Failed to fetch value help"
	MsgFetchOpportunities = "Failed to fetch opportunities"
	MsgFetchOpportunity   = "Failed to fetch opportunity"
)
