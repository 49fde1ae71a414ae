package model

import (
	"encoding/json"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Risk is a tracked issue record classified by impact, probability and
// status, optionally tied to an opportunity.
type Risk struct {
	ID            types.RiskID        `json:"id"`
	Description   string              `json:"description"`
	Impact        types.Impact        `json:"impact"`
	Probability   types.Probability   `json:"probability"`
	Status        types.RiskStatus    `json:"status"`
	OpportunityID types.OpportunityID `json:"opportunityID,omitempty"`

	// Attributes holds server fields not modeled above.
	Attributes Attributes `json:"-"`
}

var riskKnownFields = []string{"id", "description", "impact", "probability", "status", "opportunityID"}

type riskFields Risk

func (x *Risk) UnmarshalJSON(data []byte) error {
	var fields riskFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "failed to decode risk")
	}
	attrs, err := splitAttributes(data, riskKnownFields...)
	if err != nil {
		return goerr.Wrap(err, "failed to decode risk attributes")
	}

	*x = Risk(fields)
	x.Attributes = attrs
	return nil
}

func (x Risk) MarshalJSON() ([]byte, error) {
	return mergeAttributes(riskFields(x), x.Attributes)
}

// Clone returns a deep copy of the risk
func (x *Risk) Clone() *Risk {
	if x == nil {
		return nil
	}
	c := *x
	c.Attributes = x.Attributes.clone()
	return &c
}

// RiskInput is the request body to create a risk. The server assigns the ID.
type RiskInput struct {
	Description   string              `json:"description"`
	Impact        types.Impact        `json:"impact,omitempty"`
	Probability   types.Probability   `json:"probability,omitempty"`
	Status        types.RiskStatus    `json:"status,omitempty"`
	OpportunityID types.OpportunityID `json:"opportunityID,omitempty"`
}

// RiskPatch is the request body of a partial update. Only non-nil fields are
// sent.
type RiskPatch struct {
	Description   *string              `json:"description,omitempty"`
	Impact        *types.Impact        `json:"impact,omitempty"`
	Probability   *types.Probability   `json:"probability,omitempty"`
	Status        *types.RiskStatus    `json:"status,omitempty"`
	OpportunityID *types.OpportunityID `json:"opportunityID,omitempty"`
}

// IsEmpty returns true if no field is set
func (p RiskPatch) IsEmpty() bool {
	return p.Description == nil && p.Impact == nil && p.Probability == nil &&
		p.Status == nil && p.OpportunityID == nil
}

// RiskQuery holds the filter parameters passed to the risk list endpoint.
type RiskQuery struct {
	Status        types.RiskStatus
	Impact        types.Impact
	Probability   types.Probability
	Search        string
	OpportunityID types.OpportunityID

	// Extra carries parameters the list endpoint accepts beyond the filters,
	// such as sort or limit. Named fields win over the same key here.
	Extra url.Values
}

// Values encodes the query as URL parameters, omitting empty fields.
func (q RiskQuery) Values() url.Values {
	v := url.Values{}
	for key, values := range q.Extra {
		for _, value := range values {
			v.Add(key, value)
		}
	}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("status", string(q.Status))
	set("impact", string(q.Impact))
	set("probability", string(q.Probability))
	set("search", q.Search)
	set("opportunityID", string(q.OpportunityID))
	return v
}
