package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Opportunity is a business entity owning zero or more risks. Apart from
// its ID the server defines its shape, so every other field is kept as an
// attribute.
type Opportunity struct {
	ID         types.OpportunityID `json:"id"`
	Attributes Attributes          `json:"-"`
}

type opportunityFields Opportunity

func (x *Opportunity) UnmarshalJSON(data []byte) error {
	var fields opportunityFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "failed to decode opportunity")
	}
	attrs, err := splitAttributes(data, "id")
	if err != nil {
		return goerr.Wrap(err, "failed to decode opportunity attributes")
	}

	*x = Opportunity(fields)
	x.Attributes = attrs
	return nil
}

func (x Opportunity) MarshalJSON() ([]byte, error) {
	return mergeAttributes(opportunityFields(x), x.Attributes)
}

// Title returns a human readable label: the first of name, title or
// description that is set, otherwise the ID.
func (x *Opportunity) Title() string {
	for _, key := range []string{"name", "title", "description"} {
		if s := x.Attributes.String(key); s != "" {
			return s
		}
	}
	return x.ID.String()
}

// Clone returns a deep copy of the opportunity
func (x *Opportunity) Clone() *Opportunity {
	if x == nil {
		return nil
	}
	c := *x
	c.Attributes = x.Attributes.clone()
	return &c
}
