package types

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// RiskID is the server assigned identifier of a risk. The API returns it
// either as a JSON string or as a JSON number.
type RiskID string

// OpportunityID is the server assigned identifier of an opportunity.
type OpportunityID string

func (x RiskID) String() string        { return string(x) }
func (x OpportunityID) String() string { return string(x) }

// Validate checks that the ID is not empty
func (x RiskID) Validate() error {
	if x == "" {
		return goerr.New("risk ID cannot be empty")
	}
	return nil
}

// Validate checks that the ID is not empty
func (x OpportunityID) Validate() error {
	if x == "" {
		return goerr.New("opportunity ID cannot be empty")
	}
	return nil
}

func (x *RiskID) UnmarshalJSON(data []byte) error {
	s, err := unmarshalID(data)
	if err != nil {
		return goerr.Wrap(err, "failed to decode risk ID")
	}
	*x = RiskID(s)
	return nil
}

func (x *OpportunityID) UnmarshalJSON(data []byte) error {
	s, err := unmarshalID(data)
	if err != nil {
		return goerr.Wrap(err, "failed to decode opportunity ID")
	}
	*x = OpportunityID(s)
	return nil
}

func unmarshalID(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", goerr.New("ID must be a string or a number", goerr.V("raw", string(data)))
	}
	return n.String(), nil
}
