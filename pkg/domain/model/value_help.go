package model

import "github.com/secmon-lab/oprisk/pkg/domain/types"

// ValueHelp holds the server provided option lists for risk selection inputs.
type ValueHelp struct {
	Impact      []types.Impact      `json:"impact"`
	Probability []types.Probability `json:"probability"`
	Status      []types.RiskStatus  `json:"status"`
}

// NewValueHelp returns a ValueHelp with empty (non-nil) lists.
func NewValueHelp() ValueHelp {
	return ValueHelp{
		Impact:      []types.Impact{},
		Probability: []types.Probability{},
		Status:      []types.RiskStatus{},
	}
}

// Clone returns a deep copy of the value help
func (v ValueHelp) Clone() ValueHelp {
	return ValueHelp{
		Impact:      append([]types.Impact{}, v.Impact...),
		Probability: append([]types.Probability{}, v.Probability...),
		Status:      append([]types.RiskStatus{}, v.Status...),
	}
}
