package model

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// RiskGroup is the set of risks sharing one status.
type RiskGroup struct {
	Status types.RiskStatus
	Risks  []*Risk
}

// RiskGroups is an ordered status -> risks mapping. Groups appear in the
// order their status was first seen.
type RiskGroups []RiskGroup

// GroupByStatus partitions risks by status. Risks without a status are
// grouped under types.RiskStatusUnknown. Order inside a group follows the
// input order.
func GroupByStatus(risks []*Risk) RiskGroups {
	groups := RiskGroups{}
	index := make(map[types.RiskStatus]int)

	for _, r := range risks {
		key := r.Status.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RiskGroup{Status: key})
		}
		groups[i].Risks = append(groups[i].Risks, r)
	}
	return groups
}

// Get returns the risks of a status, or nil.
func (g RiskGroups) Get(status types.RiskStatus) []*Risk {
	for _, group := range g {
		if group.Status == status {
			return group.Risks
		}
	}
	return nil
}

// Statuses returns the group keys in order
func (g RiskGroups) Statuses() []types.RiskStatus {
	keys := make([]types.RiskStatus, len(g))
	for i, group := range g {
		keys[i] = group.Status
	}
	return keys
}

// MarshalJSON encodes the groups as a JSON object keeping group order.
func (g RiskGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Status)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode group key", goerr.V("status", group.Status))
		}
		risks := group.Risks
		if risks == nil {
			risks = []*Risk{}
		}
		value, err := json.Marshal(risks)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode group", goerr.V("status", group.Status))
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
