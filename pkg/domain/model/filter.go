package model

import (
	"encoding/json"
	"strings"

	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Filters is the client side filter set over the risk list. An empty field
// is inactive.
type Filters struct {
	Status      types.RiskStatus
	Impact      types.Impact
	Probability types.Probability
	Search      string
}

// FilterPatch is a shallow update of Filters. Nil fields are left unchanged;
// a pointer to an empty value clears the field.
type FilterPatch struct {
	Status      *types.RiskStatus
	Impact      *types.Impact
	Probability *types.Probability
	Search      *string
}

// Apply returns the filters with the patch merged in.
func (f Filters) Apply(p FilterPatch) Filters {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Impact != nil {
		f.Impact = *p.Impact
	}
	if p.Probability != nil {
		f.Probability = *p.Probability
	}
	if p.Search != nil {
		f.Search = *p.Search
	}
	return f
}

// IsZero returns true when no filter is active
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Match reports whether the risk satisfies every active filter.
func (f Filters) Match(r *Risk) bool {
	if r == nil {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Impact != "" && r.Impact != f.Impact {
		return false
	}
	if f.Probability != "" && r.Probability != f.Probability {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Query converts the filters to list endpoint parameters.
func (f Filters) Query() RiskQuery {
	return RiskQuery{
		Status:      f.Status,
		Impact:      f.Impact,
		Probability: f.Probability,
		Search:      f.Search,
	}
}

// MarshalJSON encodes inactive selection filters as null.
func (f Filters) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status      *types.RiskStatus  `json:"status"`
		Impact      *types.Impact      `json:"impact"`
		Probability *types.Probability `json:"probability"`
		Search      string             `json:"search"`
	}{
		Status:      nilIfEmpty(f.Status),
		Impact:      nilIfEmpty(f.Impact),
		Probability: nilIfEmpty(f.Probability),
		Search:      f.Search,
	})
}

func nilIfEmpty[T ~string](v T) *T {
	if v == "" {
		return nil
	}
	return &v
}
