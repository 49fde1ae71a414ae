package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

func TestGroupByStatus(t *testing.T) {
	risks := []*model.Risk{
		{ID: "1", Status: types.RiskStatusClosed},
		{ID: "2", Status: types.RiskStatusOpen},
		{ID: "3"},
		{ID: "4", Status: types.RiskStatusClosed},
		{ID: "5", Status: types.RiskStatusOpen},
	}

	groups := model.GroupByStatus(risks)

	t.Run("groups follow first seen order", func(t *testing.T) {
		gt.Value(t, groups.Statuses()).Equal([]types.RiskStatus{
			types.RiskStatusClosed, types.RiskStatusOpen, types.RiskStatusUnknown,
		})
	})

	t.Run("partition is complete and disjoint", func(t *testing.T) {
		seen := map[types.RiskID]int{}
		for _, g := range groups {
			for _, r := range g.Risks {
				seen[r.ID]++
			}
		}
		gt.Value(t, len(seen)).Equal(len(risks))
		for _, n := range seen {
			gt.Value(t, n).Equal(1)
		}
	})

	t.Run("order inside group is preserved", func(t *testing.T) {
		closed := groups.Get(types.RiskStatusClosed)
		gt.Array(t, closed).Length(2).Required()
		gt.Value(t, closed[0].ID).Equal(types.RiskID("1"))
		gt.Value(t, closed[1].ID).Equal(types.RiskID("4"))

		unknown := groups.Get(types.RiskStatusUnknown)
		gt.Array(t, unknown).Length(1).Required()
		gt.Value(t, unknown[0].ID).Equal(types.RiskID("3"))
	})

	t.Run("missing status returns nil", func(t *testing.T) {
		gt.Value(t, groups.Get(types.RiskStatusMitigated)).Nil()
	})
}

func TestRiskGroups_MarshalJSON(t *testing.T) {
	groups := model.GroupByStatus([]*model.Risk{
		{ID: "2", Status: types.RiskStatusOpen},
		{ID: "1", Status: types.RiskStatusClosed},
	})

	out, err := json.Marshal(groups)
	gt.NoError(t, err).Required()
	gt.String(t, string(out)).Contains(`{"Open":[{`)

	empty, err := json.Marshal(model.GroupByStatus(nil))
	gt.NoError(t, err).Required()
	gt.Value(t, string(empty)).Equal(`{}`)
}
