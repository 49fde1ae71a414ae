package http

import (
	"net/http"
	"net/url"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/service/api"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/errutil"
)

type dashboardResponse struct {
	Risks         []*model.Risk        `json:"risks"`
	ByStatus      model.RiskGroups     `json:"byStatus"`
	HighImpact    []*model.Risk        `json:"highImpact"`
	ValueHelp     model.ValueHelp      `json:"valueHelp"`
	Filters       model.Filters        `json:"filters"`
	Opportunities []*model.Opportunity `json:"opportunities"`
	Error         string               `json:"error,omitempty"`
}

// newDashboardView lists all risks with the filters given in the query
// string applied. Each request works on its own fork of store, so filters
// and errors of one request never show up in another.
func newDashboardView(store *usecase.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := store.Fork()

		session.SetFilters(filterPatch(r.URL.Query()))
		if err := session.LoadDashboard(ctx, model.RiskQuery{}); err != nil {
			errutil.HandleHTTP(ctx, w, err, api.ErrorMessage(err, usecase.MsgFetchRisks), http.StatusBadGateway)
			return
		}

		snap := session.Snapshot()
		writeJSON(w, r, http.StatusOK, dashboardResponse{
			Risks:         snap.FilteredRisks(),
			ByStatus:      snap.RisksByStatus(),
			HighImpact:    snap.HighImpactRisks(),
			ValueHelp:     snap.ValueHelp,
			Filters:       snap.Filters,
			Opportunities: snap.Opportunities,
			Error:         snap.Error,
		})
	})
}

type opportunityRisksResponse struct {
	Opportunity *model.Opportunity `json:"opportunity"`
	Risks       []*model.Risk      `json:"risks"`
	ByStatus    model.RiskGroups   `json:"byStatus"`
	Error       string             `json:"error,omitempty"`
}

type opportunityListResponse struct {
	Opportunities []*model.Opportunity `json:"opportunities"`
	Error         string               `json:"error,omitempty"`
}

// newOpportunityRisksView shows the opportunity named by ?id= and its risks.
// Without an id the opportunity list is shown.
func newOpportunityRisksView(store *usecase.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := store.Fork()

		id := r.URL.Query().Get("id")
		if id == "" {
			session.FetchOpportunities(ctx)
			snap := session.Snapshot()
			writeJSON(w, r, http.StatusOK, opportunityListResponse{
				Opportunities: snap.Opportunities,
				Error:         snap.Error,
			})
			return
		}

		opp, err := session.FetchOpportunityByID(ctx, types.OpportunityID(id))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, api.ErrorMessage(err, usecase.MsgFetchOpportunity), http.StatusBadGateway)
			return
		}

		if err := session.FetchRisksByOpportunity(ctx, opp.ID); err != nil {
			errutil.HandleHTTP(ctx, w, err, api.ErrorMessage(err, usecase.MsgFetchRisks), http.StatusBadGateway)
			return
		}

		snap := session.Snapshot()
		writeJSON(w, r, http.StatusOK, opportunityRisksResponse{
			Opportunity: opp,
			Risks:       snap.Risks,
			ByStatus:    snap.RisksByStatus(),
			Error:       snap.Error,
		})
	})
}

// filterPatch reads filters from the query string. Keys that are present set
// the filter; an empty value leaves it inactive.
func filterPatch(q url.Values) model.FilterPatch {
	var patch model.FilterPatch
	if q.Has("status") {
		v := types.RiskStatus(q.Get("status"))
		patch.Status = &v
	}
	if q.Has("impact") {
		v := types.Impact(q.Get("impact"))
		patch.Impact = &v
	}
	if q.Has("probability") {
		v := types.Probability(q.Get("probability"))
		patch.Probability = &v
	}
	if q.Has("search") {
		v := q.Get("search")
		patch.Search = &v
	}
	return patch
}
