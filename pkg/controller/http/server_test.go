package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"

	httpctrl "github.com/secmon-lab/oprisk/pkg/controller/http"
	"github.com/secmon-lab/oprisk/pkg/service/api"
	"github.com/secmon-lab/oprisk/pkg/usecase"
)

// fakeRiskAPI serves a fixed data set under /api/v1.
type fakeRiskAPI struct {
	mu       sync.Mutex
	requests []string
	failRisk bool
}

func (x *fakeRiskAPI) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			x.mu.Lock()
			x.requests = append(x.requests, req.Method+" "+req.URL.Path)
			x.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/risks", func(w http.ResponseWriter, req *http.Request) {
			x.mu.Lock()
			fail := x.failRisk
			x.mu.Unlock()
			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message":"risk store offline"}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"risks":[
				{"id":1,"description":"Supplier delay","status":"Open","impact":"High"},
				{"id":2,"description":"Budget cut","status":"Closed","impact":"Low"}
			]}}`))
		})
		r.Get("/risks/value-help", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"impactLevels":[{"code":"Low"},{"code":"High"}],"statusTypes":[{"code":"Open"}]}}`))
		})
		r.Get("/opportunities", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"id":"o1","name":"Cloud migration"}]}`))
		})
		r.Get("/opportunities/{id}", func(w http.ResponseWriter, req *http.Request) {
			if chi.URLParam(req, "id") != "o1" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":{"message":"opportunity not found"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"id":"o1","name":"Cloud migration"}}`))
		})
		r.Get("/opportunities/{id}/risks", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(`[{"id":9,"status":"Open","impact":"Very High","opportunityID":"o1"}]`))
		})
	})
	return r
}

func (x *fakeRiskAPI) Requests() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]string{}, x.requests...)
}

func setupServer(t *testing.T, fake *fakeRiskAPI, opts ...httpctrl.Options) http.Handler {
	t.Helper()
	apiSrv := httptest.NewServer(fake.handler())
	t.Cleanup(apiSrv.Close)

	client, err := api.New(apiSrv.URL + "/api/v1")
	gt.NoError(t, err).Required()
	store := usecase.New(api.NewRisksAPI(client), api.NewOpportunitiesAPI(client))

	srv, err := httpctrl.New(store, opts...)
	gt.NoError(t, err).Required()
	return srv
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
	return rec, body
}

func TestNewRequiresStore(t *testing.T) {
	_, err := httpctrl.New(nil)
	gt.Error(t, err)
}

func TestViewsAreBuiltLazilyOnce(t *testing.T) {
	var mu sync.Mutex
	built := map[string]int{}
	srv := setupServer(t, &fakeRiskAPI{}, httpctrl.WithOnViewBuild(func(name string) {
		mu.Lock()
		defer mu.Unlock()
		built[name]++
	}))

	gt.Value(t, len(built)).Equal(0)

	for range 3 {
		rec, _ := get(t, srv, "/")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	}
	gt.Value(t, built[httpctrl.ViewDashboard]).Equal(1)
	gt.Value(t, built[httpctrl.ViewOpportunityRisks]).Equal(0)

	rec, _ := get(t, srv, "/opportunity/")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, built[httpctrl.ViewOpportunityRisks]).Equal(1)
}

func TestWithViewReplacesFactory(t *testing.T) {
	srv := setupServer(t, &fakeRiskAPI{}, httpctrl.WithView(httpctrl.ViewDashboard, func(store *usecase.Store) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"custom":true}`))
		})
	}))

	_, body := get(t, srv, "/")
	gt.Value(t, body["custom"]).Equal(true)
}

func TestDashboardView(t *testing.T) {
	fake := &fakeRiskAPI{}
	srv := setupServer(t, fake)

	rec, body := get(t, srv, "/?status=Open")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/json")

	risks, ok := body["risks"].([]any)
	gt.Bool(t, ok).True()
	gt.Array(t, risks).Length(1).Required()
	gt.Value(t, risks[0].(map[string]any)["id"]).Equal("1")

	byStatus, ok := body["byStatus"].(map[string]any)
	gt.Bool(t, ok).True()
	gt.Value(t, len(byStatus)).Equal(2)

	highImpact, ok := body["highImpact"].([]any)
	gt.Bool(t, ok).True()
	gt.Array(t, highImpact).Length(1)

	filters, ok := body["filters"].(map[string]any)
	gt.Bool(t, ok).True()
	gt.Value(t, filters["status"]).Equal("Open")
	gt.Value(t, filters["impact"]).Nil()

	valueHelp, ok := body["valueHelp"].(map[string]any)
	gt.Bool(t, ok).True()
	gt.Array(t, valueHelp["impact"].([]any)).Length(2)

	opps, ok := body["opportunities"].([]any)
	gt.Bool(t, ok).True()
	gt.Array(t, opps).Length(1)

	// an empty value clears the filter
	_, body = get(t, srv, "/?status=")
	gt.Array(t, body["risks"].([]any)).Length(2)
}

func TestDashboardViewFiltersArePerRequest(t *testing.T) {
	srv := setupServer(t, &fakeRiskAPI{})

	_, body := get(t, srv, "/?status=Closed&search=budget")
	gt.Array(t, body["risks"].([]any)).Length(1)

	_, body = get(t, srv, "/")
	gt.Array(t, body["risks"].([]any)).Length(2)
	filters := body["filters"].(map[string]any)
	gt.Value(t, filters["status"]).Nil()
	gt.Value(t, filters["search"]).Equal("")

	_, body = get(t, srv, "/?impact=High")
	gt.Value(t, body["filters"].(map[string]any)["status"]).Nil()
	gt.Array(t, body["risks"].([]any)).Length(1)
}

func TestDashboardViewErrorIsPerRequest(t *testing.T) {
	fake := &fakeRiskAPI{failRisk: true}
	srv := setupServer(t, fake)

	rec, _ := get(t, srv, "/")
	gt.Value(t, rec.Code).Equal(http.StatusBadGateway)

	fake.mu.Lock()
	fake.failRisk = false
	fake.mu.Unlock()

	rec, body := get(t, srv, "/")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	_, hasError := body["error"]
	gt.Bool(t, hasError).False()
}

func TestDashboardViewRiskFailure(t *testing.T) {
	srv := setupServer(t, &fakeRiskAPI{failRisk: true})

	rec, body := get(t, srv, "/")
	gt.Value(t, rec.Code).Equal(http.StatusBadGateway)
	gt.Value(t, body["error"]).Equal("risk store offline")
}

func TestOpportunityView(t *testing.T) {
	t.Run("list without selection", func(t *testing.T) {
		srv := setupServer(t, &fakeRiskAPI{})

		rec, body := get(t, srv, "/opportunity/")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		opps, ok := body["opportunities"].([]any)
		gt.Bool(t, ok).True()
		gt.Array(t, opps).Length(1)
	})

	t.Run("by id", func(t *testing.T) {
		fake := &fakeRiskAPI{}
		srv := setupServer(t, fake)

		rec, body := get(t, srv, "/opportunity/?id=o1")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		opp, ok := body["opportunity"].(map[string]any)
		gt.Bool(t, ok).True()
		gt.Value(t, opp["name"]).Equal("Cloud migration")

		risks, ok := body["risks"].([]any)
		gt.Bool(t, ok).True()
		gt.Array(t, risks).Length(1)

		gt.Value(t, fake.Requests()).Equal([]string{
			"GET /api/v1/opportunities/o1",
			"GET /api/v1/opportunities/o1/risks",
		})

		// a request without id does not see the earlier selection
		_, body = get(t, srv, "/opportunity/")
		gt.Value(t, body["opportunity"]).Nil()
		gt.Array(t, body["opportunities"].([]any)).Length(1)
	})

	t.Run("path without trailing slash", func(t *testing.T) {
		srv := setupServer(t, &fakeRiskAPI{})

		rec, body := get(t, srv, "/opportunity?id=o1")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, body["opportunity"].(map[string]any)["id"]).Equal("o1")

		rec, body = get(t, srv, "/opportunity")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Array(t, body["opportunities"].([]any)).Length(1)
	})

	t.Run("unknown id", func(t *testing.T) {
		srv := setupServer(t, &fakeRiskAPI{})

		rec, body := get(t, srv, "/opportunity/?id=zz")
		gt.Value(t, rec.Code).Equal(http.StatusBadGateway)
		gt.Value(t, body["error"]).Equal("opportunity not found")
	})
}

func TestNotFound(t *testing.T) {
	srv := setupServer(t, &fakeRiskAPI{})

	rec, body := get(t, srv, "/no/such/view")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	gt.Value(t, body["error"]).Equal("not found")
}
