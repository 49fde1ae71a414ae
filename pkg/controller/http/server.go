package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/errutil"
	"github.com/secmon-lab/oprisk/pkg/utils/safe"
)

// View names
const (
	ViewDashboard        = "dashboard"
	ViewOpportunityRisks = "opportunity-risks"
)

// ViewFactory builds the handler of a view from the store
type ViewFactory func(store *usecase.Store) http.Handler

type Server struct {
	router    *chi.Mux
	store     *usecase.Store
	factories map[string]ViewFactory
	onBuild   func(name string)
}

type Options func(*Server)

// WithView replaces the factory of a view
func WithView(name string, factory ViewFactory) Options {
	return func(s *Server) {
		s.factories[name] = factory
	}
}

// WithOnViewBuild sets a callback invoked after a view is constructed
func WithOnViewBuild(fn func(name string)) Options {
	return func(s *Server) {
		s.onBuild = fn
	}
}

func New(store *usecase.Store, opts ...Options) (*Server, error) {
	if store == nil {
		return nil, goerr.New("store is required")
	}

	r := chi.NewRouter()
	s := &Server{
		router: r,
		store:  store,
		factories: map[string]ViewFactory{
			ViewDashboard:        newDashboardView,
			ViewOpportunityRisks: newOpportunityRisksView,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.lazy(ViewDashboard).ServeHTTP)
	opportunity := s.lazy(ViewOpportunityRisks)
	r.Get("/opportunity", opportunity.ServeHTTP)
	r.Get("/opportunity/", opportunity.ServeHTTP)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// lazyView constructs its handler on the first request only.
type lazyView struct {
	once    sync.Once
	build   func() http.Handler
	handler http.Handler
}

func (v *lazyView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.once.Do(func() {
		v.handler = v.build()
	})
	v.handler.ServeHTTP(w, r)
}

func (s *Server) lazy(name string) *lazyView {
	return &lazyView{
		build: func() http.Handler {
			h := s.factories[name](s.store)
			if s.onBuild != nil {
				s.onBuild(name)
			}
			return h
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), "failed to render view", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
