package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tidwall/gjson"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

var valueHelpPaths = []string{"data", model.BodyPath}

// FetchValueHelp replaces the value help lists. Failures are recorded in
// Error(), the previous lists are kept and nothing is returned.
func (s *Store) FetchValueHelp(ctx context.Context) {
	_ = s.fetchValueHelp(ctx)
}

func (s *Store) fetchValueHelp(ctx context.Context) error {
	done := s.begin()
	defer done()

	if err := s.RefreshValueHelp(ctx); err != nil {
		return s.fail(ctx, err, MsgFetchValueHelp)
	}
	return nil
}

// RefreshValueHelp replaces the value help lists without touching loading or
// Error(). The previous lists are kept on failure.
func (s *Store) RefreshValueHelp(ctx context.Context) error {
	env, err := s.risksAPI.GetValueHelp(ctx)
	if err != nil {
		return err
	}

	payload := env.Extract(valueHelpPaths...)
	if !payload.IsObject() {
		return goerr.Wrap(ErrEmptyResponse, "value help not found in response")
	}

	vh := model.ValueHelp{
		Impact:      codes[types.Impact](payload, "impactLevels"),
		Probability: codes[types.Probability](payload, "probabilityLevels"),
		Status:      codes[types.RiskStatus](payload, "statusTypes"),
	}

	s.mu.Lock()
	s.valueHelp = vh
	s.mu.Unlock()
	return nil
}

// codes returns the code of every item of the list at key. A missing list
// yields an empty slice.
func codes[T ~string](payload gjson.Result, key string) []T {
	out := []T{}
	for _, item := range payload.Get(key + ".#.code").Array() {
		out = append(out, T(item.String()))
	}
	return out
}
