package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tidwall/gjson"
)

// BodyPath is the Extract path standing for the whole response body.
const BodyPath = ""

// Envelope is an API response body whose payload may be wrapped in
// different ways depending on the endpoint.
type Envelope struct {
	StatusCode int
	Body       []byte
}

// NewEnvelope wraps a response body.
func NewEnvelope(statusCode int, body []byte) *Envelope {
	return &Envelope{StatusCode: statusCode, Body: body}
}

// Extract tries paths in order and returns the first result that exists and
// is not null. BodyPath selects the whole body. The zero gjson.Result is
// returned when nothing matches.
func (e *Envelope) Extract(paths ...string) gjson.Result {
	return e.ExtractIf(func(gjson.Result) bool { return true }, paths...)
}

// ExtractArray is Extract restricted to JSON arrays.
func (e *Envelope) ExtractArray(paths ...string) gjson.Result {
	return e.ExtractIf(gjson.Result.IsArray, paths...)
}

// ExtractIf is Extract with an additional acceptance predicate.
func (e *Envelope) ExtractIf(accept func(gjson.Result) bool, paths ...string) gjson.Result {
	if e == nil || !gjson.ValidBytes(e.Body) {
		return gjson.Result{}
	}

	for _, path := range paths {
		var res gjson.Result
		if path == BodyPath {
			res = gjson.ParseBytes(e.Body)
		} else {
			res = gjson.GetBytes(e.Body, path)
		}
		if res.Exists() && res.Type != gjson.Null && accept(res) {
			return res
		}
	}
	return gjson.Result{}
}

// DecodeResult decodes a gjson result into v.
func DecodeResult(res gjson.Result, v any) error {
	if !res.Exists() {
		return goerr.New("no payload found in response")
	}
	if err := json.Unmarshal([]byte(res.Raw), v); err != nil {
		return goerr.Wrap(err, "failed to decode payload", goerr.V("raw", res.Raw))
	}
	return nil
}
