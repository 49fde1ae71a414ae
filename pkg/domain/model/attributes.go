package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Attributes holds JSON fields returned by the API that are not modeled
// explicitly. They are kept as raw JSON and written back on encoding so that
// a record survives a decode/encode cycle without loss.
type Attributes map[string]json.RawMessage

// String returns the attribute as a string. Non string values are returned
// as their raw JSON text, and missing keys as an empty string.
func (a Attributes) String(key string) string {
	raw, ok := a[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (a Attributes) clone() Attributes {
	if a == nil {
		return nil
	}
	c := make(Attributes, len(a))
	for k, v := range a {
		c[k] = append(json.RawMessage(nil), v...)
	}
	return c
}

// splitAttributes decodes data as a JSON object and returns every field
// except the known ones.
func splitAttributes(data []byte, known ...string) (Attributes, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, goerr.Wrap(err, "failed to decode JSON object")
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Attributes(all), nil
}

// mergeAttributes encodes modeled (a struct) and overlays it on attrs.
// Modeled fields win over attributes with the same key.
func mergeAttributes(modeled any, attrs Attributes) ([]byte, error) {
	raw, err := json.Marshal(modeled)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode modeled fields")
	}
	if len(attrs) == 0 {
		return raw, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, goerr.Wrap(err, "failed to decode modeled fields")
	}

	merged := make(map[string]json.RawMessage, len(attrs)+len(fields))
	for k, v := range attrs {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}
