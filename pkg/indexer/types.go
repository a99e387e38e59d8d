// Package indexer implements the stateless log-normalization service:
// POST /v1/normalize converts a batch of raw lines into structured Docs
// under a named profile.
package indexer

import (
	"encoding/json"
	"fmt"
)

// Doc is one normalized document. Raw is always populated — the original
// line must survive normalization. Extracted fields live under Meta, not
// at the top level, so the indexer's wire shape matches wire.Event and
// agents can consume a Doc without reshaping it.
type Doc struct {
	Raw  string         `json:"raw"`
	Meta map[string]any `json:"meta,omitempty"`
}

// RawLines accepts either a single string (split on "\n", non-empty lines
// kept) or a string array.
type RawLines []string

// UnmarshalJSON implements the string | string[] union.
func (r *RawLines) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		lines := make([]string, 0)
		for _, line := range splitNonEmptyLines(single) {
			lines = append(lines, line)
		}
		*r = lines
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*r = many
		return nil
	}

	return fmt.Errorf("raw must be a string or an array of strings")
}

func splitNonEmptyLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// NormalizeRequest is the POST /v1/normalize request body.
type NormalizeRequest struct {
	Profile string   `json:"profile"`
	Raw     RawLines `json:"raw"`
}

// NormalizeResponse is the POST /v1/normalize response body. The key is
// fixed as "docs"; agents depend on it, so it must never be renamed.
type NormalizeResponse struct {
	Docs []Doc `json:"docs"`
}
