package indexer

import (
	"encoding/json"
	"fmt"
)

// Profile converts one raw line into a Doc. Profiles are pluggable; only
// json_auto ships today.
type Profile interface {
	Normalize(line string) Doc
}

// ProfileRegistry looks up a Profile by name.
type ProfileRegistry struct {
	profiles map[string]Profile
}

// NewProfileRegistry returns a registry pre-populated with the built-in profiles.
func NewProfileRegistry() *ProfileRegistry {
	return &ProfileRegistry{
		profiles: map[string]Profile{
			"json_auto": jsonAutoProfile{},
		},
	}
}

// Get returns the named profile, or an error if it is unknown.
func (r *ProfileRegistry) Get(name string) (Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

// jsonAutoProfile parses each line as a JSON object; on success its fields
// are merged under Meta alongside Raw, on failure the line passes through
// unchanged.
type jsonAutoProfile struct{}

func (jsonAutoProfile) Normalize(line string) Doc {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Doc{Raw: line}
	}
	return Doc{Raw: line, Meta: fields}
}
