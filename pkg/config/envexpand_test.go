package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	tests := []struct {
		name  string
		input string
		env   map[string]string
		want  string
	}{
		{
			name:  "braced substitution",
			input: "url: ${CP_URL}",
			env:   map[string]string{"CP_URL": "http://localhost:8080"},
			want:  "url: http://localhost:8080",
		},
		{
			name:  "bare substitution",
			input: "region: $REGION",
			env:   map[string]string{"REGION": "eu-west-1"},
			want:  "region: eu-west-1",
		},
		{
			name:  "missing variable expands to empty string",
			input: "token: ${MISSING_TOKEN}",
			env:   nil,
			want:  "token: ",
		},
		{
			name:  "multiple variables in one line",
			input: "addr: ${HOST}:${PORT}",
			env:   map[string]string{"HOST": "127.0.0.1", "PORT": "5514"},
			want:  "addr: 127.0.0.1:5514",
		},
		{
			name:  "no variables is a no-op",
			input: "agent_id: agent-a",
			env:   nil,
			want:  "agent_id: agent-a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got := ExpandEnv([]byte(tt.input))
			assert.Equal(t, tt.want, string(got))
		})
	}
}
