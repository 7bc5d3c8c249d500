package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		allowed  []string
		expected []string
	}{
		{
			name:     "separate value form",
			args:     []string{"-a", ":2121", "-x", "ignored"},
			allowed:  []string{"-a"},
			expected: []string{"-a", ":2121"},
		},
		{
			name:     "equals form",
			args:     []string{"--config=conf.json", "-b=bucket", "-z=no"},
			allowed:  []string{"--config", "-b"},
			expected: []string{"--config=conf.json", "-b=bucket"},
		},
		{
			name:     "flag followed by another flag keeps no value",
			args:     []string{"-a", "-b", "val"},
			allowed:  []string{"-a", "-b"},
			expected: []string{"-a", "-b", "val"},
		},
		{
			name:     "nothing allowed",
			args:     []string{"-a", "x", "-b", "y"},
			allowed:  nil,
			expected: []string{},
		},
		{
			name:     "empty args",
			args:     nil,
			allowed:  []string{"-a"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			assert.Equal(t, tt.expected, got)
		})
	}
}
