package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", ":2122", "-pl", "51000", "-ph", "51050", "-H", "198.51.100.7",
			"-i", "120", "-t", "/var/lib/photodrop", "-w", "4", "-d", "db",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expectPanic: false,
			expected: &Config{
				ListenAddr:           ":2122",
				PasvPortStart:        51000,
				PasvPortEnd:          51050,
				PublicHost:           "198.51.100.7",
				IdleTimeout:          120 * time.Second,
				TempRoot:             "/var/lib/photodrop",
				MaxConcurrentIngests: 4,
				DatabaseDSN:          "db",
				S3RootUser:           "user",
				S3RootPassword:       "password",
				S3Bucket:             "bucket",
				S3Region:             "us-west-1",
				S3BaseEndpoint:       "http://endpoint",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
