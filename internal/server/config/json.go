package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/photodrop/photodrop/internal/flagx"
	"github.com/photodrop/photodrop/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	ListenAddr           string         `json:"listen_addr"`
	PasvPortStart        int            `json:"pasv_port_start"`
	PasvPortEnd          int            `json:"pasv_port_end"`
	PublicHost           string         `json:"public_host"`
	IdleTimeout          timex.Duration `json:"idle_timeout"`
	TempRoot             string         `json:"temp_root"`
	MaxConcurrentIngests int            `json:"max_concurrent_ingests"`
	DatabaseDSN          string         `json:"database_dsn"`
	S3RootUser           string         `json:"s3_root_user"`
	S3RootPassword       string         `json:"s3_root_password"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The file must be complete: every field is copied into the Config, so a
// field omitted from the JSON resets the corresponding setting to its zero
// value rather than keeping the default.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ListenAddr = c.ListenAddr
	config.PasvPortStart = c.PasvPortStart
	config.PasvPortEnd = c.PasvPortEnd
	config.PublicHost = c.PublicHost
	config.IdleTimeout = time.Duration(c.IdleTimeout.Duration)
	config.TempRoot = c.TempRoot
	config.MaxConcurrentIngests = c.MaxConcurrentIngests
	config.DatabaseDSN = c.DatabaseDSN
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
