package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config for TOML files. Durations are strings such as
// "10s"; zero values leave the defaults in place.
type fileConfig struct {
	Port            string `toml:"port"`
	BaseURL         string `toml:"base_url"`
	SearchPath      string `toml:"search_path"`
	ProviderLabel   string `toml:"provider_label"`
	UserAgent       string `toml:"user_agent"`
	FetchTimeout    string `toml:"fetch_timeout"`
	ResolveTimeout  string `toml:"resolve_timeout"`
	ParallelQueries int    `toml:"parallel_queries"`
	CinemetaURL     string `toml:"cinemeta_url"`
	OMDbAPIKey      string `toml:"omdb_api_key"`

	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`

	History struct {
		Backend     string   `toml:"backend"`
		PostgresURL string   `toml:"postgres_url"`
		ScyllaHosts []string `toml:"scylla_hosts"`
		ScyllaPort  int      `toml:"scylla_port"`
		Keyspace    string   `toml:"keyspace"`
		Consistency string   `toml:"consistency"`
		Replication int      `toml:"replication"`
	} `toml:"history"`

	Admin struct {
		Secret       string `toml:"secret"`
		PasswordHash string `toml:"password_hash"`
	} `toml:"admin"`
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.Port, fc.Port)
	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.SearchPath, fc.SearchPath)
	setString(&cfg.ProviderLabel, fc.ProviderLabel)
	setString(&cfg.UserAgent, fc.UserAgent)
	if fc.FetchTimeout != "" {
		cfg.FetchTimeout = parseDuration(fc.FetchTimeout, cfg.FetchTimeout)
	}
	if fc.ResolveTimeout != "" {
		cfg.ResolveTimeout = parseDuration(fc.ResolveTimeout, cfg.ResolveTimeout)
	}
	if fc.ParallelQueries > 0 {
		cfg.ParallelQueries = fc.ParallelQueries
	}
	setString(&cfg.CinemetaURL, fc.CinemetaURL)
	setString(&cfg.OMDbAPIKey, fc.OMDbAPIKey)

	setString(&cfg.Log.Level, fc.Log.Level)
	setString(&cfg.Log.Format, fc.Log.Format)

	setString(&cfg.History.Backend, fc.History.Backend)
	setString(&cfg.History.PostgresURL, fc.History.PostgresURL)
	if len(fc.History.ScyllaHosts) > 0 {
		cfg.History.ScyllaHosts = fc.History.ScyllaHosts
	}
	if fc.History.ScyllaPort > 0 {
		cfg.History.ScyllaPort = fc.History.ScyllaPort
	}
	setString(&cfg.History.Keyspace, fc.History.Keyspace)
	setString(&cfg.History.Consistency, fc.History.Consistency)
	if fc.History.Replication > 0 {
		cfg.History.Replication = fc.History.Replication
	}

	setString(&cfg.Admin.Secret, fc.Admin.Secret)
	setString(&cfg.Admin.PasswordHash, fc.Admin.PasswordHash)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
