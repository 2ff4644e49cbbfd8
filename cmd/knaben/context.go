package main

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"knaben/internal/config"
	"knaben/internal/magnet"
	"knaben/internal/metadata"
	"knaben/internal/search"
	"knaben/internal/streams"
	"knaben/pkg/logger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    os.Stderr,
	})
}

// newAggregator wires the live collaborators: Cinemeta (plus OMDb when a
// key is set), the search site and the magnet parser.
func newAggregator(cfg config.Config, log zerolog.Logger) *streams.Aggregator {
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}

	lookups := metadata.Chain{metadata.NewCinemeta(cfg.CinemetaURL, httpClient, log)}
	if cfg.OMDbAPIKey != "" {
		lookups = append(lookups, metadata.NewOMDb(cfg.OMDbAPIKey, httpClient, log))
	}

	return streams.NewAggregator(
		lookups,
		search.NewClient(cfg),
		magnet.Resolver{},
		streams.Options{ProviderLabel: cfg.ProviderLabel, Parallel: cfg.ParallelQueries},
		log,
	)
}
