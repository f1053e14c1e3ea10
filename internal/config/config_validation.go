// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Fallbacks applied after all sources are merged. Flags and env take
// precedence; these only fill fields no source provided.
const (
	defaultHTTPAddress     = "0.0.0.0:8080"
	defaultRequestTimeout  = 30 * time.Second
	defaultTokenTTL        = 24 * time.Hour
	defaultDefaultPageSize = 20
	defaultMaxPageSize     = 100
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.App.TokenTTL == 0 {
		cfg.App.TokenTTL = defaultTokenTTL
	}
	if cfg.App.DefaultPageSize == 0 {
		cfg.App.DefaultPageSize = defaultDefaultPageSize
	}
	if cfg.App.MaxPageSize == 0 {
		cfg.App.MaxPageSize = defaultMaxPageSize
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.DefaultPageSize < 1 || cfg.App.MaxPageSize < cfg.App.DefaultPageSize {
		return ErrInvalidAppConfigs
	}

	return nil
}
