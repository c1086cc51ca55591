// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.DB.MaxOpenConns <= 0 || cfg.Storage.DB.MaxIdleConns < 0 {
		return ErrInvalidStorageConfigs
	}

	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return ErrInvalidAppConfigs
	}

	if cfg.App.FallbackCategory == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Parser.BaseURL == "" || cfg.Parser.RequestTimeout == 0 {
		return ErrInvalidParserConfigs
	}

	return nil
}

// Location resolves the configured civil timezone. validate guarantees the
// name resolves, so the error from LoadLocation is discarded here.
func (cfg *StructuredConfig) Location() *time.Location {
	loc, _ := time.LoadLocation(cfg.App.Timezone)
	return loc
}
