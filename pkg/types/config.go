// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds settings for loading datasets over HTTP.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on 429/503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// DataConfig names the default dataset locations. Each value is a local
// path or an http(s) URL.
type DataConfig struct {
	Universities string `json:"universities" yaml:"universities" mapstructure:"universities"`
	Authors      string `json:"authors" yaml:"authors" mapstructure:"authors"`
}

// RankingConfig holds display settings for ranking tables.
type RankingConfig struct {
	// Limit caps unsearched tables to the top N rows (default 100, 0 = all).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// JournalsConfig holds settings for journal summaries.
type JournalsConfig struct {
	// Top is the number of leading universities and authors per journal (default 3).
	Top int `json:"top" yaml:"top" mapstructure:"top"`
}

// StoreConfig holds settings for the SQLite dataset cache.
type StoreConfig struct {
	// Dir is the directory containing pubrank.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// Config groups all pubrank settings.
type Config struct {
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Data     DataConfig     `json:"data" yaml:"data" mapstructure:"data"`
	Ranking  RankingConfig  `json:"ranking" yaml:"ranking" mapstructure:"ranking"`
	Journals JournalsConfig `json:"journals" yaml:"journals" mapstructure:"journals"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
