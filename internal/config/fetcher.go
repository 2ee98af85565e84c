package config

import (
	"fmt"

	"github.com/leapstack-labs/id-translation/fetching"
	"github.com/leapstack-labs/id-translation/mapping"
)

// FetcherConfig is the decoded form of a [fetching] configuration section.
// Concrete backend construction (the original's "clazz" + arbitrary
// reflection-instantiated kwargs) is out of scope: the pack has no
// reflection-based object factory, and concrete fetcher backends are
// supplied by the caller as a fetching.Implementation. FetcherConfig only
// covers the AbstractFetcher/MultiFetcher-level knobs layered on top of
// whatever Implementation the caller brings. Grounded on
// toml/factories/_fetcher.default_fetcher_factory and
// toml/factories/_initialize.initialize, adapted to drop class-name
// reflection.
type FetcherConfig struct {
	AllowFetchAll    bool           `mapstructure:"allow_fetch_all"`
	OnSourceConflict string         `mapstructure:"on_source_conflict"`
	MaxWorkers       int            `mapstructure:"max_workers"`
	Mapper           *MapperConfig  `mapstructure:"mapper"`
}

// DecodeFetcherConfig decodes raw (the "fetching" table of a larger
// document) into a FetcherConfig.
func DecodeFetcherConfig(raw map[string]any) (*FetcherConfig, error) {
	var cfg FetcherConfig
	if err := decodeStrict(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode fetcher config: %w", err)
	}
	return &cfg, nil
}

// BuildMapper builds the placeholder-name mapper an AbstractFetcher should
// use, or nil (identity matching) if no [fetching.mapper] section was
// given.
func (c *FetcherConfig) BuildMapper() (*mapping.Mapper[string, string], error) {
	if c == nil || c.Mapper == nil {
		return nil, nil
	}
	return c.Mapper.Build(true)
}

// OnSourceConflictPolicy converts the decoded string to the
// fetching.OnSourceConflict the caller should configure a MultiFetcher
// with, defaulting to "raise" when unset.
func (c *FetcherConfig) OnSourceConflictPolicy() fetching.OnSourceConflict {
	if c == nil || c.OnSourceConflict == "" {
		return fetching.OnSourceConflictRaise
	}
	return fetching.OnSourceConflict(c.OnSourceConflict)
}
