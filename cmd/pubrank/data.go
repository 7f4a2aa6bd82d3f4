// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/dataset"
	"github.com/pdiddy/pubrank/internal/httputil"
	"github.com/pdiddy/pubrank/internal/store"
	"github.com/pdiddy/pubrank/pkg/types"
)

// errKeyMismatch is returned when a stored dataset was ingested with a
// different --key than the command needs.
var errKeyMismatch = errors.New("dataset key mismatch")

func newLoader(cfg types.Config) *dataset.Loader {
	return dataset.NewLoader(httputil.NewClient(cfg.HTTP, logger), logger)
}

// defaultLocation returns the configured dataset location for key and the
// config key it came from.
func defaultLocation(cfg types.Config, key types.KeyField) (string, string) {
	if key == types.KeyAuthor {
		return cfg.Data.Authors, "data.authors"
	}
	return cfg.Data.Universities, "data.universities"
}

// loadDataset resolves --dataset (a stored copy) or --data (a file or URL,
// defaulting to the configured location for key).
func loadDataset(ctx context.Context, cmd *cobra.Command, cfg types.Config, key types.KeyField) (*dataset.Dataset, error) {
	if name, _ := cmd.Flags().GetString("dataset"); name != "" {
		st, err := store.Open(cfg.Store, logger)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		ds, err := st.Dataset(ctx, name)
		if err != nil {
			return nil, err
		}
		if ds.Source.Key != key {
			return nil, fmt.Errorf("%w: stored dataset %s is keyed by %s, not %s",
				errKeyMismatch, name, ds.Source.Key, key)
		}
		return ds, nil
	}

	location, _ := cmd.Flags().GetString("data")
	if location == "" {
		var setting string
		location, setting = defaultLocation(cfg, key)
		if location == "" {
			return nil, fmt.Errorf("no dataset: pass --data or set %s in the config", setting)
		}
	}
	return newLoader(cfg).Load(ctx, dataset.Source{Location: location, Key: key})
}
