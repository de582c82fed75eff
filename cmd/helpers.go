package cmd

import (
	"fmt"

	"github.com/cogfs/cogfs/internal/app"
	"github.com/cogfs/cogfs/internal/config"
)

// loadApp loads and validates configuration, then constructs an *app.App
// from it.
func loadApp() (*app.App, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w\nRun `cogfs config init` to create a config file", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}
