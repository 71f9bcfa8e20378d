package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tobiaswagner/gruppentool/internal/churchtools"
	"github.com/tobiaswagner/gruppentool/internal/config"
	"github.com/tobiaswagner/gruppentool/internal/directory"
	"github.com/tobiaswagner/gruppentool/internal/groups"
	"github.com/tobiaswagner/gruppentool/internal/progress"
)

// loadConfig reads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run `gruppentool init`)", err)
	}
	return cfg, nil
}

// newClient builds the ChurchTools client and, for username/password
// setups, performs the development login.
func newClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*churchtools.Client, error) {
	client := churchtools.New(churchtools.Options{
		BaseURL:  cfg.APIBase(),
		Token:    cfg.Token,
		Timeout:  time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		MaxPages: cfg.MaxPages,
		Logger:   logger,
	})
	if cfg.Token == "" {
		if err := client.Login(ctx, cfg.Username, cfg.Password); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// loadDirectory connects and preloads the full reference data, with a
// progress bar for interactive commands.
func loadDirectory(ctx context.Context, cfg *config.Config, logger zerolog.Logger, rep progress.Reporter) (*directory.Cache, *churchtools.Client, error) {
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	dir, err := directory.Load(ctx, client, logger, rep)
	if err != nil {
		return nil, nil, err
	}
	return dir, client, nil
}

// workflowSettings maps the config onto the creation workflow.
func workflowSettings(cfg *config.Config) groups.Settings {
	return groups.Settings{
		TagName:       cfg.TagName,
		ParentGroupID: cfg.Group.ParentID,
		GroupStatusID: cfg.Group.StatusID,
		Visibility:    string(cfg.Group.Visibility),
		InviteMail:    cfg.Group.InviteMail,
		WebBaseURL:    cfg.BaseURL,
	}
}
