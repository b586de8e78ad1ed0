package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/specif-jira/internal/cache"
	"github.com/danielolaszy/specif-jira/internal/config"
	"github.com/danielolaszy/specif-jira/internal/jira"
	"github.com/danielolaszy/specif-jira/internal/logging"
	"github.com/danielolaszy/specif-jira/internal/metadata"
	"github.com/danielolaszy/specif-jira/internal/provider"
)

// app bundles the adapter components one command invocation works with.
type app struct {
	reader *provider.Reader
	writer *provider.Writer
	output string
}

// newApp loads configuration and wires client, cache, catalog, reader and
// writer. The project cache is populated here.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	if err := checkFormat(output); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	logging.SetupLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	if err := config.ValidateJiraConfig(cfg); err != nil {
		return nil, err
	}

	client, err := jira.NewClient(cfg.Jira)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jira client: %w", err)
	}

	meta, err := metadata.LoadFile(cfg.Metadata.File)
	if err != nil {
		return nil, err
	}

	reader := provider.NewReader(ctx, client, cache.New(client), meta)
	writer := provider.NewWriter(client, reader, reader, meta)

	return &app{
		reader: reader,
		writer: writer,
		output: output,
	}, nil
}
