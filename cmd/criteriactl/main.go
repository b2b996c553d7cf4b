// Command criteriactl validates AIP-160 filters against an entity schema and
// translates them into PostgreSQL conditions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpattn/dddkit/internal/config"
	"github.com/rpattn/dddkit/internal/logger"
	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/entity"
	"github.com/rpattn/dddkit/pkg/translate/aipfilter"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Config
	log    *logger.Logger
	schema *entity.Schema
}

type rootFlags struct {
	configPath string
	schemaPath string
	filter     string
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     app
	)

	root := &cobra.Command{
		Use:           "criteriactl",
		Short:         "Validate and translate entity filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := setup(flags)
			if err != nil {
				return err
			}
			a = *loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", ".", "Directory holding config.yaml")
	root.PersistentFlags().StringVar(&flags.schemaPath, "schema", "", "Entity schema document (yaml or json)")
	root.PersistentFlags().StringVar(&flags.filter, "filter", "", "AIP-160 filter expression")
	_ = root.MarkPersistentFlagRequired("schema")

	parse := func() (*specification.Criteria, error) {
		return a.parse(flags.filter)
	}
	root.AddCommand(
		newValidateCmd(&a, parse),
		newTranslateCmd(&a, parse),
		newCountCmd(&a, parse),
	)
	return root
}

func setup(flags rootFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		log.Debug("loaded config", "file", cfg.File)
	} else {
		log.Debug("no config.yaml found, using defaults and env vars")
	}

	schema, err := entity.LoadSchema(flags.schemaPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.Columns) > 0 {
		schema, err = schema.WithColumns(cfg.Columns)
		if err != nil {
			return nil, fmt.Errorf("failed to apply column mapping: %w", err)
		}
	}
	log.Debug("loaded schema", "entity", schema.Name(), "fields", len(schema.Fields()))

	return &app{cfg: cfg, log: log, schema: schema}, nil
}

func (a *app) parse(filter string) (*specification.Criteria, error) {
	c, err := aipfilter.Parse(a.schema, filter)
	if err != nil {
		a.log.Warn("filter rejected", "entity", a.schema.Name(), "filter", filter, "error", err)
		return nil, err
	}
	return c, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
