package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rpattn/dddkit/internal/config"
	"github.com/rpattn/dddkit/internal/db"
	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/translate/gormscope"
	"github.com/rpattn/dddkit/pkg/translate/pgsql"
)

type parseFunc func() (*specification.Criteria, error)

func newValidateCmd(a *app, parse parseFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a filter against the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parse()
			if err != nil {
				return err
			}
			filters := 0
			_ = c.Walk(func(specification.Filter, int) error {
				filters++
				return nil
			})
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d filter(s) on %s\n%s\n", filters, a.schema.Name(), c)
			return nil
		},
	}
}

func newTranslateCmd(a *app, parse parseFunc) *cobra.Command {
	var target, table string
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Print the SQL condition for a filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				target = a.cfg.Target
			}
			if table == "" {
				table = a.cfg.Table
			}
			c, err := parse()
			if err != nil {
				return err
			}

			switch target {
			case config.TargetSQL:
				cond, err := pgsql.Translate(c, pgsql.Options{Table: table, Logger: a.log.Zap()})
				if err != nil {
					return err
				}
				writeCondition(cmd.OutOrStdout(), cond)
				return nil
			case config.TargetGorm:
				sql, err := gormSQL(c, table, a)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sql)
				return nil
			default:
				return fmt.Errorf("unknown translate target %q", target)
			}
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Translation target: sql or gorm (default from config)")
	cmd.Flags().StringVar(&table, "table", "", "Table qualifying each column (default from config)")
	return cmd
}

func newCountCmd(a *app, parse parseFunc) *cobra.Command {
	var (
		table   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the rows of a table matching a filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				table = a.cfg.Table
			}
			if table == "" {
				return fmt.Errorf("a table is required: pass --table or set translate.table")
			}
			c, err := parse()
			if err != nil {
				return err
			}
			cond, err := pgsql.Translate(c, pgsql.Options{Table: table, Logger: a.log.Zap()})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			conn, err := db.NewConnection(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := conn.Count(ctx, table, cond)
			if err != nil {
				return err
			}
			a.log.Info("counted rows", "table", table, "rows", n)
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Table to count (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Query timeout")
	return cmd
}

func writeCondition(w io.Writer, cond pgsql.Condition) {
	if cond.Clause == "" {
		fmt.Fprintln(w, "-- no condition")
		return
	}
	fmt.Fprintln(w, cond.Clause)

	names := make([]string, 0, len(cond.Args))
	for name := range cond.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "@%s = %v\n", name, cond.Args[name])
	}
}

// gormSQL renders the statement gorm would run, without connecting.
func gormSQL(c *specification.Criteria, table string, a *app) (string, error) {
	scope, err := gormscope.Scope(c, gormscope.Options{Table: table, Logger: a.log.Zap()})
	if err != nil {
		return "", err
	}
	gdb, err := gorm.Open(postgres.New(postgres.Config{DSN: a.cfg.Database.DSN()}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		return "", fmt.Errorf("failed to open gorm dry run: %w", err)
	}
	from := table
	if from == "" {
		from = a.schema.Name()
	}
	return gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []map[string]any
		return tx.Table(from).Scopes(scope).Find(&rows)
	}), nil
}
