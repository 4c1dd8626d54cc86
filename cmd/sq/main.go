// Command sq runs one SQL query against a CSV, Parquet, HTTP(S), or
// command-output source and prints the resulting table.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	sq "github.com/sq-lang/sq"
	"github.com/sq-lang/sq/internal/render"
)

const welcomeQuery = `SELECT 'welcome', 'to', 'sq'`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "sq [sql]",
		Short: "sq queries CSV, Parquet, HTTP, and command-output sources with SQL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql := welcomeQuery
			if len(args) == 1 {
				sql = args[0]
			}

			log := zap.NewNop()
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				log = l
			}
			defer log.Sync() //nolint:errcheck

			engine := sq.NewEngine(sq.WithLogger(log))
			ds, err := engine.Execute(context.Background(), sql)
			if err != nil {
				return err
			}

			render.Table(cmd.OutOrStdout(), ds, render.NewOptionsFromEnv())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stage transitions to stderr")
	return cmd
}
