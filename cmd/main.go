package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"workspace-migrator/internal/di"
	"workspace-migrator/internal/migration/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wsmigrate",
		Short:         "Migrate workspace databases into the relational target store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(runCmd(), batchCmd(), linkCmd(), validateCmd(), serveCmd())
	return cmd
}

// withContainer loads configuration, builds the container and tears it down
// after fn returns.
func withContainer(ctx context.Context, fn func(ctx context.Context, c *di.Container) error) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			c.Logger.Errorf("container close: %v", err)
		}
	}()

	return fn(ctx, c)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job>",
		Short: "Run a single migration job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *di.Container) error {
				job, err := c.Registry.Get(args[0])
				if err != nil {
					return err
				}
				report, err := c.Pipeline.Run(ctx, job)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d/%d migrated, %d failed, %d warnings\n",
					job.Name, report.Stats.Migrated, report.Stats.Total,
					report.Stats.Failed, len(report.Stats.Warnings))
				return nil
			})
		},
	}
}

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Run all migration jobs in dependency order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *di.Container) error {
				report := c.Orchestrator.RunAll(ctx)
				fmt.Printf("batch %s: %d succeeded, %d failed\n",
					report.RunID, report.Summary.Succeeded, report.Summary.Failed)
				if report.HasFailures() {
					return fmt.Errorf("%d job(s) failed", report.Summary.Failed)
				}
				return nil
			})
		},
	}
}

func linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Tag migrated records with owners and declare relations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *di.Container) error {
				report, err := c.Linker.Run(ctx)
				if err != nil {
					return err
				}
				c.Reporter.PersistLink(ctx, *report)
				fmt.Printf("link %s: %d records tagged, %d relations declared\n",
					report.RunID, report.TotalLinked(), report.RelationsDeclared)
				return nil
			})
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <job>",
		Short: "Report target-side counts and sums for a job's collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *di.Container) error {
				job, err := c.Registry.Get(args[0])
				if err != nil {
					return err
				}
				agg, err := c.Target.Aggregate(ctx, job.Collection, job.SumFields)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d items\n", job.Collection, agg.Count)
				for _, f := range job.SumFields {
					fmt.Printf("  sum(%s) = %.2f\n", f, agg.Sums[f])
				}
				return nil
			})
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve migration reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *di.Container) error {
				app := c.ReportServer().App()
				addr := fmt.Sprintf("%s:%s", c.Config.Serve.Host, c.Config.Serve.Port)
				c.Logger.Infof("report server listening on %s", addr)

				serverErr := make(chan error, 1)
				go func() {
					serverErr <- app.Listen(addr)
				}()

				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

				select {
				case err := <-serverErr:
					return err
				case sig := <-quit:
					c.Logger.Infof("received %v, shutting down", sig)
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					return app.ShutdownWithContext(shutdownCtx)
				}
			})
		},
	}
}
