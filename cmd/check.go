package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"emgcheck/internal/config"
	"emgcheck/internal/explorer"
	"emgcheck/internal/report"
	"emgcheck/internal/store"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"go.uber.org/multierr"
)

var (
	ConfigFile string
	Format     string
)

var checkCommand = &cobra.Command{
	Use:   "check [preset...]",
	Short: "explore presets and report protocol violations",
	Long:  `Explores every nondeterministic path of the given presets (all of them when none is named) and exits 1 if any report differs from its expectations.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkExec(cmd.Flags(), args); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "check err: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	flags := checkCommand.Flags()
	flags.StringVar(&ConfigFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&Format, "format", "text", "output format: text or yaml")
	flags.String("mode", "", "exploration mode: exhaustive or random")
	flags.String("strategy", "", "worklist strategy: dfs or bfs")
	flags.Int("max-depth", 0, "decisions per path before it is truncated")
	flags.Int("max-paths", 0, "paths per scenario in exhaustive mode")
	flags.Int("samples", 0, "paths per scenario in random mode")
	flags.Int64("seed", 0, "seed of the first random path")
	flags.Int("workers", 0, "scenarios explored concurrently")
	flags.String("db", "", "store reports in this database")
	flags.String("log-level", "", "logrus level")
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(flags *flag.FlagSet) (config.Root, error) {
	c, err := config.ReadConfig(ConfigFile)
	if err != nil {
		return c, err
	}
	if flags.Changed("mode") {
		c.Explorer.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("strategy") {
		c.Explorer.Strategy, _ = flags.GetString("strategy")
	}
	if flags.Changed("max-depth") {
		c.Explorer.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("max-paths") {
		c.Explorer.MaxPaths, _ = flags.GetInt("max-paths")
	}
	if flags.Changed("samples") {
		c.Explorer.Samples, _ = flags.GetInt("samples")
	}
	if flags.Changed("seed") {
		c.Explorer.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("workers") {
		c.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("db") {
		c.Store.Path, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	return c, c.Validate()
}

func setupLog(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	return nil
}

func checkExec(flags *flag.FlagSet, names []string) error {
	if Format != "text" && Format != "yaml" {
		return errors.Errorf("unknown format %q", Format)
	}
	c, err := loadConfig(flags)
	if err != nil {
		return errors.Wrap(err, "loadConfig")
	}
	if err := setupLog(c.LogLevel); err != nil {
		return err
	}
	catalog, err := c.Catalog()
	if err != nil {
		return errors.Wrap(err, "Catalog")
	}
	templates, err := catalog.Select(names...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reports, err := explorer.CheckAll(ctx, templates, c.Explorer, c.Workers)
	if err != nil {
		return errors.Wrap(err, "CheckAll")
	}
	if err := printReports(reports); err != nil {
		return err
	}
	if c.Store.Path != "" {
		if err := storeReports(c.Store.Path, reports); err != nil {
			return err
		}
	}

	var failed error
	for _, r := range reports {
		failed = multierr.Append(failed, r.Err())
	}
	return failed
}

func printReports(reports []*report.Report) error {
	for _, r := range reports {
		if Format == "yaml" {
			out, err := r.YAML()
			if err != nil {
				return errors.Wrapf(err, "YAML %s", r.Scenario)
			}
			fmt.Printf("---\n%s", out)
			continue
		}
		fmt.Print(r.String())
	}
	return nil
}

func storeReports(path string, reports []*report.Report) (err error) {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()
	return s.PutAll(reports)
}
