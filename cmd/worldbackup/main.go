// Command worldbackup saves, restores, and clears the objects, terrain, and
// attributes of a world.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/worldbackup/backup"
	"github.com/tailored-agentic-units/worldbackup/core/category"
	"github.com/tailored-agentic-units/worldbackup/world"

	// Register the in-process world driver.
	_ "github.com/tailored-agentic-units/worldbackup/world/memworld"
)

const (
	Version           = "0.1.0"
	appName           = "worldbackup"
	defaultConfigFile = "configuration.json"
)

var typeChoices = []string{"all", "terrain", "objects", "attributes"}

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	binary      bool
	config      string
	kind        string
	verbose     bool
	load        bool
	delete      bool
	metricsFile string
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   appName + " [file]",
		Short: "World backup utility",
		Long: `Saves the objects, terrain, and attributes of a world to line-delimited
JSON files, loads them back, or deletes them from the world.

With --type all, the file argument is a base name: each category is
written to or read from <file>_attributes, <file>_objects, and
<file>_terrain.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) > 0 {
				file = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd.ErrOrStderr(), file, &opts, cmd.Flags().Changed("config"))
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.binary, "binary", "b", false, "Write and read files as raw UTF-8 bytes")
	flags.StringVarP(&opts.config, "config", "c", defaultConfigFile, "Configuration file (JSON or YAML)")
	flags.StringVarP(&opts.kind, "type", "t", "all", "Category to act on: "+strings.Join(typeChoices, "|"))
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&opts.load, "load", "l", false, "Load the file into the world")
	flags.BoolVarP(&opts.delete, "delete", "d", false, "Delete --type from the world")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write prometheus text metrics to this file after the run")
	cmd.MarkFlagsMutuallyExclusive("load", "delete")

	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(typeChoices, cobra.ShellCompDirectiveNoFileComp))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func run(ctx context.Context, stderr io.Writer, file string, opts *options, explicitConfig bool) (err error) {
	action := category.ActionSave
	switch {
	case opts.load:
		action = category.ActionLoad
	case opts.delete:
		action = category.ActionDelete
	}

	if !slices.Contains(typeChoices, strings.ToLower(opts.kind)) {
		return fmt.Errorf("invalid --type %q: want one of %s", opts.kind, strings.Join(typeChoices, ", "))
	}
	token, err := category.ParseToken(opts.kind)
	if err != nil {
		return err
	}
	if file == "" && action != category.ActionDelete {
		return fmt.Errorf("a file is required to %s", strings.ToLower(string(action)))
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(opts.config, explicitConfig)
	if err != nil {
		return err
	}
	if opts.binary {
		cfg.Store.Binary = true
	}
	if opts.metricsFile != "" {
		cfg.MetricsFile = opts.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	observer, metrics, err := backup.NewObserver(cfg)
	if err != nil {
		return err
	}

	conn, err := world.Open(ctx, &cfg.World)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close world: %w", cerr))
		}
	}()

	rt, err := backup.New(conn, backup.Args{File: file, Mode: cfg.Store.Mode()}, backup.WithObserver(observer))
	if err != nil {
		return err
	}

	err = rt.Run(ctx, action, token)

	if metrics != nil {
		if merr := metrics.WriteToTextfile(cfg.MetricsFile); merr != nil {
			err = errors.Join(err, merr)
		}
	}
	return err
}

// loadConfig reads the config file. A missing file is only an error when
// the path was given explicitly; otherwise defaults plus environment apply.
func loadConfig(path string, explicit bool) (*backup.Config, error) {
	cfg, err := backup.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	defaults := backup.DefaultConfig()
	if err := backup.ApplyEnv(&defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}
