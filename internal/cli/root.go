// Package cli implements the vecbridge command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hupe1980/vecbridge"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string // "" keeps the configured level
	Format     string // "json" | "text"

	// extra is appended to the options passed to vecbridge.Start.
	extra []vecbridge.Option
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vecbridge CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vecbridge",
		Short: "vecbridge - vector collections from the command line",
		Long: `vecbridge starts an instance from the given configuration, runs one
operation against it and shuts it down again. Use the local, minio or s3
storage backend to keep collections between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.LogLevel != "" {
				if _, err := parseLevel(opts.LogLevel); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newCreateCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newInfoCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(newUpsertCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newHealthCommand(opts))

	return cmd
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// withClient starts an instance, runs fn and closes the instance.
func withClient(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, c *vecbridge.Client) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var startOpts []vecbridge.Option
	if opts.LogLevel != "" {
		lvl, err := parseLevel(opts.LogLevel)
		if err != nil {
			return err
		}
		startOpts = append(startOpts, vecbridge.WithLogLevel(lvl))
	}
	startOpts = append(startOpts, opts.extra...)

	client, err := vecbridge.Start(ctx, opts.ConfigPath, startOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("shutdown: %w", cerr)
		}
	}()

	return fn(ctx, client)
}

func output(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
