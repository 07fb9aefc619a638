package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/vecbridge"
	"github.com/hupe1980/vecbridge/distance"
	"github.com/hupe1980/vecbridge/engine"
	"github.com/spf13/cobra"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Size     int
	Distance string
	Vector   string
}

func newCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <collection>",
		Short: "Create a collection",
		Example: `  vecbridge create docs --size 384 --distance cosine
  vecbridge create images --size 512 --distance dot --vector clip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := distance.ParseMetric(opts.Distance)
			if err != nil {
				return err
			}
			cfg := engine.CreateCollection{Vectors: engine.VectorsConfig{
				opts.Vector: {Size: opts.Size, Distance: metric},
			}}

			return withClient(cmd, opts.RootOptions, func(ctx context.Context, c *vecbridge.Client) error {
				created, err := c.CreateCollection(ctx, args[0], cfg)
				if err != nil {
					return err
				}
				return output(cmd, opts.RootOptions).Success(
					map[string]bool{"created": created},
					fmt.Sprintf("created collection %s", args[0]),
				)
			})
		},
	}

	cmd.Flags().IntVar(&opts.Size, "size", 0, "vector dimension (required)")
	cmd.Flags().StringVar(&opts.Distance, "distance", string(distance.MetricCosine), "distance metric (cosine|euclid|dot|manhattan)")
	cmd.Flags().StringVar(&opts.Vector, "vector", "", "vector name (default unnamed)")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func newListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *vecbridge.Client) error {
				names, err := c.ListCollections(ctx)
				if err != nil {
					return err
				}
				if names == nil {
					names = []string{}
				}
				return output(cmd, opts).Success(names, strings.Join(names, "\n"))
			})
		},
	}
}

func newInfoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <collection>",
		Short: "Describe a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *vecbridge.Client) error {
				info, err := c.GetCollection(ctx, args[0])
				if err != nil {
					return err
				}
				if info == nil {
					return fmt.Errorf("collection %q: %w", args[0], engine.ErrNotFound)
				}
				return output(cmd, opts).Success(info, fmt.Sprintf("%s: %s, %d points, %d vectors",
					info.Name, info.Status, info.PointsCount, info.VectorsCount))
			})
		},
	}
}

func newDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection>",
		Short: "Delete a collection and its aliases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *vecbridge.Client) error {
				deleted, err := c.DeleteCollection(ctx, args[0])
				if err != nil {
					return err
				}
				text := fmt.Sprintf("deleted collection %s", args[0])
				if !deleted {
					text = fmt.Sprintf("collection %s does not exist", args[0])
				}
				return output(cmd, opts).Success(map[string]bool{"deleted": deleted}, text)
			})
		},
	}
}

func newHealthCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Start an instance and run a health check round trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, opts, func(ctx context.Context, c *vecbridge.Client) error {
				if err := c.HealthCheck(ctx); err != nil {
					return err
				}
				return output(cmd, opts).Success(map[string]string{"state": c.State().String()}, "ok")
			})
		},
	}
}
