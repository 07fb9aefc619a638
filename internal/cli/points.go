package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/vecbridge"
	"github.com/hupe1980/vecbridge/engine"
	"github.com/spf13/cobra"
)

// UpsertOptions holds flags for the upsert command.
type UpsertOptions struct {
	*RootOptions
	File string
}

func newUpsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "upsert <collection>",
		Short: "Insert or replace points from a JSON file",
		Long: `Insert or replace points from a JSON array of points.

Example:
  vecbridge upsert docs --file points.json

points.json:
  [{"id": 1, "vector": {"": [0.1, 0.2]}, "payload": {"color": "red"}}]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := readPoints(cmd, opts.File)
			if err != nil {
				return err
			}

			return withClient(cmd, opts.RootOptions, func(ctx context.Context, c *vecbridge.Client) error {
				res, err := c.UpsertPoints(ctx, args[0], points)
				if err != nil {
					return err
				}
				return output(cmd, opts.RootOptions).Success(res,
					fmt.Sprintf("upserted %d points (operation %d)", len(points), res.OperationID))
			})
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "-", "JSON file with points, - for stdin")

	return cmd
}

func readPoints(cmd *cobra.Command, path string) ([]engine.PointStruct, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var points []engine.PointStruct
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, fmt.Errorf("invalid points JSON: %w", err)
	}
	return points, nil
}

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Vector      string
	Using       string
	Limit       int
	WithPayload bool
}

func newSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "search <collection>",
		Short:   "Search the nearest points",
		Example: `  vecbridge search docs --vector 0.1,0.2 --limit 5 --with-payload`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, err := parseVector(opts.Vector)
			if err != nil {
				return err
			}
			req := engine.SearchRequest{
				Vector:      vec,
				Using:       opts.Using,
				Limit:       opts.Limit,
				WithPayload: opts.WithPayload,
			}

			return withClient(cmd, opts.RootOptions, func(ctx context.Context, c *vecbridge.Client) error {
				hits, err := c.SearchPoints(ctx, args[0], req)
				if err != nil {
					return err
				}
				lines := make([]string, 0, len(hits))
				for _, h := range hits {
					lines = append(lines, fmt.Sprintf("%s\t%g", h.ID, h.Score))
				}
				if hits == nil {
					hits = []engine.ScoredPoint{}
				}
				return output(cmd, opts.RootOptions).Success(hits, strings.Join(lines, "\n"))
			})
		},
	}

	cmd.Flags().StringVar(&opts.Vector, "vector", "", "query vector as comma separated floats (required)")
	cmd.Flags().StringVar(&opts.Using, "using", "", "vector name")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "number of results")
	cmd.Flags().BoolVar(&opts.WithPayload, "with-payload", false, "include payloads")
	_ = cmd.MarkFlagRequired("vector")

	return cmd
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", p, err)
		}
		out = append(out, float32(f))
	}
	return out, nil
}
