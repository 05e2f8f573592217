package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"shaftmatch/internal/application"
	"shaftmatch/internal/config"
	"shaftmatch/internal/domain/entity"
	service "shaftmatch/internal/domain/service/shaft"
	"shaftmatch/internal/domain/value"
	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/logx"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "matchshaft",
		Short:         "Find golf shafts similar to a reference shaft",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}

			ctx, traceID := contextx.EnsureTraceID(cmd.Context())
			log := logx.NewLogger(cmd.ErrOrStderr(), level, false).
				With(logx.Stringer(logx.FieldTraceID, traceID))
			cmd.SetContext(contextx.WithLogger(ctx, log))

			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log catalog loading and matching")

	root.AddCommand(
		newListCmd(),
		newMatchCmd(),
		newCompareCmd(),
		newImportCmd(),
	)

	return root
}

func loadService(ctx context.Context) (*service.ShaftService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	catalog, err := application.LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("application.LoadCatalog: %w", err)
	}

	return service.NewShaftService(catalog), nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range svc.List(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), s.Label())
			}

			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	var tiers []string

	cmd := &cobra.Command{
		Use:   "match <model>",
		Short: "Print catalog shafts grouped by similarity to <model>",
		Example: `  matchshaft match "Ventus Blue 6"
  matchshaft match "Ventus Blue 6" --tier high --tier medium`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := make([]value.Tier, 0, len(tiers))

			for _, slug := range tiers {
				tier, err := value.ParseTier(slug)
				if err != nil {
					return fmt.Errorf("--tier: %w", err)
				}

				filter = append(filter, tier)
			}

			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}

			tiered, err := svc.Matches(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("shaftService.Matches: %w", err)
			}

			printMatches(cmd.OutOrStdout(), tiered, filter)

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tiers, "tier", nil, "only print these tiers (high, medium, low, not_similar)")

	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <model>...",
		Short: "Print the specs of several shafts side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}

			shafts, err := svc.Compare(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("shaftService.Compare: %w", err)
			}

			for _, s := range shafts {
				fmt.Fprintln(cmd.OutOrStdout(), s.Summary())
				fmt.Fprintf(cmd.OutOrStdout(), "  EI: %s\n", profile(s.EIProfile))
			}

			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the PostgreSQL catalog with a JSON catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}

			catalog, err := application.ImportCatalog(cmd.Context(), cfg, args[0])
			if err != nil {
				return fmt.Errorf("application.ImportCatalog: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d shafts\n", catalog.Len())

			return nil
		},
	}
}

func printMatches(w io.Writer, tiered entity.TieredMatches, filter []value.Tier) {
	fmt.Fprintf(w, "Selected: %s\n", tiered.Reference.Summary())

	for _, group := range tiered.Groups {
		if len(filter) > 0 && !lo.Contains(filter, group.Tier) {
			continue
		}

		fmt.Fprintf(w, "\n%s\n", group.Tier)

		if len(group.Matches) == 0 {
			fmt.Fprintln(w, "  (none)")
		}

		for _, m := range group.Matches {
			fmt.Fprintf(w, "  %s\n", m.Shaft.Summary())
		}
	}
}

func profile(samples []float64) string {
	return strings.Join(lo.Map(samples, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}), " ")
}
