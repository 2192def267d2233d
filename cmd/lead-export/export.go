package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"lead_dashboard_backend/internal/backend"
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/export"
	"lead_dashboard_backend/internal/leads/repository"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/logger"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	status  string
	search  string
	out     string
	seed    string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "lead-export",
		Short: "Export leads as CSV",
		Long: `Export the lead table as CSV using the same status and search
filter as the dashboard. The snapshot is read from the backend selected by
STORAGE_DRIVER; an empty snapshot falls back to --seed when given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.status, "status", domain.StatusAll, "status filter (all, new, contacted, follow_up, converted, not_interested)")
	flags.StringVar(&opts.search, "search", "", "case-insensitive search over name, email, phone and notes")
	flags.StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	flags.StringVar(&opts.seed, "seed", "", "YAML seed used when the snapshot is empty")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")
	return cmd
}

func runExport(ctx context.Context, opts *exportOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if !domain.IsStatusFilter(opts.status) {
		return fmt.Errorf("invalid --status %q", opts.status)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.Discard()

	persistence, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer persistence.Close()

	return exportFrom(ctx, persistence.Leads, opts, stdout)
}

// leadList serves a fixed snapshot to the export service.
type leadList []domain.Lead

func (l leadList) Snapshot() []domain.Lead { return l }

// exportFrom reads the snapshot, falling back to the seed file when it is
// empty, and writes the CSV to --out or stdout. The backend is never written.
func exportFrom(ctx context.Context, snapshots repository.Snapshotter, opts *exportOptions, stdout io.Writer) (err error) {
	leads, err := snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load leads: %w", err)
	}
	if len(leads) == 0 && opts.seed != "" {
		if leads, err = repository.LoadSeed(opts.seed); err != nil {
			return err
		}
	}

	exp, err := export.New(leadList(leads), nil, "", nil).CSV(ctx, transport.ExportLeadsRequest{
		Status: opts.status,
		Search: opts.search,
	})
	if err != nil {
		return err
	}

	if opts.out == "" {
		if _, err := stdout.Write(exp.Content); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		return nil
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", opts.out, cerr)
		}
	}()

	if _, err := f.Write(exp.Content); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d leads to %s\n", exp.Rows, opts.out)
	return nil
}
