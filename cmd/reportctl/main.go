package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"chai-adda-pos/internal/config"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/internal/service"
	"chai-adda-pos/pkg/database"
	"chai-adda-pos/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// openFunc builds the report service and returns a cleanup to run when done.
type openFunc func() (service.ReportService, func(), error)

func main() {
	if err := newRootCmd(openFromConfig, time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}

func openFromConfig() (service.ReportService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{Level: "warn", Format: "console", Output: "stderr"})
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.DatabaseOptions(), log)
	if err != nil {
		return nil, nil, err
	}

	svc := service.NewReportService(repository.NewReportRepo(db), nil, 0, log)
	cleanup := func() {
		database.Close(db)
		log.Sync()
	}
	return svc, cleanup, nil
}

type reportCmd struct {
	open    openFunc
	now     func() time.Time
	store   string
	from    string
	to      string
	days    int
	timeout time.Duration
}

func newRootCmd(open openFunc, now func() time.Time) *cobra.Command {
	rc := &reportCmd{open: open, now: now}

	root := &cobra.Command{
		Use:          "reportctl",
		Short:        "Print store reports as JSON",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&rc.store, "store", "", "Store ID (UUID)")
	root.PersistentFlags().StringVar(&rc.from, "from", "", "Window start, RFC3339 or YYYY-MM-DD")
	root.PersistentFlags().StringVar(&rc.to, "to", "", "Window end, RFC3339 or YYYY-MM-DD (whole day)")
	root.PersistentFlags().IntVar(&rc.days, "days", 7, "Window length in days when --from is omitted")
	root.PersistentFlags().DurationVar(&rc.timeout, "timeout", 30*time.Second, "Query timeout")
	_ = root.MarkPersistentFlagRequired("store")

	root.AddCommand(
		&cobra.Command{
			Use:   "revenue",
			Short: "Income, expense and per-account revenue",
			RunE: rc.windowed(func(ctx context.Context, svc service.ReportService, id uuid.UUID, from, to time.Time) (any, error) {
				return svc.BuildRevenueReport(ctx, id, from, to)
			}),
		},
		&cobra.Command{
			Use:   "orders",
			Short: "Order counts, average order value and top items",
			RunE: rc.windowed(func(ctx context.Context, svc service.ReportService, id uuid.UUID, from, to time.Time) (any, error) {
				return svc.BuildOrderReport(ctx, id, from, to)
			}),
		},
		&cobra.Command{
			Use:   "stock",
			Short: "Current stock health of products and raw materials",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return rc.run(cmd, func(ctx context.Context, svc service.ReportService, id uuid.UUID) (any, error) {
					return svc.BuildStockReport(ctx, id)
				})
			},
		},
	)
	return root
}

type windowedReport func(ctx context.Context, svc service.ReportService, storeID uuid.UUID, from, to time.Time) (any, error)

func (rc *reportCmd) windowed(build windowedReport) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		from, to, err := rc.window()
		if err != nil {
			return err
		}
		return rc.run(cmd, func(ctx context.Context, svc service.ReportService, id uuid.UUID) (any, error) {
			return build(ctx, svc, id, from, to)
		})
	}
}

func (rc *reportCmd) window() (time.Time, time.Time, error) {
	to := rc.now().UTC()
	if rc.to != "" {
		t, err := service.ParseTime(rc.to, true)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		to = t
	}
	from := to.AddDate(0, 0, -rc.days)
	if rc.from != "" {
		f, err := service.ParseTime(rc.from, false)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		from = f
	}
	return from, to, nil
}

func (rc *reportCmd) run(cmd *cobra.Command, build func(context.Context, service.ReportService, uuid.UUID) (any, error)) error {
	storeID, err := uuid.Parse(rc.store)
	if err != nil {
		return fmt.Errorf("invalid --store: %w", err)
	}

	svc, cleanup, err := rc.open()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), rc.timeout)
	defer cancel()

	summary, err := build(ctx, svc, storeID)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), summary)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
