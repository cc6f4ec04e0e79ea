package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"pltcm-dashboard/internal/config"
	"pltcm-dashboard/internal/service"
	genexcel "pltcm-dashboard/internal/service/generate-excel"
	"pltcm-dashboard/internal/storage/mysql"
)

type exportOptions struct {
	configPath string
	start      string
	end        string
	out        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "report-export",
		Short: "Write the PLTCM production and stop-time report to an xlsx file",
		Long: `report-export queries the production and stop-time tables once and writes
the same workbook the dashboard offers for download.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo}))

			storage, err := mysql.New(*cfg)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer storage.Close()

			loc, err := cfg.DisplayLocation()
			if err != nil {
				return err
			}

			return export(cmd.Context(), log, service.NewSnapshotService(storage, log), opts, loc, cfg.QueryTimeout)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to config yaml (default $CONFIG_PATH or ./config/local.yaml)")
	cmd.Flags().StringVar(&opts.start, "start", "", "first day, exclusive for production (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, "end", "", "last day, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default PLTCM_Report_<timestamp>.xlsx, - for stdout)")

	return cmd
}

type snapshotLoader interface {
	genexcel.ReportSource
	Load(ctx context.Context) error
}

func export(ctx context.Context, log *slog.Logger, snap snapshotLoader, opts exportOptions, loc *time.Location, timeout time.Duration) error {
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := snap.Load(loadCtx); err != nil {
		return err
	}

	data, err := genexcel.NewGenerateService(snap).GenerateExcel(ctx, genexcel.ReportFilter{
		Start: opts.start,
		End:   opts.end,
		Loc:   loc,
	})
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("PLTCM_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	}

	if out == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := writeReport(f, data); err != nil {
		return fmt.Errorf("%s: %w", out, err)
	}

	log.Info("report written", slog.String("file", out), slog.Int("bytes", len(data)))
	return nil
}

// writeReport writes data and closes wc, returning the close error too.
func writeReport(wc io.WriteCloser, data []byte) error {
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
