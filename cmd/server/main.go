package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"velar-backend/internal/analysis"
	"velar-backend/internal/api"
	"velar-backend/internal/config"
	"velar-backend/internal/dataset"
	"velar-backend/internal/metrics"
	"velar-backend/internal/models"
	"velar-backend/internal/recommend"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()

	root := &cobra.Command{
		Use:          "velar-server",
		Short:        "Serve generative-AI tool analytics for the Velar dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	root.PersistentFlags().StringVar(&cfg.DataPath, "data", cfg.DataPath, "dataset CSV path (VELAR_DATA_CSV)")
	root.PersistentFlags().StringVar(&cfg.DataDriver, "data-driver", cfg.DataDriver, "SQL driver for the dataset (VELAR_DATA_DRIVER)")
	root.PersistentFlags().StringVar(&cfg.DataDSN, "data-dsn", cfg.DataDSN, "SQL DSN; overrides --data when set (VELAR_DATA_DSN)")
	root.PersistentFlags().StringVar(&cfg.DataTable, "data-table", cfg.DataTable, "SQL table holding the dataset (VELAR_DATA_TABLE)")
	root.Flags().StringVar(&cfg.WhitepaperPath, "whitepaper", cfg.WhitepaperPath, "whitepaper file served for download (VELAR_WHITEPAPER)")
	root.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port (PORT)")
	root.Flags().StringVar(&cfg.RecommendationsPath, "recommendations", cfg.RecommendationsPath, "YAML file overriding the built-in roadmap (VELAR_RECOMMENDATIONS)")
	root.Flags().StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "CORS origins (VELAR_ALLOWED_ORIGINS)")

	root.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Print dataset statistics and white-space heuristics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSummary(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	})
	return root
}

// loadDataset never fails: on error the dataset is empty and the failure is
// logged.
func loadDataset(ctx context.Context, cfg config.Config, rec *metrics.Recorder) *dataset.Dataset {
	ds, err := dataset.Open(ctx, cfg.Source())
	if err != nil {
		klog.ErrorS(err, "failed to load dataset, serving empty dataset", "source", cfg.Source().Describe())
		ds = dataset.Empty()
	}
	if rec != nil {
		rec.ObserveLoad(ds.Len(), err)
	}
	return ds
}

func serve(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	recs, err := recommend.Load(cfg.RecommendationsPath)
	if err != nil {
		return fmt.Errorf("load recommendations: %w", err)
	}

	rec := metrics.NewRecorder()
	ds := loadDataset(ctx, cfg, rec)

	handler := api.NewHandler(ds, recs, cfg.WhitepaperPath)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.AllowedOrigins, Metrics: rec}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		klog.InfoS("starting server", "addr", "http://localhost"+cfg.Addr(), "tools", ds.Len(), "whitepaper", cfg.WhitepaperPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		klog.InfoS("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func printSummary(ctx context.Context, cfg config.Config, out io.Writer) error {
	if cfg.DataDSN != "" {
		if err := dataset.ValidateSQL(cfg.DataDriver, cfg.DataTable); err != nil {
			return err
		}
	}
	ds := loadDataset(ctx, cfg, nil)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(models.SummaryResponse{
		Stats:      analysis.Summarize(ds),
		WhiteSpace: analysis.FindWhiteSpace(ds),
	})
}
