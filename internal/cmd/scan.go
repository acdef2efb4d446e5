package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/internal/core"
	"github.com/sitepulse/sitepulse/internal/core/probe"
	"github.com/sitepulse/sitepulse/internal/observability"
	"github.com/sitepulse/sitepulse/internal/output"
)

var (
	scanOutputFormat string
	scanNoCache      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Run a health scan against a website",
	Long: `Run the full battery of diagnostic checks against a website and print
the scored report.

The URL scheme defaults to https when omitted. Results are cached in the
local store; use --no-cache to force a fresh scan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(scanOutputFormat)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		rawURL := args[0]
		target, err := probe.NormalizeTarget(rawURL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}

		ctx := cmd.Context()
		scanner := buildScanner(cfg)

		var report *core.Report

		useCache := cfg.Cache.Enabled && !scanNoCache
		if useCache {
			db, err := openStore(ctx, cfg)
			if err != nil {
				observability.CLILogger.Warn("Store unavailable, scanning without cache", zap.Error(err))
			} else {
				defer db.Close() // nolint:errcheck // best-effort cleanup

				cached, err := db.GetCachedReport(ctx, target.String(), time.Now())
				if err != nil {
					observability.CLILogger.Warn("Cache lookup failed", zap.Error(err))
				}
				if cached != nil {
					cached.FromCache = true
					report = cached
				} else {
					report, err = scanner.Scan(ctx, rawURL)
					if err != nil {
						return err
					}
					if putErr := db.PutCachedReport(ctx, target.String(), report, time.Now(), cfg.Cache.TTL); putErr != nil {
						observability.CLILogger.Warn("Failed to cache report", zap.Error(putErr))
					}
				}
			}
		}

		if report == nil {
			report, err = scanner.Scan(ctx, rawURL)
			if err != nil {
				return err
			}
		}

		rendered, err := output.NewFormatter(format).FormatReport(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanOutputFormat, "output-format", "o", string(output.FormatTable), "Output format: table|json")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "Skip the report cache and force a fresh scan")
}
