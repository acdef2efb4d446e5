package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/output"
)

var rateLimitListOutput string

var rateLimitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rate limit state",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(rateLimitListOutput)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		entries, err := db.ListRateLimits(cmd.Context())
		if err != nil {
			return err
		}

		if format == output.FormatJSON {
			payload, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		}

		lines := []string{"Rate Limits", ""}
		if len(entries) == 0 {
			lines = append(lines, "(no stored rate limit state)")
			_, _ = fmt.Fprint(cmd.OutOrStdout(), ascii.DrawBox(strings.Join(lines, "\n"), 0))
			return nil
		}

		for _, entry := range entries {
			lines = append(lines, fmt.Sprintf("%s: count=%d window_start=%s",
				entry.Client,
				entry.State.RequestCount,
				entry.State.WindowStart.UTC().Format(time.RFC3339)))
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), ascii.DrawBox(strings.Join(lines, "\n"), 0))
		return nil
	},
}

func init() {
	rateLimitListCmd.Flags().StringVar(&rateLimitListOutput, "output-format", string(output.FormatTable), "Output format: table|json")
}
