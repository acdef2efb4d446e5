package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rateLimitResetAll    bool
	rateLimitResetClient string
)

var rateLimitResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset stored rate limit state",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := rateLimitResetClient
		if !rateLimitResetAll && client == "" {
			return errors.New("either --client or --all is required")
		}
		if rateLimitResetAll && client != "" {
			return errors.New("--client and --all are mutually exclusive")
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

		if rateLimitResetAll {
			entries, err := db.ListRateLimits(cmd.Context())
			if err != nil {
				return err
			}
			deleted := 0
			for _, entry := range entries {
				removed, err := db.ResetRateLimit(cmd.Context(), entry.Client)
				if err != nil {
					return err
				}
				if removed {
					deleted++
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d rate limit entr(ies)\n", deleted)
			return err
		}

		removed, err := db.ResetRateLimit(cmd.Context(), client)
		if err != nil {
			return err
		}
		if !removed {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "No rate limit state for %s\n", client)
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted rate limit state for %s\n", client)
		return err
	},
}

func init() {
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetAll, "all", false, "Reset all clients")
	rateLimitResetCmd.Flags().StringVar(&rateLimitResetClient, "client", "", "Reset a single client (exact match)")
}
