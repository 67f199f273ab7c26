package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pgvault/pgvault/pkg/tui"
)

var rootCmd = &cobra.Command{
	Use:   "pg-vault",
	Short: "Manage PostgreSQL credentials",
	Long: "pg-vault stores PostgreSQL connection credentials in the system keychain\n" +
		"(or an encrypted local file when no keychain is available) and launches\n" +
		"psql or shell sessions with the resolved connection.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(openVault()); err != nil {
			fail(err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
