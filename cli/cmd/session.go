package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgvault/pgvault/services/launcher"
)

type sessionArgs struct {
	profile string
}

var targetSessionArgs sessionArgs

func init() {
	sessionCmd.Flags().StringVar(&targetSessionArgs.profile, "profile", "", "AWS profile to use for IAM connections")
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session [name]",
	Short: "Start a shell session with PostgreSQL environment variables",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		conn, password, err := openVault().Fetch(name)
		if err != nil {
			fail(err)
		}

		secret, err := resolveSecret(conn, password, targetSessionArgs.profile)
		if err != nil {
			fail(err)
		}

		fmt.Printf("Starting shell session with PostgreSQL environment for '%s'\n", name)
		fmt.Println("Available environment variables:")
		fmt.Printf("  PGHOST=%s\n", conn.Host)
		fmt.Printf("  PGPORT=%d\n", conn.Port)
		fmt.Printf("  PGDATABASE=%s\n", conn.Database)
		fmt.Printf("  PGUSER=%s\n", conn.Username)
		fmt.Println("  PGPASSWORD=<hidden>")
		fmt.Printf("  DATABASE_URL=%s\n", launcher.URL(conn, "<password>"))
		fmt.Println()

		if err := launcher.Run(launcher.ShellCommand(conn, secret)); err != nil {
			fail(err)
		}
	},
}
