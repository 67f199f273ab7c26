package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgvault/pgvault/services/launcher"
)

func init() {
	rootCmd.AddCommand(connectCmd)
}

var connectCmd = &cobra.Command{
	Use:   "connect [name]",
	Short: "Connect to a stored PostgreSQL instance",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		conn, password, err := openVault().Fetch(name)
		if err != nil {
			fail(err)
		}

		if conn.IAMAuth {
			fail(fmt.Errorf("connection '%s' uses IAM authentication; use `pg-vault iam %s` instead", name, name))
		}

		fmt.Printf("Connecting to %s (%s@%s/%s)...\n", name, conn.Username, conn.Addr(), conn.Database)

		if err := launcher.Run(launcher.PsqlCommand(conn, password)); err != nil {
			fail(err)
		}
	},
}
