package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgvault/pgvault/services/launcher"
)

type pingArgs struct {
	profile string
	timeout time.Duration
}

var targetPingArgs pingArgs

func init() {
	pingCmd.Flags().StringVar(&targetPingArgs.profile, "profile", "", "AWS profile to use for IAM connections")
	pingCmd.Flags().DurationVar(&targetPingArgs.timeout, "timeout", 10*time.Second, "Connection timeout")
	rootCmd.AddCommand(pingCmd)
}

var pingCmd = &cobra.Command{
	Use:   "ping [name]",
	Short: "Verify that a stored connection authenticates",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		conn, password, err := openVault().Fetch(name)
		if err != nil {
			fail(err)
		}

		secret, err := resolveSecret(conn, password, targetPingArgs.profile)
		if err != nil {
			fail(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), targetPingArgs.timeout)
		defer cancel()

		if err := launcher.Ping(ctx, conn, secret); err != nil {
			fail(err)
		}

		fmt.Printf("%s: connection OK (%s@%s/%s)\n", name, conn.Username, conn.Addr(), conn.Database)
	},
}
