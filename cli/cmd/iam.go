package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgvault/pgvault/services/launcher"
)

type iamArgs struct {
	profile string
}

var targetIamArgs iamArgs

func init() {
	iamCmd.Flags().StringVar(&targetIamArgs.profile, "profile", "", "AWS profile to use")
	rootCmd.AddCommand(iamCmd)
}

var iamCmd = &cobra.Command{
	Use:   "iam [name]",
	Short: "Connect using AWS IAM authentication",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		conn, _, err := openVault().Fetch(name)
		if err != nil {
			fail(err)
		}

		if !conn.IAMAuth {
			fail(fmt.Errorf("connection '%s' is not configured for IAM authentication; store it with `pg-vault store --iam`", name))
		}

		fmt.Printf("Generating IAM authentication token for %s (%s@%s/%s)...\n",
			name, conn.Username, conn.Addr(), conn.Database)

		token, err := resolveSecret(conn, "", targetIamArgs.profile)
		if err != nil {
			fail(err)
		}

		fmt.Println("Token generated. Connecting to PostgreSQL...")

		if err := launcher.Run(launcher.PsqlCommand(conn, token)); err != nil {
			fail(err)
		}
	},
}
