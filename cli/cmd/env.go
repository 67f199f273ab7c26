package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgvault/pgvault/services/launcher"
)

type envArgs struct {
	profile      string
	showPassword bool
}

var targetEnvArgs envArgs

func init() {
	envCmd.Flags().StringVar(&targetEnvArgs.profile, "profile", "", "AWS profile to use for IAM connections")
	envCmd.Flags().BoolVar(&targetEnvArgs.showPassword, "show-password", false, "Include the password in the output")
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env [name]",
	Short: "Print export statements for a stored connection",
	Long: "Prints `export PG*=...` lines for a stored connection, suitable for\n" +
		"eval \"$(pg-vault env name --show-password)\". The password is masked\n" +
		"unless --show-password is given.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conn, password, err := openVault().Fetch(args[0])
		if err != nil {
			fail(err)
		}

		secret := "<hidden>"
		if targetEnvArgs.showPassword {
			secret, err = resolveSecret(conn, password, targetEnvArgs.profile)
			if err != nil {
				fail(err)
			}
		}

		for _, kv := range launcher.Env(conn, secret) {
			key, value, _ := strings.Cut(kv, "=")
			fmt.Printf("export %s='%s'\n", key, strings.ReplaceAll(value, "'", `'\''`))
		}
	},
}
