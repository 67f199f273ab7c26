package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pgvault/pgvault/vault"
)

type storeArgs struct {
	host     string
	port     int
	database string
	username string
	iam      bool
}

var targetStoreArgs storeArgs

func init() {
	storeCmd.Flags().StringVar(&targetStoreArgs.host, "host", "", "Database host")
	storeCmd.Flags().IntVarP(&targetStoreArgs.port, "port", "p", vault.DefaultPort, "Database port")
	storeCmd.Flags().StringVarP(&targetStoreArgs.database, "database", "d", "", "Database name")
	storeCmd.Flags().StringVarP(&targetStoreArgs.username, "username", "u", "", "Username")
	storeCmd.Flags().BoolVar(&targetStoreArgs.iam, "iam", false, "Use AWS IAM authentication (no password stored)")
	_ = storeCmd.MarkFlagRequired("host")
	_ = storeCmd.MarkFlagRequired("database")
	_ = storeCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store [name]",
	Short: "Store PostgreSQL credentials",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conn := vault.Connection{
			Name:     args[0],
			Host:     targetStoreArgs.host,
			Port:     targetStoreArgs.port,
			Database: targetStoreArgs.database,
			Username: targetStoreArgs.username,
			IAMAuth:  targetStoreArgs.iam,
		}

		password := ""
		if !conn.IAMAuth {
			var err error
			password, err = promptPassword(conn.Username)
			if err != nil {
				fail(err)
			}
		}

		if err := openVault().Store(conn, password); err != nil {
			fail(err)
		}

		if conn.IAMAuth {
			fmt.Printf("IAM connection '%s' stored for user '%s'\n", conn.Name, conn.Username)
			fmt.Println("  Note: this connection authenticates with AWS IAM tokens; no password is stored")
		} else {
			fmt.Printf("Credentials stored for '%s'\n", conn.Name)
		}
	},
}

func promptPassword(username string) (string, error) {
	fmt.Printf("Enter password for %s: ", username)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return string(password), nil
}
