package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored connections",
	Run: func(cmd *cobra.Command, args []string) {
		conns, err := openVault().List()
		if err != nil {
			fail(err)
		}

		if len(conns) == 0 {
			fmt.Println("No stored connections found.")
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Host", "Port", "Database", "Username", "Auth Type"})

		for _, conn := range conns {
			table.Append([]string{
				conn.Name,
				conn.Host,
				strconv.Itoa(conn.Port),
				conn.Database,
				conn.Username,
				conn.AuthType(),
			})
		}

		table.Render()
	},
}
