// Package launcher hands resolved connection material to external
// consumers: it execs psql or starts a shell session with the PG*
// environment derived from a stored connection.
package launcher

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strconv"

	"github.com/pgvault/pgvault/vault"
)

// URL composes a postgres:// connection URL. Username and password are
// percent-encoded, so IAM tokens survive the round trip.
func URL(conn vault.Connection, password string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(conn.Username, password),
		Host:   conn.Addr(),
		Path:   "/" + conn.Database,
	}
	if conn.IAMAuth {
		u.RawQuery = "sslmode=require"
	}
	return u.String()
}

// Env returns the PG* environment variables for a resolved connection,
// including a composed DATABASE_URL.
func Env(conn vault.Connection, password string) []string {
	port := conn.Port
	if port == 0 {
		port = vault.DefaultPort
	}
	return []string{
		"PGHOST=" + conn.Host,
		"PGPORT=" + strconv.Itoa(port),
		"PGDATABASE=" + conn.Database,
		"PGUSER=" + conn.Username,
		"PGPASSWORD=" + password,
		"DATABASE_URL=" + URL(conn, password),
	}
}

// PsqlCommand builds the psql invocation for a resolved connection. The
// caller attaches stdio and runs it.
func PsqlCommand(conn vault.Connection, password string) *exec.Cmd {
	cmd := exec.Command("psql", URL(conn, password))
	cmd.Env = append(os.Environ(), "PGPASSWORD="+password)
	return cmd
}

// ShellCommand builds a $SHELL invocation with the PG* environment
// exported, falling back to /bin/bash when SHELL is unset.
func ShellCommand(conn vault.Connection, password string) *exec.Cmd {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}

	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), Env(conn, password)...)
	return cmd
}

// Run attaches the command to the current terminal and waits for it.
func Run(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("%s exited with code %d", cmd.Args[0], exitErr.ExitCode())
		}
		return fmt.Errorf("run %s: %w", cmd.Args[0], err)
	}

	return nil
}
